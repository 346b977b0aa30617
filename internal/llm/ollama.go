package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultOllamaHost = "http://localhost:11434"

type ollamaProvider struct {
	host   string
	model  string
	client *http.Client
}

// NewOllamaProvider returns a Provider that talks to a local Ollama
// server. No API key is needed.
func NewOllamaProvider(host, model string) Provider {
	return &ollamaProvider{host: host, model: model, client: newHTTPClient()}
}

func (p *ollamaProvider) Name() string { return "ollama" }

type ollamaMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatReq struct {
	Model    string      `json:"model"`
	Messages []ollamaMsg `json:"messages"`
	Stream   bool        `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaChatResp struct {
	Model           string    `json:"model"`
	Message         ollamaMsg `json:"message"`
	DoneReason      string    `json:"done_reason"`
	PromptEvalCount int       `json:"prompt_eval_count"`
	EvalCount       int       `json:"eval_count"`
}

func (p *ollamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	chat := ollamaChatReq{Model: orDefault(req.Model, p.model)}
	chat.Options.Temperature = req.Temperature
	chat.Options.NumPredict = req.MaxTokens
	for _, m := range req.Messages {
		chat.Messages = append(chat.Messages, ollamaMsg{Role: string(m.Role), Content: m.Content})
	}

	status, body, err := postJSON(ctx, p.client, p.host+"/api/chat", nil, chat)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("ollama: status %d: %s", status, body)
	}

	var out ollamaChatResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	return &CompletionResponse{
		Content:      out.Message.Content,
		InputTokens:  out.PromptEvalCount,
		OutputTokens: out.EvalCount,
		Model:        out.Model,
		FinishReason: out.DoneReason,
	}, nil
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

type anthropicProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewAnthropicProvider returns a Provider backed by the Anthropic
// Messages API. The single endpoint used here is small enough to call
// over plain HTTP without an SDK.
func NewAnthropicProvider(apiKey, model string) Provider {
	return &anthropicProvider{apiKey: apiKey, model: model, client: newHTTPClient()}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

type anthropicMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicReq struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature"`
	System      string         `json:"system,omitempty"`
	Messages    []anthropicMsg `json:"messages"`
}

type anthropicResp struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *anthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	// The Messages API takes the system prompt as a top-level field
	// rather than a message role.
	var system []string
	msgs := make([]anthropicMsg, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		msgs = append(msgs, anthropicMsg{Role: string(m.Role), Content: m.Content})
	}

	status, body, err := postJSON(ctx, p.client, anthropicURL, map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}, anthropicReq{
		Model:       orDefault(req.Model, p.model),
		MaxTokens:   capTokens(req.MaxTokens),
		Temperature: req.Temperature,
		System:      strings.Join(system, "\n\n"),
		Messages:    msgs,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	var out anthropicResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("anthropic: %s: %s", out.Error.Type, out.Error.Message)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("anthropic: status %d: %s", status, body)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &CompletionResponse{
		Content:      text.String(),
		InputTokens:  out.Usage.InputTokens,
		OutputTokens: out.Usage.OutputTokens,
		Model:        out.Model,
		FinishReason: out.StopReason,
	}, nil
}

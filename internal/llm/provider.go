// Package llm abstracts chat-completion backends behind a single
// Provider interface so the rest of docqa can answer questions with
// OpenAI, Anthropic or a local Ollama model interchangeably.
package llm

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest describes a single chat completion call. Model may
// be left empty to use the provider's configured default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse carries the answer text plus the usage counts
// needed for cost logging.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Provider is a chat completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// defaultMaxTokens bounds the answer length when the caller does not
// set one; it matches the cap the hosted APIs default to anyway.
const defaultMaxTokens = 4096

func orDefault(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

func capTokens(n int) int {
	if n > 0 {
		return n
	}
	return defaultMaxTokens
}

package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/raglab/docqa/internal/index"
	"github.com/raglab/docqa/internal/llm"
	"github.com/raglab/docqa/internal/prompt"
)

// Mode selects how a question is answered.
type Mode string

const (
	// ModeDocuments answers from the indexed documents only.
	ModeDocuments Mode = "documents"
	// ModeChatGPT answers from the bare model, ignoring the index.
	ModeChatGPT Mode = "chatgpt"
	// ModeCompare produces both answers side by side.
	ModeCompare Mode = "compare"
)

const (
	noResultsAnswer  = "No relevant documents found for your query."
	chatFailedAnswer = "Failed to get response from ChatGPT. Please check your API key."
)

// Source is one retrieved passage backing an answer.
type Source struct {
	Preview   string
	Meta      index.Metadata
	Relevance float32
}

// Answer is the result of one query.
type Answer struct {
	Question        string
	Mode            Mode
	DocumentsAnswer string
	ChatGPTAnswer   string
	Sources         []Source
}

// Query answers a question in the requested mode. k <= 0 falls back to
// the configured top-k. A provider failure degrades to the extractive
// fallback in document modes and to a fixed notice in chatgpt mode; it
// is never a hard error. Completion calls run outside all engine locks.
func (e *Engine) Query(ctx context.Context, question string, mode Mode, k int) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if mode == "" {
		mode = ModeDocuments
	}
	switch mode {
	case ModeDocuments, ModeChatGPT, ModeCompare:
	default:
		return nil, fmt.Errorf("unknown query mode %q", mode)
	}

	e.mu.RLock()
	store := e.store
	storeErr := e.storeErr
	provider := e.provider
	cfg := e.cfg
	e.mu.RUnlock()

	if store == nil {
		if storeErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotReady, storeErr)
		}
		return nil, ErrNotReady
	}
	if k <= 0 {
		k = cfg.TopK
	}

	ans := &Answer{Question: question, Mode: mode}

	if mode == ModeDocuments || mode == ModeCompare {
		results, err := store.Search(ctx, question, k)
		if err != nil {
			return nil, fmt.Errorf("searching index: %w", err)
		}
		if len(results) == 0 {
			ans.DocumentsAnswer = noResultsAnswer
			ans.Sources = []Source{}
		} else {
			ans.DocumentsAnswer = e.groundedAnswer(ctx, provider, question, results, cfg)
			ans.Sources = sourcesFrom(results)
		}
	}

	if mode == ModeChatGPT || mode == ModeCompare {
		ans.ChatGPTAnswer = e.plainAnswer(ctx, provider, question, cfg)
	}

	return ans, nil
}

// Search returns the raw top-k passages for a query without invoking
// the language model.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]index.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuestion
	}

	e.mu.RLock()
	store := e.store
	storeErr := e.storeErr
	cfg := e.cfg
	e.mu.RUnlock()

	if store == nil {
		if storeErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotReady, storeErr)
		}
		return nil, ErrNotReady
	}
	if k <= 0 {
		k = cfg.TopK
	}

	results, err := store.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return results, nil
}

// groundedAnswer asks the provider to answer from the assembled
// context, falling back to an extractive summary when no provider is
// bound or the call fails.
func (e *Engine) groundedAnswer(ctx context.Context, provider llm.Provider, question string, results []index.Result, cfg Settings) string {
	if provider == nil {
		return prompt.Fallback(results)
	}

	contextBlock := prompt.BuildContext(results, cfg.MaxContextChars)
	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Model:       cfg.LLMModel,
		Messages:    prompt.GroundedMessages(question, contextBlock),
		MaxTokens:   cfg.MaxAnswerTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("provider", provider.Name()).
			Msg("completion failed, serving extractive fallback")
		return prompt.Fallback(results)
	}

	e.logUsage(cfg.LLMModel, resp)
	return strings.TrimSpace(resp.Content)
}

// plainAnswer asks the provider without any document context.
func (e *Engine) plainAnswer(ctx context.Context, provider llm.Provider, question string, cfg Settings) string {
	if provider == nil {
		return chatFailedAnswer
	}

	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Model:       cfg.LLMModel,
		Messages:    prompt.PlainMessages(question),
		MaxTokens:   cfg.MaxAnswerTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("provider", provider.Name()).
			Msg("unconditioned completion failed")
		return chatFailedAnswer
	}

	e.logUsage(cfg.LLMModel, resp)
	return strings.TrimSpace(resp.Content)
}

func (e *Engine) logUsage(model string, resp *llm.CompletionResponse) {
	e.log.Info().
		Str("model", model).
		Int("input_tokens", resp.InputTokens).
		Int("output_tokens", resp.OutputTokens).
		Float64("cost_usd", llm.EstimateCost(model, resp.InputTokens, resp.OutputTokens)).
		Msg("completion usage")
}

func sourcesFrom(results []index.Result) []Source {
	sources := make([]Source, len(results))
	for i, r := range results {
		sources[i] = Source{
			Preview:   prompt.Preview(r.Chunk.Text, prompt.PreviewRunes),
			Meta:      r.Chunk.Meta,
			Relevance: r.Score,
		}
	}
	return sources
}

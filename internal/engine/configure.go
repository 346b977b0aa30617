package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/raglab/docqa/internal/chunker"
)

// Patch is a partial runtime reconfiguration. Nil fields keep their
// current values.
type Patch struct {
	ChunkTokens    *int
	OverlapTokens  *int
	TopK           *int
	EmbeddingModel *string
	APIKey         *string
}

// Applied reports what Configure changed and the settings now in
// effect.
type Applied struct {
	Updated  []string
	Settings Settings
}

// Configure applies a runtime settings patch. Chunking changes affect
// future ingestion only. An embedding model change is transactional:
// the replacement store is built and validated first, and only then
// are the old index and registry discarded; on failure the prior
// bindings stay untouched. An API key update rebinds the provider (and
// any embedder that reads the key per request) without touching the
// index.
func (e *Engine) Configure(ctx context.Context, patch Patch) (*Applied, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	applied := &Applied{}

	// The key lands in the environment first so the provider and store
	// rebuilds below pick it up.
	if patch.APIKey != nil && strings.TrimSpace(*patch.APIKey) != "" {
		if err := os.Setenv("OPENAI_API_KEY", strings.TrimSpace(*patch.APIKey)); err != nil {
			return nil, fmt.Errorf("setting api key: %w", err)
		}
		provider, err := e.factories.Provider()
		if err != nil {
			e.log.Warn().Err(err).Msg("provider rebuild failed after key update")
		} else {
			e.mu.Lock()
			e.provider = provider
			e.mu.Unlock()
		}
		applied.Updated = append(applied.Updated, "api_key")
	}

	if patch.EmbeddingModel != nil && *patch.EmbeddingModel != "" {
		model := *patch.EmbeddingModel

		e.mu.RLock()
		current := e.cfg.EmbeddingModel
		hadStore := e.store != nil
		e.mu.RUnlock()

		if model != current || !hadStore {
			// Build the replacement first; a failure leaves the
			// current index and registry untouched.
			store, err := e.factories.Store(model)
			if err != nil {
				return nil, fmt.Errorf("switching embedding model to %q: %w", model, err)
			}

			e.mu.Lock()
			e.store = store
			e.storeErr = nil
			e.registry = make(map[string]struct{})
			e.sources = nil
			e.cfg.EmbeddingModel = model
			e.mu.Unlock()

			e.log.Info().Str("model", model).Msg("embedding model switched, index reset")
			applied.Updated = append(applied.Updated, "embedding_model")
		}
	}

	e.mu.Lock()
	if patch.ChunkTokens != nil {
		e.cfg.ChunkTokens = clamp(*patch.ChunkTokens, chunker.MinTokens, chunker.MaxTokens)
		applied.Updated = append(applied.Updated, "chunk_tokens")
	}
	if patch.OverlapTokens != nil {
		e.cfg.OverlapTokens = *patch.OverlapTokens
		applied.Updated = append(applied.Updated, "overlap_tokens")
	}
	// Overlap stays within half the chunk size even when only the
	// chunk size moved.
	e.cfg.OverlapTokens = clamp(e.cfg.OverlapTokens, 0, e.cfg.ChunkTokens/2)
	if patch.TopK != nil {
		e.cfg.TopK = clamp(*patch.TopK, 1, 20)
		applied.Updated = append(applied.Updated, "top_k")
	}
	applied.Settings = e.cfg
	e.mu.Unlock()

	return applied, nil
}

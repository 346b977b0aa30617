package engine

import (
	"fmt"
	"sync"

	"github.com/phuslu/log"

	"github.com/raglab/docqa/internal/config"
	"github.com/raglab/docqa/internal/embeddings"
	"github.com/raglab/docqa/internal/index"
	"github.com/raglab/docqa/internal/llm"
)

// Settings is the runtime-tunable slice of the configuration. The
// engine snapshots it at construction and mutates it only through
// Configure. Chunking changes affect future ingestion; already-indexed
// chunks are never re-chunked.
type Settings struct {
	ChunkTokens     int
	OverlapTokens   int
	TopK            int
	MaxContextChars int
	MaxFileSizeMB   int
	IngestWorkers   int

	LLMModel        string
	Temperature     float64
	MaxAnswerTokens int

	EmbeddingModel string
}

func settingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ChunkTokens:     cfg.ChunkTokens,
		OverlapTokens:   cfg.OverlapTokens,
		TopK:            cfg.TopK,
		MaxContextChars: cfg.MaxContextChars,
		MaxFileSizeMB:   cfg.MaxFileSizeMB,
		IngestWorkers:   cfg.IngestWorkers,
		LLMModel:        cfg.LLMModel,
		Temperature:     cfg.Temperature,
		MaxAnswerTokens: cfg.MaxAnswerTokens,
		EmbeddingModel:  cfg.EmbeddingModel,
	}
}

// Factories builds the engine's swappable collaborators. Tests inject
// deterministic fakes; production wires the real constructors.
type Factories struct {
	// Store builds a vector store bound to the named embedding model.
	Store func(embeddingModel string) (index.Store, error)
	// Provider builds the chat completion provider.
	Provider func() (llm.Provider, error)
}

// DefaultFactories wires the real store and provider constructors from
// the configuration.
func DefaultFactories(cfg *config.Config) Factories {
	return Factories{
		Store: func(model string) (index.Store, error) {
			embedder, err := embeddings.Resolve(model)
			if err != nil {
				return nil, err
			}
			if cfg.StoreBackend == config.StoreChromem {
				return index.NewChromemStore(embedder)
			}
			return index.NewFlatStore(embedder, cfg.EmbedBatchSize), nil
		},
		Provider: func() (llm.Provider, error) {
			p, err := llm.NewProvider(string(cfg.LLMProvider), cfg.LLMModel)
			if err != nil {
				return nil, err
			}
			if cfg.RequestsPerMinute > 0 {
				p = llm.WithRateLimit(p, cfg.RequestsPerMinute)
			}
			return p, nil
		},
	}
}

// ProgressFunc receives per-file ingestion progress.
type ProgressFunc func(done, total int, name string)

// Engine coordinates ingestion and retrieval over a shared vector
// store. Writes (ingest, configure, clear) are serialized by writeMu;
// queries run concurrently against the current bindings.
type Engine struct {
	factories Factories
	log       log.Logger

	// writeMu serializes ingestion, reconfiguration and clearing so
	// the store and registry never diverge.
	writeMu sync.Mutex

	// mu guards the bindings below. Queries take it read-only.
	mu         sync.RWMutex
	store      index.Store
	storeErr   error
	provider   llm.Provider
	registry   map[string]struct{}
	sources    []string
	cfg        Settings
	onProgress ProgressFunc
}

// New builds an engine from the configuration. A store or provider
// that cannot be bound yet (a missing API key, typically) is not
// fatal: the store is retried on the next ingestion or configuration
// change, and answers degrade to extractive fallbacks until a provider
// is available.
func New(cfg *config.Config, f Factories, logger log.Logger) *Engine {
	e := &Engine{
		factories: f,
		log:       logger,
		registry:  make(map[string]struct{}),
		cfg:       settingsFromConfig(cfg),
	}

	store, err := f.Store(e.cfg.EmbeddingModel)
	if err != nil {
		e.storeErr = err
		logger.Warn().Err(err).Str("model", e.cfg.EmbeddingModel).
			Msg("vector store unavailable until configuration changes")
	} else {
		e.store = store
	}

	provider, err := f.Provider()
	if err != nil {
		logger.Warn().Err(err).Msg("LLM provider unavailable, answers fall back to extracts")
	} else {
		e.provider = provider
	}

	return e
}

// SetProgress installs a callback invoked once per file during
// ingestion batches.
func (e *Engine) SetProgress(fn ProgressFunc) {
	e.mu.Lock()
	e.onProgress = fn
	e.mu.Unlock()
}

// Settings returns a copy of the current runtime settings.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Status reports the engine's health for the status endpoint.
type Status struct {
	LLMStatus       string
	DocumentsStatus string
	DocumentsLoaded int
	ChunksIndexed   int
	LoadedSources   []string
}

// Status reports provider availability and index fill level.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{LLMStatus: "offline", DocumentsStatus: "no_docs"}
	if e.provider != nil {
		st.LLMStatus = "online"
	}
	if e.store != nil {
		st.ChunksIndexed = e.store.Len()
	}
	st.DocumentsLoaded = len(e.sources)
	st.LoadedSources = append([]string(nil), e.sources...)
	if st.ChunksIndexed > 0 {
		st.DocumentsStatus = "ready"
	}
	return st
}

// Clear empties the index and the ingestion registry. The embedding
// model and provider bindings are kept.
func (e *Engine) Clear() error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store != nil {
		if err := e.store.Clear(); err != nil {
			return fmt.Errorf("clearing index: %w", err)
		}
	}
	e.registry = make(map[string]struct{})
	e.sources = nil
	e.log.Info().Msg("index cleared")
	return nil
}

// ensureStore retries the store factory if the initial bind failed,
// e.g. after an API key arrived through Configure. Callers must hold
// writeMu.
func (e *Engine) ensureStore() (index.Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store != nil {
		return e.store, nil
	}
	store, err := e.factories.Store(e.cfg.EmbeddingModel)
	if err != nil {
		e.storeErr = err
		return nil, fmt.Errorf("initializing vector store: %w", err)
	}
	e.store = store
	e.storeErr = nil
	return store, nil
}

func (e *Engine) isRegistered(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.registry[name]
	return ok
}

func (e *Engine) register(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.registry[name]; !ok {
		e.registry[name] = struct{}{}
		e.sources = append(e.sources, name)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

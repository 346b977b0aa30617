package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/raglab/docqa/internal/chunker"
	"github.com/raglab/docqa/internal/embeddings"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCQA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// A missing config file is fine; defaults plus env carry it.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	// DOCQA_ADDR -> addr, DOCQA_LLM_MODEL -> llm_model, and so on.
	if err := k.Load(env.Provider("DOCQA_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCQA_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderOllama:    true,
}

// validStores is the set of recognized store backend values.
var validStores = map[StoreType]bool{
	StoreMemory:  true,
	StoreChromem: true,
}

// validLogLevels is the set of recognized log level values.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values. Chunk
// size, overlap and top-k are clamped in place rather than rejected so
// that out-of-range sliders and env overrides degrade gracefully.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}

	if c.LLMProvider == "" {
		return fmt.Errorf("llm_provider is required")
	}
	if !validProviders[c.LLMProvider] {
		return fmt.Errorf("invalid llm_provider %q: must be one of openai, anthropic, ollama", c.LLMProvider)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("llm_model is required")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.MaxAnswerTokens <= 0 {
		return fmt.Errorf("max_answer_tokens must be positive")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}

	if !embeddings.Supported(c.EmbeddingModel) {
		return fmt.Errorf("unsupported embedding_model %q", c.EmbeddingModel)
	}
	if !validStores[c.StoreBackend] {
		return fmt.Errorf("invalid store_backend %q: must be one of memory, chromem", c.StoreBackend)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("embed_batch_size must be positive")
	}

	if c.MaxContextChars <= 0 {
		return fmt.Errorf("max_context_chars must be positive")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}
	if c.IngestWorkers < 0 {
		return fmt.Errorf("ingest_workers must be non-negative")
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	c.ChunkTokens = clampInt(c.ChunkTokens, chunker.MinTokens, chunker.MaxTokens)
	c.OverlapTokens = clampInt(c.OverlapTokens, 0, c.ChunkTokens/2)
	c.TopK = clampInt(c.TopK, 1, 20)

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider. Ollama runs locally and needs none.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

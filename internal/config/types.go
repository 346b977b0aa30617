package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// StoreType identifies a vector store backend.
type StoreType string

const (
	// StoreMemory is the built-in in-process index.
	StoreMemory StoreType = "memory"
	// StoreChromem is the embedded chromem-go database.
	StoreChromem StoreType = "chromem"
)

// Config is the top-level docqa configuration, corresponding to docqa.yaml.
// API keys are never part of it; they come from the environment.
type Config struct {
	Addr string `yaml:"addr" koanf:"addr"`

	LLMProvider       ProviderType `yaml:"llm_provider" koanf:"llm_provider"`
	LLMModel          string       `yaml:"llm_model" koanf:"llm_model"`
	Temperature       float64      `yaml:"temperature" koanf:"temperature"`
	MaxAnswerTokens   int          `yaml:"max_answer_tokens" koanf:"max_answer_tokens"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	EmbeddingModel string    `yaml:"embedding_model" koanf:"embedding_model"`
	StoreBackend   StoreType `yaml:"store_backend" koanf:"store_backend"`
	EmbedBatchSize int       `yaml:"embed_batch_size" koanf:"embed_batch_size"`

	ChunkTokens     int `yaml:"chunk_tokens" koanf:"chunk_tokens"`
	OverlapTokens   int `yaml:"overlap_tokens" koanf:"overlap_tokens"`
	TopK            int `yaml:"top_k" koanf:"top_k"`
	MaxContextChars int `yaml:"max_context_chars" koanf:"max_context_chars"`

	MaxFileSizeMB int      `yaml:"max_file_size_mb" koanf:"max_file_size_mb"`
	IngestWorkers int      `yaml:"ingest_workers" koanf:"ingest_workers"`
	Include       []string `yaml:"include" koanf:"include"`
	Exclude       []string `yaml:"exclude" koanf:"exclude"`

	LogLevel string `yaml:"log_level" koanf:"log_level"`
}

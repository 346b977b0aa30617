package config

// defaultModels maps each provider to the chat model used when the user
// does not pick one.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderOllama:    "llama3",
}

// DefaultIncludes are glob patterns for the document types docqa can parse.
var DefaultIncludes = []string{
	"**/*.pdf",
	"**/*.html",
	"**/*.htm",
	"**/*.md",
	"**/*.markdown",
}

// DefaultExcludes are glob patterns skipped during directory ingestion
// by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8080",
		LLMProvider:       ProviderOpenAI,
		LLMModel:          "gpt-4o-mini",
		Temperature:       0.2,
		MaxAnswerTokens:   1000,
		RequestsPerMinute: 0,
		EmbeddingModel:    "text-embedding-3-small",
		StoreBackend:      StoreMemory,
		EmbedBatchSize:    32,
		ChunkTokens:       450,
		OverlapTokens:     50,
		TopK:              5,
		MaxContextChars:   8000,
		MaxFileSizeMB:     200,
		IngestWorkers:     4,
		Include:           DefaultIncludes,
		Exclude:           DefaultExcludes,
		LogLevel:          "info",
	}
}

// DefaultModelFor returns the default chat model for the given provider.
// Unknown providers fall back to the OpenAI default.
func DefaultModelFor(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}

// DefaultEmbeddingFor returns the default embedding model for the given
// provider. Ollama setups embed locally; everything else uses OpenAI.
func DefaultEmbeddingFor(provider ProviderType) string {
	if provider == ProviderOllama {
		return "ollama/nomic-embed-text"
	}
	return "text-embedding-3-small"
}

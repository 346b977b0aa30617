package llm

import (
	"fmt"
	"os"
)

// NewProvider builds the chat backend named by kind ("openai",
// "anthropic" or "ollama"). API keys come from the environment, never
// from configuration files.
func NewProvider(kind, model string) (Provider, error) {
	switch kind {
	case "openai":
		key, err := requireEnv("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(key, model), nil

	case "anthropic":
		key, err := requireEnv("ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewAnthropicProvider(key, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = defaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil
	}
	return nil, fmt.Errorf("unsupported provider type: %s", kind)
}

func requireEnv(name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s environment variable is not set", name)
}

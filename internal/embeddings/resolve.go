package embeddings

import (
	"fmt"
	"os"
	"strings"
)

const ollamaPrefix = "ollama/"

// openaiDims maps supported OpenAI embedding models to their vector
// widths.
var openaiDims = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// ollamaDims maps known Ollama embedding models to their vector
// widths.
var ollamaDims = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// Supported reports whether name resolves to a known embedding model.
func Supported(name string) bool {
	if strings.HasPrefix(name, ollamaPrefix) {
		_, ok := ollamaDims[strings.TrimPrefix(name, ollamaPrefix)]
		return ok
	}
	_, ok := openaiDims[name]
	return ok
}

// Resolve builds the embedder for a model name. OpenAI models read
// OPENAI_API_KEY from the environment; names with an "ollama/" prefix
// talk to the instance at OLLAMA_HOST (default http://localhost:11434)
// and need no key.
func Resolve(name string) (Embedder, error) {
	if strings.HasPrefix(name, ollamaPrefix) {
		model := strings.TrimPrefix(name, ollamaPrefix)
		dims, ok := ollamaDims[model]
		if !ok {
			return nil, fmt.Errorf("unknown ollama embedding model %q", model)
		}
		return NewOllamaEmbedder(model, dims, os.Getenv("OLLAMA_HOST")), nil
	}

	dims, ok := openaiDims[name]
	if !ok {
		return nil, fmt.Errorf("unsupported embedding model %q", name)
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("embedding model %q requires OPENAI_API_KEY", name)
	}
	return NewOpenAIEmbedder(name, dims), nil
}

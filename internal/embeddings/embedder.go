// Package embeddings turns text into vectors, either through OpenAI's
// embeddings API or a local Ollama instance.
package embeddings

import "context"

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the width of the vectors this model produces.
	Dimensions() int

	// Name is the model identifier, e.g. "text-embedding-3-small" or
	// "ollama/nomic-embed-text".
	Name() string
}

package index

import "context"

// Store defines the interface for indexing and searching chunks by
// embedding similarity.
type Store interface {
	// AddChunks embeds and indexes the given chunks. Chunks with blank
	// text are skipped; the return value reports whether anything was
	// indexed. On error nothing is indexed.
	AddChunks(ctx context.Context, chunks []Chunk) (bool, error)

	// Search returns the k most similar chunks for the query text,
	// highest score first. An empty store or blank query yields no
	// results and no error.
	Search(ctx context.Context, query string, k int) ([]Result, error)

	// Clear removes every indexed chunk, keeping the embedding model
	// binding.
	Clear() error

	// Len returns the number of indexed chunks.
	Len() int

	// ModelName returns the name of the embedding model backing the
	// store.
	ModelName() string
}

package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/raglab/docqa/internal/embeddings"
)

const defaultEmbedBatch = 32

// FlatStore is an exact-scan vector store: every chunk's embedding is
// held in memory and each query scores all of them. Results are
// deterministic: scores descend, and equal scores keep insertion order.
type FlatStore struct {
	embedder  embeddings.Embedder
	batchSize int

	mu     sync.RWMutex
	vecs   [][]float32
	chunks []Chunk
}

// NewFlatStore creates an empty FlatStore that embeds batchSize texts
// per embedding call.
func NewFlatStore(embedder embeddings.Embedder, batchSize int) *FlatStore {
	if batchSize <= 0 {
		batchSize = defaultEmbedBatch
	}
	return &FlatStore{
		embedder:  embedder,
		batchSize: batchSize,
	}
}

func (s *FlatStore) AddChunks(ctx context.Context, chunks []Chunk) (bool, error) {
	kept := make([]Chunk, 0, len(chunks))
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		kept = append(kept, c)
		texts = append(texts, c.Text)
	}
	if len(kept) == 0 {
		return false, nil
	}

	// Embed everything before touching the index so a failed batch
	// leaves the store unchanged.
	vecs := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += s.batchSize {
		end := i + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return false, fmt.Errorf("embed chunk batch: %w", err)
		}
		vecs = append(vecs, batch...)
	}
	if len(vecs) != len(kept) {
		return false, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(kept))
	}
	for i, v := range vecs {
		vecs[i] = normalize(v)
	}

	s.mu.Lock()
	s.vecs = append(s.vecs, vecs...)
	s.chunks = append(s.chunks, kept...)
	s.mu.Unlock()

	return true, nil
}

func (s *FlatStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if s.Len() == 0 {
		return nil, nil
	}

	embedded, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embedded) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	qv := normalize(embedded[0])

	s.mu.RLock()
	results := make([]Result, len(s.chunks))
	for i, c := range s.chunks {
		results[i] = Result{Chunk: c, Score: dot(qv, s.vecs[i])}
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *FlatStore) Clear() error {
	s.mu.Lock()
	s.vecs = nil
	s.chunks = nil
	s.mu.Unlock()
	return nil
}

func (s *FlatStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *FlatStore) ModelName() string {
	return s.embedder.Name()
}

// normalize scales v to unit length. The epsilon keeps zero vectors
// finite instead of dividing by zero.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + 1e-12
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the inner product of two vectors. With unit vectors this
// is the cosine similarity.
func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}

package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/raglab/docqa/internal/embeddings"
)

const collectionName = "documents"

// ChromemStore implements Store using chromem-go's in-memory database.
type ChromemStore struct {
	db        *chromem.DB
	embedder  embeddings.Embedder
	embedFunc chromem.EmbeddingFunc

	mu         sync.RWMutex
	collection *chromem.Collection
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		embedder:   embedder,
		embedFunc:  ef,
		collection: col,
	}, nil
}

func (s *ChromemStore) AddChunks(ctx context.Context, chunks []Chunk) (bool, error) {
	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:       c.ID,
			Content:  c.Text,
			Metadata: metaToMap(c.Meta),
		})
	}
	if len(docs) == 0 {
		return false, nil
	}

	if err := s.col().AddDocuments(ctx, docs, 1); err != nil {
		return false, fmt.Errorf("add documents: %w", err)
	}
	return true, nil
}

func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	col := s.col()
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			Chunk: Chunk{
				ID:   r.ID,
				Text: r.Content,
				Meta: metaFromMap(r.Metadata),
			},
			Score: r.Similarity,
		}
	}
	return out, nil
}

// Clear drops the collection and recreates it empty under the same
// embedding function.
func (s *ChromemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Len() int {
	return s.col().Count()
}

func (s *ChromemStore) ModelName() string {
	return s.embedder.Name()
}

func (s *ChromemStore) col() *chromem.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection
}

// metaToMap flattens chunk metadata to the string map chromem stores.
func metaToMap(m Metadata) map[string]string {
	if m == nil {
		return nil
	}
	md := map[string]string{
		"source": m.SourceName(),
		"type":   string(m.Kind()),
	}
	if pm, ok := m.(PageMeta); ok {
		md["page"] = strconv.Itoa(pm.Page)
	}
	return md
}

// metaFromMap reconstructs chunk metadata from chromem's string map.
// The page key distinguishes paginated sources.
func metaFromMap(m map[string]string) Metadata {
	if p, ok := m["page"]; ok {
		page, _ := strconv.Atoi(p)
		return PageMeta{
			Source: m["source"],
			Page:   page,
			Type:   Kind(m["type"]),
		}
	}
	return DocMeta{
		Source: m["source"],
		Type:   Kind(m["type"]),
	}
}

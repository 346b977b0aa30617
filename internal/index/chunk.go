package index

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind labels the source format a chunk was extracted from.
type Kind string

const (
	KindPDF      Kind = "pdf"
	KindHTML     Kind = "html"
	KindMarkdown Kind = "markdown"
)

// Chunk is a retrievable passage of document text. Chunks are immutable
// once created.
type Chunk struct {
	ID   string
	Text string
	Meta Metadata
}

// NewChunk creates a chunk with a fresh unique ID.
func NewChunk(text string, meta Metadata) Chunk {
	return Chunk{
		ID:   uuid.NewString(),
		Text: text,
		Meta: meta,
	}
}

// Metadata describes where a chunk came from. Each source format
// provides its own variant; Citation is the human-readable attribution
// used in prompts and answers.
type Metadata interface {
	// SourceName returns the originating file name.
	SourceName() string

	// Citation returns the attribution string for this chunk.
	Citation() string

	// Kind returns the source format.
	Kind() Kind
}

// PageMeta locates a chunk on a page of a paginated document.
type PageMeta struct {
	Source string
	Page   int
	Type   Kind
}

func (m PageMeta) SourceName() string { return m.Source }

func (m PageMeta) Citation() string {
	return fmt.Sprintf("%s, p.%d", m.Source, m.Page)
}

func (m PageMeta) Kind() Kind { return m.Type }

// DocMeta locates a chunk in a document without page structure.
type DocMeta struct {
	Source string
	Type   Kind
}

func (m DocMeta) SourceName() string { return m.Source }

func (m DocMeta) Citation() string { return m.Source }

func (m DocMeta) Kind() Kind { return m.Type }

// Result pairs a chunk with its similarity score for a query.
type Result struct {
	Chunk Chunk
	Score float32
}

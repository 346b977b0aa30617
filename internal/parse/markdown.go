package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/raglab/docqa/internal/index"
)

// md renders Markdown to HTML. WithUnsafe keeps embedded raw HTML so
// its text survives extraction.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

// Markdown extracts the text of a Markdown document as one section,
// rendering to HTML first so formatting markers never reach the index.
func Markdown(name string, data []byte) ([]Section, error) {
	clean := strings.ToValidUTF8(string(data), "")

	var buf bytes.Buffer
	if err := md.Convert([]byte(clean), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	text, err := htmlToText(&buf)
	if err != nil {
		return nil, err
	}
	return []Section{{
		Text: text,
		Meta: index.DocMeta{Source: name, Type: index.KindMarkdown},
	}}, nil
}

// Package parse turns uploaded document bytes into text sections with
// source metadata. PDFs yield one section per page; HTML and Markdown
// yield a single section per file.
package parse

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raglab/docqa/internal/index"
)

// ErrUnsupported is returned for file types no parser handles.
var ErrUnsupported = errors.New("unsupported file type")

// Section is a contiguous stretch of extracted text and where it came
// from.
type Section struct {
	Text string
	Meta index.Metadata
}

// supportedExts maps recognized file extensions (lowercase, with dot).
var supportedExts = map[string]struct{}{
	".pdf":      {},
	".html":     {},
	".htm":      {},
	".md":       {},
	".markdown": {},
}

// Supported reports whether the file name has a parseable extension.
func Supported(name string) bool {
	_, ok := supportedExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// File parses raw document bytes into sections, dispatching on the file
// extension. Unrecognized extensions return ErrUnsupported.
func File(name string, data []byte) ([]Section, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF(name, data)
	case ".html", ".htm":
		return HTML(name, data)
	case ".md", ".markdown":
		return Markdown(name, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
	}
}

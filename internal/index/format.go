package index

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Result %d (score: %.4f) ---\n", i+1, r.Score))

		if r.Chunk.Meta != nil {
			sb.WriteString(fmt.Sprintf("Source: %s\n", r.Chunk.Meta.Citation()))
			if kind := r.Chunk.Meta.Kind(); kind != "" {
				sb.WriteString(fmt.Sprintf("Type: %s\n", kind))
			}
		}

		sb.WriteString("\n")
		sb.WriteString(r.Chunk.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

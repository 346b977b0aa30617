// Package prompt assembles retrieved chunks into the context and
// messages sent to the LLM, and renders the extractive fallback answer
// used when no LLM is reachable.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/raglab/docqa/internal/index"
	"github.com/raglab/docqa/internal/llm"
)

// PreviewRunes is the preview length used for answer sources and
// fallback snippets.
const PreviewRunes = 300

const (
	systemGrounded = "You are a helpful assistant that answers questions using ONLY the provided context. If the answer cannot be found in the context, clearly state that you don't know. Always cite your sources using the format [Source: filename, page X] when applicable. Be concise but comprehensive in your answers."
	systemPlain    = "You are a helpful assistant."

	unknownSource = "Unknown source"
	blockSep      = "\n---\n"
)

// BuildContext renders results in order as cited context blocks,
// stopping before the block that would push the total rune count past
// maxChars. The first block is always kept so a single oversized chunk
// still produces context.
func BuildContext(results []index.Result, maxChars int) string {
	var blocks []string
	total := 0

	for _, r := range results {
		citation := unknownSource
		if r.Chunk.Meta != nil {
			if c := r.Chunk.Meta.Citation(); c != "" {
				citation = c
			}
		}

		block := fmt.Sprintf("[Source: %s]\n%s\n", citation, r.Chunk.Text)
		size := utf8.RuneCountInString(block)
		if len(blocks) > 0 && total+size > maxChars {
			break
		}
		blocks = append(blocks, block)
		total += size
	}

	return strings.Join(blocks, blockSep)
}

// GroundedMessages returns the system and user messages for answering a
// question from assembled context only.
func GroundedMessages(question, contextBlock string) []llm.Message {
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", contextBlock, question)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemGrounded},
		{Role: llm.RoleUser, Content: user},
	}
}

// PlainMessages returns the messages for answering a question without
// any document context.
func PlainMessages(question string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPlain},
		{Role: llm.RoleUser, Content: question},
	}
}

// Fallback renders an extractive answer from the top results, used when
// no LLM response could be obtained.
func Fallback(results []index.Result) string {
	n := len(results)
	if n > 3 {
		n = 3
	}

	lines := make([]string, 0, n)
	for i, r := range results[:n] {
		lines = append(lines, fmt.Sprintf("*Snippet %d (Relevance: %.2f)*\n> %s\n",
			i+1, r.Score, Preview(r.Chunk.Text, PreviewRunes)))
	}

	return "*Fallback Answer (No LLM):*\n\nBased on the most relevant document snippets:\n" +
		strings.Join(lines, "\n")
}

// Preview returns the first maxRunes runes of text followed by an
// ellipsis marker.
func Preview(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) > maxRunes {
		runes = runes[:maxRunes]
	}
	return string(runes) + "..."
}

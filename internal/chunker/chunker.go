// Package chunker splits normalized document text into retrievable,
// token-budgeted passages. Token counts are approximated by
// whitespace-delimited word counts throughout; no real tokenizer is
// involved.
package chunker

import (
	"regexp"
	"strings"
)

const (
	// MinTokens and MaxTokens bound the chunk size target.
	MinTokens = 50
	MaxTokens = 1000

	// minChunkWords is the floor below which a produced chunk is
	// discarded as noise.
	minChunkWords = 5
)

// sentenceEnd matches a sentence-final punctuation mark followed by
// whitespace. It is a heuristic, not a sentence grammar: abbreviations
// and decimals will mis-split, which is acceptable for retrieval.
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Split cuts text into chunks of at most targetTokens words, keeping
// sentences together where possible and carrying overlapTokens words of
// context from each chunk into the next. targetTokens is clamped to
// [MinTokens, MaxTokens] and overlapTokens to [0, targetTokens/2].
// Empty or whitespace-only input yields nil. Chunks shorter than five
// words are dropped.
func Split(text string, targetTokens, overlapTokens int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	target := clamp(targetTokens, MinTokens, MaxTokens)
	overlap := clamp(overlapTokens, 0, target/2)

	var chunks []string
	var buf []string // running chunk, as words

	flush := func() {
		if len(buf) > 0 {
			chunks = append(chunks, strings.Join(buf, " "))
			buf = nil
		}
	}

	for _, sentence := range splitSentences(trimmed) {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		// A single sentence larger than the whole budget cannot be
		// merged with neighbors: flush and cut it into hard windows of
		// target words, each window starting overlap words before the
		// previous one ended.
		if len(words) > target {
			flush()
			step := target - overlap
			for i := 0; i < len(words); i += step {
				end := i + target
				if end > len(words) {
					end = len(words)
				}
				chunks = append(chunks, strings.Join(words[i:end], " "))
			}
			continue
		}

		if len(buf)+len(words) > target && len(buf) > 0 {
			tail := overlapTail(buf, overlap)
			flush()
			// Seed the next chunk with the tail of the previous one,
			// unless that would push it past the budget on its own.
			if len(tail)+len(words) <= target {
				buf = append(buf, tail...)
			}
		}
		buf = append(buf, words...)
	}
	flush()

	kept := chunks[:0]
	for _, c := range chunks {
		if len(strings.Fields(c)) >= minChunkWords {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// splitSentences cuts text after each ., ! or ? that is followed by
// whitespace. The punctuation stays with the preceding sentence.
func splitSentences(text string) []string {
	locs := sentenceEnd.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	sentences := make([]string, 0, len(locs)+1)
	start := 0
	for _, loc := range locs {
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// overlapTail returns the last n words of buf, or all of buf when it is
// shorter. The result is a copy so later appends cannot alias it.
func overlapTail(buf []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(buf) {
		n = len(buf)
	}
	tail := make([]string, n)
	copy(tail, buf[len(buf)-n:])
	return tail
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

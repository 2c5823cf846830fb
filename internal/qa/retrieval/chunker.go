package retrieval

import (
	"strings"
)

//splitter

// SplitIntoChunks breaks document text into retrieval units of at most
// maxChunkSize characters, preferring paragraph boundaries and falling back
// to word packing when a single paragraph is oversized. Chunk order follows
// source order and no text is dropped.
func SplitIntoChunks(text string, maxChunkSize int) []string {
	if len(text) < maxChunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, paragraph := range splitParagraphs(text) {
		if len(paragraph) > maxChunkSize {
			// Oversized paragraph: pack words instead
			flush()
			for _, word := range strings.Fields(paragraph) {
				if current.Len() > 0 && current.Len()+1+len(word) > maxChunkSize {
					flush()
				}
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(word)
			}
			flush()
			continue
		}

		if current.Len() > 0 && current.Len()+2+len(paragraph) > maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	return chunks
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Package rag implements local retrieval-augmented generation: documents are
// chunked, embedded, and indexed in memory, and questions are answered from
// the retrieved context.
package rag

import (
	"fmt"
	"strings"
)

// Document is a source text to index.
type Document struct {
	ID      string
	Content string
}

// Chunk is one indexed piece of a document.
type Chunk struct {
	ID        string
	Content   string
	Source    string
	Embedding []float32
}

// SearchResult pairs a chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Chunker splits documents into overlapping chunks of roughly Size runes.
// Splits prefer paragraph boundaries and fall back to hard cuts.
type Chunker struct {
	// Size is the target chunk length in runes.
	Size int
	// Overlap is how many trailing runes of one chunk reappear at the start
	// of the next. Must be smaller than Size.
	Overlap int
}

// DefaultChunker matches the course's lab defaults.
func DefaultChunker() Chunker {
	return Chunker{Size: 800, Overlap: 120}
}

// Split chunks a document. Chunk IDs are "<doc id>#<n>".
func (c Chunker) Split(doc Document) ([]Chunk, error) {
	if c.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return nil, fmt.Errorf("overlap must be in [0, size), got %d for size %d", c.Overlap, c.Size)
	}

	text := strings.TrimSpace(doc.Content)
	if text == "" {
		return nil, nil
	}

	var chunks []Chunk
	emit := func(content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		chunks = append(chunks, Chunk{
			ID:      fmt.Sprintf("%s#%d", doc.ID, len(chunks)),
			Content: content,
			Source:  doc.ID,
		})
	}

	// Pack whole paragraphs into chunks while they fit; oversized
	// paragraphs are cut by the sliding window.
	var current strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len([]rune(para)) > c.Size {
			if current.Len() > 0 {
				emit(current.String())
				current.Reset()
			}
			for _, piece := range c.slide([]rune(para)) {
				emit(piece)
			}
			continue
		}

		if current.Len() > 0 && len([]rune(current.String()))+len([]rune(para))+2 > c.Size {
			emit(current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	if current.Len() > 0 {
		emit(current.String())
	}

	return chunks, nil
}

// slide cuts an oversized run of text into Size-rune windows advancing by
// Size-Overlap runes.
func (c Chunker) slide(runes []rune) []string {
	step := c.Size - c.Overlap
	var pieces []string
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return pieces
}

package domain

import "strings"

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many trailing characters are repeated at
	// the start of the next chunk to keep context across boundaries.
	DefaultChunkOverlap = 200
)

// Chunk represents a single piece of a document prepared for embedding.
type Chunk struct {
	Index   int
	Content string
}

// Chunker defines the interface for splitting text into chunks.
type Chunker interface {
	Chunk(body string) []Chunk
}

type recursiveChunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the default size and overlap.
func NewChunker() Chunker {
	return NewChunkerWith(DefaultChunkSize, DefaultChunkOverlap)
}

// NewChunkerWith creates a chunker with explicit size and overlap.
// Invalid values fall back to the defaults.
func NewChunkerWith(size, overlap int) Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}
	return &recursiveChunker{size: size, overlap: overlap}
}

// Chunk splits the body preferring paragraph breaks, then line breaks, then
// word boundaries, falling back to a hard cut. Empty chunks are dropped.
func (c *recursiveChunker) Chunk(body string) []Chunk {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return nil
	}

	var pieces []string
	rest := normalized
	for len(rest) > c.size {
		cut := c.findCut(rest)
		piece := strings.TrimSpace(rest[:cut])
		if piece != "" {
			pieces = append(pieces, piece)
		}
		next := cut - c.overlap
		if next <= 0 {
			next = cut
		}
		rest = rest[next:]
	}
	if trimmed := strings.TrimSpace(rest); trimmed != "" {
		pieces = append(pieces, trimmed)
	}

	chunks := make([]Chunk, 0, len(pieces))
	for i, content := range pieces {
		chunks = append(chunks, Chunk{Index: i, Content: content})
	}
	return chunks
}

// findCut returns the byte offset to cut at, at most c.size, preferring the
// last separator occurrence inside the window.
func (c *recursiveChunker) findCut(s string) int {
	window := s[:c.size]
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > c.size/2 {
			return idx + len(sep)
		}
	}
	return c.size
}

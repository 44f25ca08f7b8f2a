package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"assistant-orchestrator/internal/domain"
)

func TestChunker_ShortText(t *testing.T) {
	chunker := domain.NewChunker()

	chunks := chunker.Chunk("a short document")

	if assert.Len(t, chunks, 1) {
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, "a short document", chunks[0].Content)
	}
}

func TestChunker_EmptyText(t *testing.T) {
	chunker := domain.NewChunker()

	assert.Nil(t, chunker.Chunk(""))
	assert.Nil(t, chunker.Chunk("   \n\n  "))
}

func TestChunker_SplitsLongText(t *testing.T) {
	chunker := domain.NewChunkerWith(100, 20)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("paragraph content goes here.\n\n")
	}

	chunks := chunker.Chunk(sb.String())

	assert.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.NotEmpty(t, chunk.Content)
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
}

func TestChunker_PrefersParagraphBreaks(t *testing.T) {
	chunker := domain.NewChunkerWith(100, 0)

	first := strings.Repeat("a", 80)
	second := strings.Repeat("b", 80)
	chunks := chunker.Chunk(first + "\n\n" + second)

	if assert.Len(t, chunks, 2) {
		assert.Equal(t, first, chunks[0].Content)
		assert.Equal(t, second, chunks[1].Content)
	}
}

func TestChunker_NormalizesLineEndings(t *testing.T) {
	chunker := domain.NewChunker()

	chunks := chunker.Chunk("line one\r\nline two")

	if assert.Len(t, chunks, 1) {
		assert.Equal(t, "line one\nline two", chunks[0].Content)
	}
}

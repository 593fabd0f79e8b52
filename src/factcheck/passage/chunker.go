package passage

import "strings"

const (
	// MaxChunkChars bounds a chunk's character length.
	MaxChunkChars = 900
	// MinChunkChars drops fragments too short to be useful evidence.
	MinChunkChars = 120
	// overlapLines is carried into the next chunk to preserve context
	// across a chunk boundary.
	overlapLines = 2
)

// Chunk is a contiguous span of page text with its position in the page.
type Chunk struct {
	Text  string
	Index int
}

// SplitChunks greedily accumulates lines into chunks bounded by MaxChunkChars,
// carrying a two-line overlap between consecutive chunks. A text already shorter
// than the bound yields exactly one chunk (when it clears MinChunkChars).
func SplitChunks(blocks []string) []Chunk {
	var lines []string
	for _, b := range blocks {
		for _, l := range strings.Split(b, "\n") {
			l = strings.TrimSpace(l)
			if l != "" {
				lines = append(lines, l)
			}
		}
	}
	if len(lines) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, "\n")
		if len(text) >= MinChunkChars {
			chunks = append(chunks, Chunk{Text: text, Index: len(chunks)})
		}
		// Carry trailing lines into the next chunk.
		if len(current) > overlapLines {
			current = append([]string{}, current[len(current)-overlapLines:]...)
		}
		currentLen = 0
		for _, l := range current {
			currentLen += len(l) + 1
		}
	}

	for _, line := range lines {
		if currentLen+len(line) > MaxChunkChars && currentLen > 0 {
			flush()
		}
		current = append(current, line)
		currentLen += len(line) + 1
	}
	if len(current) > 0 {
		text := strings.Join(current, "\n")
		if len(text) >= MinChunkChars {
			chunks = append(chunks, Chunk{Text: text, Index: len(chunks)})
		}
	}

	return chunks
}

// FallbackChunk returns the whole normalized text as a single chunk. Callers use
// it as a last resort when SplitChunks drops everything as too short.
func FallbackChunk(blocks []string) []Chunk {
	var lines []string
	for _, b := range blocks {
		for _, l := range strings.Split(b, "\n") {
			l = strings.TrimSpace(l)
			if l != "" {
				lines = append(lines, l)
			}
		}
	}
	text := strings.Join(lines, "\n")
	if text == "" {
		return nil
	}
	return []Chunk{{Text: text, Index: 0}}
}

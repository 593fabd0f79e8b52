package passage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbeddingDeterministic(t *testing.T) {
	a := HashEmbedding("the speed of light is 299792458 meters per second", DefaultDimensions)
	b := HashEmbedding("the speed of light is 299792458 meters per second", DefaultDimensions)
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
}

func TestHashEmbeddingNormalized(t *testing.T) {
	v := HashEmbedding("water boils at one hundred degrees", DefaultDimensions)
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	assert.InDelta(t, 1.0, sumSq, 1e-9)
}

func TestCosineSelfSimilarity(t *testing.T) {
	v := HashEmbedding("einstein published the theory of relativity in 1905", DefaultDimensions)
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSymmetry(t *testing.T) {
	a := HashEmbedding("the sun emits visible light", DefaultDimensions)
	b := HashEmbedding("solar radiation includes the visible spectrum", DefaultDimensions)
	assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
}

func TestCosineZeroAndMismatch(t *testing.T) {
	zero := make([]float64, DefaultDimensions)
	v := HashEmbedding("anything at all", DefaultDimensions)
	assert.Equal(t, 0.0, CosineSimilarity(zero, v))
	assert.Equal(t, 0.0, CosineSimilarity(v, zero))
	assert.Equal(t, 0.0, CosineSimilarity(v, v[:64]))
}

func TestKeywordOverlap(t *testing.T) {
	q := "speed of light in vacuum"
	assert.Greater(t, KeywordOverlap(q, "the speed of light in a vacuum is constant"), 0.9)
	assert.Equal(t, 0.0, KeywordOverlap(q, "completely unrelated gardening advice"))
	assert.Equal(t, 0.0, KeywordOverlap("", "whatever"))
}

func TestSplitChunksShortTextSingleChunk(t *testing.T) {
	text := strings.Repeat("The capital of France is Paris. ", 6) // ~190 chars, < MaxChunkChars
	chunks := SplitChunks([]string{text})
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(text), chunks[0].Text)
}

func TestSplitChunksTooShortYieldsNothing(t *testing.T) {
	chunks := SplitChunks([]string{"Short line."})
	assert.Empty(t, chunks)

	fallback := FallbackChunk([]string{"Short line."})
	require.Len(t, fallback, 1)
	assert.Equal(t, "Short line.", fallback[0].Text)
}

func TestSplitChunksBoundsAndOverlap(t *testing.T) {
	var blocks []string
	for i := 0; i < 40; i++ {
		blocks = append(blocks, strings.Repeat("alpha beta gamma delta epsilon ", 4))
	}
	chunks := SplitChunks(blocks)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), MaxChunkChars+len(blocks[0])+1)
		assert.GreaterOrEqual(t, len(c.Text), MinChunkChars)
	}
	// Overlap: the first lines of chunk N+1 repeat the tail of chunk N.
	firstTail := lastLines(chunks[0].Text, 2)
	assert.True(t, strings.HasPrefix(chunks[1].Text, firstTail))
}

func TestRankPrefersRelevantChunk(t *testing.T) {
	question := "when was the eiffel tower built"
	chunks := []Chunk{
		{Text: "Gardening in spring requires well-drained soil and regular watering of seedlings.", Index: 0},
		{Text: "The Eiffel Tower was built between 1887 and 1889 for the Paris World's Fair.", Index: 1},
	}
	ranked := Rank(question, chunks)
	require.Len(t, ranked, 2)
	assert.Contains(t, ranked[0].Text, "Eiffel")
}

func TestTopExtractsCaps(t *testing.T) {
	var blocks []string
	for i := 0; i < 30; i++ {
		blocks = append(blocks, strings.Repeat("sentence about the history of astronomy and telescopes ", 5))
	}
	extracts := TopExtracts("history of astronomy", blocks, 3)
	require.NotEmpty(t, extracts)
	assert.LessOrEqual(t, len(extracts), 3)
	for _, e := range extracts {
		assert.LessOrEqual(t, len(e), MaxExtractChars)
	}
}

func lastLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

package passage

import "sort"

const (
	// DefaultTopK is how many chunks per source survive ranking.
	DefaultTopK = 3
	// MaxExtractChars caps a single extract handed to prompts.
	MaxExtractChars = 900

	cosineWeight  = 0.65
	keywordWeight = 0.35
)

// RankedChunk pairs a chunk with its blended relevance score.
type RankedChunk struct {
	Chunk
	Score float64
}

// Rank scores every chunk against the question with a blended
// lexical+hash-similarity score plus a small positional bonus (summaries and
// definitions cluster near the top of a page), and returns the chunks in
// descending score order.
func Rank(question string, chunks []Chunk) []RankedChunk {
	if len(chunks) == 0 {
		return nil
	}
	qVec := HashEmbedding(question, DefaultDimensions)

	ranked := make([]RankedChunk, 0, len(chunks))
	for _, c := range chunks {
		cVec := HashEmbedding(c.Text, DefaultDimensions)
		score := cosineWeight*CosineSimilarity(qVec, cVec) +
			keywordWeight*KeywordOverlap(question, c.Text) +
			positionBonus(c.Index)
		ranked = append(ranked, RankedChunk{Chunk: c, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopExtracts runs chunking and ranking over page blocks and returns up to
// topK extract strings, each capped at MaxExtractChars.
func TopExtracts(question string, blocks []string, topK int) []string {
	if topK <= 0 {
		topK = DefaultTopK
	}
	chunks := SplitChunks(blocks)
	if len(chunks) == 0 {
		chunks = FallbackChunk(blocks)
	}
	ranked := Rank(question, chunks)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	extracts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		text := r.Text
		if len(text) > MaxExtractChars {
			text = text[:MaxExtractChars]
		}
		extracts = append(extracts, text)
	}
	return extracts
}

// positionBonus decreases monotonically with chunk position.
func positionBonus(index int) float64 {
	return 0.05 / float64(1+index)
}

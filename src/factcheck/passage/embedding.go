package passage

import (
	"math"
	"strings"
	"unicode"

	"github.com/OneOfOne/xxhash"
	"gonum.org/v1/gonum/floats"
)

// DefaultDimensions is the bucket count for the hashed bag-of-words vector.
const DefaultDimensions = 128

// HashEmbedding builds a fixed-dimension bag-of-words vector by hashing each
// token into a bucket and L2-normalizing the result. It is a deterministic,
// training-free stand-in for a real embedding model and is not intended to
// capture deep semantics.
func HashEmbedding(text string, dims int) []float64 {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	vec := make([]float64, dims)
	for _, tok := range Tokenize(text) {
		bucket := xxhash.ChecksumString64(tok) % uint64(dims)
		vec[bucket]++
	}
	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return vec
	}
	floats.Scale(1/norm, vec)
	return vec
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Returns 0 when either vector is all-zero or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	dot := floats.Dot(a, b)
	magA := math.Sqrt(floats.Dot(a, a))
	magB := math.Sqrt(floats.Dot(b, b))
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (magA * magB)
}

// KeywordOverlap returns the fraction of the question's distinct tokens that
// also occur in the candidate text. Very short tokens are ignored.
func KeywordOverlap(question, candidate string) float64 {
	qTokens := map[string]bool{}
	for _, tok := range Tokenize(question) {
		if len(tok) >= 3 {
			qTokens[tok] = true
		}
	}
	if len(qTokens) == 0 {
		return 0
	}
	cTokens := map[string]bool{}
	for _, tok := range Tokenize(candidate) {
		cTokens[tok] = true
	}
	hits := 0
	for tok := range qTokens {
		if cTokens[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(qTokens))
}

// Tokenize lowercases and splits on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

package claims

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMetaPrefix(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ChatGPT said that water boils at 100C at sea level.", "Water boils at 100C at sea level."},
		{"The model claims that the Eiffel Tower is in Berlin.", "The Eiffel Tower is in Berlin."},
		{"According to the assistant, the sun is black.", "The sun is black."},
		{"Water boils at 100C.", "Water boils at 100C."},
		{`"E = mc^2 relates mass and energy."`, "E = mc^2 relates mass and energy."},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripMetaPrefix(c.in), c.in)
	}
}

func TestSplitSentences(t *testing.T) {
	text := "The Eiffel Tower is 330 metres tall. It was completed in 1889.\nShort.\nParis is the capital of France."
	got := SplitSentences(text)
	assert.Equal(t, []string{
		"The Eiffel Tower is 330 metres tall.",
		"It was completed in 1889.",
		"Paris is the capital of France.",
	}, got)
}

func TestExtractPrefersAnalyzerClaims(t *testing.T) {
	got := Extract("ignored body text here entirely", []string{
		"The model said that Mount Everest is 8849 metres tall.",
	})
	assert.Equal(t, []string{"Mount Everest is 8849 metres tall."}, got)
}

func TestExtractScoresSentencesWithoutAnalyzer(t *testing.T) {
	text := "I think it could be nice outside today maybe. The speed of light is 299792458 m/s. Hello there friend of mine!"
	got := Extract(text, nil)
	assert.Contains(t, got, "The speed of light is 299792458 m/s.")
	for _, c := range got {
		assert.False(t, strings.HasPrefix(strings.ToLower(c), "i think"))
	}
}

func TestExtractDedupesAndCaps(t *testing.T) {
	var many []string
	for i := 0; i < 12; i++ {
		many = append(many, fmt.Sprintf("Fact number %d is recorded in the registry.", i))
	}
	many = append(many, "Fact number 3 is recorded in the registry.")
	got := Extract("", many)
	assert.Len(t, got, MaxClaims)
	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c], "duplicate %q", c)
		seen[c] = true
	}
}

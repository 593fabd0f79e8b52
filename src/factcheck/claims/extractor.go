// Package claims turns free-form response text into a short, ordered list of
// checkable claim strings for the evidence pipeline.
package claims

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxClaims bounds downstream search and model cost per report.
	MaxClaims = 6
	// minSentenceChars filters fragments too short to verify.
	minSentenceChars = 15
)

var (
	// metaPrefixes strip attribution framing so search targets the claim
	// itself, not the speaker.
	metaPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(the\s+)?(model|assistant|ai|chatbot|bot|gpt[-\w]*|chatgpt|claude|gemini|llama)[\w\s.-]{0,40}?\b(said|says|claims?|claimed|states?|stated|asserts?|asserted|wrote|responded|answered)\s+(that\s+)?`),
		regexp.MustCompile(`(?i)^according to\s+(the\s+)?(model|assistant|ai|chatbot|gpt[-\w]*|chatgpt|claude|gemini)[^,]*,\s*`),
		regexp.MustCompile(`(?i)^(it|he|she|they)\s+(said|says|claimed|claims|stated|states)\s+(that\s+)?`),
	}

	copulaPattern = regexp.MustCompile(`(?i)\b(is|are|was|were|has|have|had|contains?|equals?|consists?|measures?|weighs?)\b`)
	numberPattern = regexp.MustCompile(`\d`)
	hedgePattern  = regexp.MustCompile(`(?i)^(i think|i believe|maybe|perhaps|possibly|in my opinion|it seems)`)
)

// Extract returns up to MaxClaims claim strings. When the language-only
// analyzer already produced claims those are preferred verbatim (after
// meta-prefix cleanup); otherwise sentences of the raw text are scored for
// checkability.
func Extract(text string, analyzerClaims []string) []string {
	candidates := make([]string, 0, MaxClaims)
	if len(analyzerClaims) > 0 {
		for _, c := range analyzerClaims {
			candidates = append(candidates, StripMetaPrefix(c))
		}
	} else {
		for _, s := range SplitSentences(text) {
			s = StripMetaPrefix(s)
			if checkability(s) > 0 {
				candidates = append(candidates, s)
			}
		}
	}
	return cap6(dedupe(candidates))
}

// StripMetaPrefix removes leading "Model X said that ..." framing and
// surrounding whitespace/quotes.
func StripMetaPrefix(s string) string {
	s = strings.TrimSpace(s)
	for _, re := range metaPrefixes {
		if loc := re.FindStringIndex(s); loc != nil {
			s = strings.TrimSpace(s[loc[1]:])
			break
		}
	}
	s = strings.Trim(s, `"'“”`)
	if s != "" {
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		s = string(r)
	}
	return s
}

// SplitSentences breaks text on terminal punctuation followed by a new
// sentence start, treating newlines as boundaries too.
func SplitSentences(text string) []string {
	var out []string
	var current strings.Builder
	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if len(s) >= minSentenceChars {
			out = append(out, s)
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) {
				flush()
			} else if runes[i+1] == ' ' && i+2 < len(runes) && unicode.IsUpper(runes[i+2]) {
				flush()
				i++
			}
		}
	}
	flush()
	return out
}

// checkability scores how likely a sentence is a verifiable factual
// statement: copula verbs and numbers count for it, hedged openers against.
func checkability(s string) int {
	if len(s) < minSentenceChars || hedgePattern.MatchString(s) {
		return 0
	}
	score := 0
	if copulaPattern.MatchString(s) {
		score++
	}
	if numberPattern.MatchString(s) {
		score++
	}
	return score
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func cap6(in []string) []string {
	if len(in) > MaxClaims {
		return in[:MaxClaims]
	}
	return in
}

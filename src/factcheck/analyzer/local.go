package analyzer

import (
	"regexp"
	"strings"

	"github.com/trustlens/trustlens/src/factcheck/claims"
	"github.com/trustlens/trustlens/src/factcheck/types"
)

// Word lists for the offline heuristic. Certainty language raises composite
// risk; hedging and attribution lower it.
var (
	certaintyWords = []string{
		"always", "never", "definitely", "certainly", "undoubtedly",
		"absolutely", "guaranteed", "impossible", "without a doubt",
		"everyone knows", "100%",
	}
	hedgingWords = []string{
		"might", "may", "could", "perhaps", "possibly", "probably",
		"likely", "appears", "seems", "suggests", "approximately",
		"roughly", "around", "estimated", "reportedly",
	}
	attributionWords = []string{
		"according to", "as reported by", "cited", "source:", "study",
		"research shows", "published in", "survey", "per the",
	}
)

// contradictionPatterns match statements that contradict well-established
// facts; only unambiguous cases belong here.
var contradictionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bearth\b.{0,20}\bis\b.{0,10}\bflat\b`),
	regexp.MustCompile(`(?i)\bsun\b.{0,20}\bis\b.{0,12}\b(black|cold|dark)\b`),
	regexp.MustCompile(`(?i)\bmoon\b.{0,25}\bmade of\b.{0,10}\bcheese\b`),
	regexp.MustCompile(`(?i)\bvaccines?\b.{0,20}\bcauses?\b.{0,10}\bautism\b`),
	regexp.MustCompile(`(?i)\bhumans?\b.{0,20}\buse\b.{0,10}\b10%\b.{0,15}\bbrains?\b`),
	regexp.MustCompile(`(?i)\bgreat wall\b.{0,30}\bvisible from space\b`),
	regexp.MustCompile(`(?i)\bwater\b.{0,15}\bboils\b.{0,15}\b(50|200|300)\s?°?c\b`),
}

// generalFactPatterns match very general statements safe to mark SUPPORTED
// without evidence.
var generalFactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bearth\b.{0,25}\b(orbits|revolves around)\b.{0,10}\bsun\b`),
	regexp.MustCompile(`(?i)\bearth\b.{0,15}\bis\b.{0,20}\b(round|a sphere|spherical|an oblate spheroid)\b`),
	regexp.MustCompile(`(?i)\bwater\b.{0,15}\bboils\b.{0,15}\b100\s?°?c\b`),
	regexp.MustCompile(`(?i)\bwater\b.{0,20}\b(h2o|two hydrogen)\b`),
	regexp.MustCompile(`(?i)\bparis\b.{0,15}\bcapital\b.{0,10}\bfrance\b`),
	regexp.MustCompile(`(?i)\bspeed of light\b.{0,30}\b(299\s?792\s?458|3\s?[x×]\s?10)`),
	regexp.MustCompile(`(?i)\be\s?=\s?mc`),
	regexp.MustCompile(`(?i)\bsun\b.{0,15}\bis\b.{0,10}\ba?\s?star\b`),
	regexp.MustCompile(`(?i)\b2\s*\+\s*2\s*(=|equals|is)\s*4\b`),
}

var defaultAuditableSources = []string{
	"https://en.wikipedia.org",
	"https://www.britannica.com",
	"https://www.reuters.com/fact-check",
}

// LocalAnalyze is the last cascade tier: pure word counting and a small
// pattern allow-list, no network, no model.
func LocalAnalyze(question, text string) Result {
	sentences := claims.SplitSentences(text)
	res := Result{Method: "local", Sources: defaultAuditableSources}

	for _, s := range sentences {
		cls := classifySentence(s)
		res.Claims = append(res.Claims, types.Claim{
			Text:           s,
			Classification: cls,
			Score:          scoreFor(cls),
			Confidence:     localConfidence(cls),
			Rationale:      localRationale(cls),
			Origin:         types.OriginDetector,
		})
	}

	counts := types.CountClaims(res.Claims)
	res.HI = HallucinationIndex(counts)

	lower := strings.ToLower(text)
	certainty := countOccurrences(lower, certaintyWords)
	temper := countOccurrences(lower, hedgingWords) + countOccurrences(lower, attributionWords)
	res.CHR = clamp01(res.HI + 0.15*ratio(certainty) - 0.10*ratio(temper))
	return res
}

func classifySentence(s string) types.Classification {
	for _, re := range contradictionPatterns {
		if re.MatchString(s) {
			return types.Contradictory
		}
	}
	for _, re := range generalFactPatterns {
		if re.MatchString(s) {
			return types.Supported
		}
	}
	return types.NotSupported
}

func localConfidence(c types.Classification) types.Confidence {
	if c == types.NotSupported {
		return types.ConfidenceLow
	}
	return types.ConfidenceMedium
}

func localRationale(c types.Classification) string {
	switch c {
	case types.Supported:
		return "matches a well-established general fact"
	case types.Contradictory:
		return "contradicts a well-established general fact"
	default:
		return "not verifiable without external evidence"
	}
}

func countOccurrences(lower string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(lower, w)
	}
	return n
}

// ratio saturates at five hits so a single repeated word cannot dominate.
func ratio(n int) float64 {
	if n > 5 {
		n = 5
	}
	return float64(n) / 5
}

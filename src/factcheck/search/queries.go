package search

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// MaxVariants bounds how many queries one claim may produce.
const MaxVariants = 8

// Suggester proposes additional search queries for a claim when the static
// rules come up short. Implementations are expected to be LLM-backed and to
// run their own budget precheck; failure here is non-fatal.
type Suggester interface {
	SuggestQueries(ctx context.Context, userID, claim, lang string, max int) ([]string, error)
}

// VariantGenerator expands one claim into search-engine query variants.
type VariantGenerator struct {
	suggester Suggester
}

// NewVariantGenerator builds a generator. The suggester may be nil, in which
// case only the static rules apply.
func NewVariantGenerator(suggester Suggester) *VariantGenerator {
	return &VariantGenerator{suggester: suggester}
}

var (
	yearPattern      = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
	massEnergy       = regexp.MustCompile(`(?i)(e\s*=\s*mc|mass[- ]energy|энерги|equivalence)`)
	speedOfLight     = regexp.MustCompile(`(?i)(speed of light|скорост[ьи] света|299\s?792\s?458)`)
	sunIsBlack       = regexp.MustCompile(`(?i)(sun|солнце).{0,20}(black|чёрн|черн)|black sun`)
	earthIsFlat      = regexp.MustCompile(`(?i)(earth|земля).{0,20}(flat|плоск)`)
	metaNoisePattern = regexp.MustCompile(`["“”«»]`)
)

// Static produces the rule-based variants: the cleaned claim itself plus
// domain-specific augmentations triggered by keyword patterns.
func (g *VariantGenerator) Static(claim, lang string) []string {
	cleaned := cleanQuery(claim)
	if cleaned == "" {
		return nil
	}
	variants := []string{cleaned}

	switch {
	case massEnergy.MatchString(claim):
		variants = append(variants,
			"mass energy equivalence E=mc2 formula",
			"E=mc2 meaning einstein")
	case speedOfLight.MatchString(claim):
		variants = append(variants,
			"speed of light 299792458 m/s",
			"speed of light km per second value")
	}

	if sunIsBlack.MatchString(claim) {
		variants = append(variants,
			"what color is the sun nasa",
			"sun emits visible light spectrum")
	}
	if earthIsFlat.MatchString(claim) {
		variants = append(variants,
			"earth shape scientific evidence nasa",
			"is the earth flat scientific consensus")
	}

	// Claims anchored to a year tend to resolve well on encyclopedia pages.
	if yearPattern.MatchString(claim) {
		variants = append(variants, cleaned+" site:en.wikipedia.org")
	}

	return dedupeQueries(variants, MaxVariants)
}

// Expand returns the static variants, consulting the LLM suggester for up to
// five more when the merged static results were too thin. An empty query list
// is an acceptable outcome; the pipeline proceeds with whatever evidence it has.
func (g *VariantGenerator) Expand(ctx context.Context, userID, claim, lang string, staticResults int) []string {
	variants := g.Static(claim, lang)
	if staticResults >= 2 || g.suggester == nil {
		return variants
	}
	suggested, err := g.suggester.SuggestQueries(ctx, userID, claim, lang, 5)
	if err != nil {
		log.Printf("search: query suggestion unavailable: %v", err)
		return variants
	}
	for _, q := range suggested {
		if cleaned := cleanQuery(q); cleaned != "" {
			variants = append(variants, cleaned)
		}
	}
	return dedupeQueries(variants, MaxVariants)
}

func cleanQuery(claim string) string {
	q := metaNoisePattern.ReplaceAllString(claim, "")
	q = strings.Join(strings.Fields(q), " ")
	q = strings.Trim(q, " .,:;!")
	if len(q) > 180 {
		q = q[:180]
	}
	return q
}

func dedupeQueries(queries []string, max int) []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range queries {
		key := strings.ToLower(q)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) >= max {
			break
		}
	}
	return out
}

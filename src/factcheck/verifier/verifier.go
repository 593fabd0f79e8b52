// Package verifier classifies a single claim strictly from gathered web
// evidence. Unlike the language-only analyzer it forbids the model from
// using outside knowledge: every verdict must be traceable to a labeled
// evidence snippet.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
	"github.com/trustlens/trustlens/src/factcheck/evidence"
	"github.com/trustlens/trustlens/src/factcheck/types"
)

const maxTokens = 600

// Verifier cascades primary model, secondary model, then a constant
// NOT_SUPPORTED fallback.
type Verifier struct {
	runner *cascade.Runner
	tiers  []cascade.Tier
}

func New(runner *cascade.Runner, primary, secondary core.Client) *Verifier {
	r := *runner
	r.Route = "verify"
	return &Verifier{
		runner: &r,
		tiers: []cascade.Tier{
			{Label: "primary-model", Client: primary},
			{Label: "secondary-model", Client: secondary},
		},
	}
}

// Verify returns the claim's verdict and the tier that produced it. Only
// budget/credit exhaustion surfaces as an error.
func (v *Verifier) Verify(ctx context.Context, userID, claim string, items []types.EvidenceItem) (types.Claim, string, error) {
	if len(items) == 0 {
		return unavailable(claim, "no evidence gathered"), "local", nil
	}

	builder := evidence.NewContextBuilder()
	builder.AddAll(items)

	messages := []core.Message{{Role: "user", Content: buildPrompt(claim, builder.Build())}}
	opts := core.Options{MaxCompletionTokens: maxTokens, JSONResponse: true}

	raw, tier, err := v.runner.Complete(ctx, userID, messages, opts, v.tiers)
	if err == nil {
		if verdict, perr := parseVerdict(raw, claim, builder.Len()); perr == nil {
			return verdict, tier, nil
		} else {
			log.Printf("verifier: %s verdict unusable: %v", tier, perr)
		}
	} else if !errors.Is(err, cascade.ErrAllTiersFailed) {
		return types.Claim{}, "", err
	}

	return unavailable(claim, "automatic evaluation unavailable"), "local", nil
}

func buildPrompt(claim, evidenceBlock string) string {
	return fmt.Sprintf(`You are verifying one claim against web evidence.

STRICT RULES:
- Use ONLY the evidence snippets below. Do not use outside knowledge.
- If the evidence neither confirms nor contradicts the claim, answer NOT_SUPPORTED.
- Your rationale MUST cite the evidence ids you relied on, like [S1] or [S2].

Claim: %q

Evidence:
%s

Respond with JSON only:
{"classification": "SUPPORTED|NOT_SUPPORTED|CONTRADICTORY", "confidence": "high|medium|low", "rationale": "... [S1] ...", "evidenceUsed": ["S1"]}`, claim, evidenceBlock)
}

type verdictResponse struct {
	Classification string   `json:"classification"`
	Confidence     string   `json:"confidence"`
	Rationale      string   `json:"rationale"`
	EvidenceUsed   []string `json:"evidenceUsed"`
}

var evidenceTagPattern = regexp.MustCompile(`\bS\d+\b`)

func parseVerdict(raw, claim string, sourceCount int) (types.Claim, error) {
	var vr verdictResponse
	if err := cascade.DecodeJSON(raw, &vr); err != nil {
		return types.Claim{}, err
	}
	cls := types.ParseClassification(vr.Classification)

	used := validTags(vr.EvidenceUsed, sourceCount)
	if len(used) == 0 {
		// Fall back to tags cited inline in the rationale.
		used = validTags(evidenceTagPattern.FindAllString(vr.Rationale, -1), sourceCount)
	}
	if len(used) == 0 && cls != types.NotSupported {
		// A SUPPORTED or CONTRADICTORY verdict with no citation is not
		// trustworthy; degrade it rather than accept it.
		return types.Claim{}, fmt.Errorf("%s verdict cites no evidence", cls)
	}

	return types.Claim{
		Text:           claim,
		Classification: cls,
		Score:          scoreFor(cls),
		Confidence:     types.ParseConfidence(vr.Confidence),
		Rationale:      strings.TrimSpace(vr.Rationale),
		EvidenceUsed:   used,
		Origin:         types.OriginEvidence,
	}, nil
}

func validTags(raw []string, sourceCount int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tag := range raw {
		tag = strings.ToUpper(strings.TrimSpace(tag))
		var n int
		if _, err := fmt.Sscanf(tag, "S%d", &n); err != nil || n < 1 || n > sourceCount {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func unavailable(claim, why string) types.Claim {
	return types.Claim{
		Text:           claim,
		Classification: types.NotSupported,
		Score:          0.3,
		Confidence:     types.ConfidenceLow,
		Rationale:      why,
		Origin:         types.OriginEvidence,
	}
}

func scoreFor(c types.Classification) float64 {
	switch c {
	case types.Supported:
		return 0.9
	case types.Contradictory:
		return 0.1
	default:
		return 0.4
	}
}

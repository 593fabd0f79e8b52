// Package analyzer produces the language-only hallucination assessment: it
// segments a response into claims and scores them from general knowledge,
// without consulting web evidence.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
	"github.com/trustlens/trustlens/src/factcheck/types"
)

const (
	maxInputChars = 10000
	maxTokens     = 1500
)

// Result is the language-only assessment of one response text.
type Result struct {
	Claims  []types.Claim
	HI      float64
	CHR     float64
	Sources []string
	Method  string
}

// Analyzer cascades primary model, secondary model, then a local heuristic.
type Analyzer struct {
	runner *cascade.Runner
	tiers  []cascade.Tier
}

func New(runner *cascade.Runner, primary, secondary core.Client) *Analyzer {
	r := *runner
	r.Route = "analyze"
	return &Analyzer{
		runner: &r,
		tiers: []cascade.Tier{
			{Label: "primary-model", Client: primary},
			{Label: "secondary-model", Client: secondary},
		},
	}
}

// Analyze never fails for transient reasons; only budget/credit exhaustion
// is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, userID, question, text, lang string) (Result, error) {
	if len(text) > maxInputChars {
		text = text[:maxInputChars] + "\n\n[truncated]"
	}

	messages := []core.Message{{Role: "user", Content: buildPrompt(question, text, lang)}}
	opts := core.Options{MaxCompletionTokens: maxTokens, JSONResponse: true}

	raw, tier, err := a.runner.Complete(ctx, userID, messages, opts, a.tiers)
	if err == nil {
		if res, perr := parseResponse(raw, tier); perr == nil {
			return res, nil
		} else {
			log.Printf("analyzer: %s response unusable: %v", tier, perr)
		}
	} else if !errors.Is(err, cascade.ErrAllTiersFailed) {
		return Result{}, err
	}

	log.Printf("analyzer: falling back to local heuristic")
	return LocalAnalyze(question, text), nil
}

func buildPrompt(question, text, lang string) string {
	return fmt.Sprintf(`You are a fact-checking analyst. Analyze the response below for hallucinations.

Tasks:
1. Segment the response into atomic factual claims.
2. Classify each claim from general knowledge as SUPPORTED, NOT_SUPPORTED or CONTRADICTORY.
3. Compute hi = (0.5*not_supported + 1.0*contradictory) / total_claims.
4. Compute chr: start from hi, raise it for absolute-certainty language ("always", "never", "definitely") and lower it for hedging or cited sourcing ("might", "according to"). Keep it in [0,1].
5. List 2-3 externally auditable sources (encyclopedias, standards bodies, news agencies). NEVER cite an AI model, chatbot or "the assistant" as a source.

Respond with JSON only:
{
  "claims": [
    {"text": "...", "classification": "SUPPORTED", "confidence": "high", "rationale": "..."}
  ],
  "hi": 0.0,
  "chr": 0.0,
  "sources": ["https://en.wikipedia.org/...", "https://www.reuters.com/..."]
}

Language: %s
Original question: %s

Response to analyze:
%s`, lang, question, text)
}

type modelResponse struct {
	Claims []struct {
		Text           string `json:"text"`
		Classification string `json:"classification"`
		Confidence     string `json:"confidence"`
		Rationale      string `json:"rationale"`
	} `json:"claims"`
	HI      float64  `json:"hi"`
	CHR     float64  `json:"chr"`
	Sources []string `json:"sources"`
}

func parseResponse(raw, tier string) (Result, error) {
	var mr modelResponse
	if err := cascade.DecodeJSON(raw, &mr); err != nil {
		return Result{}, err
	}
	if len(mr.Claims) == 0 {
		return Result{}, fmt.Errorf("no claims in response")
	}

	res := Result{Method: tier}
	for _, c := range mr.Claims {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		cls := types.ParseClassification(c.Classification)
		res.Claims = append(res.Claims, types.Claim{
			Text:           text,
			Classification: cls,
			Score:          scoreFor(cls),
			Confidence:     types.ParseConfidence(c.Confidence),
			Rationale:      strings.TrimSpace(c.Rationale),
			Origin:         types.OriginDetector,
		})
	}
	if len(res.Claims) == 0 {
		return Result{}, fmt.Errorf("no usable claims in response")
	}

	// The model's own arithmetic is advisory; recompute hi from the parsed
	// verdicts so the counts invariant and the index always agree.
	counts := types.CountClaims(res.Claims)
	res.HI = HallucinationIndex(counts)
	res.CHR = clamp01(mr.CHR)
	if res.CHR == 0 {
		res.CHR = res.HI
	}
	res.Sources = filterSources(mr.Sources)
	return res, nil
}

// HallucinationIndex weights plain unsupported claims at half the cost of a
// direct contradiction.
func HallucinationIndex(c types.Counts) float64 {
	if c.Total == 0 {
		return 0
	}
	return (0.5*float64(c.NotSupported) + float64(c.Contradictory)) / float64(c.Total)
}

var modelSourcePattern = []string{"chatgpt", "gpt-", "claude", "gemini", "openai", "anthropic", "the model", "the assistant", "llama"}

// filterSources drops anything that cites a model as an authority.
func filterSources(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		cited := false
		for _, p := range modelSourcePattern {
			if strings.Contains(lower, p) {
				cited = true
				break
			}
		}
		if !cited {
			out = append(out, s)
		}
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
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

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

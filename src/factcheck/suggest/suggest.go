// Package suggest proposes extra search queries for a claim when the
// rule-based variants found too little evidence.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
)

const maxSuggestions = 5

// ModelSuggester asks a model for additional queries. Failure is always
// non-fatal for its caller, but budget/credit exhaustion still propagates.
type ModelSuggester struct {
	runner *cascade.Runner
	tiers  []cascade.Tier
}

func New(runner *cascade.Runner, client core.Client) *ModelSuggester {
	r := *runner
	r.Route = "queries"
	return &ModelSuggester{
		runner: &r,
		tiers:  []cascade.Tier{{Label: "primary-model", Client: client}},
	}
}

// SuggestQueries bills the call to the requesting user, so metered
// deployments debit the right ledger.
func (s *ModelSuggester) SuggestQueries(ctx context.Context, userID, claim, lang string, max int) ([]string, error) {
	if max <= 0 || max > maxSuggestions {
		max = maxSuggestions
	}
	prompt := fmt.Sprintf(`Propose up to %d short web search queries to verify this claim. Favor queries that would surface authoritative sources (encyclopedias, official statistics, news agencies). Language: %s.

Claim: %q

Respond with JSON only: {"queries": ["...", "..."]}`, max, lang, claim)

	raw, _, err := s.runner.Complete(ctx, userID,
		[]core.Message{{Role: "user", Content: prompt}},
		core.Options{MaxCompletionTokens: 300, JSONResponse: true},
		s.tiers)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Queries []string `json:"queries"`
	}
	if err := cascade.DecodeJSON(raw, &resp); err != nil {
		return nil, err
	}

	out := make([]string, 0, max)
	for _, q := range resp.Queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == max {
			break
		}
	}
	return out, nil
}

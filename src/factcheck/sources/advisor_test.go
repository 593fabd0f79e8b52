package sources

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
)

func TestCatalogSize(t *testing.T) {
	assert.GreaterOrEqual(t, len(Catalog), 55)
	seen := map[string]bool{}
	for _, s := range Catalog {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.NotEmpty(t, s.Domain)
		assert.NotEmpty(t, s.Tags)
	}
}

func TestDetectTags(t *testing.T) {
	tags := DetectTags("The new vaccine reduces hospitalization according to a clinical trial.")
	assert.Contains(t, tags, "general")
	assert.Contains(t, tags, "health")
	assert.NotContains(t, tags, "sports")

	withClaim := DetectTags("plain text", "Finance")
	assert.Contains(t, withClaim, "finance")
}

func TestRankCatalogPrefersMatchingTags(t *testing.T) {
	ranked := RankCatalog([]string{"general", "health"})
	top := map[string]bool{}
	for _, s := range ranked[:10] {
		top[s.ID] = true
	}
	assert.True(t, top["who"] || top["cdc"], "health authorities should rank high")

	// Specialized mismatches sink to the bottom.
	var fifaIdx, wikiIdx int
	for i, s := range ranked {
		switch s.ID {
		case "fifa":
			fifaIdx = i
		case "wikipedia":
			wikiIdx = i
		}
	}
	assert.Greater(t, fifaIdx, wikiIdx)
}

type fakeClient struct {
	reply string
	err   error
}

func (f *fakeClient) Complete(ctx context.Context, messages []core.Message, opts core.Options) (string, core.Usage, error) {
	if f.err != nil {
		return "", core.Usage{}, f.err
	}
	return f.reply, core.Usage{TotalTokens: 9}, nil
}

func (f *fakeClient) Model() string { return "fake" }

func TestRecommendUsesModelSelection(t *testing.T) {
	a := New(&cascade.Runner{}, &fakeClient{reply: `{"ids":["who","cdc","bogus-id","wikipedia"],"extra":["https://www.example.gov/report","http://insecure.gov/x","https://evil.com/"]}`})
	got := a.Recommend(context.Background(), "u1", "vaccine side effects study", nil)

	assert.Equal(t, []string{
		"https://www.who.int",
		"https://www.cdc.gov",
		"https://en.wikipedia.org",
		"https://www.example.gov/report",
	}, got)
}

func TestRecommendFallsBackToHeuristic(t *testing.T) {
	a := New(&cascade.Runner{}, &fakeClient{err: fmt.Errorf("status 500")})
	got := a.Recommend(context.Background(), "u1", "vaccine efficacy data", nil)
	require.Len(t, got, 5)
	for _, u := range got {
		assert.Contains(t, u, "https://")
	}
}

func TestRecommendHeuristicWhenModelPicksTooFew(t *testing.T) {
	a := New(&cascade.Runner{}, &fakeClient{reply: `{"ids":["who"]}`})
	got := a.Recommend(context.Background(), "u1", "vaccine efficacy data", nil)
	require.Len(t, got, 5)
}

func TestRecommendWithoutModel(t *testing.T) {
	a := New(&cascade.Runner{}, nil)
	got := a.Recommend(context.Background(), "u1", "the match ended two to one in the league", nil)
	require.Len(t, got, 5)
}

func TestNewLeavesCallerRunnerUntouched(t *testing.T) {
	shared := &cascade.Runner{Route: "queries"}
	New(shared, nil)
	assert.Equal(t, "queries", shared.Route)
}

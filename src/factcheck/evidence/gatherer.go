package evidence

import (
	"context"
	"log"
	"strings"

	"github.com/trustlens/trustlens/src/factcheck/passage"
	"github.com/trustlens/trustlens/src/factcheck/search"
	"github.com/trustlens/trustlens/src/factcheck/types"
	"github.com/trustlens/trustlens/src/factcheck/webpage"
)

const (
	// maxSourcesPerClaim bounds fetched pages per claim to keep latency predictable.
	maxSourcesPerClaim = 4
	resultsPerQuery    = 5
)

// Gatherer collects evidence for a single claim: query variants, web search,
// concurrent page fetches, passage ranking, and optional secondary providers.
type Gatherer struct {
	searcher  *search.Client
	variants  *search.VariantGenerator
	fetcher   *webpage.Fetcher
	providers []Provider
}

// NewGatherer wires the retrieval stack. providers may be empty.
func NewGatherer(searcher *search.Client, variants *search.VariantGenerator, fetcher *webpage.Fetcher, providers ...Provider) *Gatherer {
	return &Gatherer{
		searcher:  searcher,
		variants:  variants,
		fetcher:   fetcher,
		providers: providers,
	}
}

// Enabled reports whether web retrieval is configured at all.
func (g *Gatherer) Enabled() bool {
	return g.searcher != nil && g.searcher.Enabled()
}

// GatherForClaim resolves one claim to a list of evidence items. Evidence
// scarcity is not an error: an empty slice is a legitimate result.
func (g *Gatherer) GatherForClaim(ctx context.Context, userID, claim, lang string) []types.EvidenceItem {
	if !g.Enabled() {
		return g.secondaryOnly(ctx, claim, lang)
	}

	queries := g.variants.Static(claim, lang)
	merged := g.searcher.SearchVariants(ctx, queries, resultsPerQuery, maxSourcesPerClaim)
	if len(merged) < 2 {
		// Static rules came up short; let the LLM propose more queries.
		// Only the queries not already tried go out on the second pass.
		expanded := g.variants.Expand(ctx, userID, claim, lang, len(merged))
		if fresh := subtractQueries(expanded, queries); len(fresh) > 0 {
			more := g.searcher.SearchVariants(ctx, fresh, resultsPerQuery, maxSourcesPerClaim)
			merged = mergeHits(merged, more, maxSourcesPerClaim)
		}
	}

	items := g.fetchAndRank(ctx, claim, merged)
	for _, p := range g.providers {
		items = append(items, p.Lookup(ctx, claim, lang)...)
	}
	return items
}

// fetchAndRank downloads the search hits concurrently and keeps the top-ranked
// passages of each page. Pages that fail to fetch contribute their search
// snippet only, so a partial source failure never costs the whole claim.
func (g *Gatherer) fetchAndRank(ctx context.Context, claim string, hits []search.Result) []types.EvidenceItem {
	if len(hits) == 0 {
		return nil
	}
	urls := make([]string, len(hits))
	for i, h := range hits {
		urls[i] = h.URL
	}
	fetched := g.fetcher.FetchAll(ctx, urls)

	var items []types.EvidenceItem
	for i, hit := range hits {
		item := types.EvidenceItem{
			Title:   hit.Title,
			URL:     hit.URL,
			Snippet: hit.Description,
		}
		res := fetched[i]
		if res.OK {
			item.Extracts = passage.TopExtracts(claim, res.Blocks, passage.DefaultTopK)
			if item.Title == "" {
				item.Title = res.Title
			}
			if item.Snippet == "" {
				item.Snippet = res.Description
			}
		} else {
			log.Printf("evidence: source skipped url=%s reason=%s", hit.URL, res.Reason)
		}
		if item.Snippet == "" && len(item.Extracts) == 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}

// subtractQueries returns the entries of expanded that were not in tried.
func subtractQueries(expanded, tried []string) []string {
	seen := make(map[string]bool, len(tried))
	for _, q := range tried {
		seen[strings.ToLower(q)] = true
	}
	var fresh []string
	for _, q := range expanded {
		if !seen[strings.ToLower(q)] {
			fresh = append(fresh, q)
		}
	}
	return fresh
}

// mergeHits appends the second pass's results, dropping URLs the first pass
// already returned.
func mergeHits(first, second []search.Result, max int) []search.Result {
	seen := make(map[string]bool, len(first))
	for _, h := range first {
		seen[h.URL] = true
	}
	out := first
	for _, h := range second {
		if seen[h.URL] {
			continue
		}
		seen[h.URL] = true
		out = append(out, h)
		if len(out) >= max {
			break
		}
	}
	return out
}

func (g *Gatherer) secondaryOnly(ctx context.Context, claim, lang string) []types.EvidenceItem {
	var items []types.EvidenceItem
	for _, p := range g.providers {
		items = append(items, p.Lookup(ctx, claim, lang)...)
	}
	return items
}

// NonTrivial reports whether an evidence list is substantial enough to count
// toward coverage: at least one item with a real extract or snippet.
func NonTrivial(items []types.EvidenceItem) bool {
	for _, item := range items {
		for _, e := range item.Extracts {
			if len(strings.TrimSpace(e)) >= 40 {
				return true
			}
		}
		if len(strings.TrimSpace(item.Snippet)) >= 40 {
			return true
		}
	}
	return false
}

// Package sources recommends authoritative domains for follow-up reading,
// matched to the topics detected in the analyzed text.
package sources

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/budget"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
)

const (
	minRecommendations = 3
	maxRecommendations = 5
)

// topicPatterns map free text onto catalog tags.
var topicPatterns = map[string]*regexp.Regexp{
	"health":        regexp.MustCompile(`(?i)\b(health|disease|vaccine|virus|medic|drug|cancer|diabetes|symptom|therapy|clinical|epidemi)`),
	"medicine":      regexp.MustCompile(`(?i)\b(medicine|medical|diagnos|treatment|pharma|dosage|patient)`),
	"law":           regexp.MustCompile(`(?i)\b(law|legal|court|statute|regulation|treaty|constitution|lawsuit|legislat)`),
	"climate":       regexp.MustCompile(`(?i)\b(climate|warming|emission|carbon|greenhouse|sea level|glacier|co2)`),
	"finance":       regexp.MustCompile(`(?i)\b(finance|financial|stock|bond|invest|bank|interest rate|inflation|currency|crypto)`),
	"economics":     regexp.MustCompile(`(?i)\b(econom|gdp|unemployment|trade deficit|tariff|market share)`),
	"cybersecurity": regexp.MustCompile(`(?i)\b(cyber|malware|ransomware|phishing|vulnerabilit|exploit|cve-|encryption|firewall)`),
	"sports":        regexp.MustCompile(`(?i)\b(sport|football|soccer|olympic|championship|tournament|league|athlete|world cup)`),
	"science":       regexp.MustCompile(`(?i)\b(physic|chemi|biolog|quantum|molecul|experiment|scientif|genome|particle)`),
	"space":         regexp.MustCompile(`(?i)\b(space|planet|orbit|satellite|galaxy|astronaut|telescope|mars|lunar)`),
	"technology":    regexp.MustCompile(`(?i)\b(software|hardware|internet|protocol|algorithm|semiconductor|comput)`),
	"politics":      regexp.MustCompile(`(?i)\b(election|parliament|senate|president|policy|government|vote|ballot)`),
	"history":       regexp.MustCompile(`(?i)\b(history|historic|century|ancient|empire|revolution|world war|medieval)`),
	"geography":     regexp.MustCompile(`(?i)\b(geograph|continent|mountain|river|capital city|border|population of)`),
	"news":          regexp.MustCompile(`(?i)\b(today|yesterday|this week|breaking|announced|recently)`),
}

// DetectTags extracts topic tags from free text, merged with any tags the
// caller already derived from claims. "general" is always present so the
// encyclopedic entries stay eligible.
func DetectTags(text string, claimTags ...string) []string {
	seen := map[string]struct{}{"general": {}}
	tags := []string{"general"}
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	for tag, re := range topicPatterns {
		if re.MatchString(text) {
			add(tag)
		}
	}
	for _, t := range claimTags {
		add(strings.ToLower(strings.TrimSpace(t)))
	}
	sort.Strings(tags[1:])
	return tags
}

// Advisor ranks the catalog, optionally refined by a model pick.
type Advisor struct {
	runner *cascade.Runner
	tiers  []cascade.Tier
}

func New(runner *cascade.Runner, client core.Client) *Advisor {
	r := *runner
	r.Route = "sources"
	return &Advisor{
		runner: &r,
		tiers:  []cascade.Tier{{Label: "primary-model", Client: client}},
	}
}

// Recommend returns 3-5 source URLs for the given text. The model step is
// best-effort; the heuristic ranking is the floor. Budget/credit exhaustion
// is swallowed here: recommendations are advisory, never worth failing a
// report over.
func (a *Advisor) Recommend(ctx context.Context, userID, text string, claimTags []string) []string {
	tags := DetectTags(text, claimTags...)
	ranked := RankCatalog(tags)

	if picked := a.modelPick(ctx, userID, text, tags, ranked); len(picked) >= minRecommendations {
		return picked
	}
	return urls(ranked, maxRecommendations)
}

// RankCatalog scores every catalog entry against the tags: overlap rewards,
// specialization without overlap penalizes.
func RankCatalog(tags []string) []Source {
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	type scored struct {
		src   Source
		score int
	}
	list := make([]scored, 0, len(Catalog))
	for _, s := range Catalog {
		overlap := 0
		for _, t := range s.Tags {
			if _, ok := tagSet[t]; ok {
				overlap++
			}
		}
		score := overlap * 2
		if s.Specialized {
			if overlap == 0 {
				score -= 3
			} else {
				// A matching specialist beats a generalist.
				score += 2
			}
		}
		list = append(list, scored{src: s, score: score})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	out := make([]Source, len(list))
	for i, s := range list {
		out[i] = s.src
	}
	return out
}

// extraSuggestionPattern allow-lists domains a model may add beyond the
// catalog: HTTPS and an institutional TLD only.
var extraSuggestionPattern = regexp.MustCompile(`^https://[a-z0-9][a-z0-9.-]*\.(gov|edu|int|org)(/[^\s]*)?$`)

func (a *Advisor) modelPick(ctx context.Context, userID, text string, tags []string, ranked []Source) []string {
	if len(a.tiers) == 0 || a.tiers[0].Client == nil {
		return nil
	}

	shortlist := ranked
	if len(shortlist) > 15 {
		shortlist = shortlist[:15]
	}
	var sb strings.Builder
	for _, s := range shortlist {
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", s.ID, s.Name, strings.Join(s.Tags, ", "))
	}

	prompt := fmt.Sprintf(`Select the 3-5 catalog ids best suited to fact-check the text below. You may additionally suggest up to 3 HTTPS URLs on .gov/.edu/.org/.int domains, but never invent other domains.

Topics: %s

Catalog:
%s
Text:
%s

Respond with JSON only: {"ids": ["wikipedia"], "extra": ["https://example.gov/..."]}`,
		strings.Join(tags, ", "), sb.String(), truncate(text, 1500))

	raw, _, err := a.runner.Complete(ctx, userID,
		[]core.Message{{Role: "user", Content: prompt}},
		core.Options{MaxCompletionTokens: 200, JSONResponse: true},
		a.tiers)
	if err != nil {
		if budget.IsExhausted(err) {
			log.Printf("sources: model pick skipped: %v", err)
		}
		return nil
	}

	var resp struct {
		IDs   []string `json:"ids"`
		Extra []string `json:"extra"`
	}
	if err := cascade.DecodeJSON(raw, &resp); err != nil {
		log.Printf("sources: model pick unusable: %v", err)
		return nil
	}

	var out []string
	seen := map[string]struct{}{}
	for _, id := range resp.IDs {
		s, ok := Lookup(strings.ToLower(strings.TrimSpace(id)))
		if !ok {
			continue
		}
		u := "https://" + s.Domain
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == maxRecommendations {
			break
		}
	}

	extras := 0
	for _, u := range resp.Extra {
		u = strings.TrimSpace(u)
		if extras == 3 || len(out) == maxRecommendations {
			break
		}
		if !extraSuggestionPattern.MatchString(strings.ToLower(u)) {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		extras++
	}
	return out
}

func urls(ranked []Source, n int) []string {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = "https://" + s.Domain
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

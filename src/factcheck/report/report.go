// Package report reconciles every pipeline stage into one ReliabilityReport:
// language-only analysis, claim extraction, per-claim evidence verification,
// source recommendations, scoring and the final recommendation.
package report

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"golang.org/x/text/language"

	"github.com/trustlens/trustlens/src/factcheck/analyzer"
	"github.com/trustlens/trustlens/src/factcheck/claims"
	"github.com/trustlens/trustlens/src/factcheck/evidence"
	"github.com/trustlens/trustlens/src/factcheck/types"
)

const (
	reportVersion = "1.0"
	// maxEvidenceClaims bounds the sequential gather+verify loop.
	maxEvidenceClaims = 6
	// minCoverage is the evidence-coverage floor below which the score is
	// null instead of a misleadingly low number.
	minCoverage = 0.2
)

// Request is one verification job.
type Request struct {
	Text          string
	Question      string
	Source        string
	Lang          string
	UserID        string
	EvidenceCheck bool
}

// Collaborator interfaces, narrow on purpose so tests substitute fakes.
type languageAnalyzer interface {
	Analyze(ctx context.Context, userID, question, text, lang string) (analyzer.Result, error)
}

type evidenceGatherer interface {
	Enabled() bool
	GatherForClaim(ctx context.Context, userID, claim, lang string) []types.EvidenceItem
}

type claimVerifier interface {
	Verify(ctx context.Context, userID, claim string, items []types.EvidenceItem) (types.Claim, string, error)
}

type sourceAdvisor interface {
	Recommend(ctx context.Context, userID, text string, claimTags []string) []string
}

// Reconciler orchestrates one report end to end.
type Reconciler struct {
	analyzer languageAnalyzer
	gatherer evidenceGatherer
	verifier claimVerifier
	advisor  sourceAdvisor
}

func NewReconciler(a languageAnalyzer, g evidenceGatherer, v claimVerifier, adv sourceAdvisor) *Reconciler {
	return &Reconciler{analyzer: a, gatherer: g, verifier: v, advisor: adv}
}

// Generate never fails for transient or evidence-scarcity reasons; the only
// returned error is budget/credit exhaustion.
func (r *Reconciler) Generate(ctx context.Context, req Request) (types.ReliabilityReport, error) {
	lang := normalizeLang(req.Lang)
	securityWarnings := ScanSecurity(req.Text)

	analysis, err := r.analyzer.Analyze(ctx, req.UserID, req.Question, req.Text, lang)
	if err != nil {
		return types.ReliabilityReport{}, fmt.Errorf("report: %w", err)
	}

	searchEnabled := r.gatherer != nil && r.gatherer.Enabled()
	runEvidence := req.EvidenceCheck && searchEnabled && r.verifier != nil

	claimTexts := claims.Extract(req.Text, claimStrings(analysis.Claims))
	if len(claimTexts) > maxEvidenceClaims {
		claimTexts = claimTexts[:maxEvidenceClaims]
	}

	var (
		evidenceClaims []types.Claim
		allEvidence    []types.EvidenceItem
		covered        int
		checkMethod    = "skipped"
	)
	if runEvidence {
		checkMethod = "model-cascade"
		for _, claim := range claimTexts {
			items := r.gatherer.GatherForClaim(ctx, req.UserID, claim, lang)
			if evidence.NonTrivial(items) {
				covered++
			}
			verdict, tier, err := r.verifier.Verify(ctx, req.UserID, claim, items)
			if err != nil {
				return types.ReliabilityReport{}, fmt.Errorf("report: %w", err)
			}
			if tier == "local" {
				checkMethod = "degraded"
			}
			evidenceClaims = append(evidenceClaims, verdict)
			allEvidence = append(allEvidence, items...)
		}
	}

	// Evidence-grounded verdicts are authoritative: when they exist they
	// replace the language-only fact lists entirely, so no claim can show
	// up as both unconfirmed and contradictory.
	finalClaims := analysis.Claims
	scoring := "language-only"
	if len(evidenceClaims) > 0 {
		finalClaims = evidenceClaims
		scoring = "evidence-coverage"
	}
	counts := types.CountClaims(finalClaims)

	rep := types.ReliabilityReport{
		Source:                   sourceLabel(req.Source),
		TextLength:               len(req.Text),
		BraveVerificationEnabled: searchEnabled,
		HI:                       analysis.HI,
		CHR:                      analysis.CHR,
		HIPercent:                percent(analysis.HI),
		CHRPercent:               percent(analysis.CHR),
		Counts:                   counts,
		Claims:                   finalClaims,
		SecurityWarnings:         securityWarnings,
		Evidence:                 allEvidence,
		VerifiedFacts:            []string{},
		SuspiciousFacts:          []string{},
		Hallucinations:           []string{},
		Contradictions:           []string{},
		EvidenceCheck: types.EvidenceCheckInfo{
			Enabled:    runEvidence,
			ClaimCount: len(evidenceClaims),
			Method:     checkMethod,
		},
	}

	for _, c := range finalClaims {
		switch c.Classification {
		case types.Supported:
			rep.VerifiedFacts = append(rep.VerifiedFacts, c.Text)
		case types.Contradictory:
			rep.Hallucinations = append(rep.Hallucinations, c.Text)
			rep.Contradictions = append(rep.Contradictions, contradictionLine(c))
		default:
			rep.SuspiciousFacts = append(rep.SuspiciousFacts, c.Text)
		}
	}

	switch scoring {
	case "evidence-coverage":
		coverage := 0.0
		if len(evidenceClaims) > 0 {
			coverage = float64(covered) / float64(len(evidenceClaims))
		}
		risk := analyzer.HallucinationIndex(counts)
		rep.Score = &types.EvidenceScore{
			ContradictionRisk: percent(risk),
			EvidenceCoverage:  percent(coverage),
		}
		if coverage < minCoverage {
			rep.Warning = "claims were checked but too little independent evidence was found; the reliability score is inconclusive"
			rep.EvidenceCheck.Note = "insufficient evidence coverage"
		} else {
			score := int(math.Round((1 - risk) * (0.3 + 0.7*coverage) * 100))
			rep.ReliabilityScore = &score
		}
	default:
		if counts.Total == 0 {
			rep.Warning = "no verifiable factual claims were found in the text"
		} else {
			score := int(math.Round(100 * float64(counts.Supported) / float64(counts.Total)))
			rep.ReliabilityScore = &score
		}
	}

	rep.RecommendedSources = r.recommendSources(ctx, req, analysis.Sources)
	rep.Recommendation = recommendation(rep)
	rep.Audit = types.Audit{
		Version:        reportVersion,
		Lang:           lang,
		AnalysisMethod: analysis.Method,
		Scoring:        scoring,
		Notes:          auditNotes(runEvidence, searchEnabled, req.EvidenceCheck),
	}
	return rep, nil
}

func (r *Reconciler) recommendSources(ctx context.Context, req Request, analyzerSources []string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if r.advisor != nil {
		for _, s := range r.advisor.Recommend(ctx, req.UserID, req.Text, nil) {
			add(s)
		}
	}
	for _, s := range analyzerSources {
		add(s)
	}
	if len(out) > 8 {
		out = out[:8]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// recommendation is a fixed decision table over the assembled report.
func recommendation(rep types.ReliabilityReport) string {
	switch {
	case len(rep.SecurityWarnings) > 0:
		return "Alert: the text contains manipulation attempts; treat all of its content as untrusted."
	case len(rep.Hallucinations) > 0:
		return "Low reliability: the text contains claims contradicted by independent sources; do not rely on it without correction."
	case len(rep.VerifiedFacts) == 0 && len(rep.SuspiciousFacts) > 0:
		return "Caution: none of the factual claims could be confirmed; verify against the recommended sources before use."
	case rep.ReliabilityScore == nil:
		return "Inconclusive: not enough checkable content or evidence to score this text."
	case *rep.ReliabilityScore >= 80:
		return "High reliability: the checked claims are consistent with independent sources."
	case *rep.ReliabilityScore >= 50:
		return "Moderate reliability: most claims hold up, but review the unconfirmed points."
	default:
		return "Low reliability: several claims lack support; verify before use."
	}
}

func contradictionLine(c types.Claim) string {
	if c.Rationale == "" {
		return c.Text
	}
	return c.Text + ": " + c.Rationale
}

func claimStrings(in []types.Claim) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = c.Text
	}
	return out
}

func sourceLabel(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func auditNotes(ran, searchEnabled, requested bool) string {
	switch {
	case ran:
		return ""
	case requested && !searchEnabled:
		return "evidence check requested but no search provider is configured"
	case !requested:
		return "evidence check not requested"
	default:
		return ""
	}
}

// normalizeLang reduces a language hint to its BCP 47 base ("en-US" -> "en").
func normalizeLang(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "en"
	}
	tag, err := language.Parse(hint)
	if err != nil {
		log.Printf("report: unrecognized language hint %q, using en", hint)
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

package types

// Classification is the verdict for a single claim.
type Classification string

const (
	Supported     Classification = "SUPPORTED"
	NotSupported  Classification = "NOT_SUPPORTED"
	Contradictory Classification = "CONTRADICTORY"
)

// ParseClassification coerces raw model output into one of the three verdicts.
// Anything unrecognized becomes NOT_SUPPORTED: unparseable output must never be
// treated as confirmed truth, and never as automatically false either.
func ParseClassification(raw string) Classification {
	switch normalizeVerdict(raw) {
	case "SUPPORTED", "SUPPORT", "VALID", "TRUE":
		return Supported
	case "CONTRADICTORY", "CONTRADICTED", "CONTRADICTION", "REFUTED", "FALSE":
		return Contradictory
	default:
		return NotSupported
	}
}

// Confidence expresses how sure a classifier was about its verdict.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// ParseConfidence maps free-form confidence strings to the known levels.
func ParseConfidence(raw string) Confidence {
	switch normalizeVerdict(raw) {
	case "HIGH":
		return ConfidenceHigh
	case "MEDIUM", "MED", "MODERATE":
		return ConfidenceMedium
	case "LOW":
		return ConfidenceLow
	default:
		return ConfidenceUnknown
	}
}

// ClaimOrigin records which pipeline tier produced a claim.
type ClaimOrigin string

const (
	OriginDetector ClaimOrigin = "detector"
	OriginEvidence ClaimOrigin = "evidence"
)

// Claim is an atomic checkable statement plus its verdict. Immutable once
// classified; claims are never shared across requests.
type Claim struct {
	Text           string         `json:"text"`
	Classification Classification `json:"classification"`
	Score          float64        `json:"score"`
	Confidence     Confidence     `json:"confidence"`
	Rationale      string         `json:"rationale,omitempty"`
	EvidenceUsed   []string       `json:"evidenceUsed,omitempty"`
	Origin         ClaimOrigin    `json:"origin"`
}

// EvidenceItem is one retrieved web source's relevant content.
type EvidenceItem struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Snippet  string   `json:"snippet,omitempty"`
	Extracts []string `json:"extracts,omitempty"`
}

// Counts aggregates verdicts over a claim list.
// Supported+NotSupported+Contradictory always equals Total.
type Counts struct {
	Supported     int `json:"supported"`
	NotSupported  int `json:"not_supported"`
	Contradictory int `json:"contradictory"`
	Total         int `json:"total"`
}

// CountClaims derives Counts from a claim list.
func CountClaims(claims []Claim) Counts {
	var c Counts
	for _, cl := range claims {
		switch cl.Classification {
		case Supported:
			c.Supported++
		case Contradictory:
			c.Contradictory++
		default:
			c.NotSupported++
		}
	}
	c.Total = c.Supported + c.NotSupported + c.Contradictory
	return c
}

// EvidenceScore carries the evidence-grounded risk metrics, both 0-100.
type EvidenceScore struct {
	ContradictionRisk int `json:"contradictionRisk"`
	EvidenceCoverage  int `json:"evidenceCoverage"`
}

// Audit records which pipeline tier produced the report's score.
type Audit struct {
	Version        string `json:"version"`
	Lang           string `json:"lang"`
	AnalysisMethod string `json:"analysisMethod"`
	Scoring        string `json:"scoring"`
	Notes          string `json:"notes,omitempty"`
}

// EvidenceCheckInfo summarizes the evidence-verification pass for the caller.
type EvidenceCheckInfo struct {
	Enabled    bool   `json:"enabled"`
	ClaimCount int    `json:"claimCount"`
	Method     string `json:"method"`
	Note       string `json:"note,omitempty"`
}

// ReliabilityReport is the terminal artifact of one verification request.
type ReliabilityReport struct {
	Source                   string            `json:"source"`
	TextLength               int               `json:"textLength"`
	BraveVerificationEnabled bool              `json:"braveVerificationEnabled"`
	VerifiedFacts            []string          `json:"verifiedFacts"`
	SuspiciousFacts          []string          `json:"suspiciousFacts"`
	Hallucinations           []string          `json:"hallucinations"`
	Contradictions           []string          `json:"contradictions"`
	ReliabilityScore         *int              `json:"reliabilityScore"`
	Score                    *EvidenceScore    `json:"score"`
	HI                       float64           `json:"hi"`
	CHR                      float64           `json:"chr"`
	HIPercent                int               `json:"hiPercent"`
	CHRPercent               int               `json:"chrPercent"`
	Warning                  string            `json:"warning,omitempty"`
	RecommendedSources       []string          `json:"recommendedSources"`
	Counts                   Counts            `json:"counts"`
	Claims                   []Claim           `json:"claims"`
	SecurityWarnings         []string          `json:"securityWarnings"`
	Recommendation           string            `json:"recommendation"`
	Audit                    Audit             `json:"audit"`
	Evidence                 []EvidenceItem    `json:"evidence"`
	EvidenceCheck            EvidenceCheckInfo `json:"evidenceCheck"`
}

func normalizeVerdict(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r-('a'-'A'))
		case r >= 'A' && r <= 'Z' || r == '_':
			out = append(out, r)
		case r == ' ' || r == '-':
			out = append(out, '_')
		}
	}
	return string(out)
}

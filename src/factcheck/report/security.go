package report

import "regexp"

// securityPatterns flag prompt-injection and exfiltration attempts embedded
// in the analyzed text. Matches go to the report's securityWarnings list and
// force the "alert" recommendation.
var securityPatterns = []struct {
	warning string
	re      *regexp.Regexp
}{
	{"prompt injection attempt: instruction override", regexp.MustCompile(`(?i)\b(ignore|disregard|forget)\b.{0,30}\b(previous|prior|above|all|earlier)\b.{0,20}\binstructions?\b`)},
	{"prompt injection attempt: system prompt disclosure", regexp.MustCompile(`(?i)\b(reveal|show|print|repeat)\b.{0,25}\b(system\s+prompt|hidden\s+instructions?)\b`)},
	{"prompt injection attempt: role override", regexp.MustCompile(`(?i)\byou are no longer\b|\bpretend (that )?you are\b.{0,30}\bwithout (any )?(restrictions|rules|limits)\b`)},
	{"credential solicitation", regexp.MustCompile(`(?i)\b(send|share|enter|paste)\b.{0,30}\b(password|api.?key|secret.?key|credit.?card|seed.?phrase)\b`)},
	{"executable link payload", regexp.MustCompile(`(?i)(javascript:|data:text/html)`)},
}

// ScanSecurity returns one warning per matched pattern class.
func ScanSecurity(text string) []string {
	var warnings []string
	for _, p := range securityPatterns {
		if p.re.MatchString(text) {
			warnings = append(warnings, p.warning)
		}
	}
	return warnings
}

package pii

import "regexp"

// pattern pairs a compiled regex with the category it detects.
type pattern struct {
	category string
	re       *regexp.Regexp
}

var defaultPatterns = []pattern{
	{CategoryEmail, regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
	{CategoryPhone, regexp.MustCompile(`(?:\+?\d{1,2}[\s.\-]?)?\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]?\d{4}`)},
	{CategoryCredential, regexp.MustCompile(`(?i)(?:api[_\-]?key|secret|token|passwd|password)\s*[:=]\s*\S+`)},
	{CategoryCredential, regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{CategoryCredential, regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{16,}=*`)},
	{CategoryURL, regexp.MustCompile(`https?://\S+`)},
	{CategoryIP, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
}

// regexScanner is the built-in rule-based scanner: one regex pass per
// pattern, findings collected in pattern order.
type regexScanner struct {
	patterns []pattern
}

// NewRegexScanner returns the built-in scanner covering the tracked
// categories plus url and ip.
func NewRegexScanner() Scanner {
	return &regexScanner{patterns: defaultPatterns}
}

func (s *regexScanner) Scan(text string) ([]Finding, error) {
	var findings []Finding
	for _, p := range s.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			findings = append(findings, Finding{
				Category: p.category,
				Text:     text[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
			})
		}
	}
	return findings, nil
}

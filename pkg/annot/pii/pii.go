// Package pii defines the rule-based entity scanning capability and the
// built-in regex scanner. Findings carry a category label; only the tracked
// categories get dedicated output columns, every category feeds the
// aggregate flag.
package pii

// Categories the detector surfaces as dedicated columns.
const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategoryCredential = "credential"
)

// Categories the built-in scanner also recognizes. They influence only the
// aggregate flag, never a dedicated column.
const (
	CategoryURL = "url"
	CategoryIP  = "ip"
)

// Tracked is the fixed category set with dedicated output columns.
var Tracked = []string{CategoryEmail, CategoryPhone, CategoryCredential}

// Finding is one instance of detected sensitive content.
type Finding struct {
	Category string
	Text     string
	Start    int
	End      int
}

// Scanner scans text and returns all findings.
type Scanner interface {
	Scan(text string) ([]Finding, error)
}

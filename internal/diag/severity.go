package diag

import "strings"

// Severity ranks a diagnostic. The lexer and parser only report SevError.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{"info", "warning", "error"}

// Label is the lower-case word printed in front of the code: "error[SYN2001]".
func (s Severity) Label() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return "unknown"
}

// String is the upper-case spelling used by the JSON report.
func (s Severity) String() string {
	return strings.ToUpper(s.Label())
}

// IsError reports whether a diagnostic of this severity fails the run.
func (s Severity) IsError() bool {
	return s >= SevError
}

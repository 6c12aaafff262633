package types

import "strings"

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Severities lists every severity in report order, most severe first.
func Severities() []Severity {
	return []Severity{SevHigh, SevMed, SevLow}
}

// ParseSeverity accepts the canonical names case-insensitively, plus "med".
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SevHigh, true
	case "medium", "med":
		return SevMed, true
	case "low":
		return SevLow, true
	}
	return "", false
}

// Rank orders severities: high=3, medium=2, low=1, unknown=0.
func (s Severity) Rank() int {
	switch s {
	case SevHigh:
		return 3
	case SevMed:
		return 2
	case SevLow:
		return 1
	}
	return 0
}

// Finding is a single matched occurrence of a secret signature at a file and
// 1-based line. Match holds the exact matched substring and Context holds the
// matched line plus at most one neighbour on each side.
type Finding struct {
	Path        string   `json:"file"`
	Line        int      `json:"line"`
	Match       string   `json:"match"`
	Type        string   `json:"type"`
	Detector    string   `json:"detector"`
	Severity    Severity `json:"severity"`
	Context     string   `json:"context"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// EntryKind distinguishes regular files from everything else in a tree listing.
type EntryKind int

const (
	KindOther EntryKind = iota
	KindFile
)

func (k EntryKind) String() string {
	if k == KindFile {
		return "file"
	}
	return "other"
}

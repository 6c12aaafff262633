package report

import (
	"encoding/json"
	"io"

	"github.com/leakscout/leakscout/internal/types"
)

// JSONReport is the document written by WriteJSON.
type JSONReport struct {
	Repository   string          `json:"repository"`
	Findings     []types.Finding `json:"findings"`
	Warnings     []string        `json:"warnings"`
	FilesScanned int             `json:"files_scanned"`
	FilesSkipped int             `json:"files_skipped"`
	Truncated    bool            `json:"truncated"`
	Canceled     bool            `json:"canceled"`
}

// WriteJSON writes the report as indented JSON. Findings get fingerprints;
// nil slices are written as empty arrays.
func WriteJSON(w io.Writer, rep JSONReport) error {
	if rep.Findings == nil {
		rep.Findings = []types.Finding{}
	}
	rep.Findings = WithFingerprints(rep.Findings)
	if rep.Warnings == nil {
		rep.Warnings = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

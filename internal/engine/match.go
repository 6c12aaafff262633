package engine

import (
	"strings"

	"github.com/leakscout/leakscout/internal/detectors"
	"github.com/leakscout/leakscout/internal/types"
)

// ScanContent applies every catalog pattern to every line of text and returns
// one finding per non-overlapping match. Findings are emitted in catalog
// order, then by ascending line. No deduplication happens here: a line
// matched by two patterns yields two findings.
//
// Lines are split on "\n"; a trailing "\r" is stripped so CRLF files report
// the same matches and context as LF files. A nil catalog means
// detectors.Default().
func ScanContent(cat *detectors.Catalog, text, filePath string) []types.Finding {
	if cat == nil {
		cat = detectors.Default()
	}
	lines := splitLines(text)
	var out []types.Finding
	for _, p := range cat.Patterns() {
		for i, line := range lines {
			for _, m := range p.Re.FindAllString(line, -1) {
				if m == "" {
					continue
				}
				out = append(out, types.Finding{
					Path:     filePath,
					Line:     i + 1,
					Match:    m,
					Type:     p.Name,
					Detector: p.ID,
					Severity: p.Severity,
					Context:  contextWindow(lines, i),
				})
			}
		}
	}
	return out
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// contextWindow joins lines[i-1 : i+2] clamped to the slice bounds.
func contextWindow(lines []string, i int) string {
	lo := max(0, i-1)
	hi := min(len(lines), i+2)
	return strings.Join(lines[lo:hi], "\n")
}

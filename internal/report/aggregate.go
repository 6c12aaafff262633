package report

import (
	"sort"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/leakscout/leakscout/internal/types"
)

// Bucket is the findings of one severity, in their original relative order.
type Bucket struct {
	Severity types.Severity
	Findings []types.Finding
}

// Partition splits findings into HIGH, MEDIUM and LOW buckets, always in that
// order. Relative order within a bucket is preserved. A finding with an
// unrecognised severity lands in LOW so that nothing is dropped.
func Partition(findings []types.Finding) []Bucket {
	buckets := []Bucket{{Severity: types.SevHigh}, {Severity: types.SevMed}, {Severity: types.SevLow}}
	for _, f := range findings {
		switch f.Severity {
		case types.SevHigh:
			buckets[0].Findings = append(buckets[0].Findings, f)
		case types.SevMed:
			buckets[1].Findings = append(buckets[1].Findings, f)
		default:
			buckets[2].Findings = append(buckets[2].Findings, f)
		}
	}
	return buckets
}

// GroupBySeverity is Partition without the empty buckets.
func GroupBySeverity(findings []types.Finding) []Bucket {
	var out []Bucket
	for _, b := range Partition(findings) {
		if len(b.Findings) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Counts tallies findings per severity.
func Counts(findings []types.Finding) (high, med, low int) {
	for _, f := range findings {
		switch f.Severity {
		case types.SevHigh:
			high++
		case types.SevMed:
			med++
		default:
			low++
		}
	}
	return high, med, low
}

// Sort orders findings by path and line, keeping the relative order of
// findings on the same line.
func Sort(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path == findings[j].Path {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Path < findings[j].Path
	})
}

// Dedupe drops findings whose path, line and matched text repeat an earlier
// finding. The first occurrence wins.
func Dedupe(findings []types.Finding) []types.Finding {
	seen := make(map[uint64]bool, len(findings))
	out := findings[:0:0]
	for _, f := range findings {
		k := dedupeKey(f)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

func dedupeKey(f types.Finding) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(f.Path)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.Itoa(f.Line))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(f.Match)
	return d.Sum64()
}

// Fingerprint returns a stable identifier for a finding, independent of the
// line number so that it survives unrelated edits above the secret.
func Fingerprint(f types.Finding) string {
	d := xxhash.New()
	_, _ = d.WriteString(f.Detector)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(f.Path)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(f.Match)
	return fastHex(d.Sum64())
}

// WithFingerprints returns a copy of findings with Fingerprint populated.
func WithFingerprints(findings []types.Finding) []types.Finding {
	out := make([]types.Finding, len(findings))
	for i, f := range findings {
		f.Fingerprint = fingerprintOf(f)
		out[i] = f
	}
	return out
}

func fingerprintOf(f types.Finding) string {
	if f.Fingerprint != "" {
		return f.Fingerprint
	}
	return Fingerprint(f)
}

// Redact returns copies with masked matches and no context. Fingerprints are
// taken from the unmasked values first so they stay comparable across runs.
func Redact(findings []types.Finding) []types.Finding {
	out := WithFingerprints(findings)
	for i := range out {
		out[i].Match = maskValue(out[i].Match)
		out[i].Context = ""
	}
	return out
}

func fastHex(sum uint64) string {
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// ExitCode returns 1 when any finding is at or above failOn, else 0.
// An empty or unknown failOn means low, so any finding fails.
func ExitCode(findings []types.Finding, failOn string) int {
	threshold, ok := types.ParseSeverity(failOn)
	if !ok {
		threshold = types.SevLow
	}
	for _, f := range findings {
		// unknown severities count as low
		r := f.Severity.Rank()
		if r == 0 {
			r = types.SevLow.Rank()
		}
		if r >= threshold.Rank() {
			return 1
		}
	}
	return 0
}

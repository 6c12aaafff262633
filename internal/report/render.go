package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/leakscout/leakscout/internal/types"
)

type PrintOptions struct {
	NoColor bool
	// Redact masks matched values and hides context lines.
	Redact bool
	// Highlight syntax-colours context lines; ignored when NoColor is set.
	Highlight    bool
	Duration     time.Duration
	FilesScanned int
	// FilesSkipped counts oversized and binary files left unscanned.
	FilesSkipped int
}

var (
	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
)

// PrintText renders findings grouped by severity, most severe first.
// Empty severity groups are omitted.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "\nNo secrets found!")
		printFooter(w, findings, opts)
		return
	}

	fmt.Fprintf(w, "\nFound %d potential secret(s):\n\n", len(findings))
	for _, b := range GroupBySeverity(findings) {
		heading := fmt.Sprintf("%s SEVERITY (%d):", strings.ToUpper(string(b.Severity)), len(b.Findings))
		fmt.Fprintln(w, paint(b.Severity, heading, opts.NoColor))
		for _, f := range b.Findings {
			match := f.Match
			if opts.Redact {
				match = maskValue(match)
			}
			fmt.Fprintf(w, "\n  %s %s:%d\n", label("File:", opts.NoColor), f.Path, f.Line)
			fmt.Fprintf(w, "  %s %s\n", label("Type:", opts.NoColor), f.Type)
			fmt.Fprintf(w, "  %s %s\n", label("Match:", opts.NoColor), match)
			if opts.Redact {
				continue
			}
			ctx := f.Context
			if opts.Highlight && !opts.NoColor {
				ctx = Highlight(ctx, f.Path)
			}
			fmt.Fprintf(w, "  %s\n%s\n", label("Context:", opts.NoColor), indent(ctx, 4))
		}
		fmt.Fprintln(w)
	}
	printFooter(w, findings, opts)
}

// PrintTable renders findings as a bordered table, one row per finding.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) error {
	sorted := append([]types.Finding(nil), findings...)
	Sort(sorted)
	if len(sorted) == 0 {
		fmt.Fprintln(w, "No secrets found!")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Severity", "Type", "File", "Line", "Match")
		for _, b := range Partition(sorted) {
			for _, f := range b.Findings {
				match := f.Match
				if opts.Redact {
					match = maskValue(match)
				}
				row := []string{string(b.Severity), f.Type, f.Path, strconv.Itoa(f.Line), match}
				if err := table.Append(row); err != nil {
					return err
				}
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(w, sorted, opts)
	return nil
}

// PrintWarnings lists warnings after a report so that incomplete coverage is
// disclosed next to the results.
func PrintWarnings(w io.Writer, warnings []string, noColor bool) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", paint(types.SevMed, fmt.Sprintf("Warnings (%d), results may be incomplete:", len(warnings)), noColor))
	for _, msg := range warnings {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 && opts.FilesSkipped <= 0 {
		return
	}
	high, med, low := Counts(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", len(findings), high, med, low)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.FilesSkipped > 0 {
		fmt.Fprintf(w, "Files skipped (oversized or binary): %d\n", opts.FilesSkipped)
	}
}

func indent(text string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

func maskValue(s string) string {
	r := []rune(s)
	if len(r) <= 8 {
		return "********"
	}
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}

// MaskValue hides the middle of a secret for display.
func MaskValue(s string) string { return maskValue(s) }

func paint(s types.Severity, text string, noColor bool) string {
	if noColor {
		return text
	}
	return SeverityStyle(s).Render(text)
}

func label(text string, noColor bool) string {
	if noColor {
		return text
	}
	return labelStyle.Render(text)
}

// SeverityStyle returns the colour style used for s.
func SeverityStyle(s types.Severity) lipgloss.Style {
	switch s {
	case types.SevHigh:
		return sevHighStyle
	case types.SevMed:
		return sevMedStyle
	default:
		return sevLowStyle
	}
}

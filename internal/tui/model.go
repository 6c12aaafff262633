package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leakscout/leakscout/internal/report"
	"github.com/leakscout/leakscout/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const defaultStatus = "q: quit | ?: help | j/k: navigate | /: search | 1-3: severity | r: rescan | c: copy"

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "HIGH"
	case types.SevMed:
		return "MED"
	case types.SevLow:
		return "LOW"
	default:
		return string(s)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// Result is what a rescan returns.
type Result struct {
	Findings []types.Finding
	Warnings []string
}

// Model represents the main state of the TUI application.
type Model struct {
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model

	repo             string
	findings         []types.Finding
	warnings         []string
	filteredFindings []types.Finding // nil = no filter
	filteredIndices  []int           // maps filtered index to findings index

	quitting      bool
	ready         bool // terminal dimensions are known
	scanning      bool
	showEmpty     bool
	showHelp      bool
	showWarnings  bool
	hideSecrets   bool
	lastScanTime  time.Time
	height, width int

	statusMessage string
	statusTimeout *time.Time
	rescanFunc    func() (Result, error)

	searchMode     bool
	searchInput    textinput.Model
	searchQuery    string
	severityFilter types.Severity

	sortBySeverity bool
}

// NewModel initializes a new TUI model. rescanFunc may be nil.
func NewModel(repo string, res Result, rescanFunc func() (Result, error)) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 6},
		{Title: "Type", Width: 24},
		{Title: "Path", Width: 40},
		{Title: "Line", Width: 6},
		{Title: "Match", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search path, type, or match..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	m := Model{
		table:         t,
		spinner:       sp,
		repo:          repo,
		rescanFunc:    rescanFunc,
		lastScanTime:  time.Now(),
		searchInput:   ti,
		hideSecrets:   LoadPrefs().HideSecrets,
		statusMessage: defaultStatus,
	}
	m.setResult(res)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

type findingsMsg Result

type statusMsg string

func (m *Model) setResult(res Result) {
	m.findings = append([]types.Finding(nil), res.Findings...)
	m.warnings = res.Warnings
	report.Sort(m.findings)
	if m.sortBySeverity {
		m.sortFindings()
	}
	m.applyFilters()
}

func (m *Model) rescan() tea.Cmd {
	fn := m.rescanFunc
	return func() tea.Msg {
		if fn == nil {
			return statusMsg("Rescan not available")
		}
		res, err := fn()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return findingsMsg(res)
	}
}

func (m *Model) applyFilters() {
	if m.searchQuery == "" && m.severityFilter == "" {
		m.filteredFindings = nil
		m.filteredIndices = nil
		m.rebuildTableRows()
		return
	}

	filtered := []types.Finding{}
	var indices []int
	query := strings.ToLower(m.searchQuery)
	for i, f := range m.findings {
		if m.severityFilter != "" && f.Severity != m.severityFilter {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.Path), query) &&
			!strings.Contains(strings.ToLower(f.Type), query) &&
			!strings.Contains(strings.ToLower(f.Match), query) {
			continue
		}
		filtered = append(filtered, f)
		indices = append(indices, i)
	}
	m.filteredFindings = filtered
	m.filteredIndices = indices
	m.rebuildTableRows()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.severityFilter = ""
	m.searchInput.SetValue("")
	m.applyFilters()
}

func (m *Model) displayMatch(s string) string {
	if m.hideSecrets {
		return redactSecret(s)
	}
	return s
}

func (m *Model) rebuildTableRows() {
	findings := m.getDisplayFindings()
	rows := make([]table.Row, len(findings))
	for i, f := range findings {
		rows[i] = table.Row{severityText(f.Severity), f.Type, f.Path, fmt.Sprint(f.Line), m.displayMatch(f.Match)}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(findings) {
		m.table.SetCursor(0)
	}
	m.showEmpty = len(findings) == 0
	m.updateViewportContent()
}

func (m *Model) getDisplayFindings() []types.Finding {
	if m.filteredFindings != nil {
		return m.filteredFindings
	}
	return m.findings
}

// selected returns the finding under the cursor.
func (m *Model) selected() (types.Finding, bool) {
	findings := m.getDisplayFindings()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(findings) {
		return types.Finding{}, false
	}
	return findings[idx], true
}

// jumpToNextSeverity finds next finding with given severity (direction: 1=forward, -1=backward).
func (m *Model) jumpToNextSeverity(severity types.Severity, direction int) bool {
	findings := m.getDisplayFindings()
	n := len(findings)
	if n == 0 {
		return false
	}
	current := m.table.Cursor()
	for i := 1; i <= n; i++ {
		idx := (current + direction*i%n + n) % n
		if findings[idx].Severity == severity {
			m.table.SetCursor(idx)
			m.updateViewportContent()
			return true
		}
	}
	return false
}

func (m *Model) toggleSortBySeverity() {
	m.sortBySeverity = !m.sortBySeverity
	if m.sortBySeverity {
		m.sortFindings()
	} else {
		report.Sort(m.findings)
	}
	m.applyFilters()
}

func (m *Model) sortFindings() {
	sort.SliceStable(m.findings, func(i, j int) bool {
		return m.findings[i].Severity.Rank() > m.findings[j].Severity.Rank()
	})
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	f, ok := m.selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderFinding(f))
}

func (m *Model) renderFinding(f types.Finding) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Finding Details") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Path:"), f.Path)
	fmt.Fprintf(&b, "%s %d\n", keyStyle.Render("Line:"), f.Line)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Type:"), f.Type)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Pattern:"), f.Detector)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Severity:"), report.SeverityStyle(f.Severity).Render(string(f.Severity)))
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Match:"), m.displayMatch(f.Match))

	b.WriteString("\n" + keyStyle.Render("Context:") + "\n")
	if m.hideSecrets {
		b.WriteString(hintStyle.Render("(hidden, press s to show secrets)"))
		return b.String()
	}
	ctx := f.Context
	if ctx == "" {
		ctx = f.Match
	}
	first := max(1, f.Line-1)
	for i, line := range strings.Split(ctx, "\n") {
		num := hintStyle.Render(fmt.Sprintf("%4d ", first+i))
		text := report.Highlight(line, f.Path)
		text = strings.TrimSuffix(text, "\n")
		if first+i == f.Line && f.Match != "" {
			text = strings.ReplaceAll(text, f.Match, matchStyle.Render(f.Match))
		}
		b.WriteString(num + text + "\n")
	}
	return b.String()
}

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp || m.showWarnings {
			m.showHelp = false
			m.showWarnings = false
			return m, nil
		}

		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchQuery = m.searchInput.Value()
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.searchInput.SetValue(m.searchQuery)
				m.applyFilters()
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "w":
			if len(m.warnings) > 0 {
				m.showWarnings = true
			}
			return m, nil
		case "/":
			if len(m.findings) > 0 {
				m.searchMode = true
				m.searchInput.SetValue(m.searchQuery)
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "1", "2", "3":
			sev := map[string]types.Severity{"1": types.SevHigh, "2": types.SevMed, "3": types.SevLow}[msg.String()]
			m.severityFilter = sev
			m.applyFilters()
			m.setStatus(fmt.Sprintf("Showing %s severity only (Esc to clear)", severityText(sev)), 3*time.Second)
			return m, nil
		case "esc":
			if m.searchQuery != "" || m.severityFilter != "" {
				m.clearFilters()
				m.setStatus("Filters cleared", 3*time.Second)
			}
			return m, nil
		case "n":
			if f, ok := m.selected(); ok {
				m.jumpToNextSeverity(f.Severity, 1)
			}
			return m, nil
		case "N":
			if f, ok := m.selected(); ok {
				m.jumpToNextSeverity(f.Severity, -1)
			}
			return m, nil
		case "S":
			m.toggleSortBySeverity()
			return m, nil
		case "s":
			m.hideSecrets = !m.hideSecrets
			_ = SavePrefs(Prefs{HideSecrets: m.hideSecrets})
			m.rebuildTableRows()
			return m, nil
		case "c":
			return m, m.copyPathToClipboard()
		case "y":
			return m, m.copyFindingToClipboard()
		case "r":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.rescan())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		usableWidth := m.width - 12
		sevWidth, typeWidth, lineWidth := 6, 24, 6
		remaining := usableWidth - sevWidth - typeWidth - lineWidth
		pathWidth := max(25, int(float64(remaining)*0.5))
		matchWidth := max(20, remaining-pathWidth)

		cols := m.table.Columns()
		cols[0].Width = sevWidth
		cols[1].Width = typeWidth
		cols[2].Width = pathWidth
		cols[3].Width = lineWidth
		cols[4].Width = matchWidth
		m.table.SetColumns(cols)

		statsHeaderHeight := 1
		availableHeight := m.height - lipgloss.Height(statusStyle.Render("")) - statsHeaderHeight
		tableHeight := int(float64(availableHeight) * 0.45)
		viewportHeight := availableHeight - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1

		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()
		statusStyle = statusStyle.Width(m.width)

	case findingsMsg:
		m.setResult(Result(msg))
		m.scanning = false
		m.lastScanTime = time.Now()
		if len(m.findings) == 0 {
			m.setStatus("Rescan complete - no secrets found", 5*time.Second)
		} else {
			m.setStatus(fmt.Sprintf("Rescan complete - found %d findings", len(m.findings)), 5*time.Second)
		}
		return m, nil

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg), 3*time.Second)
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = defaultStatus
		}
		return m, spinCmd
	}

	if !m.quitting && !m.showEmpty {
		m.table, cmd = m.table.Update(msg)
	}
	m.updateViewportContent()
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	if m.scanning {
		msgContent := fmt.Sprintf("%s  Rescanning %s...\n\nPlease wait", m.spinner.View(), m.repo)
		popupBox := popupStyle.Width(55).Align(lipgloss.Center).Render(msgContent)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupBox)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText))
	}
	if m.showWarnings {
		body := titleStyle.Render(fmt.Sprintf("Warnings (%d)", len(m.warnings))) + "\n\n" + strings.Join(m.warnings, "\n")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(body))
	}

	display := m.getDisplayFindings()
	high, med, low := report.Counts(display)

	var statsContent string
	if len(m.findings) == 0 {
		statsContent = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("[OK] No secrets detected in " + m.repo)
	} else {
		var filterInfo string
		if m.searchQuery != "" || m.severityFilter != "" {
			var parts []string
			if m.searchQuery != "" {
				parts = append(parts, fmt.Sprintf("search:'%s'", m.searchQuery))
			}
			if m.severityFilter != "" {
				parts = append(parts, fmt.Sprintf("sev:%s", severityText(m.severityFilter)))
			}
			filterInfo = fmt.Sprintf("  [FILTER: %s]", strings.Join(parts, ", "))
		}
		statsContent = fmt.Sprintf(
			"%s  |  Showing: %d/%d  |  %s %-4d  |  %s %-4d  |  %s %-4d%s",
			m.repo,
			len(display), len(m.findings),
			sevHighStyle.Render("High:"), high,
			sevMedStyle.Render("Med:"), med,
			sevLowStyle.Render("Low:"), low,
			filterInfo,
		)
	}
	if len(m.warnings) > 0 {
		statsContent += sevMedStyle.Render(fmt.Sprintf("  [%d warnings, w to view]", len(m.warnings)))
	}

	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(statsContent)

	tableRender := tableBorderStyle.
		Width(m.width).
		Height(m.table.Height()).
		Render(m.table.View())

	var detailContent string
	if len(display) == 0 {
		emptyMsg := "No secrets to review.\n\nPress 'r' to rescan\nPress '?' for help"
		if len(m.findings) > 0 {
			emptyMsg = "No findings match filter.\n\nPress 'Esc' to clear filter"
		}
		detailContent = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(emptyMsg))
	} else {
		detailContent = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.
		Width(m.width).
		Height(m.viewport.Height).
		Render(detailContent)

	status := m.statusMessage
	if m.searchMode {
		status = m.searchInput.View()
	}
	status = fmt.Sprintf("%s  |  scanned %s ago", status, formatDuration(time.Since(m.lastScanTime)))

	return lipgloss.JoinVertical(lipgloss.Left, statsHeader, tableRender, detailRender, statusStyle.Render(status))
}

const helpText = `Keys

j/k, up/down   move
n / N          next / previous finding of the same severity
/              search path, type or match
1 / 2 / 3      show HIGH / MEDIUM / LOW only
esc            clear filters
S              toggle severity sort
s              show / hide secrets
c              copy path:line
y              copy finding details
w              show scan warnings
r              rescan
q              quit`

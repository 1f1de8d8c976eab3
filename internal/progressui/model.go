// Package progressui provides the Bubble Tea progress interface.
package progressui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/stats"
	"github.com/verte-zerg/tuistrum/internal/store"
)

const (
	tabOverview = iota
	tabPatterns
	tabAchievements
)

const (
	weakTop          = 3
	mostPracticedTop = 3
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#595959"))
)

// CloseMsg is emitted when the user leaves the progress screen.
type CloseMsg struct{}

// Config selects what the progress screen shows.
type Config struct {
	Filter store.Filter
	// TimeLimits maps catalog pattern ids to their time limit in seconds.
	TimeLimits  map[int]int
	CurveWindow int
}

// Model implements the Bubble Tea progress UI.
type Model struct {
	store *store.Store
	cfg   Config

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a progress UI model.
func NewModel(st *store.Store, cfg Config) *Model {
	if cfg.CurveWindow < 1 {
		cfg.CurveWindow = 1
	}
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Patterns", "Achievements"},
	}
	m.initInputs()
	m.table = buildPatternTable(nil, 0, 1)
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.Refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the layout for the given terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.updateLayout()
	m.renderTabContents()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc", "tab":
			return m, func() tea.Msg { return CloseMsg{} }
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "=":
			m.cfg.CurveWindow++
			m.Refresh()
			return m, nil
		case "-":
			if m.cfg.CurveWindow > 1 {
				m.cfg.CurveWindow--
			}
			m.Refresh()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabPatterns {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabPatterns {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabPatterns {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Refresh reloads the report from the store.
func (m *Model) Refresh() {
	report, err := stats.BuildReport(context.Background(), m.store, stats.ReportConfig{
		Filter:           m.cfg.Filter,
		TimeLimits:       m.cfg.TimeLimits,
		CurveWindow:      m.cfg.CurveWindow,
		WeakTop:          weakTop,
		MostPracticedTop: mostPracticedTop,
	})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	m.table.SetRows(patternRows(report.Patterns))
	m.renderTabContents()
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Pattern ID: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 6
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Filter.PatternID > 0 {
		m.filterInputs[0].SetValue(strconv.Itoa(m.cfg.Filter.PatternID))
	} else {
		m.filterInputs[0].SetValue("")
	}
	m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, bodyHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabPatterns {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	pattern := "all"
	if m.cfg.Filter.PatternID > 0 {
		pattern = strconv.Itoa(m.cfg.Filter.PatternID)
	}
	summary := fmt.Sprintf("Settings: pattern=%s  window=%d", pattern, m.cfg.CurveWindow)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Settings: /  Back: tab/esc")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	}
	if m.activeTab == tabPatterns {
		if len(m.report.Patterns) == 0 {
			return fitLines("No attempts yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, len(m.cfg.TimeLimits), width))
	m.viewports[tabAchievements].SetContent(renderAchievements(m.report.Achievements))
}

func renderOverview(report stats.Report, catalogSize, width int) string {
	s := report.Summary
	if s.Attempts == 0 {
		return "No attempts yet. Start a pattern to see your progress."
	}
	cards := []string{
		metricCard("Attempts", fmt.Sprintf("%d", s.Attempts)),
		metricCard("Success", fmt.Sprintf("%.0f%%", s.SuccessRate()*100)),
		metricCard("Points", fmt.Sprintf("%d", s.TotalPoints)),
		metricCard("Best", fmt.Sprintf("%d", s.BestPoints)),
		metricCard("Learned", fmt.Sprintf("%d/%d", s.PatternsLearned, catalogSize)),
		metricCard("Timeouts", fmt.Sprintf("%d", s.Timeouts)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{summary, ""}
	curve := report.PointsCurve
	if limit := width - 2; limit > 0 && len(curve) > limit {
		curve = curve[len(curve)-limit:]
	}
	lines = append(lines, cardTitleStyle.Render("Points per attempt"), stats.Sparkline(curve))
	if len(report.Weak) > 0 {
		lines = append(lines, "", cardTitleStyle.Render("Needs practice"))
		for _, agg := range report.Patterns {
			if _, ok := report.Weak[agg.PatternID]; ok {
				lines = append(lines, fmt.Sprintf("  %s (%.0f%%)", agg.PatternName, stats.SuccessRate(agg)*100))
			}
		}
	}
	if len(report.MostPracticed) > 0 {
		byID := make(map[int]model.PatternAggregate, len(report.Patterns))
		for _, agg := range report.Patterns {
			byID[agg.PatternID] = agg
		}
		lines = append(lines, "", cardTitleStyle.Render("Most practiced"))
		for i, id := range report.MostPracticed {
			agg := byID[id]
			lines = append(lines, fmt.Sprintf("  %d. %s (%d attempts)", i+1, agg.PatternName, agg.Attempts))
		}
	}
	return strings.Join(lines, "\n")
}

func renderAchievements(list []stats.Achievement) string {
	lines := make([]string, 0, len(list)+2)
	lines = append(lines, fmt.Sprintf("%d of %d unlocked", stats.UnlockedCount(list), len(list)), "")
	for _, a := range list {
		mark := lockedStyle.Render("·")
		title := lockedStyle.Render(a.Title)
		if a.Unlocked {
			mark = unlockedStyle.Render("✓")
			title = cardValueStyle.Render(a.Title)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", mark, title, headerStyle.Render(a.Description)))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func patternColumns() []table.Column {
	widths := []int{3, 18, 8, 8, 5, 7}
	cols := make([]table.Column, len(stats.PatternHeaders))
	for i, title := range stats.PatternHeaders {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func patternRows(aggs []model.PatternAggregate) []table.Row {
	cells := stats.PatternRows(aggs)
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}

func buildPatternTable(aggs []model.PatternAggregate, width, height int) table.Model {
	t := table.New(
		table.WithColumns(patternColumns()),
		table.WithRows(patternRows(aggs)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.Refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	idx = (idx + count) % count
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	patternInput := strings.TrimSpace(m.filterInputs[0].Value())
	patternID := 0
	if patternInput != "" {
		parsed, err := strconv.Atoi(patternInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid pattern id (use 0 or positive integer)")
		}
		patternID = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[1].Value())
	window := 1
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg.Filter.PatternID = patternID
	m.cfg.CurveWindow = window
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

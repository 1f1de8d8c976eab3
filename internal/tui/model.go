// Package tui provides the Bubble Tea strumming practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuistrum/internal/catalog"
	"github.com/verte-zerg/tuistrum/internal/generator"
	"github.com/verte-zerg/tuistrum/internal/gesture"
	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/practice"
	"github.com/verte-zerg/tuistrum/internal/progressui"
	statsPkg "github.com/verte-zerg/tuistrum/internal/stats"
	"github.com/verte-zerg/tuistrum/internal/store"
)

const (
	curveWindow        = 5
	weakTop            = 3
	verticalStringRows = 8
)

var stringNames = []string{"e", "B", "G", "D", "A", "E"}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9D9D9"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	stringStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A67C52"))
	timerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	timerLowStyle  = timerStyle.Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Options wires the practice screen to its collaborators.
type Options struct {
	Config    model.Config
	Catalog   *catalog.Catalog
	Store     *store.Store
	Generator *generator.Generator
	Logger    *slog.Logger
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.Config
	catalog *catalog.Catalog
	store   *store.Store
	gen     *generator.Generator
	logger  *slog.Logger

	engine   *practice.Engine
	sched    *cmdScheduler
	tracker  *gesture.Tracker
	progress *progressui.Model

	weakSet map[int]struct{}
	summary statsPkg.Summary
	curve   []float64
	errMsg  string

	width  int
	height int
}

// NewModel constructs a practice TUI model.
func NewModel(opts Options) (*Model, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, errors.New("pattern catalog is empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gen := opts.Generator
	if gen == nil {
		gen = generator.New()
	}
	m := &Model{
		config:  opts.Config,
		catalog: opts.Catalog,
		store:   opts.Store,
		gen:     gen,
		logger:  logger,
		sched:   &cmdScheduler{},
		tracker: gesture.NewTracker(opts.Config.MinDistance, opts.Config.RowScale),
		weakSet: map[int]struct{}{},
	}
	m.tracker.Rotated = opts.Config.Rotated

	initial := opts.Catalog.At(0)
	if opts.Config.PatternID != 0 {
		p, ok := opts.Catalog.ByID(opts.Config.PatternID)
		if !ok {
			return nil, fmt.Errorf("pattern %d not found in catalog", opts.Config.PatternID)
		}
		initial = p
	}

	engine, err := practice.NewEngine(initial, practice.Options{
		Timing: practice.Timing{
			Tick:         opts.Config.Timing.Tick,
			SuccessDelay: opts.Config.Timing.SuccessDelay,
			FailureDelay: opts.Config.Timing.FailureDelay,
			TimeoutDelay: opts.Config.Timing.TimeoutDelay,
		},
		Scheduler: m.sched,
		Observer:  practice.ObserverFunc(m.recordAttempt),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	m.engine = engine
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.progress != nil {
			m.progress.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case eventMsg:
		m.engine.Deliver(msg.ev)
		return m, m.sched.flush()
	case progressui.CloseMsg:
		m.progress = nil
		return m, tea.ClearScreen
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.progress != nil {
			_, cmd := m.progress.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.progress != nil {
			return m, nil
		}
		m.handleMouse(msg)
		return m, m.sched.flush()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.progress != nil {
		return m.progress.View()
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 20 {
		contentWidth = m.width
	}
	content := m.renderContent(contentWidth)
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.errMsg = ""
	switch m.engine.Phase() {
	case practice.PhaseIdle:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.selectOffset(-1)
		case "right", "l":
			m.selectOffset(1)
		case "n":
			m.selectNext()
		case "enter", " ", "space":
			m.tracker.Cancel()
			m.engine.StartRecording()
		case "tab":
			m.openProgress()
			return m, tea.ClearScreen
		}
	case practice.PhaseRecording:
		switch key {
		case "j", "down":
			m.engine.RecordStrum(catalog.Down, time.Now())
		case "k", "up":
			m.engine.RecordStrum(catalog.Up, time.Now())
		case "enter", " ", "space":
			m.engine.StopRecording()
		case "r":
			m.engine.ResetPractice()
		case "esc", "q":
			m.engine.Exit()
		}
	default:
		switch key {
		case "r":
			m.engine.ResetPractice()
		case "esc", "q":
			m.engine.Exit()
		}
	}
	return m, m.sched.flush()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.tracker.Press(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		dir, ok := m.tracker.Release(msg.X, msg.Y)
		if !ok {
			return
		}
		if !m.engine.RecordStrum(dir, time.Now()) {
			m.logger.Debug("strum dropped", "direction", string(dir), "phase", m.engine.Phase().String())
		}
	}
}

func (m *Model) selectOffset(delta int) {
	n := m.catalog.Len()
	idx := m.catalog.IndexOf(m.engine.Pattern().ID)
	next := ((idx+delta)%n + n) % n
	m.selectPattern(m.catalog.At(next))
}

func (m *Model) selectNext() {
	var weak map[int]struct{}
	if m.config.FocusWeak {
		weak = m.weakSet
	}
	if p := m.gen.PickWeighted(m.catalog.All(), m.engine.Pattern().ID, weak, m.config.WeakFactor); p != nil {
		m.selectPattern(p)
	}
}

func (m *Model) selectPattern(p *catalog.Pattern) {
	if err := m.engine.SelectPattern(p); err != nil {
		m.errMsg = err.Error()
		m.logger.Warn("failed to select pattern", "pattern", p.ID, "err", err)
	}
}

func (m *Model) openProgress() {
	if m.store == nil {
		m.errMsg = "progress is unavailable"
		return
	}
	limits := make(map[int]int, m.catalog.Len())
	for _, p := range m.catalog.All() {
		limits[p.ID] = p.TimeLimitSeconds
	}
	m.progress = progressui.NewModel(m.store, progressui.Config{
		TimeLimits:  limits,
		CurveWindow: curveWindow,
	})
	m.progress.SetSize(m.width, m.height)
}

func (m *Model) recordAttempt(a model.Attempt) {
	if m.store == nil {
		return
	}
	if _, err := m.store.InsertAttempt(context.Background(), a); err != nil {
		m.logger.Warn("failed to save attempt", "pattern", a.PatternID, "err", err)
		return
	}
	m.loadFooterStats()
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	aggs, err := m.store.PatternAggregates(ctx, store.Filter{})
	if err != nil {
		m.logger.Warn("failed to load pattern stats", "err", err)
		return
	}
	attempts, err := m.store.ListAttempts(ctx, store.Filter{})
	if err != nil {
		m.logger.Warn("failed to load attempts", "err", err)
		return
	}
	m.summary = statsPkg.Summarize(aggs)
	m.curve = statsPkg.PointsSeries(attempts, curveWindow)
	if m.config.FocusWeak {
		m.weakSet = statsPkg.SelectWeakPatterns(aggs, weakTop)
	}
}

func (m *Model) renderContent(width int) string {
	snap := m.engine.Snapshot()
	p := snap.Pattern
	lines := []string{
		titleStyle.Render(p.Name) + "  " + mutedStyle.Render(catalog.Stars(p.Difficulty)+" "+p.DifficultyLabel),
		mutedStyle.Render(fmt.Sprintf("%d BPM · %ds limit · target %.0fms · score %d", p.BPM, p.TimeLimitSeconds, p.TargetSpeedMillis, snap.Score)),
		"",
	}

	cursor := -1
	if snap.Phase == practice.PhaseRecording {
		cursor = len(snap.Captured)
	}
	var captured []catalog.Direction
	if snap.Phase != practice.PhaseIdle {
		captured = snap.Captured
	}
	lines = append(lines, wrapStyledRunes(buildSequenceRunes(p.Sequence, captured, cursor), width), "")

	switch snap.Phase {
	case practice.PhaseIdle:
		lines = append(lines, renderDetail(p)...)
		lines = append(lines, "", mutedStyle.Render("←/→ choose · n shuffle · enter start · tab progress · q quit"))
	case practice.PhaseRecording:
		lines = append(lines, renderTimer(snap.Remaining, p.TimeLimitSeconds)+"  "+mutedStyle.Render(fmt.Sprintf("%d/%d", len(snap.Captured), p.Len())), "")
		if m.config.Rotated {
			lines = append(lines, renderStringsVertical()...)
			lines = append(lines, "", mutedStyle.Render("drag left/right across the strings or j/k · enter stop · r reset · esc exit"))
		} else {
			lines = append(lines, renderStrings(width)...)
			lines = append(lines, "", mutedStyle.Render("drag across the strings or j/k · enter stop · r reset · esc exit"))
		}
	default:
		if snap.Feedback != nil {
			style := incorrectStyle
			if snap.Feedback.Success() {
				style = correctStyle
			}
			lines = append(lines, style.Render(feedbackText(*snap.Feedback, p)))
		}
		lines = append(lines, "", mutedStyle.Render("r reset · esc exit"))
	}
	if m.errMsg != "" {
		lines = append(lines, incorrectStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func renderDetail(p *catalog.Pattern) []string {
	var lines []string
	if p.Description != "" {
		lines = append(lines, textStyle.Render(p.Description))
	}
	if p.Instructions != "" {
		lines = append(lines, "", textStyle.Render(p.Instructions))
	}
	if len(p.Tips) > 0 {
		lines = append(lines, "")
		for _, tip := range p.Tips {
			lines = append(lines, mutedStyle.Render("• "+tip))
		}
	}
	return lines
}

func renderTimer(remaining, limit int) string {
	style := timerStyle
	if remaining*4 <= limit {
		style = timerLowStyle
	}
	return style.Render(fmt.Sprintf("%ds", remaining))
}

func renderStrings(width int) []string {
	length := width - 2
	if length < 8 {
		length = 8
	}
	lines := make([]string, len(stringNames))
	for i, name := range stringNames {
		lines[i] = mutedStyle.Render(name) + " " + stringStyle.Render(strings.Repeat("─", length))
	}
	return lines
}

// renderStringsVertical draws the strings as columns, low E on the left, so a
// rightward drag crosses them in down-strum order.
func renderStringsVertical() []string {
	names := make([]string, len(stringNames))
	for i, name := range stringNames {
		names[len(stringNames)-1-i] = mutedStyle.Render(name)
	}
	column := stringStyle.Render("│")
	columns := make([]string, len(stringNames))
	for i := range columns {
		columns[i] = column
	}
	lines := []string{strings.Join(names, "  ")}
	row := strings.Join(columns, "  ")
	for i := 0; i < verticalStringRows; i++ {
		lines = append(lines, row)
	}
	return lines
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Score %d", m.engine.Score()),
		fmt.Sprintf("Attempts %d", m.engine.Snapshot().Attempts),
		fmt.Sprintf("Learned %d/%d", m.summary.PatternsLearned, m.catalog.Len()),
	}
	if m.summary.Attempts > 0 {
		segments = append(segments, fmt.Sprintf("Success %.0f%%", m.summary.SuccessRate()*100))
	}
	if len(m.curve) > 1 {
		curve := m.curve
		if len(curve) > 20 {
			curve = curve[len(curve)-20:]
		}
		segments = append(segments, statsPkg.Sparkline(curve))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

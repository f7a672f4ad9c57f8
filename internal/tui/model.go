// Package tui provides the Bubble Tea interface for the monkey.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typermonkey/internal/collection"
	"github.com/verte-zerg/typermonkey/internal/github"
	"github.com/verte-zerg/typermonkey/internal/longpress"
	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/page"
	"github.com/verte-zerg/typermonkey/internal/schedule"
	"github.com/verte-zerg/typermonkey/internal/session"
	"github.com/verte-zerg/typermonkey/internal/stream"
)

const (
	margin      = 2
	saveTimeout = 5 * time.Second
	starTimeout = 10 * time.Second
)

// SessionSaver persists finished runs.
type SessionSaver interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
}

// StarCounter looks up a repository's star count.
type StarCounter interface {
	Stars(ctx context.Context, repo string) (int, error)
}

// Dispatcher runs scheduler callbacks delivered as messages.
type Dispatcher interface {
	Dispatch(f schedule.Fire) bool
}

// Options wires the model to its collaborators. Store, Stars and Logger are
// optional.
type Options struct {
	Config     model.Config
	Dictionary stream.Lookup
	Producer   session.Producer
	Scheduler  schedule.Scheduler
	Dispatcher Dispatcher
	Store      SessionSaver
	Stars      StarCounter
	Nickname   string
	Logger     *log.Logger
}

type zone struct {
	x0, x1, y int
	ok        bool
}

func (z zone) contains(x, y int) bool {
	return z.ok && y == z.y && x >= z.x0 && x < z.x1
}

type starsMsg struct {
	count int
	err   error
}

type savedMsg struct {
	saved int
	err   error
}

// Model implements the Bubble Tea monkey UI.
type Model struct {
	cfg        model.Config
	dispatcher Dispatcher
	engine     *stream.Engine
	pager      *page.Pager
	ctrl       *session.Controller
	gesture    *longpress.Gesture
	saver      SessionSaver
	stars      StarCounter
	logger     *log.Logger
	nickname   string

	keys    keyMap
	help    help.Model
	bar     progress.Model
	table   table.Model
	entries []collection.Entry

	showCollection bool
	starCount      int
	hasStars       bool
	status         string
	statusErr      bool
	pending        []model.SessionRecord
	button         zone
	pressed        bool
	quitting       bool
}

// NewModel builds the engine, pager and controller for cfg.
func NewModel(opts Options) (*Model, error) {
	cfg := opts.Config
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if opts.Producer == nil {
		return nil, fmt.Errorf("producer is required")
	}
	if opts.Dictionary == nil {
		return nil, fmt.Errorf("dictionary is required")
	}
	geo := page.Geometry{CharsPerLine: cfg.CharsPerLine, LinesPerPage: cfg.LinesPerPage}
	if geo.CharsPerLine == 0 && geo.LinesPerPage == 0 {
		geo = page.DefaultGeometry
	}
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	tie, err := stream.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}
	if cfg.Repo == "" {
		cfg.Repo = github.DefaultRepo
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	engine := stream.New(opts.Dictionary, stream.WithTieBreak(tie))
	pager := page.NewPager(geo, opts.Scheduler, page.DefaultFlipDelay)
	ctrl := session.New(opts.Scheduler, engine, pager, opts.Producer, session.Options{TypingInterval: cfg.TypingInterval})
	if cfg.Duration > 0 {
		ctrl.SelectDuration(cfg.Duration)
	}

	m := &Model{
		cfg:        cfg,
		dispatcher: opts.Dispatcher,
		engine:     engine,
		pager:      pager,
		ctrl:       ctrl,
		saver:      opts.Store,
		stars:      opts.Stars,
		logger:     logger,
		nickname:   opts.Nickname,
		keys:       defaultKeyMap(),
		help:       help.New(),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		table:      newCollectionTable(geo.LinesPerPage),
	}
	m.gesture = longpress.New(opts.Scheduler, longpress.DefaultThreshold, longpress.DefaultStep, m.reset)
	ctrl.OnDetect(func(res stream.Result) {
		m.logger.Debug("word detected", "word", res.Word, "start", res.Range.Start, "end", res.Range.End)
		m.refreshCollection()
	})
	ctrl.OnReset(func(a session.Archive) {
		m.pending = append(m.pending, m.record(a))
	})
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if !m.cfg.Stars || m.stars == nil {
		return nil
	}
	stars, repo := m.stars, m.cfg.Repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), starTimeout)
		defer cancel()
		n, err := stars.Stars(ctx, repo)
		return starsMsg{count: n, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case schedule.Fire:
		if m.dispatcher != nil {
			m.dispatcher.Dispatch(msg)
		}
		return m, m.flush()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width - margin
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.flush()
	case starsMsg:
		if msg.err != nil {
			m.logger.Warn("failed to fetch star count", "repo", m.cfg.Repo, "err", msg.err)
			return m, nil
		}
		m.starCount = msg.count
		m.hasStars = true
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.logger.Error("failed to save session", "err", msg.err)
			m.setStatus("could not save session history", true)
			return m, nil
		}
		m.logger.Info("session saved", "count", msg.saved)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.gesture.Cancel()
		m.ctrl.Reset()
		if save := m.flush(); save != nil {
			return m, tea.Sequence(save, tea.Quit)
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Presets):
		preset := session.Presets[msg.String()[0]-'1']
		if !m.ctrl.SelectDuration(preset.Duration) {
			m.setStatus("stop the monkey to change the timer", false)
		}
	case key.Matches(msg, m.keys.Stopwatch):
		if !m.ctrl.ClearDuration() {
			m.setStatus("stop the monkey to change the timer", false)
		}
	case key.Matches(msg, m.keys.Collection):
		m.showCollection = !m.showCollection
	case key.Matches(msg, m.keys.Up):
		if m.showCollection {
			m.table.MoveUp(1)
		}
	case key.Matches(msg, m.keys.Down):
		if m.showCollection {
			m.table.MoveDown(1)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, m.flush()
}

// handleMouse drives the start/stop button: a click toggles, holding it
// resets.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.button.contains(msg.X, msg.Y) {
			return
		}
		m.pressed = true
		m.gesture.Press()
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		if m.gesture.Release() {
			return
		}
		if m.button.contains(msg.X, msg.Y) {
			m.ctrl.Toggle()
		}
	case tea.MouseActionMotion:
		if m.pressed && !m.button.contains(msg.X, msg.Y) {
			m.pressed = false
			m.gesture.Cancel()
		}
	}
}

func (m *Model) reset() {
	m.ctrl.Reset()
	m.refreshCollection()
	m.status = ""
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) record(a session.Archive) model.SessionRecord {
	words := make([]model.FoundWord, len(a.Snapshot.Words))
	for i, w := range a.Snapshot.Words {
		r := a.Snapshot.Ranges[i]
		words[i] = model.FoundWord{Word: w, Start: r.Start, End: r.End}
	}
	started := a.StartedAt
	if started.IsZero() {
		started = a.EndedAt
	}
	return model.SessionRecord{
		StartedAt:   started,
		EndedAt:     a.EndedAt,
		Lang:        m.cfg.Lang,
		Chars:       len(a.Snapshot.Text),
		TargetMs:    a.Target.Milliseconds(),
		ElapsedMs:   a.Spent.Milliseconds(),
		LeadingWord: a.Snapshot.Leading,
		Words:       words,
	}
}

// flush hands queued session records to the store off the event loop.
func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	recs := m.pending
	m.pending = nil
	if m.saver == nil {
		return nil
	}
	saver := m.saver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		saved := 0
		for _, rec := range recs {
			if _, err := saver.InsertSession(ctx, rec); err != nil {
				return savedMsg{saved: saved, err: err}
			}
			saved++
		}
		return savedMsg{saved: saved}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.ctrl.Status()

	paper := m.renderPaper(st)
	if m.showCollection {
		paper = lipgloss.JoinHorizontal(lipgloss.Top, paper, "  ", m.renderCollection())
	}
	top := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", paper, "")

	controls, x0, x1 := m.renderControls(st)
	m.button = zone{x0: margin + x0, x1: margin + x1, y: lipgloss.Height(top), ok: true}

	body := lipgloss.JoinVertical(lipgloss.Left,
		top,
		controls,
		m.renderHold(),
		m.renderPresets(st),
		m.renderStatus(),
		m.help.View(m.keys),
	)
	return lipgloss.NewStyle().PaddingLeft(margin).Render(body)
}

func (m *Model) renderHeader() string {
	parts := []string{titleStyle.Render("typer monkey")}
	if m.nickname != "" {
		parts = append(parts, badgeStyle.Render("@"+runewidth.Truncate(m.nickname, 24, "…")))
	}
	if m.hasStars {
		parts = append(parts, badgeStyle.Render("★ "+github.FormatStarCount(m.starCount)))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderPaper(st session.Status) string {
	g := m.pager.Geometry()
	layout := m.pager.Layout(m.engine)
	flipping := m.pager.Flipping()
	cursor := -1
	if st.Running && !flipping {
		cursor = m.engine.Len()
	}
	return renderPaper(layout, paperCells(g, layout, m.engine, cursor), flipping)
}

// renderControls returns the controls row and the column span of the button
// within it.
func (m *Model) renderControls(st session.Status) (string, int, int) {
	var prefix strings.Builder
	if word, ok := m.engine.LeadingWord(); ok {
		prefix.WriteString(leadingStyle.Render(word))
		prefix.WriteString("  ")
	}
	timer := timerStyle
	if st.State == session.Starting {
		timer = startingStyle
	}
	prefix.WriteString(timer.Render(session.FormatClock(st.Elapsed)))
	prefix.WriteString("  ")

	label, style := m.buttonLabel(st)
	button := style.Render(label)
	x0 := lipgloss.Width(prefix.String())
	return prefix.String() + button, x0, x0 + lipgloss.Width(button)
}

func (m *Model) buttonLabel(st session.Status) (string, lipgloss.Style) {
	switch {
	case m.gesture.Active():
		return "Resetting...", resettingStyle
	case st.State == session.Running || st.State == session.Starting:
		return "Stop", stopButtonStyle
	case st.Resumable:
		return "Resume", buttonStyle
	default:
		return "Start", buttonStyle
	}
}

func (m *Model) renderHold() string {
	if !m.gesture.Active() {
		return ""
	}
	return m.bar.ViewAs(m.gesture.Progress())
}

func (m *Model) renderPresets(st session.Status) string {
	if st.State == session.Running || st.State == session.Starting {
		return ""
	}
	parts := make([]string, 0, len(session.Presets)+1)
	for i, p := range session.Presets {
		style := presetStyle
		if st.Countdown && st.Target == p.Duration {
			style = activePresetStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, p.Label)))
	}
	style := presetStyle
	if !st.Countdown {
		style = activePresetStyle
	}
	parts = append(parts, style.Render("0 stopwatch"))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderStatus() string {
	if m.status != "" {
		if m.statusErr {
			return errorStyle.Render(m.status)
		}
		return statusStyle.Render(m.status)
	}
	return statusStyle.Render(fmt.Sprintf("page %d · %d chars · %d words",
		m.pager.Page()+1, m.engine.Len(), m.engine.WordCount()))
}

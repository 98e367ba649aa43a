package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/buddhabrot/internal/analysis"
	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/view"
)

const (
	historyCapacity = 120
	panelWidth      = 44
	tickInterval    = time.Second / 30
	defaultCols     = 60
	defaultRows     = 24
)

type tickMsg time.Time

// passMsg carries the result of one accumulation pass back to Update.
type passMsg struct {
	stats engine.PassStats
	frame *render.Intensity
	info  analysis.Stats
	// params are the parameters the pass ran with.
	params engine.Params
	err    error
}

// Model is the terminal explorer: an accumulation loop drawn on a braille
// canvas, steered by the keyboard and mouse.
type Model struct {
	ctx   context.Context
	title string
	eng   *engine.Engine
	ctrl  *view.Controller

	canvas     *Canvas
	cols, rows int

	frame       *render.Intensity
	info        analysis.Stats
	last        engine.PassStats
	convergence float64
	maxHistory  []float64
	durations   []float64

	running  bool
	busy     bool
	showHelp bool
	// crosshair marks the centre, the fixed point of the zoom keys.
	crosshair bool
	recorder  *Recorder
	err       error
	// failed holds the parameters of the last failed pass; passes stay on
	// hold until the view or constant moves away from them.
	failed *engine.Params
}

// NewModel wires an engine and a controller into an explorer. The engine is
// resized to the canvas once the terminal reports its size.
func NewModel(ctx context.Context, title string, eng *engine.Engine, ctrl *view.Controller) Model {
	s := eng.Settings()
	cols, rows := max(1, s.Width/2), max(1, s.Height/4)
	return Model{
		ctx:         ctx,
		title:       title,
		eng:         eng,
		ctrl:        ctrl,
		canvas:      NewCanvas(cols, rows),
		cols:        cols,
		rows:        rows,
		running:     true,
		convergence: 1,
		maxHistory:  make([]float64, 0, historyCapacity),
		durations:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Controller exposes the view state, mainly for tests and callers that save
// the final view.
func (m Model) Controller() *view.Controller { return m.ctrl }

// Err returns the error of the last failed pass, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-4, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			m.running = !m.running
			return m, nil
		case "t":
			NextTheme()
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "x":
			m.crosshair = !m.crosshair
			m.redraw()
			return m, nil
		case "g":
			m.toggleRecording()
			return m, nil
		}
		if ev, ok := KeyEvent(msg); ok {
			m.ctrl.Handle(ev)
		}
		if m.ctrl.QuitRequested() {
			m.stopRecording()
			return m, tea.Quit
		}
		return m, nil

	case tea.MouseMsg:
		if ev, ok := MouseEvent(msg, 1, 0); ok {
			m.ctrl.Handle(ev)
		}
		return m, nil

	case tickMsg:
		if !m.running || m.busy {
			return m, tick()
		}
		if m.failed != nil && *m.failed == m.ctrl.Params() {
			return m, tick()
		}
		m.busy = true
		return m, m.pass(m.ctrl.Params())

	case passMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.failed = &msg.params
			buddha.Logger().Error("pass failed", "error", msg.err)
			return m, tick()
		}
		if m.failed != nil {
			m.err, m.failed = nil, nil
		}
		m.apply(msg)
		return m, tick()
	}
	return m, nil
}

// pass runs one accumulation pass off the UI goroutine.
func (m Model) pass(p engine.Params) tea.Cmd {
	eng, ctx := m.eng, m.ctx
	return func() tea.Msg {
		stats, err := eng.Accumulate(ctx, p)
		if err != nil {
			return passMsg{params: p, err: err}
		}
		snap, err := eng.Snapshot()
		if err != nil {
			return passMsg{params: p, err: err}
		}
		return passMsg{stats: stats, frame: render.Normalize(snap), info: analysis.Compute(snap), params: p}
	}
}

func (m *Model) apply(msg passMsg) {
	if msg.stats.Cleared || m.frame == nil {
		m.convergence = 1
	} else {
		m.convergence = analysis.Convergence(m.frame, msg.frame)
	}
	m.frame = msg.frame
	m.info = msg.info
	m.last = msg.stats
	m.redraw()

	m.maxHistory = appendCapped(m.maxHistory, float64(msg.info.Max))
	m.durations = appendCapped(m.durations, float64(msg.stats.Duration.Milliseconds()))

	if m.recorder != nil {
		m.recorder.Add(m.canvas, CurrentTheme)
	}
}

func (m *Model) redraw() {
	m.canvas.Plot(m.frame)
	if m.crosshair {
		w, h := m.canvas.DotSize()
		m.canvas.Crosshair(w/2, h/2, max(2, min(w, h)/10))
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) resize(cols, rows int) {
	cols, rows = max(cols, 8), max(rows, 4)
	if cols == m.cols && rows == m.rows {
		return
	}
	if err := m.eng.Resize(cols*2, rows*4); err != nil {
		m.err = err
		return
	}
	m.cols, m.rows = cols, rows
	m.canvas = NewCanvas(cols, rows)
	m.ctrl.Resize(cols*2, rows*4)
	m.frame = nil
}

func (m *Model) toggleRecording() {
	if m.recorder != nil {
		m.stopRecording()
		return
	}
	m.recorder = NewRecorder()
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save("buddhabrot.gif"); err != nil {
		m.err = err
	}
	m.recorder = nil
}

func (m Model) View() string {
	th := CurrentTheme
	canvasView := canvasStyle.Foreground(th.Primary).Render(m.canvas.String())

	st := m.ctrl.State()
	r := m.ctrl.Region()
	s := m.eng.Settings()

	var b strings.Builder
	b.WriteString(GradientText(strings.ToUpper(m.title), th.Primary, th.Secondary) + "\n")
	b.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Region", fmt.Sprintf("[%.4g, %.4g]", r.XMin, r.XMax))
	row("", fmt.Sprintf("[%.4g, %.4g]", r.YMin, r.YMax))
	row("Zoom", fmt.Sprintf("%.3gx", st.Zoom))
	row("Constant", fmt.Sprintf("%.3f%+.3fi", real(st.Constant), imag(st.Constant)))
	row("Mode", fmt.Sprintf("%s / %s", s.Mode, s.Policy))
	row("Samples", fmt.Sprintf("%d x %d iter", s.SampleCount, s.MaxIterations))
	row("Backend", m.eng.Backend().Name())
	row("Pass", fmt.Sprintf("%d (total %d)", m.last.Pass, m.last.Total))
	row("Max count", fmt.Sprintf("%d", m.info.Max))
	row("Coverage", ProgressBar(m.info.Coverage, 16)+fmt.Sprintf(" %.1f%%", m.info.Coverage*100))
	row("Change", fmt.Sprintf("%.4f", m.convergence))
	row("Pass ms", SparklineChart(m.durations, 24))

	if len(m.maxHistory) > 1 {
		chart := asciigraph.Plot(m.maxHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Max count"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render(Separator(panelWidth-6) + "\nARROWS:c  SHIFT:pan  +/-:zoom  0:reset\nSPACE:pause X:cross T:theme G:gif ?:help Q:quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))

	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	switch {
	case m.recorder != nil:
		return StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("ACCUMULATING")
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Arrows/hjkl - Nudge constant 0.01   ║
║  Shift+Arrow - Pan the view          ║
║  + / -       - Zoom in / out         ║
║  Wheel       - Zoom to cursor        ║
║  Drag        - Pan the view          ║
║  0           - Reset view            ║
║  X           - Toggle centre marker  ║
║  Space       - Pause / resume        ║
║  G           - Toggle GIF recording  ║
║  T           - Cycle themes          ║
║  Q           - Quit                  ║
╚══════════════════════════════════════╝`

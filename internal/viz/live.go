package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/linksim/internal/config"
	"github.com/san-kum/linksim/internal/metrics"
	"github.com/san-kum/linksim/internal/pbd"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 45
	historyCapacity = 300
	dragStep        = 5.0
	pickRadius      = 6 // sub-pixels
	gifPath         = "linksim.gif"
)

type TickMsg time.Time

// Model is the live editor: it owns a world built from a config and steps it
// at 60Hz while the user drags, pins and links particles.
type Model struct {
	cfg      *config.Config
	world    *pbd.World
	canvas   *Canvas
	view     Viewport
	styles   styles
	theme    int
	running  bool
	selected int
	linkFrom int
	dragging bool
	cursor   pbd.Vec2
	frame    int
	stretch  []float64
	kinetic  []float64
	recorder *Recorder
	status   string
	failed   bool
	showHelp bool
	reloads  <-chan string
}

// NewModel builds the world described by cfg.
func NewModel(cfg *config.Config, theme string) (Model, error) {
	w, err := cfg.NewWorld()
	if err != nil {
		return Model{}, err
	}
	idx := ThemeIndex(theme)
	m := Model{
		cfg:      cfg,
		world:    w,
		canvas:   NewCanvas(width, height),
		styles:   newStyles(Themes[idx]),
		theme:    idx,
		running:  true,
		selected: -1,
		linkFrom: -1,
		stretch:  make([]float64, 0, historyCapacity),
		kinetic:  make([]float64, 0, historyCapacity),
	}
	m.refit()
	return m, nil
}

// WithReloads makes the model rebuild from the config file whenever a path
// arrives on ch.
func (m Model) WithReloads(ch <-chan string) Model {
	m.reloads = ch
	return m
}

func (m Model) World() *pbd.World { return m.world }

func (m Model) Selected() int { return m.selected }

func (m Model) Running() bool { return m.running }

func (m Model) Status() string { return m.status }

func (m Model) Viewport() Viewport { return m.view }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// ReloadMsg carries the path of a changed config file.
type ReloadMsg string

func waitForReload(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg(path)
	}
}

func (m Model) Init() tea.Cmd {
	if m.reloads != nil {
		return tea.Batch(tick(), waitForReload(m.reloads))
	}
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case ReloadMsg:
		m.reload(string(msg))
		return m, waitForReload(m.reloads)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.stopRecording()
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "n":
		if !m.running {
			m.step()
		}
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "up", "k":
		m.drag(0, -dragStep)
	case "down", "j":
		m.drag(0, dragStep)
	case "left", "h":
		m.drag(-dragStep, 0)
	case "right", "l":
		m.drag(dragStep, 0)
	case "p":
		if m.selected >= 0 {
			m.report(m.world.ToggleFixed(m.selected), "toggled pin on %d", m.selected)
		}
	case "a":
		i := m.world.AddParticle(m.cursor.X, m.cursor.Y, pbd.Free)
		m.selected = i
		m.report(nil, "added particle %d", i)
	case "L":
		m.link()
	case "c":
		m.world.Clear()
		m.selected, m.linkFrom = -1, -1
		m.stretch, m.kinetic = m.stretch[:0], m.kinetic[:0]
		m.refit()
		m.report(nil, "cleared")
	case "r":
		m.rebuild()
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "g":
		if m.recorder == nil {
			m.recorder = NewRecorder(2)
			m.report(nil, "recording")
		} else {
			m.stopRecording()
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	// canvasStyle pads by one row and two columns
	x, y := (msg.X-2)*2+1, (msg.Y-1)*4+2
	m.cursor = m.view.ToWorld(x, y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.selected = Nearest(m.world, m.cursor, pickRadius/m.view.Scale)
		m.dragging = m.selected >= 0
	case tea.MouseActionMotion:
		if m.dragging && m.selected >= 0 {
			m.report(m.world.Teleport(m.selected, m.cursor.X, m.cursor.Y), "")
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
}

// step advances the world and records the panel histories.
func (m *Model) step() {
	m.world.Step()
	m.frame++

	m.stretch = appendCapped(m.stretch, metrics.MaxStretch(m.world))
	m.kinetic = appendCapped(m.kinetic, metrics.Kinetic(m.world))

	if m.recorder != nil {
		m.draw()
		m.recorder.Capture(m.canvas)
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) cycle(dir int) {
	n := m.world.ParticleCount()
	if n == 0 {
		m.selected = -1
		return
	}
	if m.selected < 0 {
		if dir > 0 {
			m.selected = 0
		} else {
			m.selected = n - 1
		}
		return
	}
	m.selected = ((m.selected+dir)%n + n) % n
}

func (m *Model) drag(dx, dy float64) {
	if m.selected < 0 {
		return
	}
	p, err := m.world.Position(m.selected)
	if err != nil {
		m.report(err, "")
		return
	}
	m.report(m.world.Teleport(m.selected, p.X+dx, p.Y+dy), "")
}

// link joins the previously marked particle to the selected one; the first
// press only marks.
func (m *Model) link() {
	if m.selected < 0 {
		return
	}
	if m.linkFrom < 0 {
		m.linkFrom = m.selected
		m.report(nil, "linking from %d", m.linkFrom)
		return
	}
	from := m.linkFrom
	m.linkFrom = -1
	m.report(m.world.AddConstraint(from, m.selected), "linked %d-%d", from, m.selected)
}

func (m *Model) rebuild() {
	w, err := m.cfg.NewWorld()
	if err != nil {
		m.report(err, "")
		return
	}
	m.world = w
	m.selected, m.linkFrom = -1, -1
	m.stretch, m.kinetic = m.stretch[:0], m.kinetic[:0]
	m.refit()
	m.report(nil, "rebuilt %s", m.cfg.Name)
}

func (m *Model) reload(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		m.report(fmt.Errorf("reload %s: %w", path, err), "")
		return
	}
	m.cfg = cfg
	m.rebuild()
}

func (m *Model) refit() {
	b, ok := SceneBounds(m.world)
	if !ok {
		b = EmptyBounds(m.world)
	}
	m.view = Fit(b, m.canvas.SubWidth(), m.canvas.SubHeight())
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	err := m.recorder.Save(gifPath)
	m.recorder = nil
	m.report(err, "saved %s", gifPath)
}

// report shows err if non-nil, otherwise the formatted message (when given).
func (m *Model) report(err error, format string, args ...any) {
	if err != nil {
		m.status, m.failed = err.Error(), true
		return
	}
	if format != "" {
		m.status, m.failed = fmt.Sprintf(format, args...), false
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawWorld(m.canvas, m.world, m.view, m.selected)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.title.Render(strings.ToUpper(m.cfg.Name)) + "\n")

	if m.running {
		s.WriteString(st.running.Render(AnimatedSpinner(m.frame)+" RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.stretch) > 1 {
		chart := asciigraph.Plot(m.stretch, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Max stretch"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	p := m.world.Params()
	row("Time", fmt.Sprintf("%.0f", m.world.Elapsed()))
	row("Particles", fmt.Sprintf("%d", m.world.ParticleCount()))
	row("Links", fmt.Sprintf("%d", m.world.ConstraintCount()))
	row("Iterations", fmt.Sprintf("%d", p.Iterations))
	if len(m.kinetic) > 0 {
		row("Kinetic", SparklineChart(m.kinetic, 20))
	}

	if m.selected >= 0 {
		if pt, err := m.world.Particle(m.selected); err == nil {
			s.WriteString(st.selected.Render(fmt.Sprintf("\n> #%d %s (%.1f, %.1f)", m.selected, pt.Mobility, pt.Pos.X, pt.Pos.Y)) + "\n")
		}
	}
	if m.recorder != nil {
		s.WriteString(st.errText.Render(fmt.Sprintf("● REC %d", m.recorder.Len())) + "\n")
	}
	if m.status != "" {
		if m.failed {
			s.WriteString(st.errText.Render(m.status) + "\n")
		} else {
			s.WriteString(st.value.Render(m.status) + "\n")
		}
	}

	s.WriteString("\n" + st.Separator(panelWidth-6) + "\n")
	s.WriteString(st.help.Render("SP:Pause N:Step Q:Quit ?:Help\nTAB:Select ←↑↓→:Drag P:Pin"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space      Pause/Resume             ║
║  N          Single step while paused ║
║  Tab/S-Tab  Select next/previous     ║
║  Arrows     Drag selected particle   ║
║  Mouse      Pick and drag            ║
║  P          Toggle pin               ║
║  A          Add particle at cursor   ║
║  L          Link (press twice)       ║
║  C          Clear world              ║
║  R          Rebuild scene            ║
║  T          Cycle themes             ║
║  G          Toggle GIF recording     ║
║  Q          Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the editor on the terminal's alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	eventBuffer     = 16
	day             = 86400.0
)

type updateMsg engine.Update

type faultMsg struct{ err error }

// Events forwards engine notifications into a channel the model drains.
// Messages are dropped when the channel is full; a dropped fault is still
// reported through Engine.Err.
type Events chan tea.Msg

func (ev Events) OnUpdate(u engine.Update) {
	select {
	case ev <- updateMsg(u):
	default:
	}
}

func (ev Events) OnFault(err error) {
	select {
	case ev <- faultMsg{err}:
	default:
	}
}

func waitForEvent(ev Events) tea.Cmd {
	return func() tea.Msg { return <-ev }
}

// Model is the live orrery view. It owns no simulation state of its own;
// everything shown comes from engine updates.
type Model struct {
	eng     *engine.Engine
	events  Events
	catalog string

	canvas *Canvas
	camera *Camera
	theme  Theme
	styles styles

	last     engine.Update
	hasState bool
	tracker  *metrics.EnergyDrift
	drift    []float64
	scale    float64
	status   string
	err      error
	showHelp bool
}

// NewModel subscribes to eng. The engine is started by Init.
func NewModel(eng *engine.Engine, catalog string) Model {
	ev := make(Events, eventBuffer)
	eng.Subscribe(ev)
	theme := Themes[0]
	return Model{
		eng:     eng,
		events:  ev,
		catalog: catalog,
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(),
		theme:   theme,
		styles:  newStyles(theme),
		tracker: metrics.NewEnergyDrift(),
		drift:   make([]float64, 0, historyCapacity),
		scale:   1,
	}
}

func (m Model) Init() tea.Cmd {
	start := func() tea.Msg {
		if _, err := m.eng.Start(); err != nil {
			return faultMsg{err}
		}
		return nil
	}
	return tea.Batch(start, waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case updateMsg:
		m.apply(engine.Update(msg))
		return m, waitForEvent(m.events)
	case faultMsg:
		m.err = msg.err
		return m, waitForEvent(m.events)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.eng.Stop()
		return m, tea.Quit
	case " ":
		if m.eng.Running() {
			m.status = string(m.eng.Stop())
		} else {
			status, err := m.eng.Start()
			m.status, m.err = string(status), err
		}
	case "r":
		m.err = m.eng.Reset()
		m.drift = m.drift[:0]
		m.hasState = false
		m.scale = 1
		m.status = string(engine.StatusReset)
	case "+", "=":
		m.setScale(m.scale * 2)
	case "-", "_":
		m.setScale(m.scale / 2)
	case "m":
		m.cycleMethod()
	case "up", "k":
		m.camera.TiltBy(0.1)
	case "down", "j":
		m.camera.TiltBy(-0.1)
	case "left", "h":
		m.camera.SpinBy(-0.1)
	case "right", "l":
		m.camera.SpinBy(0.1)
	case "z":
		m.camera.ZoomIn()
	case "Z":
		m.camera.ZoomOut()
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	m.refresh()
	return m, nil
}

func (m *Model) setScale(s float64) {
	dt, err := m.eng.SetTimeScale(s)
	if err != nil {
		m.err = err
		return
	}
	m.scale = s
	m.status = fmt.Sprintf("dt %.0fs", dt)
}

func (m *Model) cycleMethod() {
	methods := integrators.Methods()
	next := methods[0]
	for i, mt := range methods {
		if mt.String() == m.last.Method {
			next = methods[(i+1)%len(methods)]
			break
		}
	}
	if err := m.eng.SetMethod(next.String()); err != nil {
		m.err = err
		return
	}
	m.status = "method " + next.String()
}

// refresh pulls a snapshot so commands show up while the engine is stopped.
func (m *Model) refresh() {
	if m.eng.Running() {
		return
	}
	if u, err := m.eng.Snapshot(); err == nil {
		u.FPS = 0
		m.apply(u)
	}
}

func (m *Model) apply(u engine.Update) {
	if !m.hasState {
		m.tracker.Reset()
		m.hasState = true
	}
	m.tracker.Observe(metrics.Sample{Time: u.State.Time, Energy: u.Energy})
	m.last = u
	if u.FPS > 0 {
		m.drift = append(m.drift, m.tracker.Current())
		if len(m.drift) > historyCapacity {
			m.drift = m.drift[1:]
		}
	}
}

func (m Model) View() string {
	m.canvas.Clear()
	Render(m.canvas, m.last.State.Bodies, m.camera)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.catalog)) + "\n")

	err := m.err
	if err == nil {
		err = m.eng.Err()
	}
	switch {
	case err != nil:
		s.WriteString(st.fault.Render("FAULT") + " " + st.value.Render(err.Error()) + "\n\n")
	case m.eng.Running():
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy drift"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	u := m.last
	row("Time", fmt.Sprintf("%.1f d", u.State.Time/day))
	row("Step", fmt.Sprintf("%d", u.Steps))
	row("dt", fmt.Sprintf("%.0fs (x%g)", u.TimeStep, m.scale))
	row("Method", u.Method)
	row("FPS", fmt.Sprintf("%.1f", u.FPS))
	row("Energy", fmt.Sprintf("%.4e J", u.Energy.Total))
	row("Drift", fmt.Sprintf("%.2e (max %.2e)", m.tracker.Current(), m.tracker.Value()))
	row("Bodies", fmt.Sprintf("%d", len(u.State.Bodies)))
	if m.status != "" {
		row("Last", m.status)
	}

	s.WriteString(st.help.Render("SP:Run/Stop R:Reset Q:Quit\n+/-:Time scale M:Method\n↑↓←→:View Z:Zoom T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Start/stop stepping      ║
║  R        - Reset to the catalog     ║
║  + / -    - Double/halve time step   ║
║  M        - Cycle integration method ║
║  Up/Down  - Tilt the orbital plane   ║
║  Lt/Rt    - Spin the view            ║
║  Z / z    - Zoom out / in            ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run blocks until the user quits. The engine is stopped on return.
func Run(eng *engine.Engine, catalog string) error {
	defer eng.Stop()
	_, err := tea.NewProgram(NewModel(eng, catalog), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return eng.Err()
}

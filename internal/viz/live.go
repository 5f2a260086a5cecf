package viz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cellsim/internal/cellular"
	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/rules"
)

const (
	historyCapacity = 600
	minInterval     = 10 * time.Millisecond
	maxInterval     = 2 * time.Second
)

var (
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(44)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a live experiment on a timer and draws every generation.
type Model struct {
	reg      *experiment.Registry
	cfg      *config.Config
	exp      *experiment.Experiment
	states   []string
	hex      bool
	history  [][][]string
	census   map[string][]float64
	params   []rules.Param
	selected int
	playHead int
	running  bool
	interval time.Duration
	showHelp bool
	err      error
}

// NewModel builds the experiment described by cfg and records generation
// zero.
func NewModel(reg *experiment.Registry, cfg *config.Config) (Model, error) {
	m := Model{
		reg:      reg,
		cfg:      cfg,
		running:  true,
		interval: 100 * time.Millisecond,
		playHead: -1,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	exp, err := experiment.New(m.reg, m.cfg.Clone())
	if err != nil {
		return err
	}
	m.exp = exp
	m.states = exp.Kind().States
	m.hex = exp.Grid().Topology().Name() == cellular.Hexagonal.Name()
	m.params = exp.Params()
	if m.selected >= len(m.params) {
		m.selected = 0
	}
	m.history = m.history[:0]
	m.census = make(map[string][]float64, len(m.states))
	m.playHead = -1
	m.record()
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the automaton.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.err = m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			if len(m.params) > 0 {
				m.selected = (m.selected + 1) % len(m.params)
			}
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "+", "=":
			m.interval = max(m.interval/2, minInterval)
		case "-", "_":
			m.interval = min(m.interval*2, maxInterval)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances one generation.
func (m *Model) step() {
	m.exp.Automaton().Step()
	m.record()
}

func (m *Model) record() {
	frame := m.exp.Grid().ExtractNames(0)
	m.history = append(m.history, frame)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	counts := make(map[string]float64, len(m.states))
	for _, row := range frame {
		for _, name := range row {
			counts[name]++
		}
	}
	for _, s := range m.states {
		series := append(m.census[s], counts[s])
		if len(series) > historyCapacity {
			series = series[1:]
		}
		m.census[s] = series
	}
}

// scrub moves the replay position through recorded generations.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// adjustParam nudges the selected numeric parameter and reconfigures the
// rule between generations. Non-numeric parameters are left alone.
func (m *Model) adjustParam(dir int) {
	if len(m.params) == 0 {
		return
	}
	p := m.params[m.selected]
	var next string
	if n, err := strconv.Atoi(p.Value); err == nil {
		next = strconv.Itoa(n + dir)
	} else if f, err := strconv.ParseFloat(p.Value, 64); err == nil {
		next = strconv.FormatFloat(f+0.05*float64(dir), 'f', 2, 64)
	} else {
		return
	}

	c, ok := m.exp.Automaton().Rule().(cellular.Configurable)
	if !ok {
		return
	}
	values := make(map[string]string, len(m.params))
	for _, q := range m.params {
		values[q.Key] = q.Value
	}
	values[p.Key] = next
	c.Configure(values)
	m.params = m.exp.Params()
}

// Generation returns the generation on screen.
func (m Model) Generation() int {
	if m.playHead >= 0 {
		return m.exp.Grid().Generation() - (len(m.history) - 1 - m.playHead)
	}
	return m.exp.Grid().Generation()
}

func (m Model) frame() [][]string {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.history[len(m.history)-1]
}

// View renders the TUI interface.
func (m Model) View() string {
	gridView := GlassPanel.Render(RenderFrame(m.frame(), m.states, m.hex))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.exp.Kind().Title)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.playHead >= 0:
		status = StatusReplay.Render(fmt.Sprintf("REPLAY %d", m.playHead-len(m.history)+1))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Generation") + valueStyle.Render(strconv.Itoa(m.Generation())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(m.interval.String()) + "\n")
	if m.cfg.Generations > 0 {
		s.WriteString(labelStyle.Render("Target") + GenerationBar(m.Generation(), m.cfg.Generations, 20) + "\n")
	}
	if m.err != nil {
		s.WriteString(StatusReplay.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\nCENSUS\n")
	for i, st := range m.states {
		series := m.census[st]
		last := 0.0
		if len(series) > 0 {
			last = series[len(series)-1]
		}
		s.WriteString(labelStyle.Render(st) + CensusSparkline(series, m.exp.Grid().Len(), 20, CurrentTheme.StateColor(i)) + " " + MetricValue.Render(formatCount(last)) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.params) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, p := range m.params {
		line := fmt.Sprintf("%-16s %s", p.Key, p.Value)
		if i == m.selected {
			s.WriteString(NeonGlow.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render(Divider(30) + "\nSP:Pause N:Step R:Reset Q:Quit\nT:Theme  +/-:Speed  ?:Help\n[ ]:Replay  Tab ↑↓:Tune"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridView, statsStyle.Render(s.String()))
	mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, Legend(m.states, nil))
	if m.showHelp {
		return KeyHint.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
Space    Pause or resume
N        Step once while paused
R        Reset to generation zero
Q        Quit
Tab      Select parameter
Up/K     Increase parameter
Down/J   Decrease parameter
+ / -    Faster / slower
[ / ]    Replay earlier generations
T        Cycle themes
?        Toggle this help`

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// recentRows is how many in-flight or finished files are listed under the
// failures. Shader trees get large; the bar carries the rest.
const recentRows = 6

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyles = map[string]lipgloss.Style{
		"ok":         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"cached":     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"error":      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"loaded":     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		"validating": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
)

type fileRow struct {
	path   string
	stage  Stage
	status Status
	cached bool
}

// state is the short word shown next to the file.
func (r fileRow) state() string {
	switch {
	case r.status == StatusError:
		return "error"
	case r.stage == StageValidate && r.status == StatusDone && r.cached:
		return "cached"
	case r.stage == StageValidate && r.status == StatusDone:
		return "ok"
	case r.stage == StageValidate:
		return "validating"
	case r.stage == StageLoad:
		return "loaded"
	}
	return "queued"
}

// weight is how far along the file is, from 0 to 1.
func (r fileRow) weight() float64 {
	switch {
	case r.stage == StageValidate && r.status != StatusWorking:
		return 1
	case r.stage == StageValidate:
		return 0.5
	case r.stage == StageLoad:
		return 0.25
	}
	return 0
}

type progressModel struct {
	title    string
	events   <-chan Event
	spin     spinner.Model
	bar      progress.Model
	rows     []fileRow
	byPath   map[string]int
	recent   []int
	width    int
	finished bool
}

type eventMsg Event
type closedMsg struct{}

// NewProgressModel renders `wgslsp check` progress over files. The program
// quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]fileRow, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(Event(msg)), m.next())
	case closedMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
		m.bar.Width = m.width - 4
	case spinner.TickMsg:
		if !m.finished {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev. Events for files the model was not given are dropped.
func (m *progressModel) apply(ev Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.rows[i].stage, m.rows[i].status, m.rows[i].cached = ev.Stage, ev.Status, ev.Cached
	if n := len(m.recent); n == 0 || m.recent[n-1] != i {
		m.recent = append(m.recent, i)
		if len(m.recent) > recentRows {
			m.recent = m.recent[1:]
		}
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.weight()
	}
	return sum / float64(len(m.rows))
}

type tally struct{ validated, failed, cached int }

func (m *progressModel) tally() tally {
	var t tally
	for _, r := range m.rows {
		if r.stage != StageValidate || r.status == StatusWorking {
			continue
		}
		t.validated++
		if r.status == StatusError {
			t.failed++
		}
		if r.cached {
			t.cached++
		}
	}
	return t
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	t := m.tally()
	lead := m.spin.View()
	if m.finished {
		lead = "done"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", lead, m.title)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d validated, %d failed, %d cached", t.validated, len(m.rows), t.failed, t.cached)))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	shown := make(map[int]bool)
	line := func(i int) {
		if shown[i] {
			return
		}
		shown[i] = true
		st := m.rows[i].state()
		fmt.Fprintf(&b, "  %s %s\n", stateStyles[st].Render(fmt.Sprintf("%10s", st)), clip(m.rows[i].path, nameWidth))
	}
	for i, r := range m.rows {
		if r.status == StatusError {
			line(i)
		}
	}
	for _, i := range m.recent {
		line(i)
	}

	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// clip shortens a path from the left so the file name stays visible.
func clip(path string, width int) string {
	if runewidth.StringWidth(path) <= width {
		return path
	}
	if width <= 3 {
		return runewidth.Truncate(path, width, "")
	}
	rs := []rune(path)
	for len(rs) > 0 && runewidth.StringWidth(string(rs))+3 > width {
		rs = rs[1:]
	}
	return "..." + string(rs)
}

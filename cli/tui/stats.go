package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/hilt/metrics"
	"github.com/justapithecus/hilt/report"
)

// StatsModel is a Bubble Tea model for a finished session's statistics.
type StatsModel struct {
	log      *report.Log
	snap     metrics.Snapshot
	width    int
	height   int
	quitting bool
}

// NewStatsModel creates a stats model from a session log.
func NewStatsModel(l *report.Log) (StatsModel, error) {
	snap, err := l.Snapshot()
	if err != nil {
		return StatsModel{}, err
	}
	return StatsModel{log: l, snap: snap}, nil
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Session %s (%s)", m.log.SessionID, m.log.Cmd)))
	b.WriteString("\n\n")

	boxes := []string{
		m.renderStatBox("Records", fmt.Sprintf("%d", m.log.Counts.Input), highlightColor),
		m.renderStatBox("Labeled", fmt.Sprintf("%d", m.log.Counts.Labeled), successColor),
		m.renderStatBox("Skipped", fmt.Sprintf("%d", m.log.Counts.Skipped), warningColor),
		m.renderStatBox("Accuracy", ratioText(m.snap.OverallAccuracy()), accuracyColor(m.snap.OverallAccuracy())),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n\n")

	b.WriteString(m.renderClasses())
	b.WriteString(m.renderConfusion())
	b.WriteString(m.renderSkipReasons())

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return b.String() + help
}

func (m StatsModel) renderClasses() string {
	var b strings.Builder
	line := func(name string, cs metrics.ClassStats) {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render(name+":"),
			ValueStyle.Render(fmt.Sprintf("precision %s  recall %s  f1 %s",
				ratioText(cs.Precision), ratioText(cs.Recall), ratioText(cs.F1)))))
	}
	switch s := m.snap.(type) {
	case *metrics.BinarySnapshot:
		line("class true", s.Pos)
		line("class false", s.Neg)
	case *metrics.PairSnapshot:
		line("class a", s.A)
		line("class b", s.B)
	}
	b.WriteString("\n")
	return b.String()
}

func (m StatsModel) renderConfusion() string {
	var rows [][3]string
	switch s := m.snap.(type) {
	case *metrics.BinarySnapshot:
		rows = [][3]string{
			{"", "true", "false"},
			{"true", fmt.Sprintf("%d", s.Confusion.TP), fmt.Sprintf("%d", s.Confusion.FN)},
			{"false", fmt.Sprintf("%d", s.Confusion.FP), fmt.Sprintf("%d", s.Confusion.TN)},
		}
	case *metrics.PairSnapshot:
		rows = [][3]string{
			{"", "a", "b"},
			{"a", fmt.Sprintf("%d", s.Confusion.AToA), fmt.Sprintf("%d", s.Confusion.AToB)},
			{"b", fmt.Sprintf("%d", s.Confusion.BToA), fmt.Sprintf("%d", s.Confusion.BToB)},
		}
	default:
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Confusion (gold x human)"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-8s %8s %8s\n", row[0], row[1], row[2]))
	}
	b.WriteString("\n")
	return b.String()
}

func (m StatsModel) renderSkipReasons() string {
	if len(m.log.Counts.Reasons) == 0 {
		return ""
	}
	reasons := make([]string, 0, len(m.log.Counts.Reasons))
	for r := range m.log.Counts.Reasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Skip reasons"))
	b.WriteString("\n")
	for _, r := range reasons {
		b.WriteString(fmt.Sprintf("  %-36s %d\n", r, m.log.Counts.Reasons[r]))
	}
	b.WriteString("\n")
	return b.String()
}

func (m StatsModel) renderStatBox(label, value string, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)
	valueStr := StatValueStyle.Foreground(color).Render(value)
	labelStr := StatLabelStyle.Render(label)
	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)
	return boxStyle.Render(content)
}

func ratioText(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func accuracyColor(v *float64) lipgloss.Color {
	switch {
	case v == nil:
		return mutedColor
	case *v >= 0.8:
		return successColor
	case *v >= 0.5:
		return warningColor
	default:
		return errorColor
	}
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunStatsTUI runs the stats TUI over a session log.
func RunStatsTUI(l *report.Log) error {
	model, err := NewStatsModel(l)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// RenderStatsStatic renders the stats view without running the program.
func RenderStatsStatic(l *report.Log) (string, error) {
	model, err := NewStatsModel(l)
	if err != nil {
		return "", err
	}
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View()), nil
}

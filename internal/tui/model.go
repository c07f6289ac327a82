package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imgsquare/internal/processor"
)

type Model struct {
	updates   <-chan processor.Progress
	cancel    func()
	bar       progress.Model
	started   time.Time
	total     int
	index     int
	processed int
	failed    int
	current   string
	stopping  bool
	quitting  bool
}

type doneMsg struct{}

type updateMsg processor.Progress

// NewModel renders progress read from updates. cancel is called when the user
// presses ctrl+c; the model keeps draining updates until the channel closes.
func NewModel(updates <-chan processor.Progress, cancel func()) Model {
	bar := progress.New(
		progress.WithGradient(barGradient[0], barGradient[1]),
		progress.WithWidth(40),
	)
	return Model{updates: updates, cancel: cancel, bar: bar, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total = msg.Total
		m.index = msg.Index
		m.current = filepath.Base(msg.Task.Source)
		next := listenForUpdates(m.updates)
		switch msg.Task.Outcome {
		case processor.Success:
			m.processed++
		case processor.Failed:
			m.failed++
			return m, tea.Batch(tea.Println(FailureLine(msg.Task)), next)
		}
		if msg.Task.Warning != nil {
			return m, tea.Batch(tea.Println(WarningLine(msg.Task)), next)
		}
		return m, next
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.stopping {
			m.stopping = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.bar.Width = min(60, max(20, msg.Width-10))
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = min(1, float64(m.index)/float64(m.total))
	}
	elapsed := time.Since(m.started).Round(time.Millisecond)

	status := fmt.Sprintf("Processing: %d/%d", m.index, m.total)
	if m.stopping {
		status = "Stopping after the current file..."
	}

	lines := []string{
		titleStyle.Render("imgsquare"),
		labelStyle.Render(status) + dimStyle.Render(fmt.Sprintf("  ok:%d  errors:%d", m.processed, m.failed)),
		dimStyle.Render(fmt.Sprintf("Last: %s", m.current)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(ratio),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan processor.Progress) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

// FailureLine is the immediate notice for a file that could not be converted.
func FailureLine(task processor.FileTask) string {
	return errorStyle.Render("error") + " " + labelStyle.Render(filepath.Base(task.Source)) + dimStyle.Render(": "+task.Err.Error())
}

// WarningLine is the notice for a converted file whose original survived.
func WarningLine(task processor.FileTask) string {
	return warnStyle.Render("warning") + " " + labelStyle.Render(filepath.Base(task.Source)) + dimStyle.Render(": "+task.Warning.Error())
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarn)
)

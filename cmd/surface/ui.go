package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"surface/internal/core/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	diagnosticStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	isCycle     bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	update     app.Update
	lastUpdate time.Time
}

type updateMsg struct {
	update app.Update
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.update = msg.update
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, c := range m.update.Cycles {
			items = append(items, item{
				title:   "Dependency Cycle",
				desc:    strings.Join(c, " -> "),
				isCycle: true,
			})
		}
		for _, d := range m.update.Diagnostics {
			items = append(items, item{
				title: "Skipped File",
				desc:  fmt.Sprintf("%s: %s", d.Path, d.Reason),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d scripts | %d types | %d edges",
		m.lastUpdate.Format("15:04:05"), m.update.UnitCount, m.update.TypeCount, m.update.EdgeCount))

	var summary string
	if len(m.update.Cycles) == 0 && len(m.update.Diagnostics) == 0 {
		summary = successStyle.Render("✅ Corpus Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", len(m.update.Cycles))),
			diagnosticStyle.Render(fmt.Sprintf("%d Skipped", len(m.update.Diagnostics))))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Interface Map Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Detected Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

func runUI(application *app.App) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	application.SetUpdateHandler(func(update app.Update) {
		p.Send(updateMsg{update: update})
	})

	// The initial scan ran before the program started; seed the view with
	// its result.
	go func() {
		p.Send(updateMsg{update: application.CurrentUpdate()})
	}()

	_, err := p.Run()
	return err
}

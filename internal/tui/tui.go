//go:build linux

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/exepta/appscope/internal/actions"
	"github.com/exepta/appscope/internal/engine"
	"github.com/exepta/appscope/internal/output"
	"github.com/exepta/appscope/pkg/model"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

type tickMsg time.Time

type entriesMsg []model.AppEntry

type actionDoneMsg struct {
	label string
	ok    bool
}

// sortKeys maps one key per column.
var sortKeys = map[string]model.SortColumn{
	"n": model.SortName,
	"c": model.SortCPU,
	"m": model.SortRAM,
	"i": model.SortPID,
	"t": model.SortThreads,
}

type tuiModel struct {
	engine   *engine.Engine
	actions  *actions.Actions
	log      *zap.Logger
	interval time.Duration

	table       table.Model
	filterInput textinput.Model
	filtering   bool

	entries []model.AppEntry
	paused  bool

	selected       *model.SelectedApp
	confirmingKill bool

	message     string
	messageTime time.Time
	err         error
	width       int
	height      int
}

func initialModel(eng *engine.Engine, act *actions.Actions, log *zap.Logger, interval time.Duration) tuiModel {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 50
	ti.Width = 30

	m := tuiModel{
		engine:      eng,
		actions:     act,
		log:         log,
		interval:    interval,
		filterInput: ti,
	}
	m.initTable()
	return m
}

func (m *tuiModel) initTable() {
	columns := []table.Column{
		{Title: "Application", Width: 32},
		{Title: "PID", Width: 8},
		{Title: "CPU %", Width: 8},
		{Title: "RAM", Width: 10},
		{Title: "Threads", Width: 8},
	}

	spec := m.engine.Sort()
	if idx := columnIndex(spec.Column); idx < len(columns) {
		indicator := " ↑"
		if spec.Desc {
			indicator = " ↓"
		}
		columns[idx].Title += indicator
	}

	height := m.height - 12
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(s)

	m.table = t
}

func columnIndex(col model.SortColumn) int {
	switch col {
	case model.SortName:
		return 0
	case model.SortPID:
		return 1
	case model.SortCPU:
		return 2
	case model.SortRAM:
		return 3
	case model.SortThreads:
		return 4
	}
	return 0
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.refreshData())
}

func (m tuiModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) refreshData() tea.Cmd {
	if m.paused {
		return nil
	}
	eng, log := m.engine, m.log
	return func() tea.Msg {
		if err := eng.Refresh(context.Background()); err != nil {
			log.Warn("refresh failed", zap.Error(err))
			return err
		}
		return entriesMsg(eng.Entries())
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.confirmingKill {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "y", "Y":
				sel := *m.selected
				m.confirmingKill = false
				m.selected = nil
				return m, m.runAction("killed "+sel.Name, func(ctx context.Context) bool {
					m.actions.Kill(ctx, sel)
					return true
				})
			case "n", "N", "esc":
				m.confirmingKill = false
				return m, nil
			}
		}
		return m, nil
	}

	if m.selected != nil {
		return m.updateActionMenu(msg)
	}

	if m.filtering {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filterInput.Blur()
				m.updateRows()
				return m, nil
			}
		}
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.updateRows()
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if col, ok := sortKeys[key]; ok {
			m.engine.SetSort(col)
			m.entries = m.engine.Entries()
			m.initTable()
			m.updateRows()
			return m, nil
		}

		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
			return m, nil
		case "/":
			m.filtering = true
			m.filterInput.Focus()
			return m, nil
		case "enter":
			if sel, ok := m.selectedApp(); ok {
				m.selected = &sel
			}
			return m, nil
		}
	case tickMsg:
		return m, tea.Batch(m.tick(), m.refreshData())
	case entriesMsg:
		m.entries = msg
		m.err = nil
		m.updateRows()
	case actionDoneMsg:
		m.message = msg.label
		if !msg.ok {
			m.message = msg.label + " failed"
		}
		m.messageTime = time.Now()
		return m, m.refreshData()
	case error:
		m.err = msg
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.initTable()
		m.updateRows()
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateActionMenu handles keys while an application is selected.
func (m tuiModel) updateActionMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	sel := *m.selected
	switch keyMsg.String() {
	case "esc", "q":
		m.selected = nil
		return m, nil
	case "r":
		m.selected = nil
		return m, m.runAction("restarted "+sel.Name, func(ctx context.Context) bool {
			m.actions.Restart(ctx, sel)
			return true
		})
	case "f":
		m.selected = nil
		return m, m.runAction("focused "+sel.Name, func(ctx context.Context) bool {
			return m.actions.Focus(sel)
		})
	case "s":
		m.selected = nil
		return m, m.runAction("stopped "+sel.Name, func(ctx context.Context) bool {
			m.actions.Stop(ctx, sel)
			return true
		})
	case "k":
		m.confirmingKill = true
		return m, nil
	case "o":
		m.selected = nil
		return m, m.runAction("opened path of "+sel.Name, func(ctx context.Context) bool {
			return m.actions.OpenPath(sel)
		})
	case "y":
		m.selected = nil
		return m, m.runAction("copied info of "+sel.Name, func(ctx context.Context) bool {
			return m.actions.CopyInfo(sel)
		})
	}
	return m, nil
}

// runAction executes an action off the update loop so a slow teardown never
// freezes the interface.
func (m tuiModel) runAction(label string, fn func(ctx context.Context) bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return actionDoneMsg{label: label, ok: fn(ctx)}
	}
}

func (m *tuiModel) selectedApp() (model.SelectedApp, bool) {
	row := m.table.SelectedRow()
	if len(row) < 2 {
		return model.SelectedApp{}, false
	}
	pid, _ := strconv.Atoi(row[1])
	for _, e := range m.entries {
		if e.PID == int32(pid) {
			return model.SelectedApp{AppID: e.AppID, Name: e.Name, PID: e.PID}, true
		}
	}
	return model.SelectedApp{}, false
}

func (m *tuiModel) updateRows() {
	filter := strings.ToLower(m.filterInput.Value())

	var rows []table.Row
	for _, e := range m.entries {
		row := table.Row{
			output.SanitizeCell(e.Name),
			strconv.Itoa(int(e.PID)),
			fmt.Sprintf("%.1f", e.CPUPercent),
			formatBytes(e.RSSBytes),
			strconv.Itoa(int(e.Threads)),
		}

		if filter != "" {
			match := false
			for _, f := range row {
				if strings.Contains(strings.ToLower(f), filter) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}

		rows = append(rows, row)
	}

	m.table.SetRows(rows)
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func (m tuiModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("\nError: %v\n\nPress q to quit", m.err)
	}

	var b strings.Builder

	title := "appscope"
	if m.paused {
		title += " (PAUSED)"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true).Render(title) + "\n\n")

	spec := m.engine.Sort()
	direction := "asc"
	if spec.Desc {
		direction = "desc"
	}
	info := fmt.Sprintf("Sort: %s %s  •  %d apps", spec.Column, direction, len(m.entries))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(info) + "\n")

	if m.filtering {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Render(" / ") + m.filterInput.View() + "\n")
	} else if m.filterInput.Value() != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(" Filter: "+m.filterInput.Value()) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(baseStyle.Render(m.table.View()) + "\n")

	if m.message != "" && time.Since(m.messageTime) < 3*time.Second {
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1).
			Render(" "+m.message+" ") + "\n")
	}

	if m.confirmingKill && m.selected != nil {
		prompt := fmt.Sprintf(" Kill %s and all its processes? [y/n] ", m.selected.Name)
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("160")).
			Bold(true).
			Padding(0, 1).
			Render(prompt) + "\n")
	} else if m.selected != nil {
		menu := fmt.Sprintf(" %s (pid %d)  •  r: restart • f: focus • s: stop • k: kill • o: open path • y: copy info • esc: close ",
			m.selected.Name, m.selected.PID)
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1).
			Render(menu) + "\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	help := "\n  q: quit • /: filter • p: pause • enter: actions • n: name • c: cpu • m: ram • i: pid • t: threads"
	b.WriteString(helpStyle.Render(help) + "\n")

	return b.String()
}

// Run starts the interface and blocks until the user quits.
func Run(eng *engine.Engine, act *actions.Actions, log *zap.Logger, interval time.Duration) error {
	p := tea.NewProgram(initialModel(eng, act, log, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package sessionsui provides the Bubble Tea browser for past runs.
package sessionsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuicount/internal/graph"
	"github.com/verte-zerg/tuicount/internal/model"
	"github.com/verte-zerg/tuicount/internal/report"
)

const (
	minTableHeight = 3
	graphHeight    = 12
	startedLayout  = "2006-01-02 15:04"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	dataStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// Lister loads past runs.
type Lister interface {
	ListSessions(ctx context.Context, cfg model.SessionsConfig) ([]model.Session, error)
}

// Model implements the Bubble Tea sessions UI.
type Model struct {
	store Lister
	cfg   model.SessionsConfig

	sessions []model.Session
	errMsg   string

	table    table.Model
	graphVP  viewport.Model
	selected int

	width  int
	height int
}

// NewModel constructs a sessions UI model.
func NewModel(st Lister, cfg model.SessionsConfig) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		graphVP:  viewport.New(0, 0),
		selected: -1,
	}
	m.table = table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.graphVP, cmd = m.graphVP.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		m.syncSelection()
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.errMsg != "" {
		return errorStyle.Render("Failed to load sessions: "+m.errMsg) + "\n" + m.renderHelp()
	}
	if len(m.sessions) == 0 {
		return "No sessions found.\n" + m.renderHelp()
	}
	parts := []string{
		titleStyle.Render(m.renderSummary()),
		m.table.View(),
		m.graphVP.View(),
		m.renderHelp(),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) refresh() {
	sessions, err := m.store.ListSessions(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	// Newest first.
	m.sessions = make([]model.Session, len(sessions))
	for i, s := range sessions {
		m.sessions[len(sessions)-1-i] = s
	}
	m.table.SetRows(buildRows(m.sessions))
	m.table.SetCursor(0)
	m.selected = -1
	m.updateLayout()
}

func (m *Model) updateLayout() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	tableHeight := m.height - graphHeight - 4
	if tableHeight < minTableHeight {
		tableHeight = minTableHeight
	}
	if tableHeight > len(m.sessions)+1 {
		tableHeight = maxInt(minTableHeight, len(m.sessions)+1)
	}
	m.table.SetHeight(tableHeight)
	m.graphVP.Width = width
	m.graphVP.Height = graphHeight + 1
	m.selected = -1
	m.syncSelection()
}

func (m *Model) syncSelection() {
	if len(m.sessions) == 0 {
		m.graphVP.SetContent("")
		return
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sessions) {
		idx = 0
	}
	if idx == m.selected {
		return
	}
	m.selected = idx
	m.graphVP.SetContent(renderSessionGraph(m.sessions[idx], m.graphVP.Width))
	m.graphVP.GotoTop()
}

func (m *Model) renderSummary() string {
	total := 0
	for _, s := range m.sessions {
		total += s.Total
	}
	return fmt.Sprintf("Sessions %d  Counted %d", len(m.sessions), total)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Select: up/down  Scroll graph: pgup/pgdn  Reload: r  Quit: q")
}

func renderSessionGraph(s model.Session, width int) string {
	canvasWidth := minInt(maxInt(width-2, 20), 120)
	canvas := graph.NewCanvas(canvasWidth, graphHeight, graph.DefaultFrame())
	canvas.DrawGraph(graph.Rebuild(s.Deltas, graph.DefaultViewport(), graph.Options{ClampY: true}))
	header := headerStyle.Render(fmt.Sprintf("Session %d  %s  period %s  deltas %s",
		s.ID, s.StartedAt.Local().Format(startedLayout), s.Period, report.Sparkline(periodDeltas(s.Deltas))))
	return header + "\n" + canvas.Render(paintLayer)
}

func buildRows(sessions []model.Session) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			strconv.FormatInt(s.ID, 10),
			s.StartedAt.Local().Format(startedLayout),
			s.Duration().Round(time.Second).String(),
			strconv.Itoa(s.Samples()),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Final),
		})
	}
	return rows
}

func columns(width int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Started", Width: 16},
		{Title: "Length", Width: 10},
		{Title: "Samples", Width: 7},
		{Title: "Total", Width: 6},
		{Title: "Final", Width: 6},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 1
	}
	if width > used {
		cols[1].Width += minInt(width-used, 8)
	}
	return cols
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func paintLayer(layer graph.Layer, s string) string {
	switch layer {
	case graph.LayerAxis:
		return axisStyle.Render(s)
	case graph.LayerGrid, graph.LayerMarker:
		return gridStyle.Render(s)
	case graph.LayerData:
		return dataStyle.Render(s)
	default:
		return s
	}
}

func periodDeltas(deltas []int) []int {
	if len(deltas) <= 1 {
		return nil
	}
	return deltas[1:]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

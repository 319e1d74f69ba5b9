// Package tui provides the Bubble Tea counting interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuicount/internal/graph"
	"github.com/verte-zerg/tuicount/internal/monitor"
)

// DefaultFrame paces the loop.
const DefaultFrame = 100 * time.Millisecond

const (
	minGraphWidth  = 20
	minGraphHeight = 4
	maxGraphWidth  = 120
)

type frameMsg time.Time

// Model implements the Bubble Tea counting UI.
type Model struct {
	mon     *monitor.Monitor
	logger  *zap.Logger
	now     func() time.Time
	frame   time.Duration
	logPath string
	clampY  bool

	width  int
	height int

	quitting bool
}

var (
	readoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	gridStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3C8C3C"))
	dataStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithFrame sets the loop pacing interval.
func WithFrame(frame time.Duration) Option {
	return func(m *Model) {
		if frame > 0 {
			m.frame = frame
		}
	}
}

// WithLogger attaches a debug logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLogPath shows where the history will be written on exit.
func WithLogPath(path string) Option {
	return func(m *Model) {
		m.logPath = path
	}
}

// WithClampY notes that the graph clamps out-of-range deltas.
func WithClampY(clamp bool) Option {
	return func(m *Model) {
		m.clampY = clamp
	}
}

// NewModel constructs a counting TUI model driving mon.
func NewModel(mon *monitor.Monitor, options ...Option) *Model {
	m := &Model{
		mon:    mon,
		logger: zap.NewNop(),
		now:    time.Now,
		frame:  DefaultFrame,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.nextFrame()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.tick(time.Time(msg))
		return m, m.nextFrame()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	readout := readoutStyle.Render(renderReadout(m.mon.Digits()))
	footer := m.renderFooter()
	graphWidth, graphHeight := m.graphSize(lipgloss.Height(readout) + lipgloss.Height(footer))
	canvas := graph.NewCanvas(graphWidth, graphHeight, graph.DefaultFrame())
	canvas.DrawGraph(m.mon.Graph())
	body := lipgloss.JoinVertical(lipgloss.Left, readout, canvas.Render(paintLayer), footer)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// Monitor returns the monitor driven by the UI.
func (m *Model) Monitor() *monitor.Monitor {
	return m.mon
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		m.logger.Info("close requested", zap.Int("value", m.mon.Value()))
		return m, tea.Quit
	case "up", "k", "+":
		if m.mon.Increment() {
			m.logger.Debug("increment", zap.Int("value", m.mon.Value()))
		} else {
			m.logger.Debug("increment saturated", zap.Int("value", m.mon.Value()))
		}
		return m, nil
	case "down", "j", "-":
		moved, err := m.mon.Decrement()
		if err != nil {
			m.logger.Error("decrement failed", zap.Error(err))
			return m, nil
		}
		if moved {
			m.logger.Debug("decrement", zap.Int("value", m.mon.Value()))
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) tick(now time.Time) {
	if !m.mon.Tick(now) {
		return
	}
	m.logger.Info("sampled",
		zap.Int("delta", m.mon.LastDelta()),
		zap.Int("value", m.mon.Value()),
		zap.Int("samples", m.mon.Samples()),
	)
}

func (m *Model) nextFrame() tea.Cmd {
	now := m.now
	return tea.Tick(m.frame, func(time.Time) tea.Msg {
		return frameMsg(now())
	})
}

func (m *Model) graphSize(reserved int) (int, int) {
	width := m.width - 2
	if m.width == 0 {
		width = 56
	}
	if width > maxGraphWidth {
		width = maxGraphWidth
	}
	if width < minGraphWidth {
		width = minGraphWidth
	}
	height := m.height - reserved
	if m.height == 0 {
		height = 12
	}
	// Keep the 280x225 aspect: a cell is 2x4 dots and roughly twice as
	// tall as wide.
	if maxHeight := width * 225 / 280 / 2; height > maxHeight {
		height = maxHeight
	}
	if height < minGraphHeight {
		height = minGraphHeight
	}
	return width, height
}

func (m *Model) renderFooter() string {
	now := m.now()
	segments := []string{
		fmt.Sprintf("Total %d", m.mon.Value()),
		fmt.Sprintf("Period %s", m.mon.Period()),
		fmt.Sprintf("Next %s", m.mon.NextSample(now).Round(time.Second)),
		fmt.Sprintf("Samples %d", m.mon.Samples()),
		fmt.Sprintf("Last %+d", m.mon.LastDelta()),
	}
	if m.logPath != "" {
		segments = append(segments, fmt.Sprintf("Log %s", m.logPath))
	}
	lines := []string{
		footerStyle.Render(strings.Join(segments, "  ")),
		footerStyle.Render("Count: up/k  Undo: down/j  Quit: q"),
	}
	if limit := m.mon.Viewport().MaxOnScreen(); !m.clampY && m.mon.LastDelta() > limit {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("Last period exceeded %d and is drawn off-scale", limit)))
	}
	return strings.Join(lines, "\n")
}

func paintLayer(layer graph.Layer, s string) string {
	switch layer {
	case graph.LayerAxis:
		return axisStyle.Render(s)
	case graph.LayerGrid:
		return gridStyle.Render(s)
	case graph.LayerMarker:
		return markerStyle.Render(s)
	case graph.LayerData:
		return dataStyle.Render(s)
	default:
		return s
	}
}

package sessionsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuicount/internal/model"
)

type fakeLister struct {
	sessions []model.Session
	err      error
}

func (f *fakeLister) ListSessions(context.Context, model.SessionsConfig) ([]model.Session, error) {
	return f.sessions, f.err
}

func testSessions() []model.Session {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)
	return []model.Session{
		{ID: 1, StartedAt: start, EndedAt: start.Add(time.Minute), Period: 10 * time.Second, Deltas: []int{0, 5, -1}, Total: 4, Final: 4},
		{ID: 2, StartedAt: start.Add(time.Hour), EndedAt: start.Add(2 * time.Hour), Period: 10 * time.Second, Deltas: []int{0, 2, 9}, Total: 11, Final: 12},
	}
}

func TestNewestSessionSelectedFirst(t *testing.T) {
	m := NewModel(&fakeLister{sessions: testSessions()}, model.SessionsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 40})
	if m.selected != 0 || m.sessions[0].ID != 2 {
		t.Fatalf("expected newest session selected, got idx=%d id=%d", m.selected, m.sessions[0].ID)
	}
	out := m.View()
	for _, want := range []string{"Sessions 2", "Counted 15", "Session 2", "Quit: q"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestSelectionMovesWithCursor(t *testing.T) {
	m := NewModel(&fakeLister{sessions: testSessions()}, model.SessionsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 40})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Fatalf("expected second row selected, got %d", m.selected)
	}
	if !strings.Contains(m.graphVP.View(), "Session 1") {
		t.Fatalf("expected graph for session 1")
	}
}

func TestEmptyAndErrorViews(t *testing.T) {
	m := NewModel(&fakeLister{}, model.SessionsConfig{})
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty message")
	}
	m = NewModel(&fakeLister{err: errors.New("boom")}, model.SessionsConfig{})
	if !strings.Contains(m.View(), "boom") {
		t.Fatalf("expected error message")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(&fakeLister{}, model.SessionsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuicount/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuicount.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndGetSession(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	start := time.Unix(1700000000, 0).UTC()
	session := model.Session{
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Second),
		Period:    10 * time.Second,
		Deltas:    []int{0, 5, -1},
		Total:     4,
		Final:     6,
	}
	id, err := st.InsertSession(ctx, session)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	got, err := st.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.ID != id || got.Total != 4 || got.Final != 6 || got.Period != 10*time.Second {
		t.Fatalf("unexpected session %+v", got)
	}
	if !got.StartedAt.Equal(session.StartedAt) || !got.EndedAt.Equal(session.EndedAt) {
		t.Fatalf("unexpected times %+v", got)
	}
	if len(got.Deltas) != 3 || got.Deltas[1] != 5 || got.Deltas[2] != -1 {
		t.Fatalf("unexpected deltas %v", got.Deltas)
	}
	if got.Samples() != 2 {
		t.Fatalf("expected 2 samples, got %d", got.Samples())
	}
}

func TestGetSessionNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetSession(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()
	var ids []int64
	for i := 0; i < 4; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		id, err := st.InsertSession(ctx, model.Session{
			StartedAt: start,
			EndedAt:   start.Add(time.Minute),
			Period:    time.Minute,
			Deltas:    []int{0, i},
			Total:     i,
			Final:     i,
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	all, err := st.ListSessions(ctx, model.SessionsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 4 || all[0].ID != ids[0] || all[3].ID != ids[3] {
		t.Fatalf("unexpected sessions %+v", all)
	}

	last, err := st.ListSessions(ctx, model.SessionsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(last) != 2 || last[0].ID != ids[2] || last[1].ID != ids[3] {
		t.Fatalf("unexpected last sessions %+v", last)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.SessionsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions since %v, got %d", since, len(recent))
	}
}

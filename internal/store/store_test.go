package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// Both SessionStore implementations run through the same suite.
func sessionStores(t *testing.T) map[string]SessionStore {
	t.Helper()

	sqlite, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]SessionStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func sampleSession(id string) *model.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Session{
		SessionID: id,
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "make an episode", Timestamp: now},
			{Role: model.RoleAssistant, Content: "on it", Timestamp: now},
		},
		Goals:          []string{"make an episode"},
		Topics:         []string{"episode"},
		ContextSummary: "Started with: make an episode...",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestLoadAbsentReturnsNotFound(t *testing.T) {
	for name, s := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for name, s := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sess := sampleSession("sess-1")

			if err := s.Save(ctx, sess); err != nil {
				t.Fatalf("Save: %v", err)
			}

			loaded, err := s.Load(ctx, "sess-1")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(loaded.Messages) != 2 {
				t.Fatalf("got %d messages, want 2", len(loaded.Messages))
			}
			if loaded.Messages[0].Content != "make an episode" {
				t.Errorf("first message = %q", loaded.Messages[0].Content)
			}
			if len(loaded.Goals) != 1 || loaded.Goals[0] != "make an episode" {
				t.Errorf("goals = %v", loaded.Goals)
			}
			if len(loaded.Topics) != 1 || loaded.Topics[0] != "episode" {
				t.Errorf("topics = %v", loaded.Topics)
			}
			if loaded.ContextSummary != sess.ContextSummary {
				t.Errorf("summary = %q", loaded.ContextSummary)
			}
		})
	}
}

func TestSaveIsUpsert(t *testing.T) {
	for name, s := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sess := sampleSession("sess-2")
			if err := s.Save(ctx, sess); err != nil {
				t.Fatalf("Save: %v", err)
			}

			sess.Topics = append(sess.Topics, "script")
			sess.UpdatedAt = sess.UpdatedAt.Add(time.Second)
			if err := s.Save(ctx, sess); err != nil {
				t.Fatalf("second Save: %v", err)
			}

			loaded, err := s.Load(ctx, "sess-2")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(loaded.Topics) != 2 {
				t.Fatalf("topics = %v, want two entries", loaded.Topics)
			}
		})
	}
}

func TestListOrdersByRecency(t *testing.T) {
	for name, s := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				sess := sampleSession(fmt.Sprintf("sess-%d", i))
				sess.UpdatedAt = sess.UpdatedAt.Add(time.Duration(i) * time.Minute)
				if err := s.Save(ctx, sess); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			sessions, total, err := s.List(ctx, 2, 0)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != 3 {
				t.Fatalf("total = %d, want 3", total)
			}
			if len(sessions) != 2 {
				t.Fatalf("got %d sessions, want 2", len(sessions))
			}
			if sessions[0].SessionID != "sess-2" {
				t.Fatalf("first = %q, want most recently updated", sessions[0].SessionID)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Save(ctx, sampleSession("sess-3")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.Delete(ctx, "sess-3"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Load(ctx, "sess-3"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load after delete = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, "sess-3"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("second Delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := sampleSession("sess-4")
	if err := s.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	sess.Topics[0] = "mutated"
	sess.Messages[0].Content = "mutated"

	loaded, err := s.Load(ctx, "sess-4")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Topics[0] != "episode" || loaded.Messages[0].Content != "make an episode" {
		t.Fatalf("store leaked caller mutations: %v", loaded.Topics)
	}
}

func TestSQLiteListSurfacesCorruptRows(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orchestrator_sessions
			(session_id, conversation_data, user_goals, active_topics, context_summary, created_at, updated_at)
		VALUES ('broken', 'not json', '[]', '[]', '', ?, ?)`,
		time.Now(), time.Now())
	if err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	if _, _, err := s.List(ctx, 10, 0); err == nil {
		t.Fatal("List should report a row that fails to decode, not drop it")
	}
}

func TestSQLiteProduction(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	project := &model.Project{
		ID:        "proj-1",
		UserID:    "user-1",
		Title:     "Say Cheese: Season One",
		Genre:     "reality",
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	characters := []model.Character{
		{ID: "char-1", ProjectID: "proj-1", Name: "Dee", Role: "lead"},
	}
	episodes := []model.Episode{
		{ID: "ep-1", ProjectID: "proj-1", Title: "Pilot", EpisodeNumber: 1, Status: "draft"},
	}

	if err := s.CreateProduction(ctx, project, characters, episodes); err != nil {
		t.Fatalf("CreateProduction: %v", err)
	}

	loaded, err := s.GetProject(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if loaded.Title != project.Title || loaded.Status != "active" {
		t.Fatalf("loaded project = %+v", loaded)
	}

	if _, err := s.GetProject(ctx, "proj-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetProject absent = %v, want ErrNotFound", err)
	}
}

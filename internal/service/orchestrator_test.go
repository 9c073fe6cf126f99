package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/showrunner-ai/orchestrator-platform/internal/intent"
	"github.com/showrunner-ai/orchestrator-platform/internal/model"
	"github.com/showrunner-ai/orchestrator-platform/internal/store"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.TurnEvent
	fail   bool
}

func (p *recordingPublisher) PublishTurn(_ context.Context, ev *model.TurnEvent) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return 0, errors.New("stream unavailable")
	}
	p.events = append(p.events, ev)
	return uint64(len(p.events)), nil
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (s *failingStore) Load(context.Context, string) (*model.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return model.NewSession("s"), nil
}

func (s *failingStore) Save(context.Context, *model.Session) error { return s.saveErr }

func (s *failingStore) List(context.Context, int, int) ([]model.Session, int, error) {
	return nil, 0, nil
}

func (s *failingStore) Delete(context.Context, string) error { return nil }

func newTestOrchestrator(st store.SessionStore, pub *recordingPublisher) *Orchestrator {
	d := intent.New(intent.WithPicker(func(int) int { return 0 }))
	if pub == nil {
		return NewOrchestrator(st, d, nil, logger.Nop())
	}
	return NewOrchestrator(st, d, pub, logger.Nop())
}

func TestRespondCreatesSession(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)

	resp, err := o.Respond(context.Background(), &model.ChatRequest{Message: "I want to build a cooking show"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
	if resp.Response == "" {
		t.Fatal("expected a non-empty reply")
	}

	sess, err := st.Load(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(sess.Messages))
	}
	if sess.Messages[0].Role != model.RoleUser || sess.Messages[1].Role != model.RoleAssistant {
		t.Fatalf("unexpected roles %q, %q", sess.Messages[0].Role, sess.Messages[1].Role)
	}
	if !strings.HasPrefix(sess.ContextSummary, "Started with: ") {
		t.Fatalf("summary %q should mark the opening turn", sess.ContextSummary)
	}
	if len(sess.Goals) == 0 {
		t.Fatal("expected a goal extracted from the opening message")
	}
}

func TestRespondUpdatesExistingSession(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)
	ctx := context.Background()

	first, err := o.Respond(ctx, &model.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	_, err = o.Respond(ctx, &model.ChatRequest{Message: "let's film a pilot episode", SessionID: first.SessionID})
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}

	sess, err := st.Load(ctx, first.SessionID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sess.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(sess.Messages))
	}
	if !strings.HasPrefix(sess.ContextSummary, "Latest: ") {
		t.Fatalf("summary %q should reflect the latest turn", sess.ContextSummary)
	}
}

func TestRespondLongMessageTruncatesSummary(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)

	long := strings.Repeat("x", 300)
	resp, err := o.Respond(context.Background(), &model.ChatRequest{Message: long})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	sess, _ := st.Load(context.Background(), resp.SessionID)
	want := "Started with: " + strings.Repeat("x", model.SummaryLength) + "..."
	if sess.ContextSummary != want {
		t.Fatalf("summary length %d, want %d", len(sess.ContextSummary), len(want))
	}
}

func TestRespondSummaryKeepsRunesIntact(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)

	long := strings.Repeat("é", 300)
	resp, err := o.Respond(context.Background(), &model.ChatRequest{Message: long})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	sess, _ := st.Load(context.Background(), resp.SessionID)
	if !utf8.ValidString(sess.ContextSummary) {
		t.Fatalf("summary is not valid UTF-8: %q", sess.ContextSummary)
	}
	want := "Started with: " + strings.Repeat("é", model.SummaryLength) + "..."
	if sess.ContextSummary != want {
		t.Fatalf("summary truncated mid-rune: %q", sess.ContextSummary[:40])
	}
}

func TestRespondHistoryCapKeepsGoalsAndTopics(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)
	ctx := context.Background()

	sess := model.NewSession("cap-test")
	for i := 0; i < model.HistoryLimit; i++ {
		sess.Messages = append(sess.Messages, model.Message{
			Role:      model.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: time.Now(),
		})
	}
	sess.Goals = []string{"launch the show"}
	sess.Topics = []string{"video"}
	if err := st.Save(ctx, sess); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := o.Respond(ctx, &model.ChatRequest{Message: "still here", SessionID: "cap-test"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	got, _ := st.Load(ctx, "cap-test")
	if len(got.Messages) != model.HistoryLimit {
		t.Fatalf("got %d messages, want %d", len(got.Messages), model.HistoryLimit)
	}
	if got.Messages[len(got.Messages)-1].Role != model.RoleAssistant {
		t.Fatal("newest turn should survive the cap")
	}
	if len(got.Goals) == 0 || got.Goals[0] != "launch the show" {
		t.Fatalf("goals %v should survive history trimming", got.Goals)
	}
	if len(got.Topics) == 0 || got.Topics[0] != "video" {
		t.Fatalf("topics %v should survive history trimming", got.Topics)
	}
}

func TestRespondLoadFailure(t *testing.T) {
	o := newTestOrchestrator(&failingStore{loadErr: errors.New("disk gone")}, nil)

	_, err := o.Respond(context.Background(), &model.ChatRequest{Message: "hi", SessionID: "s"})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want a PersistenceError", err)
	}
	if pe.Op != "load" {
		t.Fatalf("op %q, want load", pe.Op)
	}
}

func TestRespondSaveFailure(t *testing.T) {
	o := newTestOrchestrator(&failingStore{saveErr: errors.New("disk full")}, nil)

	_, err := o.Respond(context.Background(), &model.ChatRequest{Message: "hi", SessionID: "s"})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want a PersistenceError", err)
	}
	if pe.Op != "save" {
		t.Fatalf("op %q, want save", pe.Op)
	}
}

func TestRespondPublishesTurnEvents(t *testing.T) {
	st := store.NewMemoryStore()
	pub := &recordingPublisher{}
	o := newTestOrchestrator(st, pub)

	resp, err := o.Respond(context.Background(), &model.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("got %d events, want 2", len(pub.events))
	}
	if pub.events[0].Role != model.RoleUser || pub.events[1].Role != model.RoleAssistant {
		t.Fatalf("unexpected event roles %q, %q", pub.events[0].Role, pub.events[1].Role)
	}
	if pub.events[1].Bucket == "" {
		t.Fatal("assistant event should carry the intent bucket")
	}
	if pub.events[0].SessionID != resp.SessionID {
		t.Fatalf("event session %q, want %q", pub.events[0].SessionID, resp.SessionID)
	}
}

func TestRespondPublishFailureDoesNotFailTurn(t *testing.T) {
	st := store.NewMemoryStore()
	pub := &recordingPublisher{fail: true}
	o := newTestOrchestrator(st, pub)

	resp, err := o.Respond(context.Background(), &model.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if _, err := st.Load(context.Background(), resp.SessionID); err != nil {
		t.Fatalf("session should still be persisted: %v", err)
	}
}

func TestRespondSerializesConcurrentTurns(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)
	ctx := context.Background()

	first, err := o.Respond(ctx, &model.ChatRequest{Message: "start"})
	if err != nil {
		t.Fatalf("seed turn: %v", err)
	}

	const turns = 10
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := o.Respond(ctx, &model.ChatRequest{
				Message:   fmt.Sprintf("concurrent message %d", i),
				SessionID: first.SessionID,
			})
			if err != nil {
				t.Errorf("turn %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	sess, err := st.Load(ctx, first.SessionID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := 2 * (turns + 1)
	if len(sess.Messages) != want {
		t.Fatalf("got %d messages, want %d, a lost update occurred", len(sess.Messages), want)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	o := newTestOrchestrator(store.NewMemoryStore(), nil)

	_, err := o.GetSession(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListSessionsPagination(t *testing.T) {
	st := store.NewMemoryStore()
	o := newTestOrchestrator(st, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := o.Respond(ctx, &model.ChatRequest{Message: fmt.Sprintf("turn %d", i)}); err != nil {
			t.Fatalf("Respond: %v", err)
		}
	}

	resp, err := o.ListSessions(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(resp.Sessions) != 2 || resp.Total != 3 || !resp.HasMore {
		t.Fatalf("got %d sessions total=%d hasMore=%v", len(resp.Sessions), resp.Total, resp.HasMore)
	}

	resp, err = o.ListSessions(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.HasMore {
		t.Fatalf("got %d sessions hasMore=%v on final page", len(resp.Sessions), resp.HasMore)
	}
}

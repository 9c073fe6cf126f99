// Package service provides business logic for the orchestrator platform.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/internal/intent"
	"github.com/showrunner-ai/orchestrator-platform/internal/model"
	natsclient "github.com/showrunner-ai/orchestrator-platform/internal/nats"
	"github.com/showrunner-ai/orchestrator-platform/internal/store"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
	"github.com/showrunner-ai/orchestrator-platform/pkg/metrics"
)

// PersistenceError wraps a session store failure so the transport layer
// can tell it apart from validation problems. A missing session is not
// a persistence error; that is the create path.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Orchestrator runs one conversation turn: load session, classify,
// render, merge memory, persist, publish.
//
// Requests for the same session are serialized through a per-session
// mutex so concurrent turns can't lose each other's read-modify-write;
// different sessions proceed in parallel.
type Orchestrator struct {
	store      store.SessionStore
	dispatcher *intent.Dispatcher
	publisher  natsclient.TurnPublisher
	logger     *logger.Logger

	locks sync.Map // session id -> *sync.Mutex
}

// NewOrchestrator creates the orchestrator service. publisher may be
// nil when the event stream is disabled.
func NewOrchestrator(st store.SessionStore, d *intent.Dispatcher, pub natsclient.TurnPublisher, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:      st,
		dispatcher: d,
		publisher:  pub,
		logger:     log,
	}
}

// Respond processes one chat turn and returns the boundary response.
func (o *Orchestrator) Respond(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	start := time.Now()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.Must(uuid.NewV7()).String()
	}

	mu := o.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := o.store.Load(ctx, sessionID)
	created := false
	switch {
	case errors.Is(err, store.ErrNotFound):
		sess = model.NewSession(sessionID)
		created = true
	case err != nil:
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	reply, result := o.dispatcher.Respond(intent.Input{
		Message:     req.Message,
		History:     sess.Messages,
		Goals:       sess.Goals,
		Topics:      sess.Topics,
		PageContext: req.PageContext,
		Attachments: req.AttachedFiles,
	})

	now := time.Now()
	sess.Messages = append(sess.Messages,
		model.Message{
			Role:      model.RoleUser,
			Content:   req.Message,
			Timestamp: now,
			Files:     req.AttachedFiles,
		},
		model.Message{
			Role:      model.RoleAssistant,
			Content:   reply,
			Timestamp: now,
		},
	)

	sess.Goals = intent.ExtractGoals(req.Message, sess.Goals, model.GoalLimit)
	sess.Topics = intent.ExtractTopics(req.Message, sess.Topics, model.TopicLimit)

	if len(sess.Messages) > model.HistoryLimit {
		sess.Messages = sess.Messages[len(sess.Messages)-model.HistoryLimit:]
	}

	sess.ContextSummary = summarize(req.Message, created)
	sess.UpdatedAt = now

	if err := o.store.Save(ctx, sess); err != nil {
		return nil, &PersistenceError{Op: "save", Err: err}
	}

	o.publishTurns(ctx, sess.SessionID, string(result.Bucket), req.Message, reply, now)

	if created {
		metrics.SessionsCreated.Inc()
	}
	metrics.RecordTurn(string(result.Bucket), time.Since(start).Seconds())

	o.logger.Info("turn completed",
		zap.String("session_id", sess.SessionID),
		zap.String("bucket", string(result.Bucket)),
		zap.Int("history_len", len(sess.Messages)),
	)

	return &model.ChatResponse{
		Response:     reply,
		SessionID:    sess.SessionID,
		UserGoals:    sess.Goals,
		ActiveTopics: sess.Topics,
	}, nil
}

// GetSession retrieves one session.
func (o *Orchestrator) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := o.store.Load(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return sess, nil
}

// ListSessions lists sessions, most recently active first.
func (o *Orchestrator) ListSessions(ctx context.Context, limit, offset int) (*model.ListSessionsResponse, error) {
	sessions, total, err := o.store.List(ctx, limit, offset)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return &model.ListSessionsResponse{
		Sessions: sessions,
		Total:    total,
		HasMore:  offset+len(sessions) < total,
	}, nil
}

// DeleteSession removes a session.
func (o *Orchestrator) DeleteSession(ctx context.Context, sessionID string) error {
	err := o.store.Delete(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	return nil
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := o.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// publishTurns emits the user and assistant turns to the event stream.
// Publishing is best effort: a failed publish never fails the turn.
func (o *Orchestrator) publishTurns(ctx context.Context, sessionID, bucket, userMsg, reply string, ts time.Time) {
	if o.publisher == nil {
		return
	}

	events := []*model.TurnEvent{
		{
			ID:        uuid.Must(uuid.NewV7()).String(),
			SessionID: sessionID,
			Role:      model.RoleUser,
			Content:   userMsg,
			CreatedAt: ts,
		},
		{
			ID:        uuid.Must(uuid.NewV7()).String(),
			SessionID: sessionID,
			Role:      model.RoleAssistant,
			Content:   reply,
			Bucket:    bucket,
			CreatedAt: ts,
		},
	}
	for _, ev := range events {
		if _, err := o.publisher.PublishTurn(ctx, ev); err != nil {
			metrics.TurnPublishErrors.Inc()
			o.logger.Warn("failed to publish turn event",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			return
		}
	}
}

// summarize captures the latest user message for the session record.
// Truncation counts characters, not bytes, so a multi-byte rune is
// never split at the boundary.
func summarize(message string, created bool) string {
	truncated := message
	if runes := []rune(message); len(runes) > model.SummaryLength {
		truncated = string(runes[:model.SummaryLength])
	}
	if created {
		return "Started with: " + truncated + "..."
	}
	return "Latest: " + truncated + "..."
}

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// MemoryStore is an in-memory SessionStore and ProductionStore. It
// backs tests and single-process deployments that don't need
// durability.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	projects map[string]*model.Project
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		projects: make(map[string]*model.Project),
	}
}

// Load retrieves a session by id, or ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := cloneSession(sess)
	return copied, nil
}

// Save upserts a session.
func (s *MemoryStore) Save(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

// List returns sessions ordered by most recently updated.
func (s *MemoryStore) List(ctx context.Context, limit, offset int) ([]model.Session, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, *cloneSession(sess))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})

	total := len(all)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// Delete removes a session; deleting an absent session returns
// ErrNotFound.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// CreateProduction stores a seeded project. Characters and episodes are
// held only through the project reference in this implementation.
func (s *MemoryStore) CreateProduction(ctx context.Context, project *model.Project, characters []model.Character, episodes []model.Episode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

// GetProject retrieves a project by id, or ErrNotFound.
func (s *MemoryStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func cloneSession(s *model.Session) *model.Session {
	copied := *s
	copied.Messages = append([]model.Message(nil), s.Messages...)
	copied.Goals = append([]string(nil), s.Goals...)
	copied.Topics = append([]string(nil), s.Topics...)
	return &copied
}

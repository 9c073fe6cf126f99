// Package store provides persistence for orchestrator sessions and
// production projects.
package store

import (
	"context"
	"errors"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// ErrNotFound is returned by Load when no record exists for the given
// identifier. It is the create-path signal, distinct from a transport
// or storage failure.
var ErrNotFound = errors.New("not found")

// SessionStore persists conversation sessions, one record per session
// id. Save performs an upsert; implementations must be safe for
// concurrent use.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	List(ctx context.Context, limit, offset int) ([]model.Session, int, error)
	Delete(ctx context.Context, sessionID string) error
}

// ProductionStore persists seeded productions. Setup writes the project
// with its characters and episodes atomically.
type ProductionStore interface {
	CreateProduction(ctx context.Context, project *model.Project, characters []model.Character, episodes []model.Episode) error
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
}

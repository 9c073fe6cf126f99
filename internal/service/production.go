package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
	"github.com/showrunner-ai/orchestrator-platform/internal/store"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
	"github.com/showrunner-ai/orchestrator-platform/pkg/metrics"
)

// ErrInvalidProduction is returned by Setup when the request is
// missing required fields.
var ErrInvalidProduction = errors.New("production setup requires a project title")

// Production seeds reality-show projects with their cast and episode
// scripts in a single atomic write.
type Production struct {
	store  store.ProductionStore
	logger *logger.Logger
}

// NewProduction creates the production seeding service.
func NewProduction(st store.ProductionStore, log *logger.Logger) *Production {
	return &Production{store: st, logger: log}
}

// Setup materializes a production request into stored project,
// character and episode records.
func (p *Production) Setup(ctx context.Context, userID string, req *model.SetupProductionRequest) (*model.Project, error) {
	if strings.TrimSpace(req.Project.Title) == "" {
		return nil, ErrInvalidProduction
	}

	project := &model.Project{
		ID:          uuid.Must(uuid.NewV7()).String(),
		UserID:      userID,
		Title:       req.Project.Title,
		Description: req.Project.Description,
		Genre:       req.Project.Genre,
		Theme:       req.Project.Theme,
		Mood:        req.Project.Mood,
		Status:      "active",
		CreatedAt:   time.Now(),
	}

	characters := make([]model.Character, 0, len(req.Characters))
	for _, seed := range req.Characters {
		if strings.TrimSpace(seed.Name) == "" {
			continue
		}
		ch := model.Character{
			ID:          uuid.Must(uuid.NewV7()).String(),
			ProjectID:   project.ID,
			Name:        seed.Name,
			Role:        seed.Role,
			Personality: strings.Join(seed.Traits, ", "),
			Background:  seed.DramaHooks,
		}
		meta := map[string]string{}
		if seed.Appearance != "" {
			meta["appearance"] = seed.Appearance
		}
		if seed.Relationships != "" {
			meta["relationships"] = seed.Relationships
		}
		if seed.Status != "" {
			meta["status"] = seed.Status
		}
		if len(meta) > 0 {
			ch.Metadata = meta
		}
		characters = append(characters, ch)
	}

	episodes := make([]model.Episode, 0, len(req.Episodes))
	for _, seed := range req.Episodes {
		if strings.TrimSpace(seed.Title) == "" {
			continue
		}
		episodes = append(episodes, model.Episode{
			ID:            uuid.Must(uuid.NewV7()).String(),
			ProjectID:     project.ID,
			Title:         seed.Title,
			EpisodeNumber: seed.EpisodeNumber,
			Script:        seed.Script,
			Synopsis:      seed.Synopsis,
			Status:        "draft",
		})
	}

	if err := p.store.CreateProduction(ctx, project, characters, episodes); err != nil {
		return nil, &PersistenceError{Op: "create production", Err: err}
	}

	metrics.ProductionsSeeded.Inc()
	p.logger.Info("production seeded",
		zap.String("project_id", project.ID),
		zap.String("title", project.Title),
		zap.Int("characters", len(characters)),
		zap.Int("episodes", len(episodes)),
	)

	return project, nil
}

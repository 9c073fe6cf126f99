package service

import (
	"context"
	"errors"
	"testing"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
	"github.com/showrunner-ai/orchestrator-platform/internal/store"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
)

func TestSetupProduction(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProduction(st, logger.Nop())
	ctx := context.Background()

	project, err := p.Setup(ctx, "user-1", &model.SetupProductionRequest{
		Project: model.ProjectSeed{
			Title: "Kitchen Wars",
			Genre: "reality",
			Mood:  "chaotic",
		},
		Characters: []model.CharacterSeed{
			{
				Name:       "Dana",
				Role:       "head chef",
				Traits:     []string{"ambitious", "short-tempered"},
				DramaHooks: "secret rivalry with the sous chef",
			},
			{Name: ""},
		},
		Episodes: []model.EpisodeSeed{
			{Title: "Opening Night", EpisodeNumber: 1, Synopsis: "The kitchen opens."},
		},
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if project.ID == "" {
		t.Fatal("expected a generated project id")
	}
	if project.Status != "active" {
		t.Fatalf("status %q, want active", project.Status)
	}
	if project.UserID != "user-1" {
		t.Fatalf("user %q, want user-1", project.UserID)
	}

	stored, err := st.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if stored.Title != "Kitchen Wars" {
		t.Fatalf("title %q, want Kitchen Wars", stored.Title)
	}
}

func TestSetupProductionRequiresTitle(t *testing.T) {
	p := NewProduction(store.NewMemoryStore(), logger.Nop())

	_, err := p.Setup(context.Background(), "user-1", &model.SetupProductionRequest{})
	if !errors.Is(err, ErrInvalidProduction) {
		t.Fatalf("got %v, want ErrInvalidProduction", err)
	}
}

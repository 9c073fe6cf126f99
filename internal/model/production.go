package model

import (
	"time"
)

// Project is a reality-show production project.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Theme       string    `json:"theme,omitempty"`
	Mood        string    `json:"mood,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Character is a cast member belonging to a project.
type Character struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"project_id"`
	Name        string            `json:"name"`
	Role        string            `json:"role,omitempty"`
	Personality string            `json:"personality,omitempty"`
	Background  string            `json:"background,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Episode is a scripted episode belonging to a project.
type Episode struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	Title         string `json:"title"`
	EpisodeNumber int    `json:"episode_number"`
	Script        string `json:"script,omitempty"`
	Synopsis      string `json:"synopsis,omitempty"`
	Status        string `json:"status"`
}

// SetupProductionRequest seeds a project with its cast and episodes in
// one call.
type SetupProductionRequest struct {
	Project    ProjectSeed     `json:"projectData"`
	Characters []CharacterSeed `json:"characters"`
	Episodes   []EpisodeSeed   `json:"episodes"`
}

// ProjectSeed is the project portion of a production setup request.
type ProjectSeed struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Mood        string `json:"mood,omitempty"`
}

// CharacterSeed is the character portion of a production setup request.
type CharacterSeed struct {
	Name          string   `json:"name"`
	Role          string   `json:"role,omitempty"`
	Traits        []string `json:"traits,omitempty"`
	DramaHooks    string   `json:"drama_hooks,omitempty"`
	Appearance    string   `json:"appearance,omitempty"`
	Relationships string   `json:"relationships,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// EpisodeSeed is the episode portion of a production setup request.
type EpisodeSeed struct {
	Title         string `json:"title"`
	EpisodeNumber int    `json:"episode_number"`
	Script        string `json:"script,omitempty"`
	Synopsis      string `json:"synopsis,omitempty"`
}

// SetupProductionResponse is returned after seeding a production.
type SetupProductionResponse struct {
	Success bool    `json:"success"`
	Project Project `json:"project"`
}

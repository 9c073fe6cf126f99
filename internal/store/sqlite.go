package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS orchestrator_sessions (
	session_id      TEXT PRIMARY KEY,
	conversation_data TEXT NOT NULL,
	user_goals      TEXT NOT NULL,
	active_topics   TEXT NOT NULL,
	context_summary TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	genre       TEXT NOT NULL DEFAULT '',
	theme       TEXT NOT NULL DEFAULT '',
	mood        TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS characters (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL REFERENCES projects(id),
	name        TEXT NOT NULL,
	role        TEXT NOT NULL DEFAULT '',
	personality TEXT NOT NULL DEFAULT '',
	background  TEXT NOT NULL DEFAULT '',
	metadata    TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS episodes (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id),
	title          TEXT NOT NULL,
	episode_number INTEGER NOT NULL,
	script         TEXT NOT NULL DEFAULT '',
	synopsis       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL
);
`

// SQLiteStore is a SessionStore and ProductionStore backed by SQLite
// through the pure-Go modernc driver.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a SQLite database at the given path.
// Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// The driver serializes access; a single connection avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load retrieves a session by id, or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, conversation_data, user_goals, active_topics,
		       context_summary, created_at, updated_at
		FROM orchestrator_sessions WHERE session_id = ?`, sessionID)

	var (
		sess         model.Session
		messagesJSON []byte
		goalsJSON    []byte
		topicsJSON   []byte
	)
	err := row.Scan(&sess.SessionID, &messagesJSON, &goalsJSON, &topicsJSON,
		&sess.ContextSummary, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal(messagesJSON, &sess.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode conversation data: %w", err)
	}
	if err := json.Unmarshal(goalsJSON, &sess.Goals); err != nil {
		return nil, fmt.Errorf("failed to decode goals: %w", err)
	}
	if err := json.Unmarshal(topicsJSON, &sess.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}
	return &sess, nil
}

// Save upserts a session record.
func (s *SQLiteStore) Save(ctx context.Context, session *model.Session) error {
	messagesJSON, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode conversation data: %w", err)
	}
	goalsJSON, err := json.Marshal(emptyAsList(session.Goals))
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}
	topicsJSON, err := json.Marshal(emptyAsList(session.Topics))
	if err != nil {
		return fmt.Errorf("failed to encode topics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orchestrator_sessions
			(session_id, conversation_data, user_goals, active_topics,
			 context_summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			conversation_data = excluded.conversation_data,
			user_goals        = excluded.user_goals,
			active_topics     = excluded.active_topics,
			context_summary   = excluded.context_summary,
			updated_at        = excluded.updated_at`,
		session.SessionID, messagesJSON, goalsJSON, topicsJSON,
		session.ContextSummary, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// List returns sessions ordered by most recently updated.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]model.Session, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orchestrator_sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, conversation_data, user_goals, active_topics,
		       context_summary, created_at, updated_at
		FROM orchestrator_sessions
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var (
			sess         model.Session
			messagesJSON []byte
			goalsJSON    []byte
			topicsJSON   []byte
		)
		if err := rows.Scan(&sess.SessionID, &messagesJSON, &goalsJSON,
			&topicsJSON, &sess.ContextSummary, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := json.Unmarshal(messagesJSON, &sess.Messages); err != nil {
			return nil, 0, fmt.Errorf("failed to decode conversation data for %s: %w", sess.SessionID, err)
		}
		if err := json.Unmarshal(goalsJSON, &sess.Goals); err != nil {
			return nil, 0, fmt.Errorf("failed to decode goals for %s: %w", sess.SessionID, err)
		}
		if err := json.Unmarshal(topicsJSON, &sess.Topics); err != nil {
			return nil, 0, fmt.Errorf("failed to decode topics for %s: %w", sess.SessionID, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, total, nil
}

// Delete removes a session; deleting an absent session returns
// ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM orchestrator_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateProduction writes the project with its characters and episodes
// in one transaction.
func (s *SQLiteStore) CreateProduction(ctx context.Context, project *model.Project, characters []model.Character, episodes []model.Episode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, title, description, genre, theme, mood, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.UserID, project.Title, project.Description,
		project.Genre, project.Theme, project.Mood, project.Status, project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	for _, ch := range characters {
		metadata, err := json.Marshal(ch.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode character metadata: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO characters (id, project_id, name, role, personality, background, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ch.ID, ch.ProjectID, ch.Name, ch.Role, ch.Personality, ch.Background, metadata)
		if err != nil {
			return fmt.Errorf("failed to insert character: %w", err)
		}
	}

	for _, ep := range episodes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO episodes (id, project_id, title, episode_number, script, synopsis, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ep.ID, ep.ProjectID, ep.Title, ep.EpisodeNumber, ep.Script, ep.Synopsis, ep.Status)
		if err != nil {
			return fmt.Errorf("failed to insert episode: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit production: %w", err)
	}
	return nil
}

// GetProject retrieves a project by id, or ErrNotFound.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, genre, theme, mood, status, created_at
		FROM projects WHERE id = ?`, projectID)

	var p model.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Genre,
		&p.Theme, &p.Mood, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &p, nil
}

// emptyAsList keeps nil slices as JSON arrays rather than null.
func emptyAsList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

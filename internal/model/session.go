// Package model defines data structures for the orchestrator platform.
package model

import (
	"time"
)

// Retention caps applied before a session is persisted.
const (
	// HistoryLimit is the maximum number of messages kept per session.
	HistoryLimit = 50
	// GoalLimit is the maximum number of inferred goals kept per session.
	GoalLimit = 10
	// TopicLimit is the maximum number of active topics kept per session.
	TopicLimit = 10
	// SummaryLength is the number of message characters captured in the
	// context summary.
	SummaryLength = 200
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment describes a file attached to a message. Only the name and
// MIME type travel through the platform, never the file content.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Message is a single conversation turn. Messages are immutable once
// appended to a session.
type Message struct {
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Files     []Attachment `json:"files,omitempty"`
}

// Session is the unit of conversational memory, keyed by an opaque
// identifier. It grows on every turn and is truncated to HistoryLimit
// messages before persisting; goals and topics are only ever dropped by
// their own caps, never retroactively when old messages fall off.
type Session struct {
	SessionID      string    `json:"session_id"`
	Messages       []Message `json:"conversation_data"`
	Goals          []string  `json:"user_goals"`
	Topics         []string  `json:"active_topics"`
	ContextSummary string    `json:"context_summary"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSession creates an empty session for the given identifier.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		SessionID: id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LastUserMessage returns the most recent user message, or nil.
func (s *Session) LastUserMessage() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return &s.Messages[i]
		}
	}
	return nil
}

package model

import (
	"time"
)

// TurnEvent is published to the event stream after every orchestrator
// turn so downstream consumers can follow conversations without polling
// the session store.
type TurnEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Bucket    string    `json:"bucket,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

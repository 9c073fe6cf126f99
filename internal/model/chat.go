package model

// ChatRequest is the boundary contract for the orchestrator chat endpoint.
type ChatRequest struct {
	Message       string       `json:"message"`
	SessionID     string       `json:"sessionId,omitempty"`
	PageContext   string       `json:"pageContext,omitempty"`
	AttachedFiles []Attachment `json:"attachedFiles,omitempty"`
}

// ChatResponse is returned after each orchestrator turn.
type ChatResponse struct {
	Response     string   `json:"response"`
	SessionID    string   `json:"sessionId"`
	UserGoals    []string `json:"userGoals"`
	ActiveTopics []string `json:"activeTopics"`
}

// ListSessionsResponse is the response for listing sessions.
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}

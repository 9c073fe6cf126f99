package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/internal/intent"
	"github.com/showrunner-ai/orchestrator-platform/internal/llm"
	"github.com/showrunner-ai/orchestrator-platform/internal/middleware"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
	"github.com/showrunner-ai/orchestrator-platform/pkg/metrics"
)

// StudioHandler proxies studio chat to an LLM provider. When no
// provider is configured it falls back to the rule-based dispatcher so
// the studio UI still gets an answer.
type StudioHandler struct {
	llmClient  llm.Client
	dispatcher *intent.Dispatcher
	logger     *logger.Logger
}

// NewStudioHandler creates a new studio handler. llmClient may be nil.
func NewStudioHandler(client llm.Client, d *intent.Dispatcher, log *logger.Logger) *StudioHandler {
	return &StudioHandler{
		llmClient:  client,
		dispatcher: d,
		logger:     log,
	}
}

// StudioChatRequest is the studio proxy request.
type StudioChatRequest struct {
	Message     string            `json:"message"`
	System      string            `json:"system,omitempty"`
	Model       string            `json:"model,omitempty"`
	History     []llm.ChatMessage `json:"history,omitempty"`
	MaxTokens   int               `json:"maxTokens,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
}

// StudioChatResponse is the studio proxy response.
type StudioChatResponse struct {
	Response  string `json:"response"`
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	TokensIn  int    `json:"tokensIn,omitempty"`
	TokensOut int    `json:"tokensOut,omitempty"`
}

func (h *StudioHandler) completionRequest(req *StudioChatRequest) *llm.CompletionRequest {
	messages := append([]llm.ChatMessage{}, req.History...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: req.Message})
	return &llm.CompletionRequest{
		Model:       req.Model,
		System:      req.System,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

// templateReply answers through the dispatcher when no provider is up.
func (h *StudioHandler) templateReply(message string) string {
	reply, _ := h.dispatcher.Respond(intent.Input{Message: message})
	return reply
}

// Chat handles POST /api/v1/studio/chat
func (h *StudioHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StudioChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.llmClient == nil {
		writeJSON(w, http.StatusOK, StudioChatResponse{
			Response: h.templateReply(req.Message),
			Provider: "template",
		})
		return
	}

	start := time.Now()
	resp, err := h.llmClient.Complete(ctx, h.completionRequest(&req))
	if err != nil {
		metrics.RecordLLMProxy(h.llmClient.Name(), "error", time.Since(start).Seconds(), 0, 0)
		h.logger.Warn("provider call failed, falling back to template",
			zap.String("provider", h.llmClient.Name()),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, StudioChatResponse{
			Response: h.templateReply(req.Message),
			Provider: "template",
		})
		return
	}
	metrics.RecordLLMProxy(h.llmClient.Name(), "ok", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	writeJSON(w, http.StatusOK, StudioChatResponse{
		Response:  resp.Content,
		Provider:  h.llmClient.Name(),
		Model:     resp.Model,
		TokensIn:  resp.TokensIn,
		TokensOut: resp.TokensOut,
	})
}

// Stream handles POST /api/v1/studio/chat/stream
func (h *StudioHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StudioChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	if h.llmClient == nil {
		reply := h.templateReply(req.Message)
		sendSSEEvent(w, flusher, "token", map[string]interface{}{"token": reply, "index": 0})
		sendSSEEvent(w, flusher, "done", map[string]interface{}{
			"success":  true,
			"provider": "template",
		})
		return
	}

	start := time.Now()
	resp, err := h.llmClient.CompleteStream(ctx, h.completionRequest(&req), func(token string, index int) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return sendSSEEvent(w, flusher, "token", map[string]interface{}{
			"token": token,
			"index": index,
		})
	})
	if err != nil {
		metrics.RecordLLMProxy(h.llmClient.Name(), "error", time.Since(start).Seconds(), 0, 0)
		sendSSEEvent(w, flusher, "error", map[string]string{
			"code":    "stream_error",
			"message": err.Error(),
		})
		return
	}
	metrics.RecordLLMProxy(h.llmClient.Name(), "ok", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	sendSSEEvent(w, flusher, "done", map[string]interface{}{
		"success":   true,
		"provider":  h.llmClient.Name(),
		"model":     resp.Model,
		"tokensOut": resp.TokensOut,
	})
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}

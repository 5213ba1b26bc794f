package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/transcript"
)

// malformedTranscriptMessage is the literal bot message returned when an
// imported transcript cannot be parsed at all.
const malformedTranscriptMessage = "I could not read that transcript. Import a JSON array of chat turns with role, text, and timestamp fields."

// ChatService produces one reply per prompt. Implemented by
// assistant.Service.
type ChatService interface {
	Reply(ctx context.Context, prompt string) string
}

// TranscriptStore persists conversation turns for the front-end.
type TranscriptStore interface {
	Append(ctx context.Context, role transcript.Role, text string) (transcript.Turn, error)
	List(ctx context.Context) ([]transcript.Turn, error)
	Import(ctx context.Context, turns []transcript.Turn) (transcript.ImportResult, error)
}

// ServiceInfo describes the running service for the health endpoint.
type ServiceInfo struct {
	Service  string
	Version  string
	Provider string
	Model    string
	Endpoint string
}

// Handler implements the API handlers.
type Handler struct {
	assistant ChatService
	turns     TranscriptStore
	info      ServiceInfo
}

// NewHandler creates a new Handler. turns may be nil when transcript
// persistence is disabled; the chat endpoint still works.
func NewHandler(assistant ChatService, turns TranscriptStore, info ServiceInfo) *Handler {
	return &Handler{
		assistant: assistant,
		turns:     turns,
		info:      info,
	}
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	OK       bool   `json:"ok"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Endpoint string `json:"endpoint"`
}

// Health returns service identity and the active model provider.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		OK:       true,
		Service:  h.info.Service,
		Version:  h.info.Version,
		Provider: h.info.Provider,
		Model:    h.info.Model,
		Endpoint: h.info.Endpoint,
	})
}

// ChatRequest is the chat endpoint input.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse is the chat endpoint payload.
type ChatResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply"`
}

// Chat handles POST /api/chat. The reply is always produced; upstream model
// failures are recovered inside the assistant and never surface here.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		WriteProblem(w, r, http.StatusBadRequest, "prompt is required")
		return
	}

	reply := h.assistant.Reply(r.Context(), prompt)
	h.recordExchange(r.Context(), prompt, reply)

	writeJSON(w, ChatResponse{OK: true, Reply: reply})
}

// recordExchange appends both sides of the exchange to the transcript.
// Persistence failures are logged only: losing a transcript entry must not
// fail the chat.
func (h *Handler) recordExchange(ctx context.Context, prompt, reply string) {
	if h.turns == nil {
		return
	}
	if _, err := h.turns.Append(ctx, transcript.RoleUser, prompt); err != nil {
		slog.Error("record user turn failed", "error", err)
		return
	}
	if _, err := h.turns.Append(ctx, transcript.RoleBot, reply); err != nil {
		slog.Error("record bot turn failed", "error", err)
	}
}

// ExportTranscript handles GET /api/transcript.
func (h *Handler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	if h.turns == nil {
		WriteProblem(w, r, http.StatusNotFound, "Transcript persistence is disabled")
		return
	}

	turns, err := h.turns.List(r.Context())
	if err != nil {
		slog.Error("list transcript failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if turns == nil {
		turns = []transcript.Turn{}
	}
	writeJSON(w, turns)
}

// ImportTranscript handles POST /api/transcript/import. A body that is not
// a JSON array of turns is rejected with a literal explanatory message;
// invalid entries inside a well-formed array are filtered, not fatal.
func (h *Handler) ImportTranscript(w http.ResponseWriter, r *http.Request) {
	if h.turns == nil {
		WriteProblem(w, r, http.StatusNotFound, "Transcript persistence is disabled")
		return
	}

	var turns []transcript.Turn
	if err := json.NewDecoder(r.Body).Decode(&turns); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, malformedTranscriptMessage)
		return
	}

	result, err := h.turns.Import(r.Context(), turns)
	if err != nil {
		slog.Error("transcript import failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

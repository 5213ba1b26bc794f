package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/transcript"
)

// --- Mock Implementations for Testing ---

type mockAssistant struct {
	reply      string
	lastPrompt string
}

func (m *mockAssistant) Reply(ctx context.Context, prompt string) string {
	m.lastPrompt = prompt
	return m.reply
}

type mockTranscriptStore struct {
	appended     []transcript.Turn
	appendErr    error
	listResult   []transcript.Turn
	listErr      error
	importResult transcript.ImportResult
	importErr    error
	importCalls  int
	lastImport   []transcript.Turn
}

func (m *mockTranscriptStore) Append(ctx context.Context, role transcript.Role, text string) (transcript.Turn, error) {
	if m.appendErr != nil {
		return transcript.Turn{}, m.appendErr
	}
	turn := transcript.Turn{ID: "01TEST", Role: role, Text: text, CreatedAt: time.Now()}
	m.appended = append(m.appended, turn)
	return turn, nil
}

func (m *mockTranscriptStore) List(ctx context.Context) ([]transcript.Turn, error) {
	return m.listResult, m.listErr
}

func (m *mockTranscriptStore) Import(ctx context.Context, turns []transcript.Turn) (transcript.ImportResult, error) {
	m.importCalls++
	m.lastImport = turns
	return m.importResult, m.importErr
}

func testInfo() ServiceInfo {
	return ServiceInfo{
		Service:  "wildfact-api",
		Version:  "test",
		Provider: "huggingface",
		Model:    "Qwen/Qwen2.5-7B-Instruct:together",
		Endpoint: "https://router.huggingface.co/v1",
	}
}

func doRequest(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(h, []string{"http://localhost:4200"}).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := NewHandler(&mockAssistant{}, nil, testInfo())

	rec := doRequest(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK || resp.Service != "wildfact-api" || resp.Provider != "huggingface" {
		t.Errorf("response = %+v", resp)
	}
}

func TestChat(t *testing.T) {
	assistant := &mockAssistant{reply: "Hi there!"}
	store := &mockTranscriptStore{}
	h := NewHandler(assistant, store, testInfo())

	rec := doRequest(h, http.MethodPost, "/api/chat", `{"prompt": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK || resp.Reply != "Hi there!" {
		t.Errorf("response = %+v", resp)
	}
	if assistant.lastPrompt != "hello" {
		t.Errorf("assistant prompt = %q, want %q", assistant.lastPrompt, "hello")
	}

	if len(store.appended) != 2 {
		t.Fatalf("recorded %d turns, want 2", len(store.appended))
	}
	if store.appended[0].Role != transcript.RoleUser || store.appended[0].Text != "hello" {
		t.Errorf("user turn = %+v", store.appended[0])
	}
	if store.appended[1].Role != transcript.RoleBot || store.appended[1].Text != "Hi there!" {
		t.Errorf("bot turn = %+v", store.appended[1])
	}
}

func TestChatTrimsPrompt(t *testing.T) {
	assistant := &mockAssistant{reply: "ok"}
	h := NewHandler(assistant, nil, testInfo())

	doRequest(h, http.MethodPost, "/api/chat", `{"prompt": "  hello  "}`)
	if assistant.lastPrompt != "hello" {
		t.Errorf("assistant prompt = %q, want trimmed", assistant.lastPrompt)
	}
}

func TestChatRejectsEmptyPrompt(t *testing.T) {
	h := NewHandler(&mockAssistant{}, nil, testInfo())

	for _, body := range []string{`{"prompt": ""}`, `{"prompt": "   "}`, `{}`} {
		rec := doRequest(h, http.MethodPost, "/api/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("body %s: content type = %q", body, ct)
		}
	}
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	h := NewHandler(&mockAssistant{}, nil, testInfo())

	rec := doRequest(h, http.MethodPost, "/api/chat", `{"prompt": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatSurvivesTranscriptFailure(t *testing.T) {
	store := &mockTranscriptStore{appendErr: errors.New("disk full")}
	h := NewHandler(&mockAssistant{reply: "Hi!"}, store, testInfo())

	rec := doRequest(h, http.MethodPost, "/api/chat", `{"prompt": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 despite transcript failure", rec.Code)
	}
}

func TestExportTranscript(t *testing.T) {
	store := &mockTranscriptStore{listResult: []transcript.Turn{
		{ID: "01A", Role: transcript.RoleUser, Text: "hello"},
		{ID: "01B", Role: transcript.RoleBot, Text: "Hi there!"},
	}}
	h := NewHandler(&mockAssistant{}, store, testInfo())

	rec := doRequest(h, http.MethodGet, "/api/transcript", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var turns []transcript.Turn
	if err := json.NewDecoder(rec.Body).Decode(&turns); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(turns) != 2 || turns[0].Text != "hello" {
		t.Errorf("turns = %+v", turns)
	}
}

func TestExportTranscriptEmptyIsArray(t *testing.T) {
	h := NewHandler(&mockAssistant{}, &mockTranscriptStore{}, testInfo())

	rec := doRequest(h, http.MethodGet, "/api/transcript", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty transcript body = %s, want []", got)
	}
}

func TestImportTranscript(t *testing.T) {
	store := &mockTranscriptStore{importResult: transcript.ImportResult{Accepted: 1, Rejected: 1,
		Errors: []string{"turn 1: role must be one of: user, bot"}}}
	h := NewHandler(&mockAssistant{}, store, testInfo())

	body := `[{"role": "user", "text": "hello"}, {"role": "narrator", "text": "nope"}]`
	rec := doRequest(h, http.MethodPost, "/api/transcript/import", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp transcript.ImportResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Accepted != 1 || resp.Rejected != 1 {
		t.Errorf("response = %+v", resp)
	}
	if store.importCalls != 1 || len(store.lastImport) != 2 {
		t.Errorf("store received %d calls with %d turns", store.importCalls, len(store.lastImport))
	}
}

func TestImportTranscriptMalformedBody(t *testing.T) {
	store := &mockTranscriptStore{}
	h := NewHandler(&mockAssistant{}, store, testInfo())

	rec := doRequest(h, http.MethodPost, "/api/transcript/import", `{"not": "an array"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var p Problem
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Detail != malformedTranscriptMessage {
		t.Errorf("detail = %q, want the literal explanatory message", p.Detail)
	}
	if store.importCalls != 0 {
		t.Errorf("store called %d times for a malformed body, want 0", store.importCalls)
	}
}

func TestTranscriptEndpointsDisabledWithoutStore(t *testing.T) {
	h := NewHandler(&mockAssistant{}, nil, testInfo())

	if rec := doRequest(h, http.MethodGet, "/api/transcript", ""); rec.Code != http.StatusNotFound {
		t.Errorf("export status = %d, want 404", rec.Code)
	}
	if rec := doRequest(h, http.MethodPost, "/api/transcript/import", "[]"); rec.Code != http.StatusNotFound {
		t.Errorf("import status = %d, want 404", rec.Code)
	}
}

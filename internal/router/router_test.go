package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"moxie-backend/internal/config"
	"moxie-backend/internal/handlers"
)

func testRouter() http.Handler {
	chatHandler := handlers.NewChatHandler("", config.DefaultSystemPrompt, nil)
	return New(chatHandler, nil, "http://localhost:5173", 100)
}

func TestRouter_Health(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != `{"status":"ok"}` {
		t.Errorf("Unexpected health body: %s", rr.Body.String())
	}
}

func TestRouter_ChatMethodNotAllowedIsJSON(t *testing.T) {
	// The chat route must pass non-POST methods through to the handler
	// so the 405 body stays JSON.
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("405 body is not JSON: %v", err)
	}
	if resp["error"] != "Method not allowed" {
		t.Errorf("Expected 'Method not allowed', got %q", resp["error"])
	}
}

func TestRouter_SessionRoutesAbsentWithoutStore(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/session/abc", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when session mirror is disabled, got %d", rr.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("Missing CORS origin header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

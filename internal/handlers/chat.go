package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"moxie-backend/internal/models"
)

const (
	// fallbackResponse is returned with status 200 when the remote
	// service replies successfully but carries no usable text.
	fallbackResponse = "No response content"

	errMethodNotAllowed = "Method not allowed"
	errMissingAPIKey    = "API key is missing in environment variables"
)

// completionService is the one outbound dependency of the relay.
type completionService interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// ChatHandler relays one inbound conversation to the completion service
// and shapes the reply. It holds no state across requests.
type ChatHandler struct {
	apiKey       string
	systemPrompt string
	groq         completionService
}

func NewChatHandler(apiKey, systemPrompt string, groq completionService) *ChatHandler {
	return &ChatHandler{
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		groq:         groq,
	}
}

// Relay handles POST /api/chat. Order of checks matters: method gate
// before anything else, then the credential guard, then body parsing.
func (h *ChatHandler) Relay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: errMethodNotAllowed})
		return
	}

	if h.apiKey == "" {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: errMissingAPIKey})
		return
	}

	messages, err := parseChatRequest(r.Body)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	messages = withSystemPrompt(messages, h.systemPrompt)

	text, err := h.groq.Complete(r.Context(), messages)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	if strings.TrimSpace(text) == "" {
		text = fallbackResponse
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Text: text})
}

// parseChatRequest tolerates an absent body and a missing or malformed
// "messages" field, treating both as an empty sequence. Only a body
// that is not valid JSON at the top level is an error.
func parseChatRequest(body io.Reader) ([]models.Message, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var req struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.Messages) == 0 {
		return nil, nil
	}

	var messages []models.Message
	if err := json.Unmarshal(req.Messages, &messages); err != nil {
		// Not a sequence. Mirror the lenient default rather than failing.
		return nil, nil
	}
	return messages, nil
}

// withSystemPrompt prepends the default system message unless the
// conversation already carries one anywhere in the sequence, in which
// case the input is returned untouched.
func withSystemPrompt(messages []models.Message, prompt string) []models.Message {
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			return messages
		}
	}

	out := make([]models.Message, 0, len(messages)+1)
	out = append(out, models.Message{Role: models.RoleSystem, Content: prompt})
	return append(out, messages...)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

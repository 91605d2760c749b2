package models

// Role values carried on the wire. The relay only ever synthesizes a
// system message; clients produce user and assistant turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged turn in a conversation. Messages are
// never mutated after creation; the full ordered sequence is sent on
// every request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload sent to POST /api/chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// ChatResponse is the success reply from the relay.
type ChatResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the failure reply from any endpoint. Exactly one of
// ChatResponse or ErrorResponse is returned per request, and the HTTP
// status agrees with which one.
type ErrorResponse struct {
	Error string `json:"error"`
}

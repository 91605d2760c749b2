// Package conversation owns the authoritative, ordered message log for
// a chat session and drives the relay endpoint. It is the Go
// counterpart of the browser client's state handling: optimistic
// append, one in-flight call at a time, and a synthetic assistant
// bubble on every failure so a turn is never left unanswered.
package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"moxie-backend/internal/models"
)

const (
	// Greeting seeds every new log as entry 1, same wording as the
	// browser client.
	Greeting = "Hello! I'm your Moxie AI assistant. How can I help you today?"

	// connectionError is the canonical text of the synthetic assistant
	// entry appended when the relay call fails for any reason.
	connectionError = "Connection error."
)

var (
	ErrBusy         = errors.New("a relay call is already in flight")
	ErrEmptyMessage = errors.New("nothing to send")
)

// Entry is one rendered bubble in the log. IDs are unique and increase
// monotonically within a session; they exist for rendering, not for the
// relay contract.
type Entry struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Text     string `json:"text"`
	FileName string `json:"file_name,omitempty"`
}

// Attachment is file text the caller wants folded into the next user turn.
type Attachment struct {
	Name    string
	Content string
}

// Client drives a single conversation against a relay server.
type Client struct {
	endpoint string
	http     *http.Client

	mu      sync.Mutex
	pending bool
	nextID  int64
	log     []Entry
}

func New(serverURL string) *Client {
	c := &Client{
		endpoint: strings.TrimRight(serverURL, "/") + "/api/chat",
		http:     http.DefaultClient,
	}
	c.reset()
	return c
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) reset() {
	c.log = []Entry{{ID: 1, Role: models.RoleAssistant, Text: Greeting}}
	c.nextID = 2
}

// Reset clears the log back to the greeting. No-op while a call is pending.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return ErrBusy
	}
	c.reset()
	return nil
}

// Log returns a copy of the current entries in order.
func (c *Client) Log() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.log))
	copy(out, c.log)
	return out
}

// Pending reports whether a relay call is outstanding.
func (c *Client) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Send appends the user turn immediately, then calls the relay and
// appends exactly one assistant entry: the reply on success, the fixed
// error text on any failure. The caller's input buffer is free the
// moment Send takes the text. A second Send while one is pending
// returns ErrBusy without touching the log.
func (c *Client) Send(ctx context.Context, text string, file *Attachment) error {
	if strings.TrimSpace(text) == "" && (file == nil || file.Content == "") {
		return ErrEmptyMessage
	}

	content := text
	var fileName string
	if file != nil && file.Content != "" {
		fileName = file.Name
		content = fmt.Sprintf("%s\n\n[Attached file: %s]\n%s", text, file.Name, file.Content)
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.pending = true
	c.log = append(c.log, Entry{ID: c.nextID, Role: models.RoleUser, Text: content, FileName: fileName})
	c.nextID++
	outbound := wireMessages(c.log)
	c.mu.Unlock()

	reply, ok := c.call(ctx, outbound)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	if !ok {
		reply = connectionError
	}
	c.log = append(c.log, Entry{ID: c.nextID, Role: models.RoleAssistant, Text: reply})
	c.nextID++
	return nil
}

// call performs the relay round-trip. Every failure collapses to !ok;
// the distinction is invisible to the user anyway.
func (c *Client) call(ctx context.Context, messages []models.Message) (string, bool) {
	body, err := json.Marshal(models.ChatRequest{Messages: messages})
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var chatResp models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", false
	}
	return chatResp.Text, true
}

// wireMessages maps the log to the relay contract: user for the
// sender's own turns, assistant for everything else, newest turn last.
func wireMessages(log []Entry) []models.Message {
	out := make([]models.Message, len(log))
	for i, e := range log {
		role := models.RoleAssistant
		if e.Role == models.RoleUser {
			role = models.RoleUser
		}
		out[i] = models.Message{Role: role, Content: e.Text}
	}
	return out
}

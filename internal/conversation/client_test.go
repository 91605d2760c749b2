package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moxie-backend/internal/models"
)

func newStubRelay(t *testing.T, status int, body string, captured *models.ChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestSend_RoundTrip(t *testing.T) {
	var captured models.ChatRequest
	ts := newStubRelay(t, http.StatusOK, `{"text":"Hi there!"}`, &captured)
	defer ts.Close()

	c := New(ts.URL)
	require.NoError(t, c.Send(context.Background(), "Hello", nil))

	log := c.Log()
	require.Len(t, log, 3) // greeting + user + assistant

	assert.Equal(t, models.RoleAssistant, log[0].Role)
	assert.Equal(t, Greeting, log[0].Text)
	assert.Equal(t, models.RoleUser, log[1].Role)
	assert.Equal(t, "Hello", log[1].Text)
	assert.Equal(t, models.RoleAssistant, log[2].Role)
	assert.Equal(t, "Hi there!", log[2].Text)

	// IDs are unique and strictly increasing.
	for i := 1; i < len(log); i++ {
		assert.Greater(t, log[i].ID, log[i-1].ID)
	}

	// On the wire: greeting mapped to assistant, newest user turn last.
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, models.RoleAssistant, captured.Messages[0].Role)
	assert.Equal(t, models.Message{Role: models.RoleUser, Content: "Hello"}, captured.Messages[1])
}

func TestSend_FailurePaths(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"malformed response", http.StatusOK, `{"text":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newStubRelay(t, tc.status, tc.body, nil)
			defer ts.Close()

			c := New(ts.URL)
			require.NoError(t, c.Send(context.Background(), "Hello", nil))

			log := c.Log()
			require.Len(t, log, 3)
			// The optimistic user entry stays put, exactly once.
			assert.Equal(t, models.RoleUser, log[1].Role)
			assert.Equal(t, "Hello", log[1].Text)
			// Exactly one synthetic assistant entry with the fixed text.
			assert.Equal(t, models.RoleAssistant, log[2].Role)
			assert.Equal(t, "Connection error.", log[2].Text)
		})
	}
}

func TestSend_TransportFailure(t *testing.T) {
	ts := newStubRelay(t, http.StatusOK, `{}`, nil)
	ts.Close() // refuse connections

	c := New(ts.URL)
	require.NoError(t, c.Send(context.Background(), "Hello", nil))

	log := c.Log()
	require.Len(t, log, 3)
	assert.Equal(t, "Connection error.", log[2].Text)
}

func TestSend_EmptyInput(t *testing.T) {
	c := New("http://localhost:0")

	assert.ErrorIs(t, c.Send(context.Background(), "   ", nil), ErrEmptyMessage)
	assert.Len(t, c.Log(), 1)
}

func TestSend_AttachmentOnlyIsEnough(t *testing.T) {
	var captured models.ChatRequest
	ts := newStubRelay(t, http.StatusOK, `{"text":"ok"}`, &captured)
	defer ts.Close()

	c := New(ts.URL)
	err := c.Send(context.Background(), "", &Attachment{Name: "notes.txt", Content: "important notes"})
	require.NoError(t, err)

	log := c.Log()
	require.Len(t, log, 3)
	assert.Equal(t, "notes.txt", log[1].FileName)
	assert.Contains(t, log[1].Text, "[Attached file: notes.txt]")
	assert.Contains(t, captured.Messages[1].Content, "important notes")
}

func TestSend_SingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte(`{"text":"done"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.Send(context.Background(), "first", nil)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first Send never reached the relay")
	}

	assert.ErrorIs(t, c.Send(context.Background(), "second", nil), ErrBusy)
	assert.True(t, c.Pending())

	close(release)
	require.NoError(t, <-firstDone)
	assert.False(t, c.Pending())

	// Only the first turn made it into the log.
	log := c.Log()
	require.Len(t, log, 3)
	assert.Equal(t, "first", log[1].Text)
	assert.Equal(t, "done", log[2].Text)
}

func TestReset(t *testing.T) {
	ts := newStubRelay(t, http.StatusOK, `{"text":"reply"}`, nil)
	defer ts.Close()

	c := New(ts.URL)
	require.NoError(t, c.Send(context.Background(), "Hello", nil))
	require.Len(t, c.Log(), 3)

	require.NoError(t, c.Reset())

	log := c.Log()
	require.Len(t, log, 1)
	assert.Equal(t, int64(1), log[0].ID)
	assert.Equal(t, Greeting, log[0].Text)
}

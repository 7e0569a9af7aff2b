package sheetsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestPush_Success(t *testing.T) {
	var received Payload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nopLogger{})

	err := client.Push(context.Background(), &Payload{
		SessionID:    "sess-1",
		Action:       ActionIncompleteLead,
		CustomerName: "Иван Иванов",
		Service:      "Консультация",
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-1", received.SessionID)
	assert.Equal(t, ActionIncompleteLead, received.Action)
	assert.Equal(t, "Иван Иванов", received.CustomerName)
}

func TestPush_AcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nopLogger{})

	err := client.Push(context.Background(), &Payload{SessionID: "sess-1", Action: ActionBooking})

	require.NoError(t, err)
}

func TestPush_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nopLogger{})

	err := client.Push(context.Background(), &Payload{SessionID: "sess-1", Action: ActionBooking})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPush_ConnectionRefused(t *testing.T) {
	// Сервер закрыт до запроса - соединение невозможно
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second, nopLogger{})

	err := client.Push(context.Background(), &Payload{SessionID: "sess-1", Action: ActionBooking})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

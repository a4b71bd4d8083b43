package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorpro/internal/modes"
)

func TestRemote_Success(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, quizReply)
	}))
	t.Cleanup(server.Close)

	resp, err := NewRemote(server.URL).GetTutorResponse(context.Background(), "Photosynthesis", modes.Quiz)
	require.NoError(t, err)

	assert.Equal(t, Request{Mode: "Quiz", Topic: "Photosynthesis"}, got)
	require.Len(t, resp.ContentBlocks, 1)
	quiz, ok := resp.ContentBlocks[0].(QuizBlock)
	require.True(t, ok)
	assert.Equal(t, []string{"Nitrogen", "Oxygen", "Helium", "Argon"}, quiz.Questions[0].Options)
}

func TestRemote_EmptyTopicMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	_, err := NewRemote(server.URL).GetTutorResponse(context.Background(), "   ", modes.Quiz)
	assert.Equal(t, KindInput, KindOf(err))
	assert.Zero(t, calls.Load())
}

func TestRemote_ErrorBodies(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantKind    Kind
	}{
		{"no body", http.StatusInternalServerError, "", "Internal Server Error", ""},
		{"canonical", http.StatusBadGateway, `{"error":{"kind":"upstream","message":"quota exceeded"}}`, "quota exceeded", KindUpstream},
		{"error string", http.StatusBadRequest, `{"error":"Mode and topic are required"}`, "Mode and topic are required", ""},
		{"errorMessage", http.StatusInternalServerError, `{"errorMessage":"Task timed out"}`, "Task timed out", ""},
		{"plain text", http.StatusServiceUnavailable, "upstream down\n", "upstream down", ""},
		{"unrelated json", http.StatusInternalServerError, `{"ok":false}`, "Internal Server Error", ""},
		{"method not allowed", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`, "Method not allowed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			t.Cleanup(server.Close)

			resp, err := NewRemote(server.URL).GetTutorResponse(context.Background(), "Photosynthesis", modes.Quiz)
			require.Nil(t, resp)

			var te *Error
			require.True(t, errors.As(err, &te), "expected *Error, got %T", err)
			assert.Equal(t, KindTransport, te.Kind)
			assert.Equal(t, tt.wantMessage, te.Message)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantKind, se.Kind)
		})
	}
}

func TestRemote_InvalidSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Kind
	}{
		{"html", "<html>oops</html>", KindParse},
		{"missing summary", `{"title":"T","content_blocks":[]}`, KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			t.Cleanup(server.Close)

			resp, err := NewRemote(server.URL).GetTutorResponse(context.Background(), "Gravity", modes.Explain)
			assert.Nil(t, resp)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestRemote_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewRemote(url).GetTutorResponse(context.Background(), "Gravity", modes.Explain)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestRemote_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	_, err := NewRemote(server.URL, WithTimeout(20*time.Millisecond)).
		GetTutorResponse(context.Background(), "Gravity", modes.Explain)
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemote_CustomClient(t *testing.T) {
	var used atomic.Bool
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		used.Store(true)
		return http.DefaultTransport.RoundTrip(r)
	})}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, quizReply)
	}))
	t.Cleanup(server.Close)

	_, err := NewRemote(server.URL, WithHTTPClient(client)).GetTutorResponse(context.Background(), "x", modes.Quiz)
	require.NoError(t, err)
	assert.True(t, used.Load())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

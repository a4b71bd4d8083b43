package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/abhisek/tutorpro/internal/modes"
)

// maxBodyBytes caps how much of a backend reply is read.
const maxBodyBytes = 4 << 20

// Request is the body POSTed to the tutor backend.
type Request struct {
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
}

// ErrorBody is the canonical error body written by the backend proxy.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable kind and a display message.
type ErrorDetail struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// StatusError records a non-2xx reply from the backend.
type StatusError struct {
	StatusCode int
	// Kind is the kind reported by the backend, if any.
	Kind Kind
}

func (e *StatusError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("backend returned %d (%s)", e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Remote forwards requests to a tutor backend over HTTP.
type Remote struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) { r.client = c }
}

// WithTimeout bounds each round trip. Zero disables it.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) { r.timeout = d }
}

// NewRemote creates a Service that POSTs to endpoint, e.g.
// "http://localhost:8080/api/tutor".
func NewRemote(endpoint string, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  DefaultConfig().Timeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Remote) GetTutorResponse(ctx context.Context, topic string, mode modes.Mode) (*Response, error) {
	if err := checkInput(topic, mode); err != nil {
		return nil, err
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(Request{Mode: string(mode), Topic: topic})
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Kind: KindConfig, Message: "invalid tutor endpoint", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTransport, Message: "request timed out", Err: err}
		}
		return nil, &Error{Kind: KindTransport, Message: "could not reach tutor backend", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "read backend response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind, msg := errorFromBody(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, &Error{
			Kind:    KindTransport,
			Message: msg,
			Err:     &StatusError{StatusCode: resp.StatusCode, Kind: kind},
		}
	}

	return Normalize(string(body))
}

// errorFromBody extracts an error kind and message from a failed reply.
// Besides the canonical shape it accepts {"error":"..."},
// {"errorMessage":"..."}, {"message":"..."} and plain text.
func errorFromBody(body []byte) (Kind, string) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return "", truncate(text, 300)
	}

	if raw, ok := fields["error"]; ok {
		var detail ErrorDetail
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
			return detail.Kind, detail.Message
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return "", s
		}
	}
	for _, key := range []string{"errorMessage", "message"} {
		var s string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return "", s
		}
	}
	return "", ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

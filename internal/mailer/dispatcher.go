package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

const (
	maxErrorBody    = 4 << 10
	dispatchTimeout = 10 * time.Second
)

var googleHostedSuffixes = []string{".cloudfunctions.net", ".run.app"}

// ErrNotConfigured is returned by dispatchers without a destination endpoint.
var ErrNotConfigured = errors.New("mail dispatch not configured")

// Message is one rendered report addressed to a recipient.
type Message struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// Dispatcher hands rendered messages to the mail delivery collaborator.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPDispatcher posts messages as JSON to a mail dispatch endpoint.
type HTTPDispatcher struct {
	client   *http.Client
	endpoint string
	from     string
}

// NewHTTPDispatcher builds a dispatcher. With a nil client, Google-hosted function
// endpoints get an ID token client for the endpoint audience and every other endpoint
// gets a plain client. Both carry dispatchTimeout.
func NewHTTPDispatcher(client *http.Client, endpoint, from string) *HTTPDispatcher {
	endpoint = strings.TrimSpace(endpoint)
	if client == nil && endpoint != "" {
		client = &http.Client{Timeout: dispatchTimeout}
		if googleHosted(endpoint) {
			if idc, err := idtoken.NewClient(context.Background(), endpoint); err == nil {
				idc.Timeout = dispatchTimeout
				client = idc
			}
		}
	}
	return &HTTPDispatcher{client: client, endpoint: endpoint, from: from}
}

// googleHosted reports whether endpoint is served by Cloud Functions or Cloud Run.
func googleHosted(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range googleHostedSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// Send posts msg and fails on any status >= 400.
func (d *HTTPDispatcher) Send(ctx context.Context, msg Message) error {
	if d.endpoint == "" {
		return ErrNotConfigured
	}
	if msg.From == "" {
		msg.From = d.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rid := RequestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("dispatch error: status %d: %s", resp.StatusCode, extractError(resp.Body))
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID attaches a request id that Send forwards as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom returns the request id attached with WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return "dispatcher returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}

var _ Dispatcher = (*HTTPDispatcher)(nil)

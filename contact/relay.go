package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionHeader carries the per-submission id.
const SubmissionHeader = "X-Submission-Id"

// Result describes an accepted submission.
type Result struct {
	ID     string
	Status int
}

// Submitter delivers a validated form.
type Submitter interface {
	Submit(ctx context.Context, f Form) (Result, error)
}

// StatusError is returned for a non-2xx relay response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("contact relay returned %d", e.Status)
	}
	return fmt.Sprintf("contact relay returned %d: %s", e.Status, e.Body)
}

// RelaySubmitter posts forms as JSON to a hosted form relay. It does not
// retry.
type RelaySubmitter struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	newID    func() string
}

// RelayOption configures a RelaySubmitter.
type RelayOption func(*RelaySubmitter)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) RelayOption {
	return func(r *RelaySubmitter) { r.client = c }
}

// WithRelayLogger sets the logger.
func WithRelayLogger(l *zap.Logger) RelayOption {
	return func(r *RelaySubmitter) { r.logger = l }
}

// NewRelaySubmitter creates a submitter for endpoint. A zero timeout means
// ten seconds.
func NewRelaySubmitter(endpoint string, timeout time.Duration, opts ...RelayOption) *RelaySubmitter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	r := &RelaySubmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Submit validates f and posts it. Validation failures return FieldErrors
// without contacting the relay.
func (r *RelaySubmitter) Submit(ctx context.Context, f Form) (Result, error) {
	if errs := f.Validate(); errs != nil {
		return Result{}, errs
	}
	if strings.TrimSpace(r.endpoint) == "" {
		return Result{}, fmt.Errorf("contact relay endpoint is not configured")
	}
	body, err := json.Marshal(f.Trimmed())
	if err != nil {
		return Result{}, fmt.Errorf("encode form: %w", err)
	}
	id := r.newID()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(SubmissionHeader, id)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("contact submission failed", zap.String("id", id), zap.Error(err))
		return Result{}, fmt.Errorf("submit contact form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.logger.Warn("contact relay rejected submission",
			zap.String("id", id), zap.Int("status", resp.StatusCode))
		return Result{}, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	r.logger.Info("contact form submitted", zap.String("id", id), zap.Int("status", resp.StatusCode))
	return Result{ID: id, Status: resp.StatusCode}, nil
}

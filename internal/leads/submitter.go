package leads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/realestate-site/pkg/logging"
)

// Submitter performs the single outbound post of a lead.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, form url.Values) error
}

// HTTPSubmitter posts URL-encoded forms over HTTP. It never retries.
type HTTPSubmitter struct {
	client *http.Client
	tracer trace.Tracer
	logger *logging.Logger
}

// NewHTTPSubmitter wraps client, or a client with the given timeout when
// client is nil. A zero timeout leaves the request bounded only by its context.
func NewHTTPSubmitter(client *http.Client, timeout time.Duration, logger *logging.Logger) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPSubmitter{
		client: client,
		tracer: otel.Tracer("realestate.internal.leads.submitter"),
		logger: logger,
	}
}

// Submit posts form to endpoint. Any 2xx answer is success; the body is
// discarded unread.
func (s *HTTPSubmitter) Submit(ctx context.Context, endpoint string, form url.Values) error {
	ctx, span := s.tracer.Start(ctx, "leads.submitter.post")
	defer span.End()
	span.SetAttributes(attribute.String("form.endpoint", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("leads: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("form post failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("leads: post form: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{Code: resp.StatusCode}
		span.RecordError(err)
		s.logger.Warn("form backend rejected post", "endpoint", endpoint, "status", resp.StatusCode)
		return err
	}
	return nil
}

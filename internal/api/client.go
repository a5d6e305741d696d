// Package api talks to the remote request-submission endpoint.
package api

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

	"github.com/google/uuid"
	"github.com/noema/dashboard/internal/domain"
	"go.uber.org/zap"
)

// RequestsPath is appended to the configured base URL
const RequestsPath = "/api/requests"

// ErrSubmissionFailed wraps every non-success outcome of a submission
var ErrSubmissionFailed = errors.New("submission failed")

// StatusError reports a non-2xx response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Submitter sends a payload to the remote API
type Submitter interface {
	Submit(ctx context.Context, p domain.Payload) (*Receipt, error)
}

// Receipt describes an accepted submission
type Receipt struct {
	RequestID  string
	StatusCode int
}

// Client is the HTTP implementation of Submitter
type Client struct {
	baseURL    string
	httpClient *http.Client
	schema     *Schema
	logger     *zap.Logger
}

// NewClient creates a client for the given base URL. A zero timeout leaves
// timeouts to the transport.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		schema:     MustPayloadSchema(),
		logger:     logger,
	}
}

// WithHTTPClient swaps the underlying http.Client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Endpoint returns the full submission URL
func (c *Client) Endpoint() string {
	return c.baseURL + RequestsPath
}

// Submit POSTs the payload once. The response body is drained and ignored;
// only the status code decides success.
func (c *Client) Submit(ctx context.Context, p domain.Payload) (*Receipt, error) {
	if err := c.schema.Check(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %w", ErrSubmissionFailed, err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", c.Endpoint()))
	log.Debug("sending financing request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("financing request transport error", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("financing request rejected")
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, &StatusError{StatusCode: resp.StatusCode})
	}

	log.Info("financing request accepted")
	return &Receipt{RequestID: requestID, StatusCode: resp.StatusCode}, nil
}

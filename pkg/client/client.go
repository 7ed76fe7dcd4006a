// Package client talks to the external GraphRAG indexing service. The
// service owns file transfer, persistence, and the extraction pipeline; this
// package only implements the request/response and streaming contracts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/metrics"
	"github.com/graphlens/graphlens/pkg/model"
)

// Client is a thin JSON/SSE client for the indexing service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With(logging.Component("client")),
		metrics: metrics.DefaultRegistry(),
	}
}

// SetHTTPClient overrides the underlying HTTP client. Streaming endpoints
// strip the client timeout themselves.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// doJSON performs a request and decodes a JSON response body into out.
// nil out discards the body.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return model.NewServiceError(op, "", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return model.NewServiceError(op, "", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordServiceRequest(op, "transport_error", elapsed)
		c.logger.Warn("request failed", logging.Operation(op), logging.Error(err))
		return model.NewServiceError(op, "", fmt.Errorf("%w: %v", model.ErrTransport, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.RecordServiceRequest(op, "not_found", elapsed)
		return &model.ServiceError{Op: op, Status: resp.StatusCode, Cause: model.ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordServiceRequest(op, "error", elapsed)
		detail := readErrorDetail(resp.Body)
		return &model.ServiceError{
			Op:     op,
			Status: resp.StatusCode,
			Cause:  fmt.Errorf("%w: status %d: %s", model.ErrTransport, resp.StatusCode, detail),
		}
	}

	c.metrics.RecordServiceRequest(op, "ok", elapsed)

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewServiceError(op, "", fmt.Errorf("%w: decode: %v", model.ErrTransport, err))
	}
	return nil
}

func decodeJSONBody(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", model.ErrTransport, err)
	}
	return nil
}

// readErrorDetail pulls the service's {"detail": "..."} message, if any.
func readErrorDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil || body.Detail == "" {
		return "no detail"
	}
	return body.Detail
}

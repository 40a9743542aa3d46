// Package peer calls sibling services over HTTP.
package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/middleware"
)

// ErrPeerUnavailable is returned when the sibling service cannot be reached,
// answers with a non-2xx status, or returns a body that is not JSON.
var ErrPeerUnavailable = errors.New("peer unavailable")

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	// DefaultMaxBodySize caps how much of a peer response is read.
	DefaultMaxBodySize = 10 << 20
)

// NewHTTPClient creates an HTTP client for peer calls.
// A zero timeout leaves the overall request unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Collection is the parsed body of a peer list endpoint.
// Records are kept opaque; only their number matters to callers.
type Collection struct {
	Records    []json.RawMessage
	IsSequence bool
}

// Len returns the number of records, or 0 when the body was not a JSON array.
func (c *Collection) Len() int {
	if c == nil || !c.IsSequence {
		return 0
	}
	return len(c.Records)
}

// Client fetches collections from one sibling service.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	metrics     metrics.Recorder
	maxBodySize int64
}

// New creates a Client for the service rooted at baseURL.
func New(baseURL string, httpClient *http.Client, recorder metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  httpClient,
		metrics:     recorder,
		maxBodySize: DefaultMaxBodySize,
	}
}

// FetchCollection issues a single GET to path and parses the response.
// There is no retry.
func (c *Client) FetchCollection(ctx context.Context, path string) (*Collection, error) {
	start := time.Now()

	coll, err := c.fetch(ctx, path)

	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.ObservePeerRequest(status, time.Since(start))

	return coll, err
}

func (c *Client) fetch(ctx context.Context, path string) (*Collection, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrPeerUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrPeerUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bit so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: GET %s returned HTTP %d", ErrPeerUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrPeerUnavailable, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: GET %s: body too large (limit %d bytes)", ErrPeerUnavailable, url, c.maxBodySize)
	}

	return parseCollection(body)
}

// parseCollection accepts any valid JSON document. Arrays are split into
// records; any other shape yields an empty, non-sequence collection.
func parseCollection(body []byte) (*Collection, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: malformed JSON body", ErrPeerUnavailable)
	}

	if trimmed[0] != '[' {
		return &Collection{}, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: decode array: %w", ErrPeerUnavailable, err)
	}

	return &Collection{Records: records, IsSequence: true}, nil
}

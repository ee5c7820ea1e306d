// Package http provides an HTTP client for the business directory API,
// implementing leadbook.Searcher and leadbook.CategoryLister.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/leadbook"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default timeout for directory requests.
const DefaultTimeout = 30 * time.Second

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 16 << 20

var (
	_ leadbook.Searcher       = (*Searcher)(nil)
	_ leadbook.CategoryLister = (*Searcher)(nil)
)

// Searcher queries the directory API over HTTP.
type Searcher struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	delays  []time.Duration
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Searcher) {
		s.timeout = d
	}
}

// WithRateLimit limits outgoing requests to rps per second with no bursting.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Searcher) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient replaces the underlying client. The timeout option is
// ignored when a client is supplied.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		s.client = c
	}
}

// WithRetryDelays sets the backoff between attempts after a transient
// failure. Nil disables retries. Defaults to DefaultRetryDelays.
func WithRetryDelays(delays []time.Duration) Option {
	return func(s *Searcher) {
		s.delays = delays
	}
}

// WithLogger sets the logger that reports retries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a Searcher for the API rooted at baseURL.
func NewSearcher(baseURL string, opts ...Option) *Searcher {
	s := &Searcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Inf, 1),
		delays:  DefaultRetryDelays(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{
			Timeout: s.timeout,
		}
	}

	return s
}

// Search returns the businesses the directory finds for q. Every result is
// stamped with the query's category and the search source.
func (s *Searcher) Search(ctx context.Context, q leadbook.SearchQuery) ([]*leadbook.Business, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("city", q.Location)
	params.Set("category", q.Category)
	params.Set("radius", strconv.Itoa(q.RadiusMeters))

	body, err := s.get(ctx, "/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	// A successful status can still carry an error object.
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		var e errorResponse
		if err := json.Unmarshal(trimmed, &e); err == nil && e.Error != "" {
			return nil, leadbook.Errorf(leadbook.ENETWORK, "%s", e.Error)
		}
		return nil, leadbook.Errorf(leadbook.ENETWORK, "unexpected search response")
	}

	var businesses []*leadbook.Business
	if err := json.Unmarshal(body, &businesses); err != nil {
		return nil, leadbook.Errorf(leadbook.ENETWORK, "decode search response: %v", err)
	}

	results := make([]*leadbook.Business, 0, len(businesses))
	for _, b := range businesses {
		if b == nil {
			continue
		}
		b.ID = ""
		b.Category = q.Category
		b.Source = leadbook.SourceSearch
		results = append(results, b)
	}
	return results, nil
}

// Categories returns the categories the directory supports. The API may
// answer with a key-to-label object or a plain list of keys; list entries
// take their label from leadbook.Categories when one is known.
func (s *Searcher) Categories(ctx context.Context) (map[string]string, error) {
	body, err := s.get(ctx, "/categories")
	if err != nil {
		return nil, err
	}

	var labels map[string]string
	if err := json.Unmarshal(body, &labels); err == nil {
		return labels, nil
	}

	var keys []string
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, leadbook.Errorf(leadbook.ENETWORK, "decode categories response: %v", err)
	}
	labels = make(map[string]string, len(keys))
	for _, k := range keys {
		if label, ok := leadbook.Categories[k]; ok {
			labels[k] = label
		} else {
			labels[k] = k
		}
	}
	return labels, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// get performs a GET and returns the body of a 2xx response, retrying
// transient failures. Every failure is reported as ENETWORK except context
// cancellation.
func (s *Searcher) get(ctx context.Context, path string) ([]byte, error) {
	return getWithRetry(ctx, path, s.attempt, s.logger, s.delays)
}

// attempt performs one rate-limited GET. Transport errors, 429 and 5xx
// responses are transient.
func (s *Searcher) attempt(ctx context.Context, path string) ([]byte, bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, leadbook.Errorf(leadbook.ENETWORK, "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, true, leadbook.Errorf(leadbook.ENETWORK, "read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		var e errorResponse
		if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
			return nil, retry, leadbook.Errorf(leadbook.ENETWORK, "%s", e.Error)
		}
		return nil, retry, leadbook.Errorf(leadbook.ENETWORK, "Server error: %d", resp.StatusCode)
	}

	return body, false, nil
}

// Package client provides the HTTP page fetcher for the paginated items endpoint.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/pagefetch/pkg/logging"
	"github.com/Sternrassler/pagefetch/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for page requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagefetch_requests_total",
		Help: "Total page requests by HTTP status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagefetch_request_duration_seconds",
		Help:    "Page request duration in seconds, including body decoding",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagefetch_errors_total",
		Help: "Total page request errors by class",
	}, []string{"class"})
)

// Client fetches single pages from a paginated endpoint over HTTP.
// It implements pagination.PageFetcher[pagination.Item].
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the endpoint root; the page index is sent as ?page=<n>
	BaseURL string

	// UserAgent header sent with every request
	UserAgent string

	// Timeout is the overall HTTP client timeout per request
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the given endpoint.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new page client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (baseURL.Scheme != "http" && baseURL.Scheme != "https") || baseURL.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) url (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: baseURL,
		config:  cfg,
		logger:  logging.NewLogger("page-client"),
	}, nil
}

// wirePage mirrors the JSON page so absent metadata can be told apart from zero.
type wirePage struct {
	Items      *[]pagination.Item `json:"items"`
	PageNumber *int               `json:"pageNumber"`
	TotalPages *int               `json:"totalPages"`
	TotalItems *int               `json:"totalItems"`
	IsLastPage *bool              `json:"isLastPage"`
}

// FetchPage performs exactly one GET for the given page index and decodes it.
// There is no retry: any failure is returned to the caller.
func (c *Client) FetchPage(ctx context.Context, page int) (*pagination.Page[pagination.Item], error) {
	start := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
	if err != nil {
		return nil, c.fail(&TransportError{Page: page, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Int("page", page).
		Str("url", req.URL.String()).
		Msg("Requesting page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, c.fail(&TransportError{Page: page, Err: err})
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bounded amount so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, c.fail(&StatusError{
			Page:       page,
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Message:    resp.Status,
		})
	}

	var wire wirePage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, c.fail(&DecodeError{Page: page, Err: err})
	}

	result, err := wire.toPage(page)
	if err != nil {
		return nil, c.fail(err)
	}
	if err := result.Validate(); err != nil {
		return nil, c.fail(err)
	}

	return result, nil
}

// pageURL returns the base URL with the page query parameter set.
// Other query parameters on the base URL are preserved.
func (c *Client) pageURL(page int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func (w *wirePage) toPage(requested int) (*pagination.Page[pagination.Item], error) {
	if w.Items == nil {
		return nil, &DecodeError{Page: requested, Err: fmt.Errorf("missing items")}
	}
	switch {
	case w.TotalPages == nil:
		return nil, &pagination.InconsistentPaginationError{Page: requested, Reason: "totalPages missing"}
	case w.TotalItems == nil:
		return nil, &pagination.InconsistentPaginationError{Page: requested, Reason: "totalItems missing"}
	}

	page := &pagination.Page[pagination.Item]{
		Items:      *w.Items,
		PageNumber: requested,
		TotalPages: *w.TotalPages,
		TotalItems: *w.TotalItems,
	}
	if w.PageNumber != nil {
		page.PageNumber = *w.PageNumber
	}
	if w.IsLastPage != nil {
		page.IsLastPage = *w.IsLastPage
	} else {
		page.IsLastPage = page.PageNumber == page.TotalPages-1
	}
	return page, nil
}

// fail records and logs a classified error, then returns it unchanged.
func (c *Client) fail(err error) error {
	class := Classify(err)
	errorsTotal.WithLabelValues(string(class)).Inc()
	c.logger.Warn().
		Err(err).
		Str("error_class", string(class)).
		Msg("Page request failed")
	return err
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

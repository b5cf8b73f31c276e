// Package dgc is a client SDK for Collibra-compatible data governance
// catalogs. It wraps the REST 2.0 API with typed request builders,
// parameter validation, pagination and batching helpers, and a TTL
// metadata cache.
package dgc

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the per-request timeout applied when none is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to a single catalog instance. All methods are safe for
// concurrent use.
type Client struct {
	baseURL string
	apiBase string // baseURL + "/rest/2.0"

	httpClient *http.Client
	username   string
	password   string
	userAgent  string
	logger     *slog.Logger
	telemetry  Recorder
	maxRetries uint64
	retryBase  time.Duration

	// Per-resource services.
	Assets      *AssetsService
	Relations   *RelationsService
	Domains     *DomainsService
	Communities *CommunitiesService
	Attributes  *AttributesService
	Types       *TypesService
	Search      *SearchService
	Users       *UsersService
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth sets the HTTP basic auth credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the structured logger. Defaults to a discard handler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTelemetry installs a request recorder.
func WithTelemetry(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.telemetry = r
		}
	}
}

// WithRetry enables retrying of transient failures up to max attempts
// beyond the first, with fibonacci backoff starting at 250ms.
func WithRetry(max uint64) Option {
	return func(c *Client) { c.maxRetries = max }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the catalog at baseURL (scheme and host, without
// the /rest/2.0 suffix).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("dgc: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("dgc: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		apiBase: baseURL + "/rest/2.0",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "dgc-go",
		logger:    slog.New(slog.DiscardHandler),
		telemetry: NopRecorder{},
		retryBase: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Assets = &AssetsService{client: c}
	c.Relations = &RelationsService{client: c}
	c.Domains = &DomainsService{client: c}
	c.Communities = &CommunitiesService{client: c}
	c.Attributes = &AttributesService{client: c}
	c.Types = &TypesService{client: c}
	c.Search = &SearchService{client: c}
	c.Users = &UsersService{client: c}
	return c, nil
}

// BaseURL returns the configured catalog base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// validUUID reports whether s parses as a UUID.
func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// requireUUID validates a UUID-shaped parameter before any network call.
func requireUUID(name, value string) error {
	if value == "" {
		return fmt.Errorf("dgc: %s is required", name)
	}
	if !validUUID(value) {
		return fmt.Errorf("dgc: %s must be a valid UUID, got %q", name, value)
	}
	return nil
}

// optionalUUID validates a UUID parameter that may be empty.
func optionalUUID(name, value string) error {
	if value == "" {
		return nil
	}
	if !validUUID(value) {
		return fmt.Errorf("dgc: %s must be a valid UUID, got %q", name, value)
	}
	return nil
}

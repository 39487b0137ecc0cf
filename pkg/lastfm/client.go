package lastfm

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	APIKey       string        // Required: Last.fm API key
	HTTPClient   *http.Client  // Optional: HTTP client (defaults to one with a 30s timeout)
	BaseURL      string        // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	UserAgent    string        // Optional: User-Agent header (defaults to DefaultUserAgent)
	Retries      int           // Optional: extra attempts on temporary failures (default 0)
	RetryBackoff time.Duration // Optional: initial backoff between attempts (default 1s)
	Logger       Logger        // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm API operations.
type Client struct {
	apiKey       string
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	retries      int
	retryBackoff time.Duration
	logger       Logger

	user   *UserService
	artist *ArtistService
	track  *TrackService
	album  *AlbumService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "libi/1.0"

	// DefaultTimeout bounds each request when Config.HTTPClient is nil.
	DefaultTimeout = 30 * time.Second
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if required configuration (APIKey) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("%w: Retries must not be negative", ErrInvalidConfig)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	c := &Client{
		apiKey:       cfg.APIKey,
		httpClient:   httpClient,
		baseURL:      baseURL,
		userAgent:    userAgent,
		retries:      cfg.Retries,
		retryBackoff: backoff,
		logger:       cfg.Logger,
	}
	c.initServices()

	return c, nil
}

func (c *Client) initServices() {
	c.user = &UserService{client: c}
	c.artist = &ArtistService{client: c}
	c.track = &TrackService{client: c}
	c.album = &AlbumService{client: c}
}

// WithRetries returns a copy of the client that makes up to n extra
// attempts on temporary failures. The copy shares the HTTP client.
func (c *Client) WithRetries(n int) *Client {
	if n < 0 {
		n = 0
	}
	cp := *c
	cp.retries = n
	cp.initServices()
	return &cp
}

// User returns the user service.
func (c *Client) User() *UserService {
	return c.user
}

// Artist returns the artist service.
func (c *Client) Artist() *ArtistService {
	return c.artist
}

// Track returns the track service.
func (c *Client) Track() *TrackService {
	return c.track
}

// Album returns the album service.
func (c *Client) Album() *AlbumService {
	return c.album
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

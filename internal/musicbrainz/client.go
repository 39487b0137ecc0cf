package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the MusicBrainz web service root.
	DefaultBaseURL = "https://musicbrainz.org/ws/2"

	// DefaultUserAgent identifies the application as MusicBrainz requires.
	DefaultUserAgent = "libi/1.0 (https://github.com/aquafemi/libi)"

	rateLimitDur = time.Second // MusicBrainz requires 1 request per second

	// Retry configuration
	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second
)

// ErrNotFound is returned when MusicBrainz has no entity for an ID.
var ErrNotFound = errors.New("musicbrainz: not found")

// Options configures a Client. Zero values select the defaults.
type Options struct {
	HTTPClient   *http.Client
	BaseURL      string
	UserAgent    string
	RateLimit    time.Duration
	InitialDelay time.Duration
}

// Client provides access to the MusicBrainz API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	rateLimit    time.Duration
	initialDelay time.Duration

	lastRequest time.Time
	mu          sync.Mutex
}

// NewClient creates a new MusicBrainz API client.
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient:   opts.HTTPClient,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		userAgent:    opts.UserAgent,
		rateLimit:    opts.RateLimit,
		initialDelay: opts.InitialDelay,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.rateLimit <= 0 {
		c.rateLimit = rateLimitDur
	}
	if c.initialDelay <= 0 {
		c.initialDelay = initialDelay
	}
	return c
}

// Artist fetches an artist by MBID, including its URL relations.
func (c *Client) Artist(ctx context.Context, mbid string) (*Artist, error) {
	if strings.TrimSpace(mbid) == "" {
		return nil, fmt.Errorf("musicbrainz: mbid is required")
	}

	params := url.Values{}
	params.Set("inc", "url-rels+tags")
	params.Set("fmt", "json")

	var result artistResult
	path := "/artist/" + url.PathEscape(mbid)
	if err := c.get(ctx, path, params, &result); err != nil {
		return nil, err
	}

	artist := convertArtist(result)
	return &artist, nil
}

// SearchArtists searches for artists matching name, best match first.
func (c *Client) SearchArtists(ctx context.Context, name string, limit int) ([]Artist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	params := url.Values{}
	params.Set("query", name)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))

	var result artistSearchResponse
	if err := c.get(ctx, "/artist", params, &result); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(result.Artists))
	for _, r := range result.Artists {
		artists = append(artists, convertArtist(r))
	}
	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].Score > artists[j].Score
	})
	return artists, nil
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(ctx, req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// waitForRateLimit ensures we don't exceed MusicBrainz rate limits.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elapsed := time.Since(c.lastRequest); elapsed < c.rateLimit {
		timer := time.NewTimer(c.rateLimit - elapsed)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry.
// Retries on 5xx errors and network errors.
func (c *Client) doRequestWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			delay = min(delay*2, maxDelay)
			// Re-apply rate limit after retry delay
			if err := c.waitForRateLimit(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		// Success or client error (4xx) - don't retry
		if resp.StatusCode < 500 {
			return resp, nil
		}

		// Server error (5xx) - retry
		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

// convertArtist converts a raw API result to an Artist.
func convertArtist(r artistResult) Artist {
	a := Artist{
		ID:             r.ID,
		Name:           r.Name,
		SortName:       r.SortName,
		Type:           r.Type,
		Country:        r.Country,
		Score:          r.Score,
		Disambiguation: r.Disambiguation,
	}
	if r.LifeSpan != nil {
		a.BeginYear = extractYear(r.LifeSpan.Begin)
		a.EndYear = extractYear(r.LifeSpan.End)
	}

	sort.SliceStable(r.Tags, func(i, j int) bool {
		return r.Tags[i].Count > r.Tags[j].Count
	})
	for _, t := range r.Tags {
		a.Tags = append(a.Tags, t.Name)
	}

	for _, rel := range r.Relations {
		if rel.URL == nil || rel.URL.Resource == "" {
			continue
		}
		a.Relations = append(a.Relations, Relation{Type: rel.Type, URL: rel.URL.Resource})
	}
	return a
}

// extractYear returns the year portion of a date string (YYYY-MM-DD or YYYY).
func extractYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

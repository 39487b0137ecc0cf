// Package artwork resolves artist and album image URLs from Last.fm data,
// the Last.fm web page, and the iTunes Search API.
package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// placeholderHash identifies Last.fm's grey star image, served for
// artists without a picture.
const placeholderHash = "2a96cbd8b46e442fc41c2b86b821562f"

// negativeCacheTTL is how long a failed lookup is remembered.
const negativeCacheTTL = 10 * time.Minute

var openGraphImage = cascadia.MustCompile(`html > head > meta[property="og:image"]`)

type cacheEntry struct {
	url     string
	expires time.Time // zero for positive entries
}

// Resolver finds artwork and caches results to avoid repeated lookups for
// the same artist or album. It is safe for concurrent use.
type Resolver struct {
	mu       sync.Mutex
	cache    map[string]cacheEntry
	client   *http.Client
	endpoint string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		cache: make(map[string]cacheEntry),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		endpoint: "https://itunes.apple.com/search",
		now:      time.Now,
		logger:   logger.With().Str("component", "artwork").Logger(),
	}
}

type itunesResponse struct {
	Results []itunesResult `json:"results"`
}

type itunesResult struct {
	ArtworkURL100 string `json:"artworkUrl100"`
}

// IsPlaceholder reports whether u is Last.fm's placeholder image.
func IsPlaceholder(u string) bool {
	return strings.Contains(u, placeholderHash)
}

// ArtistImage returns an image URL for an artist. It tries the Last.fm
// images, then the og:image of the artist's Last.fm page, then iTunes.
// Returns empty string on any failure; callers should treat artwork as
// optional.
func (r *Resolver) ArtistImage(ctx context.Context, name, pageURL string, images []lastfm.Image) string {
	if u := lastfm.BestImage(images); u != "" && !IsPlaceholder(u) {
		return u
	}

	return r.cached("artist|"+strings.ToLower(name), func() string {
		if u := r.scrape(ctx, pageURL); u != "" {
			return u
		}
		return r.itunes(ctx, name, "album", "song")
	})
}

// AlbumImage returns an image URL for an album, falling back to iTunes
// when Last.fm has none.
func (r *Resolver) AlbumImage(ctx context.Context, artist, album string, images []lastfm.Image) string {
	if u := lastfm.BestImage(images); u != "" && !IsPlaceholder(u) {
		return u
	}
	if album == "" {
		return ""
	}

	return r.cached("album|"+strings.ToLower(artist+"|"+album), func() string {
		return r.itunes(ctx, artist+" "+album, "album", "song")
	})
}

func (r *Resolver) cached(key string, fetch func() string) string {
	r.mu.Lock()
	if e, ok := r.cache[key]; ok && (e.expires.IsZero() || r.now().Before(e.expires)) {
		r.mu.Unlock()
		return e.url
	}
	r.mu.Unlock()

	u := fetch()

	e := cacheEntry{url: u}
	if u == "" {
		e.expires = r.now().Add(negativeCacheTTL)
	}
	r.mu.Lock()
	r.cache[key] = e
	r.mu.Unlock()

	return u
}

// scrape reads the og:image meta tag of a Last.fm page.
func (r *Resolver) scrape(ctx context.Context, pageURL string) string {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return ""
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug().Err(err).Str("url", pageURL).Msg("Artist page fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	node, err := html.Parse(resp.Body)
	if err != nil {
		return ""
	}

	n := cascadia.Query(node, openGraphImage)
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == "content" && !IsPlaceholder(attr.Val) {
			return attr.Val
		}
	}
	return ""
}

// itunes searches each entity type in turn and returns the first artwork.
func (r *Resolver) itunes(ctx context.Context, term string, entities ...string) string {
	for _, entity := range entities {
		if u := r.itunesSearch(ctx, term, entity); u != "" {
			return u
		}
	}
	return ""
}

func (r *Resolver) itunesSearch(ctx context.Context, term, entity string) string {
	query := url.Values{
		"term":   {term},
		"entity": {entity},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", r.endpoint, query.Encode()), http.NoBody)
	if err != nil {
		return ""
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug().Err(err).Str("term", term).Msg("iTunes lookup failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var result itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}
	if len(result.Results) == 0 || result.Results[0].ArtworkURL100 == "" {
		return ""
	}

	// Upscale from 100x100 to 600x600 for better quality
	return strings.Replace(result.Results[0].ArtworkURL100, "100x100bb", "600x600bb", 1)
}

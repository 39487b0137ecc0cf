package artwork

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/rs/zerolog"
)

const placeholderURL = "https://lastfm.freetls.fastly.net/i/u/300x300/2a96cbd8b46e442fc41c2b86b821562f.png"

func newTestResolver(endpoint string) *Resolver {
	r := NewResolver(zerolog.Nop())
	r.endpoint = endpoint
	return r
}

func itunesServer(t *testing.T, hits *atomic.Int32, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		var resp itunesResponse
		if u, ok := results[r.URL.Query().Get("entity")]; ok {
			resp.Results = []itunesResult{{ArtworkURL100: u}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestArtistImage_PrefersLastFMImages(t *testing.T) {
	r := newTestResolver("http://127.0.0.1:1")

	got := r.ArtistImage(context.Background(), "Cher", "", []lastfm.Image{
		{Size: "medium", URL: "https://img/m.png"},
		{Size: "extralarge", URL: "https://img/xl.png"},
	})
	if got != "https://img/xl.png" {
		t.Errorf("ArtistImage() = %q, want extralarge image", got)
	}
}

func TestArtistImage_ScrapesOpenGraphForPlaceholder(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><head>
			<title>Cher | Last.fm</title>
			<meta property="og:image" content="https://img/cher-og.jpg">
		</head><body></body></html>`))
	}))
	defer page.Close()

	r := newTestResolver("http://127.0.0.1:1")
	got := r.ArtistImage(context.Background(), "Cher", page.URL, []lastfm.Image{{Size: "extralarge", URL: placeholderURL}})
	if got != "https://img/cher-og.jpg" {
		t.Errorf("ArtistImage() = %q, want og:image", got)
	}
}

func TestArtistImage_FallsBackToITunes(t *testing.T) {
	srv := itunesServer(t, nil, map[string]string{"song": "https://example.com/art/100x100bb.jpg"})

	r := newTestResolver(srv.URL)
	got := r.ArtistImage(context.Background(), "Ninajirachi", "", nil)
	want := "https://example.com/art/600x600bb.jpg"
	if got != want {
		t.Errorf("ArtistImage() = %q, want %q", got, want)
	}
}

func TestAlbumImage_CachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := itunesServer(t, &hits, map[string]string{"album": "https://example.com/art/100x100bb.jpg"})

	r := newTestResolver(srv.URL)
	for i := 0; i < 3; i++ {
		if got := r.AlbumImage(context.Background(), "Queen", "A Night at the Opera", nil); got != "https://example.com/art/600x600bb.jpg" {
			t.Fatalf("AlbumImage() = %q", got)
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("expected 1 HTTP request, got %d", n)
	}
}

func TestAlbumImage_EmptyOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestResolver(srv.URL)
	if got := r.AlbumImage(context.Background(), "Artist", "Album", nil); got != "" {
		t.Errorf("expected empty string on HTTP error, got %q", got)
	}
}

func TestAlbumImage_EmptyOnUnreachable(t *testing.T) {
	r := newTestResolver("http://127.0.0.1:1") // nothing listening

	if got := r.AlbumImage(context.Background(), "Artist", "Album", nil); got != "" {
		t.Errorf("expected empty string on connection error, got %q", got)
	}
}

func TestAlbumImage_NegativeCacheWithTTL(t *testing.T) {
	var hits atomic.Int32
	srv := itunesServer(t, &hits, nil)

	now := time.Now()
	r := newTestResolver(srv.URL)
	r.now = func() time.Time { return now }

	// First lookup misses (album + song fallback) and is cached as negative
	if got := r.AlbumImage(context.Background(), "Unknown", "Album", nil); got != "" {
		t.Errorf("first lookup: expected empty, got %q", got)
	}
	firstHits := hits.Load()
	if firstHits != 2 {
		t.Errorf("expected album and song lookups, got %d requests", firstHits)
	}

	if got := r.AlbumImage(context.Background(), "Unknown", "Album", nil); got != "" {
		t.Errorf("within TTL: expected empty, got %q", got)
	}
	if n := hits.Load(); n != firstHits {
		t.Errorf("expected no new requests within TTL, got %d more", n-firstHits)
	}

	now = now.Add(negativeCacheTTL + time.Second)
	r.AlbumImage(context.Background(), "Unknown", "Album", nil)
	if n := hits.Load(); n == firstHits {
		t.Error("expected new requests after TTL expiry, got none")
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !IsPlaceholder(placeholderURL) {
		t.Error("expected placeholder to be detected")
	}
	if IsPlaceholder("https://img/real.png") {
		t.Error("expected real image not to be a placeholder")
	}
}

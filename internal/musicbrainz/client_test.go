package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artistJSON = `{
  "id": "b10bbbfc-cf9e-42e0-be17-e2c3e1d2600d",
  "name": "The Beatles",
  "sort-name": "Beatles, The",
  "type": "Group",
  "country": "GB",
  "life-span": {"begin": "1960", "end": "1970-04-10"},
  "tags": [{"name": "rock", "count": 20}, {"name": "pop", "count": 31}],
  "relations": [
    {"type": "official homepage", "target-type": "url", "url": {"resource": "https://www.thebeatles.com/"}},
    {"type": "image", "target-type": "url", "url": {"resource": "https://commons.wikimedia.org/wiki/File:Beatles.jpg"}},
    {"type": "allmusic", "target-type": "url", "url": {"resource": "https://www.allmusic.com/artist/mn0000754032"}},
    {"type": "bandcamp", "target-type": "url", "url": null}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		BaseURL:      server.URL,
		UserAgent:    "libi-test/1.0 (test@example.com)",
		RateLimit:    time.Millisecond,
		InitialDelay: time.Millisecond,
	})
}

func TestClient_Artist(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artist/b10bbbfc-cf9e-42e0-be17-e2c3e1d2600d", r.URL.Path)
		assert.Equal(t, "url-rels+tags", r.URL.Query().Get("inc"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, "libi-test/1.0 (test@example.com)", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(artistJSON))
	})

	artist, err := c.Artist(context.Background(), "b10bbbfc-cf9e-42e0-be17-e2c3e1d2600d")
	require.NoError(t, err)

	assert.Equal(t, "The Beatles", artist.Name)
	assert.Equal(t, "Group", artist.Type)
	assert.Equal(t, "1960", artist.BeginYear)
	assert.Equal(t, "1970", artist.EndYear)
	assert.Equal(t, []string{"pop", "rock"}, artist.Tags)
	require.Len(t, artist.Relations, 3)
	assert.Equal(t, "https://commons.wikimedia.org/wiki/File:Beatles.jpg", artist.Relations.ImageURL())

	links := artist.Relations.Links()
	require.Len(t, links, 1)
	assert.Equal(t, Relation{Type: "official homepage", URL: "https://www.thebeatles.com/"}, links[0])
}

func TestClient_Artist_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Not Found"}`, http.StatusNotFound)
	})

	_, err := c.Artist(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Artist_RequiresMBID(t *testing.T) {
	c := NewClient(Options{})
	_, err := c.Artist(context.Background(), " ")
	assert.Error(t, err)
}

func TestClient_SearchArtists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artist", r.URL.Path)
		assert.Equal(t, "radiohead", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"artists":[
			{"id":"b","name":"Radiohead Tribute","score":40},
			{"id":"a","name":"Radiohead","score":100,"life-span":{"begin":"1985"}}
		]}`))
	})

	artists, err := c.SearchArtists(context.Background(), "radiohead", 5)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Radiohead", artists[0].Name)
	assert.Equal(t, 100, artists[0].Score)
	assert.Equal(t, "1985", artists[0].BeginYear)
}

func TestClient_SearchArtists_BlankQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected no request for blank query")
	})

	artists, err := c.SearchArtists(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, artists)
}

// mockTransport is a mock http.RoundTripper for testing.
type mockTransport struct {
	responses []*http.Response
	errors    []error
	callCount int
}

func (m *mockTransport) RoundTrip(*http.Request) (*http.Response, error) {
	idx := m.callCount
	m.callCount++

	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return nil, errors.New("no more responses configured")
}

func newMockResponse(statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       http.NoBody,
	}
}

func newMockClient(mock *mockTransport) *Client {
	return NewClient(Options{
		HTTPClient:   &http.Client{Transport: mock},
		RateLimit:    time.Millisecond,
		InitialDelay: time.Millisecond,
	})
}

func TestClient_DoRequestWithRetry_RetriesOn500(t *testing.T) {
	mock := &mockTransport{
		responses: []*http.Response{
			newMockResponse(http.StatusInternalServerError),
			newMockResponse(http.StatusBadGateway),
			newMockResponse(http.StatusOK),
		},
	}
	c := newMockClient(mock)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	resp, err := c.doRequestWithRetry(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, mock.callCount)
}

func TestClient_DoRequestWithRetry_ExhaustsRetries(t *testing.T) {
	mock := &mockTransport{
		responses: []*http.Response{
			newMockResponse(http.StatusServiceUnavailable),
			newMockResponse(http.StatusServiceUnavailable),
			newMockResponse(http.StatusServiceUnavailable),
			newMockResponse(http.StatusServiceUnavailable),
		},
	}
	c := newMockClient(mock)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	_, err := c.doRequestWithRetry(context.Background(), req) //nolint:bodyclose // error path returns no response
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server returned status 503")
	assert.Equal(t, maxRetries+1, mock.callCount)
}

func TestClient_DoRequestWithRetry_NoRetryOn4xx(t *testing.T) {
	mock := &mockTransport{
		responses: []*http.Response{newMockResponse(http.StatusBadRequest)},
	}
	c := newMockClient(mock)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	resp, err := c.doRequestWithRetry(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, mock.callCount)
}

func TestClient_DoRequestWithRetry_RetriesOnNetworkError(t *testing.T) {
	mock := &mockTransport{
		errors:    []error{errors.New("connection reset"), nil},
		responses: []*http.Response{nil, newMockResponse(http.StatusOK)},
	}
	c := newMockClient(mock)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	resp, err := c.doRequestWithRetry(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 2, mock.callCount)
}

func TestClient_WaitForRateLimit(t *testing.T) {
	c := NewClient(Options{RateLimit: 50 * time.Millisecond})

	start := time.Now()
	require.NoError(t, c.waitForRateLimit(context.Background()))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "first request should not wait")

	start = time.Now()
	require.NoError(t, c.waitForRateLimit(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "second request should wait")
}

func TestClient_WaitForRateLimit_ContextCancelled(t *testing.T) {
	c := NewClient(Options{RateLimit: time.Hour})
	require.NoError(t, c.waitForRateLimit(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.waitForRateLimit(ctx), context.DeadlineExceeded)
}

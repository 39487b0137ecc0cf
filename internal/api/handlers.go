package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/earnings"
	"github.com/aquafemi/libi/internal/pager"
	"github.com/aquafemi/libi/internal/stats"
	"github.com/aquafemi/libi/internal/store"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/go-chi/chi/v5"
)

// RecentResponse is one page of a user's recent activity.
type RecentResponse struct {
	User        string          `json:"user"`
	Mode        activity.Mode   `json:"mode"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"total_pages"`
	TotalItems  int             `json:"total_items"`
	ArtistTotal string          `json:"artist_total"`
	Items       []activity.Item `json:"items"`
	FetchedAt   time.Time       `json:"fetched_at"`
	Cached      bool            `json:"cached"`
}

// savedRecent is the form a refreshed list is stored in.
// A snapshot only answers requests with the same mode and limit.
type savedRecent struct {
	Username string          `json:"username"`
	Mode     activity.Mode   `json:"mode"`
	Limit    int             `json:"limit"`
	Items    []activity.Item `json:"items"`
}

// EarningsResponse holds per-count estimates and their dollar total.
type EarningsResponse struct {
	Estimates []Estimate `json:"estimates"`
	Total     string     `json:"total"`
}

// Estimate is the earnings for one play count.
type Estimate struct {
	Plays    int    `json:"plays"`
	Earnings string `json:"earnings"`
}

// handleRecent refreshes the user's recent activity and returns one page.
// With cached=1 the last stored list is served instead when one exists.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")

	cfg := s.cfg.Recent
	if m := r.URL.Query().Get("mode"); m != "" {
		mode, err := activity.ParseMode(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		cfg.Mode = mode
	}
	if n, ok, err := intParam(r, "limit"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if ok {
		cfg.Limit = n
	}
	page, _, err := intParam(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pageSize, ok, err := intParam(r, "page_size")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		pageSize = s.cfg.PageSize
	}
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}

	mode := cfg.Mode
	if mode == "" {
		mode = activity.ModePerPlay
	}

	var saved savedRecent
	var fetchedAt time.Time
	cached := false

	if r.URL.Query().Get("cached") == "1" && s.snapshots != nil {
		at, err := s.snapshots.LoadSnapshot(r.Context(), strings.TrimSpace(user), &saved)
		switch {
		case err == nil && saved.Mode == mode && saved.Limit == cfg.Limit:
			fetchedAt, cached = at, true
		case err == nil:
			s.logger.Debug().Str("user", user).Str("mode", string(saved.Mode)).Int("limit", saved.Limit).Msg("Snapshot does not match request")
		case !errors.Is(err, store.ErrNotFound):
			s.logger.Warn().Err(err).Str("user", user).Msg("Failed to load snapshot")
		}
	}

	if !cached {
		feed := activity.NewFeed()
		agg := activity.NewAggregator(s.source, feed, cfg, s.logger)
		if err := agg.Refresh(r.Context(), user); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		snap := feed.Snapshot()
		saved = savedRecent{Username: snap.Username, Mode: mode, Limit: cfg.Limit, Items: snap.Items}
		fetchedAt = time.Now()

		if s.snapshots != nil {
			if err := s.snapshots.SaveSnapshot(r.Context(), saved.Username, saved); err != nil {
				s.logger.Warn().Err(err).Str("user", saved.Username).Msg("Failed to save snapshot")
			}
		}
	}

	totalPages := pager.TotalPages(len(saved.Items), pageSize)
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	items := pager.Slice(saved.Items, page, pageSize)
	if items == nil {
		items = []activity.Item{}
	}

	writeJSON(w, http.StatusOK, RecentResponse{
		User:        saved.Username,
		Mode:        mode,
		Page:        page,
		TotalPages:  totalPages,
		TotalItems:  len(saved.Items),
		ArtistTotal: activity.ArtistTotal(saved.Items),
		Items:       items,
		FetchedAt:   fetchedAt,
		Cached:      cached,
	})
}

func (s *Server) handleTopArtists(w http.ResponseWriter, r *http.Request) {
	period, limit, ok := topParams(w, r)
	if !ok {
		return
	}
	artists, err := s.stats.TopArtists(r.Context(), chi.URLParam(r, "user"), period, limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleTopTracks(w http.ResponseWriter, r *http.Request) {
	period, limit, ok := topParams(w, r)
	if !ok {
		return
	}
	tracks, err := s.stats.TopTracks(r.Context(), chi.URLParam(r, "user"), period, limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleArtist(w http.ResponseWriter, r *http.Request) {
	detail, err := s.stats.ArtistDetail(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "artist"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.stats.Album(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "artist"), chi.URLParam(r, "album"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.stats.Recommendations(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, _, err := intParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	results, err := s.stats.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleEarnings estimates earnings for each plays parameter.
func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()["plays"]
	if len(values) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("plays is required"))
		return
	}

	resp := EarningsResponse{Estimates: make([]Estimate, 0, len(values))}
	counts := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid plays %q", v))
			return
		}
		counts = append(counts, n)
		resp.Estimates = append(resp.Estimates, Estimate{Plays: n, Earnings: earnings.Estimate(n)})
	}
	resp.Total = earnings.Total(counts...)

	writeJSON(w, http.StatusOK, resp)
}

func topParams(w http.ResponseWriter, r *http.Request) (lastfm.Period, int, bool) {
	period, err := lastfm.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", 0, false
	}
	limit, _, err := intParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", 0, false
	}
	return period, limit, true
}

// intParam parses a non-negative integer query parameter. ok is false when
// the parameter is absent.
func intParam(r *http.Request, name string) (n int, ok bool, err error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, true, nil
}

// statusFor maps domain errors to HTTP status codes. Anything else is an
// upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, activity.ErrNoUsername),
		errors.Is(err, stats.ErrNoUsername),
		errors.Is(err, lastfm.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, lastfm.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

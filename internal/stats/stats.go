// Package stats answers the listener-level questions: top artists and
// tracks, artist detail, recommendations and artist search.
package stats

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/earnings"
	"github.com/aquafemi/libi/internal/links"
	"github.com/aquafemi/libi/internal/musicbrainz"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoUsername is returned when a user-scoped query has no username.
var ErrNoUsername = errors.New("stats: username is required")

const (
	DefaultTopLimit    = 20
	DefaultSearchLimit = 10

	// musicBrainzTop is how many top artists are enriched from MusicBrainz.
	musicBrainzTop = 5
	// detailTracks is how many top tracks an artist detail includes.
	detailTracks = 5
	// recommendationSeeds is how many top artists seed recommendations.
	recommendationSeeds = 5
	// similarPerSeed is how many similar artists are asked for per seed.
	similarPerSeed = 3
	// minSearchScore is the MusicBrainz score a name search must reach to
	// be trusted as the same artist.
	minSearchScore = 90
)

// MusicBrainz looks up artist relations.
type MusicBrainz interface {
	Artist(ctx context.Context, mbid string) (*musicbrainz.Artist, error)
	SearchArtists(ctx context.Context, name string, limit int) ([]musicbrainz.Artist, error)
}

// Artwork resolves artist and album images.
type Artwork interface {
	ArtistImage(ctx context.Context, name, pageURL string, images []lastfm.Image) string
	AlbumImage(ctx context.Context, artist, album string, images []lastfm.Image) string
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	Concurrency   int           // lookups in flight (default 8)
	LookupTimeout time.Duration // per-lookup timeout (default 10s)
}

// Service combines Last.fm, MusicBrainz and artwork lookups. MusicBrainz
// and Artwork may be nil.
type Service struct {
	client  *lastfm.Client
	mb      MusicBrainz
	artwork Artwork
	opts    Options
	logger  zerolog.Logger
}

// NewService creates a Service.
func NewService(client *lastfm.Client, mb MusicBrainz, art Artwork, opts Options, logger zerolog.Logger) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = activity.DefaultConcurrency
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = activity.DefaultLookupTimeout
	}
	return &Service{
		client:  client,
		mb:      mb,
		artwork: art,
		opts:    opts,
		logger:  logger.With().Str("component", "stats").Logger(),
	}
}

// TopArtists returns the user's top artists with genre, image and links.
// An artist whose info lookup fails keeps its rank, play count and
// earnings.
func (s *Service) TopArtists(ctx context.Context, user string, period lastfm.Period, limit int) ([]Artist, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrNoUsername
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	top, err := s.client.User().TopArtists(ctx, user, period, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top artists for %s: %w", user, err)
	}
	if len(top) > limit {
		top = top[:limit]
	}
	top = slices.DeleteFunc(top, func(a lastfm.TopArtist) bool {
		return strings.TrimSpace(a.Name) == ""
	})

	artists := make([]Artist, len(top))
	for i, a := range top {
		artists[i] = Artist{
			Rank:           a.Rank,
			Name:           a.Name,
			MBID:           a.MBID,
			URL:            a.URL,
			PlayCount:      a.PlayCount,
			Earnings:       earnings.Estimate(a.PlayCount),
			Image:          lastfm.BestImage(a.Images),
			StreamingLinks: links.ArtistStreaming(a.Name),
			PurchaseLinks:  links.ArtistPurchase(a.Name),
		}
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i := range artists {
		g.Go(func() error {
			s.enrichArtist(ctx, user, &artists[i], top[i].Images)
			return nil
		})
	}
	_ = g.Wait()

	enriched := 0
	for i := range artists {
		if enriched == musicBrainzTop {
			break
		}
		if artists[i].MBID == "" {
			continue
		}
		enriched++
		artists[i].MusicBrainz = s.musicBrainzByID(ctx, artists[i].MBID)
	}

	return artists, nil
}

// enrichArtist fills genre, tags and image from artist.getInfo. Each call
// writes only to its own element.
func (s *Service) enrichArtist(ctx context.Context, user string, a *Artist, images []lastfm.Image) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	defer cancel()

	a.Genre = activity.DefaultGenre

	info, err := s.client.Artist().Info(ctx, a.Name, user)
	if err != nil {
		s.logger.Warn().Err(err).Str("artist", a.Name).Msg("Artist info lookup failed")
		return
	}

	a.Tags = tagNames(info.Tags)
	if len(a.Tags) > 0 {
		a.Genre = a.Tags[0]
	}
	if a.MBID == "" {
		a.MBID = info.MBID
	}
	if len(info.Images) > 0 {
		images = info.Images
	}
	a.Image = s.artistImage(ctx, a.Name, a.URL, images)
}

// TopTracks returns the user's top tracks with earnings and links.
func (s *Service) TopTracks(ctx context.Context, user string, period lastfm.Period, limit int) ([]Track, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrNoUsername
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	top, err := s.client.User().TopTracks(ctx, user, period, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top tracks for %s: %w", user, err)
	}
	if len(top) > limit {
		top = top[:limit]
	}

	tracks := make([]Track, 0, len(top))
	for _, t := range top {
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Artist) == "" {
			continue
		}
		tracks = append(tracks, newTrack(t, t.PlayCount))
	}
	return tracks, nil
}

// ArtistDetail returns an artist with the user's play count, MusicBrainz
// relations and the artist's top tracks with the user's play counts.
func (s *Service) ArtistDetail(ctx context.Context, user, artist string) (*ArtistDetail, error) {
	user = strings.TrimSpace(user)
	artist = strings.TrimSpace(artist)
	if user == "" {
		return nil, ErrNoUsername
	}
	if artist == "" {
		return nil, fmt.Errorf("stats: artist is required")
	}

	info, err := s.client.Artist().Info(ctx, artist, user)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artist %s: %w", artist, err)
	}

	name := info.Name
	if name == "" {
		name = artist
	}

	detail := &ArtistDetail{
		Name:           name,
		MBID:           info.MBID,
		URL:            info.URL,
		Summary:        info.Summary,
		Listeners:      info.Listeners,
		GlobalPlays:    info.PlayCount,
		PlayCount:      info.UserPlayCount,
		Earnings:       earnings.Estimate(info.UserPlayCount),
		OnTour:         info.OnTour,
		Tags:           tagNames(info.Tags),
		Genre:          activity.DefaultGenre,
		Image:          s.artistImage(ctx, name, info.URL, info.Images),
		StreamingLinks: links.ArtistStreaming(name),
		PurchaseLinks:  links.ArtistPurchase(name),
	}
	if len(detail.Tags) > 0 {
		detail.Genre = detail.Tags[0]
	}
	for _, sim := range info.Similar {
		detail.Similar = append(detail.Similar, sim.Name)
	}

	var g errgroup.Group
	g.Go(func() error {
		if detail.MBID != "" {
			detail.MusicBrainz = s.musicBrainzByID(ctx, detail.MBID)
		} else {
			detail.MusicBrainz = s.musicBrainzByName(ctx, name)
		}
		return nil
	})
	g.Go(func() error {
		detail.TopTracks = s.userTopTracks(ctx, user, name)
		return nil
	})
	_ = g.Wait()

	return detail, nil
}

// userTopTracks returns the artist's top tracks, each with the user's
// play count. A failed track lookup leaves that track at zero plays.
func (s *Service) userTopTracks(ctx context.Context, user, artist string) []Track {
	top, err := s.client.Artist().TopTracks(ctx, artist, detailTracks)
	if err != nil {
		s.logger.Warn().Err(err).Str("artist", artist).Msg("Artist top tracks lookup failed")
		return []Track{}
	}
	if len(top) > detailTracks {
		top = top[:detailTracks]
	}

	tracks := make([]Track, len(top))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, t := range top {
		tracks[i] = newTrack(t, 0)
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
			defer cancel()

			info, err := s.client.Track().Info(ctx, artist, t.Name, user)
			if err != nil {
				s.logger.Warn().Err(err).Str("artist", artist).Str("track", t.Name).Msg("Track lookup failed")
				return nil
			}
			tracks[i].PlayCount = info.UserPlayCount
			tracks[i].Earnings = earnings.Estimate(info.UserPlayCount)
			return nil
		})
	}
	_ = g.Wait()

	return tracks
}

// Album returns an album's tracks, each with the user's play count. A
// failed track lookup leaves that track at zero plays.
func (s *Service) Album(ctx context.Context, user, artist, album string) (*AlbumDetail, error) {
	user = strings.TrimSpace(user)
	artist = strings.TrimSpace(artist)
	album = strings.TrimSpace(album)
	if user == "" {
		return nil, ErrNoUsername
	}
	if artist == "" || album == "" {
		return nil, fmt.Errorf("stats: artist and album are required")
	}

	info, err := s.client.Album().Info(ctx, artist, album)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album %s by %s: %w", album, artist, err)
	}
	if info.Name != "" {
		album = info.Name
	}
	if info.Artist != "" {
		artist = info.Artist
	}

	detail := &AlbumDetail{
		Name:           album,
		Artist:         artist,
		MBID:           info.MBID,
		URL:            info.URL,
		Tags:           tagNames(info.Tags),
		Listeners:      info.Listeners,
		GlobalPlays:    info.PlayCount,
		Image:          s.albumImage(ctx, artist, album, info.Images),
		Tracks:         make([]Track, len(info.Tracks)),
		StreamingLinks: links.TrackStreaming(album, artist),
		PurchaseLinks:  links.TrackPurchase(album, artist),
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, t := range info.Tracks {
		detail.Tracks[i] = newTrack(lastfm.TopTrack{Rank: t.Rank, Name: t.Name, Artist: artist, URL: t.URL}, 0)
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
			defer cancel()

			ti, err := s.client.Track().Info(ctx, artist, t.Name, user)
			if err != nil {
				s.logger.Warn().Err(err).Str("artist", artist).Str("track", t.Name).Msg("Track lookup failed")
				return nil
			}
			detail.Tracks[i].PlayCount = ti.UserPlayCount
			detail.Tracks[i].Earnings = earnings.Estimate(ti.UserPlayCount)
			return nil
		})
	}
	_ = g.Wait()

	for _, t := range detail.Tracks {
		detail.PlayCount += t.PlayCount
	}
	detail.Earnings = earnings.Estimate(detail.PlayCount)

	return detail, nil
}

// Recommendations suggests artists similar to the user's five all-time
// top artists, excluding those artists themselves. Each suggestion
// appears once, attributed to the first seed that produced it.
func (s *Service) Recommendations(ctx context.Context, user string) ([]Recommendation, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrNoUsername
	}

	seeds, err := s.client.User().TopArtists(ctx, user, lastfm.PeriodOverall, recommendationSeeds)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top artists for %s: %w", user, err)
	}
	if len(seeds) > recommendationSeeds {
		seeds = seeds[:recommendationSeeds]
	}

	similar := make([][]lastfm.SimilarArtist, len(seeds))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
			defer cancel()

			found, err := s.client.Artist().Similar(ctx, seed.Name, similarPerSeed)
			if err != nil {
				s.logger.Warn().Err(err).Str("artist", seed.Name).Msg("Similar artists lookup failed")
				return nil
			}
			similar[i] = found
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		seen[strings.ToLower(seed.Name)] = struct{}{}
	}

	recs := []Recommendation{}
	for i, found := range similar {
		for _, a := range found {
			key := strings.ToLower(a.Name)
			if _, dup := seen[key]; dup || key == "" {
				continue
			}
			seen[key] = struct{}{}
			recs = append(recs, Recommendation{
				Name:          a.Name,
				MBID:          a.MBID,
				URL:           a.URL,
				Match:         a.Match,
				Because:       seeds[i].Name,
				Image:         lastfm.BestImage(a.Images),
				PurchaseLinks: links.Discovery(a.Name),
			})
		}
	}
	return recs, nil
}

// Search returns artists matching query. A blank query returns no
// results without calling Last.fm.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	matches, err := s.client.Artist().Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists for %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Name:           m.Name,
			MBID:           m.MBID,
			URL:            m.URL,
			Listeners:      m.Listeners,
			Image:          lastfm.BestImage(m.Images),
			StreamingLinks: links.ArtistStreaming(m.Name),
		})
	}
	return results, nil
}

func (s *Service) artistImage(ctx context.Context, name, pageURL string, images []lastfm.Image) string {
	if s.artwork == nil {
		return lastfm.BestImage(images)
	}
	return s.artwork.ArtistImage(ctx, name, pageURL, images)
}

func (s *Service) albumImage(ctx context.Context, artist, album string, images []lastfm.Image) string {
	if s.artwork == nil {
		return lastfm.BestImage(images)
	}
	return s.artwork.AlbumImage(ctx, artist, album, images)
}

func (s *Service) musicBrainzByID(ctx context.Context, mbid string) *musicbrainz.Artist {
	if s.mb == nil {
		return nil
	}
	artist, err := s.mb.Artist(ctx, mbid)
	if err != nil {
		s.logger.Warn().Err(err).Str("mbid", mbid).Msg("MusicBrainz lookup failed")
		return nil
	}
	return artist
}

// musicBrainzByName searches by name and fetches the best match when its
// score is high enough.
func (s *Service) musicBrainzByName(ctx context.Context, name string) *musicbrainz.Artist {
	if s.mb == nil {
		return nil
	}
	found, err := s.mb.SearchArtists(ctx, name, 1)
	if err != nil {
		s.logger.Warn().Err(err).Str("artist", name).Msg("MusicBrainz search failed")
		return nil
	}
	if len(found) == 0 || found[0].Score < minSearchScore {
		return nil
	}
	return s.musicBrainzByID(ctx, found[0].ID)
}

func newTrack(t lastfm.TopTrack, plays int) Track {
	return Track{
		Rank:           t.Rank,
		Name:           t.Name,
		Artist:         t.Artist,
		URL:            t.URL,
		PlayCount:      plays,
		Earnings:       earnings.Estimate(plays),
		Image:          lastfm.BestImage(t.Images),
		StreamingLinks: links.TrackStreaming(t.Name, t.Artist),
		PurchaseLinks:  links.TrackPurchase(t.Name, t.Artist),
	}
}

func tagNames(tags []lastfm.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

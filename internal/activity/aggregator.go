// Package activity builds a listener's recent-activity list: recent plays
// fetched in one call, then enriched in place with per-track and
// per-artist play counts as follow-up lookups resolve.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aquafemi/libi/internal/earnings"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoUsername is returned by Refresh when no username is set.
var ErrNoUsername = errors.New("activity: username is required")

// Config controls the aggregator.
type Config struct {
	Limit         int           // plays to fetch (default 50, max 200)
	Mode          Mode          // default ModePerPlay
	LookupTimeout time.Duration // per-lookup timeout (default 10s)
	FetchTimeout  time.Duration // recent-tracks fetch timeout, retries included (default 30s)
	Concurrency   int           // lookups in flight (default 8)
}

const (
	DefaultLimit         = 50
	DefaultLookupTimeout = 10 * time.Second
	DefaultFetchTimeout  = 30 * time.Second
	DefaultConcurrency   = 8
)

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Limit > lastfm.MaxRecentLimit {
		c.Limit = lastfm.MaxRecentLimit
	}
	if c.Mode == "" {
		c.Mode = ModePerPlay
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// Aggregator refreshes a Feed from a Source.
type Aggregator struct {
	source Source
	feed   *Feed
	cfg    Config
	logger zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewAggregator creates an aggregator writing to feed.
func NewAggregator(source Source, feed *Feed, cfg Config, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		feed:   feed,
		cfg:    cfg.withDefaults(),
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// Feed returns the feed the aggregator writes to.
func (a *Aggregator) Feed() *Feed {
	return a.feed
}

// Mode returns the configured mode.
func (a *Aggregator) Mode() Mode {
	return a.cfg.Mode
}

// Refresh rebuilds the feed for username. It publishes the plays as soon
// as they are fetched, then blocks until every enrichment lookup has
// settled. A Refresh started while another is running supersedes it.
//
// Only a failure of the recent-tracks fetch is returned; failed lookups
// are logged and leave the affected item at its defaults.
func (a *Aggregator) Refresh(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrNoUsername
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.mu.Unlock()

	gen := a.feed.Begin(username)
	log := a.logger.With().Str("user", username).Uint64("generation", gen).Logger()

	start := time.Now()
	tracks, err := a.fetch(ctx, username)
	if err != nil {
		if !a.feed.Fail(gen, err) {
			log.Debug().Err(err).Msg("Refresh superseded during fetch")
			return nil
		}
		return fmt.Errorf("failed to fetch recent tracks for %s: %w", username, err)
	}

	items := BuildItems(tracks, a.cfg.Mode)
	if !a.feed.Load(gen, items) {
		log.Debug().Msg("Refresh superseded before load")
		return nil
	}
	log.Debug().
		Int("plays", len(tracks)).
		Int("items", len(items)).
		Str("mode", string(a.cfg.Mode)).
		Dur("took", time.Since(start)).
		Msg("Loaded recent tracks")

	a.enrich(ctx, gen, username, items, log)

	a.feed.Settle(gen)
	log.Debug().Dur("took", time.Since(start)).Msg("Enrichment settled")
	return nil
}

func (a *Aggregator) fetch(ctx context.Context, username string) ([]lastfm.RecentTrack, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()
	return a.source.RecentTracks(ctx, username, a.cfg.Limit)
}

// enrich runs the per-item lookups and waits for all of them.
func (a *Aggregator) enrich(ctx context.Context, gen uint64, username string, items []Item, log zerolog.Logger) {
	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			a.lookupTrack(ctx, gen, i, item, username, log)
			return nil
		})
		g.Go(func() error {
			a.lookupArtist(ctx, gen, i, item, username, log)
			return nil
		})
	}

	_ = g.Wait()
}

func (a *Aggregator) lookupTrack(ctx context.Context, gen uint64, index int, item Item, username string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.LookupTimeout)
	defer cancel()

	info, err := a.source.TrackInfo(ctx, item.Artist, item.Name, username)
	if err != nil {
		a.logLookupFailure(ctx, log, err).
			Str("track", item.Name).
			Str("artist", item.Artist).
			Msg("Track lookup failed")
		return
	}
	if info == nil || info.UserPlayCount <= 0 {
		return
	}

	a.feed.Update(gen, index, func(it *Item) {
		it.TrackPlayCount = info.UserPlayCount
		it.TrackEarnings = earnings.Estimate(info.UserPlayCount)
	})
}

func (a *Aggregator) lookupArtist(ctx context.Context, gen uint64, index int, item Item, username string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.LookupTimeout)
	defer cancel()

	info, err := a.source.ArtistInfo(ctx, item.Artist, username)
	if err != nil {
		a.logLookupFailure(ctx, log, err).
			Str("artist", item.Artist).
			Msg("Artist lookup failed")
		return
	}
	if info == nil {
		return
	}

	genre := DefaultGenre
	if len(info.Tags) > 0 && info.Tags[0].Name != "" {
		genre = info.Tags[0].Name
	}

	a.feed.Update(gen, index, func(it *Item) {
		it.Genre = genre
		if info.UserPlayCount > 0 {
			it.ArtistPlayCount = info.UserPlayCount
			it.ArtistEarnings = earnings.Estimate(info.UserPlayCount)
		}
	})
}

// logLookupFailure logs at warn, or at debug when the refresh itself was
// cancelled.
func (a *Aggregator) logLookupFailure(ctx context.Context, log zerolog.Logger, err error) *zerolog.Event {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return log.Debug().Err(err)
	}
	return log.Warn().Err(err)
}

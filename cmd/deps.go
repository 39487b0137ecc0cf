package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/artwork"
	"github.com/aquafemi/libi/internal/config"
	"github.com/aquafemi/libi/internal/musicbrainz"
	"github.com/aquafemi/libi/internal/session"
	"github.com/aquafemi/libi/internal/stats"
	"github.com/aquafemi/libi/internal/store"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errNoUser is returned when neither --user nor a saved user is set.
var errNoUser = errors.New("no Last.fm user set. Run 'libi user set <name>' or pass --user")

// deps holds everything a command needs. Fields are built lazily by the
// open* helpers so that commands which never talk to Last.fm do not need
// an API key.
type deps struct {
	cfg      *config.Config
	logger   zerolog.Logger
	logLevel string
	store    *store.Store
	session  *session.Session

	client *lastfm.Client
}

// loadDeps reads configuration, sets up logging and opens the preference
// store and session.
func loadDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger := setupLogger(flagLogFile, level)

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	sess, err := session.Load(ctx, st)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &deps{cfg: cfg, logger: logger, logLevel: level, store: st, session: sess}, nil
}

// Close releases the preference store.
func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to close preference store")
	}
}

// lastfm returns the Last.fm client, creating it on first use.
func (d *deps) lastfm() (*lastfm.Client, error) {
	if d.client != nil {
		return d.client, nil
	}
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:  d.cfg.LastFM.APIKey,
		BaseURL: d.cfg.LastFM.BaseURL,
		Logger:  lastfmLogger{logger: d.logger.With().Str("component", "lastfm").Logger()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Last.fm client: %w", err)
	}
	d.client = client
	return client, nil
}

// stats returns a stats service backed by Last.fm, MusicBrainz and
// artwork lookups.
func (d *deps) stats() (*stats.Service, error) {
	client, err := d.lastfm()
	if err != nil {
		return nil, err
	}

	mb := musicbrainz.NewClient(musicbrainz.Options{UserAgent: d.cfg.MusicBrainz.UserAgent})
	art := artwork.NewResolver(d.logger)

	return stats.NewService(client, mb, art, stats.Options{
		Concurrency:   d.cfg.Recent.Concurrency,
		LookupTimeout: d.cfg.Recent.LookupTimeout,
	}, d.logger), nil
}

// source returns the recent-activity source.
func (d *deps) source() (*activity.LastFMSource, error) {
	client, err := d.lastfm()
	if err != nil {
		return nil, err
	}
	return activity.NewLastFMSource(client, d.cfg.Recent.FetchRetries), nil
}

// recentConfig builds the aggregator configuration. mode overrides the
// configured mode when non-empty.
func (d *deps) recentConfig(mode string) (activity.Config, error) {
	if mode == "" {
		mode = d.cfg.Recent.Mode
	}
	m, err := activity.ParseMode(mode)
	if err != nil {
		return activity.Config{}, err
	}
	return activity.Config{
		Limit:         d.cfg.Recent.Limit,
		Mode:          m,
		LookupTimeout: d.cfg.Recent.LookupTimeout,
		FetchTimeout:  d.cfg.Recent.FetchTimeout,
		Concurrency:   d.cfg.Recent.Concurrency,
	}, nil
}

// user returns the --user flag, or the saved user.
func (d *deps) user() (string, error) {
	if u := strings.TrimSpace(flagUser); u != "" {
		return u, nil
	}
	if u := d.session.Username(); u != "" {
		return u, nil
	}
	return "", errNoUser
}

// withDeps wraps a command body with dependency setup and teardown.
func withDeps(run func(cmd *cobra.Command, args []string, d *deps) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		return run(cmd, args, d)
	}
}

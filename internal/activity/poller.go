package activity

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Poller refreshes the feed at regular intervals.
type Poller struct {
	agg      *Aggregator
	username func() string
	interval time.Duration
	logger   zerolog.Logger
}

// NewPoller creates a Poller. username is read on every tick so a changed
// username takes effect on the next refresh.
func NewPoller(agg *Aggregator, username func() string, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{
		agg:      agg,
		username: username,
		interval: interval,
		logger:   logger.With().Str("component", "poller").Logger(),
	}
}

// Run refreshes immediately and then on every tick.
// Blocks until context is cancelled
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info().
		Dur("interval", p.interval).
		Msg("Starting poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll runs one refresh. Errors are logged; the feed already carries them.
func (p *Poller) poll(ctx context.Context) {
	user := p.username()
	err := p.agg.Refresh(ctx, user)
	switch {
	case err == nil:
		p.logger.Debug().Str("user", user).Msg("Poll refreshed")
	case errors.Is(err, ErrNoUsername):
		p.logger.Debug().Msg("No username set, skipping poll")
	case ctx.Err() != nil:
	default:
		p.logger.Warn().Err(err).Str("user", user).Msg("Poll refresh failed")
	}
}

package activity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/rs/zerolog"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPoller_FollowsUsername(t *testing.T) {
	src := &fakeSource{tracks: map[string][]lastfm.RecentTrack{
		"rj":   {play("Believe", "Cher", 300)},
		"cher": {play("Hyperballad", "Björk", 200), play("Joga", "Björk", 100)},
	}}
	agg := newTestAggregator(src, Config{})

	var user atomic.Value
	user.Store("rj")
	poller := NewPoller(agg, func() string { return user.Load().(string) }, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	waitFor(t, func() bool {
		s := agg.Feed().Snapshot()
		return s.Username == "rj" && len(s.Items) == 1 && !s.Loading
	})

	user.Store("cher")
	waitFor(t, func() bool {
		s := agg.Feed().Snapshot()
		return s.Username == "cher" && len(s.Items) == 2
	})

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPoller_SkipsBlankUsername(t *testing.T) {
	src := &fakeSource{}
	agg := newTestAggregator(src, Config{})

	var polls atomic.Int32
	poller := NewPoller(agg, func() string {
		polls.Add(1)
		return ""
	}, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = poller.Run(ctx) }()

	waitFor(t, func() bool { return polls.Load() >= 3 })

	if s := agg.Feed().Snapshot(); s.Username != "" || len(s.Items) != 0 {
		t.Errorf("expected untouched feed, got %+v", s)
	}
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/pager"
	"github.com/aquafemi/libi/internal/session"
	"github.com/aquafemi/libi/internal/store"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

type fakeSource struct {
	tracks []lastfm.RecentTrack
}

func (f *fakeSource) RecentTracks(context.Context, string, int) ([]lastfm.RecentTrack, error) {
	return f.tracks, nil
}

func (f *fakeSource) TrackInfo(context.Context, string, string, string) (*lastfm.TrackInfo, error) {
	return &lastfm.TrackInfo{UserPlayCount: 1234}, nil
}

func (f *fakeSource) ArtistInfo(context.Context, string, string) (*lastfm.ArtistInfo, error) {
	return &lastfm.ArtistInfo{UserPlayCount: 250}, nil
}

func newTestApp(t *testing.T, plays int) *App {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sess, err := session.Load(context.Background(), st)
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}

	tracks := make([]lastfm.RecentTrack, plays)
	for i := range tracks {
		tracks[i] = lastfm.RecentTrack{Name: fmt.Sprintf("Track %d", i), Artist: "Cher"}
	}

	agg := activity.NewAggregator(&fakeSource{tracks: tracks}, activity.NewFeed(), activity.Config{}, zerolog.Nop())
	a := New(agg, sess, Config{PageSize: 10, PageDelay: 0}, zerolog.Nop())
	a.draw = func(fn func()) { fn() }
	t.Cleanup(a.Stop)
	return a
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestApp_PagesThroughFeed(t *testing.T) {
	a := newTestApp(t, 25)

	if err := a.agg.Refresh(context.Background(), "rj"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	view := a.pager.View()
	if view.TotalPages != 3 || view.Page != 0 {
		t.Fatalf("expected first of 3 pages, got %+v", view)
	}
	if !strings.Contains(a.lastList, "Track 0") || strings.Contains(a.lastList, "Track 10") {
		t.Errorf("unexpected first page:\n%s", a.lastList)
	}
	if !strings.Contains(a.lastList, "$4.9360") {
		t.Errorf("expected enriched earnings in list:\n%s", a.lastList)
	}

	if a.handleKeyEvent(key('n')) != nil {
		t.Error("expected n to be consumed")
	}
	if a.pager.View().Page != 1 || !strings.Contains(a.lastList, "Track 10") {
		t.Errorf("expected second page, got page %d", a.pager.View().Page)
	}

	a.handleKeyEvent(key('n'))
	a.handleKeyEvent(key('n'))
	if a.pager.View().Page != 2 {
		t.Errorf("expected to stay on last page, got %d", a.pager.View().Page)
	}

	a.handleKeyEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if a.pager.View().Page != 1 {
		t.Errorf("expected left arrow to go back, got %d", a.pager.View().Page)
	}

	if !strings.Contains(a.lastHeader, "Page 2 of 3") {
		t.Errorf("unexpected header: %s", a.lastHeader)
	}

	// Unhandled keys pass through.
	if ev := key('x'); a.handleKeyEvent(ev) != ev {
		t.Error("expected unhandled key to be returned")
	}
}

func TestApp_NewGenerationResetsPage(t *testing.T) {
	a := newTestApp(t, 25)
	ctx := context.Background()

	_ = a.agg.Refresh(ctx, "rj")
	a.handleKeyEvent(key('n'))
	if a.pager.View().Page != 1 {
		t.Fatalf("expected page 1, got %d", a.pager.View().Page)
	}

	_ = a.agg.Refresh(ctx, "rj")
	if a.pager.View().Page != 0 {
		t.Errorf("expected refresh to reset to page 0, got %d", a.pager.View().Page)
	}
}

func TestApp_ToggleTheme(t *testing.T) {
	a := newTestApp(t, 0)

	a.handleKeyEvent(key('t'))
	if a.session.Theme() != session.ThemeLight {
		t.Errorf("expected light theme, got %s", a.session.Theme())
	}
	a.handleKeyEvent(key('t'))
	if a.session.Theme() != session.ThemeDark {
		t.Errorf("expected dark theme, got %s", a.session.Theme())
	}
}

func TestRenderHeader(t *testing.T) {
	p := paletteFor(session.ThemeDark)

	if got := renderHeader("", activity.Snapshot{}, pager.View[activity.Item]{}, activity.ModePerPlay, nil, p); !strings.Contains(got, "Press u") {
		t.Errorf("expected username prompt, got %q", got)
	}

	failed := activity.Snapshot{Err: errors.New("lastfm: error 6: User not found")}
	if got := renderHeader("nobody", failed, pager.View[activity.Item]{}, activity.ModePerPlay, nil, p); !strings.Contains(got, "User not found") {
		t.Errorf("expected error in header, got %q", got)
	}

	items := []activity.Item{
		{Artist: "Cher", ArtistPlayCount: 500},
		{Artist: "cher", ArtistPlayCount: 500},
		{Artist: "MGMT", ArtistPlayCount: 250},
	}
	s := activity.Snapshot{Items: items, Loading: true}
	v := pager.View[activity.Item]{Page: 0, TotalPages: 1, Items: items}
	got := renderHeader("rj", s, v, activity.ModePerArtist, nil, p)
	for _, want := range []string{"rj", "per-artist mode", "loading", "Page 1 of 1", "3 items", "$3.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("header %q missing %q", got, want)
		}
	}
}

func TestRenderItems(t *testing.T) {
	p := paletteFor(session.ThemeLight)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	played := now.Add(-3 * time.Hour)

	if got := renderItems(pager.View[activity.Item]{}, p, now); !strings.Contains(got, "No recent tracks") {
		t.Errorf("expected empty message, got %q", got)
	}

	v := pager.View[activity.Item]{Items: []activity.Item{
		{Name: "Believe", Artist: "Cher", Album: "Believe", NowPlaying: true, TrackPlayCount: 250, TrackEarnings: "1.0000", ArtistPlayCount: 12345, ArtistEarnings: "49.3800", Genre: "pop"},
		{Name: "Kids [Live]", Artist: "MGMT", PlayedAt: &played, TrackEarnings: "0.0000", ArtistEarnings: "0.0000"},
	}}
	got := renderItems(v, p, now)
	for _, want := range []string{"Believe", "now playing", "$1.0000", "12,345", "$49.3800", "pop", "3 hours ago", "Music"} {
		if !strings.Contains(got, want) {
			t.Errorf("list missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Kids [Live]") {
		t.Error("expected brackets to be escaped for tview")
	}
}

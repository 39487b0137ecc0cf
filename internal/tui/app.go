// Package tui is a terminal browser for a listener's recent activity.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/pager"
	"github.com/aquafemi/libi/internal/session"
	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
)

const usernamePage = "username"

// Config holds TUI configuration options
type Config struct {
	RefreshInterval time.Duration // How often to re-fetch recent activity
	PageSize        int           // Items per page
	PageDelay       time.Duration // Page transition delay
}

// DefaultConfig returns the default TUI configuration
func DefaultConfig() Config {
	return Config{
		RefreshInterval: time.Minute,
		PageSize:        pager.DefaultPageSize,
		PageDelay:       pager.DefaultDelay,
	}
}

// App is the TUI application for browsing recent activity
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	layout *tview.Flex
	header *tview.TextView
	list   *tview.TextView
	status *tview.TextView
	input  *tview.InputField

	agg     *activity.Aggregator
	session *session.Session
	pager   *pager.Pager[activity.Item]
	config  Config
	logger  zerolog.Logger

	// draw schedules a UI update. It is app.QueueUpdateDraw outside tests.
	draw func(func())

	// Mutex protects state written by feed and pager callbacks.
	mu sync.Mutex

	// feedMu serializes snapshot delivery so that the pager sees lists in
	// revision order.
	feedMu sync.Mutex

	// Current state (guarded by mu)
	snapshot   activity.Snapshot
	view       pager.View[activity.Item]
	generation uint64
	lastErr    error

	// Last-rendered content for change detection
	lastHeader string
	lastList   string

	ctx         context.Context
	cancelFunc  context.CancelFunc
	unsubscribe func()
}

// New creates a TUI application driven by agg. The session supplies the
// username and theme.
func New(agg *activity.Aggregator, sess *session.Session, cfg Config, logger zerolog.Logger) *App {
	if cfg.PageSize <= 0 {
		cfg.PageSize = pager.DefaultPageSize
	}
	a := &App{
		app:     tview.NewApplication(),
		agg:     agg,
		session: sess,
		pager:   pager.New[activity.Item](cfg.PageSize, cfg.PageDelay),
		config:  cfg,
		logger:  logger.With().Str("component", "tui").Logger(),
		ctx:     context.Background(),
	}
	a.draw = func(fn func()) { a.app.QueueUpdateDraw(fn) }
	a.view = a.pager.View()
	a.setupUI()

	a.pager.OnChange(a.onPage)
	a.unsubscribe = agg.Feed().Subscribe(a.onSnapshot)
	sess.OnChange(a.onSession)

	return a
}

// setupUI creates the UI layout
func (a *App) setupUI() {
	// Header: user, page and totals
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.header.SetBorder(true).
		SetTitle(" libi ").
		SetTitleAlign(tview.AlignLeft)

	// Recent activity page
	a.list = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	a.list.SetBorder(true).
		SetTitle(" Recent ").
		SetTitleAlign(tview.AlignLeft)

	// Status bar
	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("n:next  p:prev  r:refresh  t:theme  u:user  q:quit")

	a.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 4, 1, false).
		AddItem(a.list, 0, 1, true).
		AddItem(a.status, 1, 1, false)

	// Username prompt
	a.input = tview.NewInputField().
		SetLabel("Last.fm username: ").
		SetFieldWidth(32)
	a.input.SetBorder(true).SetTitle(" User ")
	a.input.SetDoneFunc(a.onUsernameDone)

	prompt := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(a.input, 3, 1, true).
			AddItem(nil, 0, 1, false), 56, 1, true).
		AddItem(nil, 0, 1, false)

	a.pages = tview.NewPages().
		AddPage("main", a.layout, true, true).
		AddPage(usernamePage, prompt, true, false)

	// Handle keyboard input
	a.app.SetInputCapture(a.handleKeyEvent)

	a.app.SetRoot(a.pages, true)
	a.applyTheme(a.session.Theme())
}

// handleKeyEvent processes keyboard input
func (a *App) handleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	if name, _ := a.pages.GetFrontPage(); name == usernamePage {
		return event
	}

	switch event.Rune() {
	case 'q', 'Q':
		a.Stop()
		return nil
	case 'n', 'N':
		a.pager.Next()
		return nil
	case 'p', 'P':
		a.pager.Prev()
		return nil
	case 'r', 'R':
		a.refreshAsync()
		return nil
	case 't', 'T':
		if _, err := a.session.ToggleTheme(a.ctx); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to toggle theme")
		}
		return nil
	case 'u', 'U':
		a.input.SetText(a.session.Username())
		a.pages.ShowPage(usernamePage)
		a.app.SetFocus(a.input)
		return nil
	}

	switch event.Key() {
	case tcell.KeyRight:
		a.pager.Next()
		return nil
	case tcell.KeyLeft:
		a.pager.Prev()
		return nil
	}
	return event
}

func (a *App) onUsernameDone(key tcell.Key) {
	a.pages.HidePage(usernamePage)
	a.app.SetFocus(a.list)

	if key != tcell.KeyEnter {
		return
	}
	if err := a.session.SetUsername(a.ctx, a.input.GetText()); err != nil {
		a.mu.Lock()
		a.lastErr = err
		a.mu.Unlock()
		a.refresh()
	}
}

// Run starts the TUI and polls for recent activity until ctx is cancelled
// or the user quits.
func (a *App) Run(ctx context.Context) error {
	// Create cancellable context
	ctx, a.cancelFunc = context.WithCancel(ctx)
	a.ctx = ctx
	defer a.cancelFunc()

	if a.session.Username() == "" {
		a.pages.ShowPage(usernamePage)
		a.app.SetFocus(a.input)
	}

	interval := a.config.RefreshInterval
	if interval <= 0 {
		interval = DefaultConfig().RefreshInterval
	}
	poller := activity.NewPoller(a.agg, a.session.Username, interval, a.logger)
	go poller.Run(ctx)

	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	a.refresh()

	// Run application
	if err := a.app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// Stop stops the TUI application
func (a *App) Stop() {
	if a.cancelFunc != nil {
		a.cancelFunc()
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.pager.Close()
	a.app.Stop()
}

func (a *App) refreshAsync() {
	username := a.session.Username()
	go func() {
		err := a.agg.Refresh(a.ctx, username)
		a.mu.Lock()
		a.lastErr = err
		a.mu.Unlock()
		if err != nil {
			a.logger.Debug().Err(err).Msg("Manual refresh failed")
			a.refresh()
		}
	}()
}

// onSnapshot feeds a new list into the pager. A new generation resets to
// the first page; enrichment of the same generation keeps the page.
func (a *App) onSnapshot(s activity.Snapshot) {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()

	a.mu.Lock()
	if s.Revision <= a.snapshot.Revision {
		a.mu.Unlock()
		return
	}
	newGeneration := s.Generation != a.generation
	a.generation = s.Generation
	a.snapshot = s
	if s.Err == nil && !s.Loading {
		a.lastErr = nil
	}
	a.mu.Unlock()

	if newGeneration {
		a.pager.SetItems(s.Items)
	} else {
		a.pager.Refresh(s.Items)
	}
	a.refresh()
}

func (a *App) onPage(v pager.View[activity.Item]) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
	a.refresh()
}

func (a *App) onSession(username string, theme session.Theme) {
	a.draw(func() {
		a.applyTheme(theme)
		a.mu.Lock()
		a.lastHeader, a.lastList = "", ""
		a.mu.Unlock()
		a.render()
	})

	a.mu.Lock()
	current := a.snapshot.Username
	a.mu.Unlock()
	if username != "" && !strings.EqualFold(username, current) {
		a.refreshAsync()
	}
}

func (a *App) applyTheme(theme session.Theme) {
	p := paletteFor(theme)
	for _, box := range []*tview.Box{a.header.Box, a.list.Box, a.status.Box, a.input.Box} {
		box.SetBackgroundColor(p.Background)
		box.SetBorderColor(p.Border)
	}
	a.layout.SetBackgroundColor(p.Background)
	a.input.SetFieldBackgroundColor(p.Background)
	a.status.SetTextColor(tcell.GetColor(p.Muted))
}

// refresh redraws the header and list
func (a *App) refresh() {
	a.draw(a.render)
}

func (a *App) render() {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := paletteFor(a.session.Theme())

	header := renderHeader(a.session.Username(), a.snapshot, a.view, a.agg.Mode(), a.lastErr, p)
	if header != a.lastHeader {
		a.lastHeader = header
		a.header.SetText(header)
	}

	list := renderItems(a.view, p, time.Now())
	if list != a.lastList {
		a.lastList = list
		a.list.SetText(list)
		a.list.ScrollToBeginning()
	}
}

// renderHeader builds the header panel text.
func renderHeader(username string, s activity.Snapshot, v pager.View[activity.Item], mode activity.Mode, lastErr error, p palette) string {
	var sb strings.Builder

	if username == "" {
		fmt.Fprintf(&sb, "[%s]No Last.fm username set. Press u to enter one.[-]", p.Muted)
		return sb.String()
	}

	fmt.Fprintf(&sb, "[%s::b]%s[-:-:-]  [%s]%s mode[-]", p.Accent, tview.Escape(username), p.Muted, modeLabel(mode))
	if s.Loading {
		fmt.Fprintf(&sb, "  [%s]loading…[-]", p.Muted)
	}
	sb.WriteString("\n")

	switch {
	case s.Err != nil:
		fmt.Fprintf(&sb, "[%s]%s[-]", p.Error, tview.Escape(s.Err.Error()))
	case lastErr != nil && !errors.Is(lastErr, context.Canceled):
		fmt.Fprintf(&sb, "[%s]%s[-]", p.Error, tview.Escape(lastErr.Error()))
	default:
		page := v.Page + 1
		if v.TotalPages == 0 {
			page = 0
		}
		fmt.Fprintf(&sb, "Page %d of %d  [%s]·[-]  %s items  [%s]·[-]  artist earnings [%s]%s[-]",
			page, v.TotalPages,
			p.Muted, humanize.Comma(int64(len(s.Items))),
			p.Muted, p.Money, activity.ArtistTotal(s.Items))
		if v.State == pager.Transitioning {
			fmt.Fprintf(&sb, "  [%s]…[-]", p.Muted)
		}
	}

	return sb.String()
}

// renderItems builds the list panel text for the current page.
func renderItems(v pager.View[activity.Item], p palette, now time.Time) string {
	if len(v.Items) == 0 {
		return fmt.Sprintf("[%s]No recent tracks[-]", p.Muted)
	}

	var sb strings.Builder
	for i, it := range v.Items {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		fmt.Fprintf(&sb, "[%s::b]%s[-:-:-] [%s]by[-] [%s]%s[-]",
			p.Text, tview.Escape(it.Name), p.Muted, p.Accent, tview.Escape(it.Artist))
		if it.Album != "" {
			fmt.Fprintf(&sb, " [%s](%s)[-]", p.Muted, tview.Escape(it.Album))
		}
		sb.WriteString("\n")

		fmt.Fprintf(&sb, "  [%s]%s · %s[-]\n", p.Muted, playedLabel(it, now), tview.Escape(genreLabel(it)))
		fmt.Fprintf(&sb, "  track %s plays [%s]$%s[-]   artist %s plays [%s]$%s[-]",
			humanize.Comma(int64(it.TrackPlayCount)), p.Money, it.TrackEarnings,
			humanize.Comma(int64(it.ArtistPlayCount)), p.Money, it.ArtistEarnings)
	}
	return sb.String()
}

func playedLabel(it activity.Item, now time.Time) string {
	if it.NowPlaying {
		return "now playing"
	}
	if it.PlayedAt == nil {
		return "unknown time"
	}
	return humanize.RelTime(*it.PlayedAt, now, "ago", "from now")
}

func genreLabel(it activity.Item) string {
	if it.Genre == "" {
		return activity.DefaultGenre
	}
	return it.Genre
}

func modeLabel(m activity.Mode) string {
	if m == activity.ModePerArtist {
		return "per-artist"
	}
	return "per-play"
}

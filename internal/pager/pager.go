// Package pager splits a list into fixed-size pages with a short settle
// delay between page changes.
package pager

import (
	"sync"
	"time"
)

const (
	// DefaultPageSize is the number of items per page.
	DefaultPageSize = 10

	// DefaultDelay is how long a page change stays in Transitioning.
	DefaultDelay = 300 * time.Millisecond
)

// State is the pager's display state.
type State int

const (
	// Idle means Items reflects the current page.
	Idle State = iota
	// Transitioning means the page index changed and Items still shows
	// the previous page.
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// View is the page currently on display. It is derived from the pager's
// items and never stored independently.
type View[T any] struct {
	Page       int
	TotalPages int
	Items      []T
	State      State
	HasPrev    bool
	HasNext    bool
}

// Pager pages over a list of T. It is safe for concurrent use.
// Observers registered with OnChange are called outside the lock.
type Pager[T any] struct {
	mu        sync.Mutex
	size      int
	delay     time.Duration
	items     []T
	page      int
	state     State
	shown     []T
	seq       uint64
	timer     *time.Timer
	observers []func(View[T])
}

// New creates a pager. A non-positive size selects DefaultPageSize and a
// negative delay selects DefaultDelay; a zero delay settles page changes
// immediately.
func New[T any](size int, delay time.Duration) *Pager[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Pager[T]{size: size, delay: delay}
}

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns items[page*size : page*size+size], clamped to the list.
func Slice[T any](items []T, page, size int) []T {
	if page < 0 || size <= 0 {
		return nil
	}
	start := page * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// OnChange registers fn to receive every new view.
func (p *Pager[T]) OnChange(fn func(View[T])) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// View returns the current view.
func (p *Pager[T]) View() View[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// SetItems replaces the list. The pager resets to the first page and
// cancels any pending page change.
func (p *Pager[T]) SetItems(items []T) {
	p.mu.Lock()
	p.stopLocked()
	p.items = items
	p.page = 0
	p.state = Idle
	p.shown = Slice(items, 0, p.size)
	view, observers := p.viewLocked(), p.observersLocked()
	p.mu.Unlock()

	notify(observers, view)
}

// Refresh replaces the list with an updated copy of the same list, such as
// after in-place enrichment. The page index is kept, clamped to the new
// page count.
func (p *Pager[T]) Refresh(items []T) {
	p.mu.Lock()
	p.items = items
	if last := TotalPages(len(items), p.size) - 1; p.page > last {
		p.page = max(last, 0)
	}
	if p.state == Idle {
		p.shown = Slice(items, p.page, p.size)
	}
	view, observers := p.viewLocked(), p.observersLocked()
	p.mu.Unlock()

	notify(observers, view)
}

// Next moves to the following page. It returns false on the last page.
func (p *Pager[T]) Next() bool {
	return p.move(1)
}

// Prev moves to the preceding page. It returns false on the first page.
func (p *Pager[T]) Prev() bool {
	return p.move(-1)
}

// Close cancels any pending page change.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Pager[T]) move(delta int) bool {
	p.mu.Lock()
	target := p.page + delta
	if target < 0 || target >= TotalPages(len(p.items), p.size) {
		p.mu.Unlock()
		return false
	}

	p.stopLocked()
	p.page = target
	if p.delay == 0 {
		p.state = Idle
		p.shown = Slice(p.items, p.page, p.size)
	} else {
		p.state = Transitioning
		seq := p.seq
		p.timer = time.AfterFunc(p.delay, func() { p.settle(seq) })
	}
	view, observers := p.viewLocked(), p.observersLocked()
	p.mu.Unlock()

	notify(observers, view)
	return true
}

// settle completes the page change identified by seq unless a newer
// change or a new list superseded it.
func (p *Pager[T]) settle(seq uint64) {
	p.mu.Lock()
	if seq != p.seq || p.state != Transitioning {
		p.mu.Unlock()
		return
	}
	p.state = Idle
	p.shown = Slice(p.items, p.page, p.size)
	p.timer = nil
	view, observers := p.viewLocked(), p.observersLocked()
	p.mu.Unlock()

	notify(observers, view)
}

// stopLocked supersedes any pending transition.
func (p *Pager[T]) stopLocked() {
	p.seq++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pager[T]) viewLocked() View[T] {
	total := TotalPages(len(p.items), p.size)
	shown := make([]T, len(p.shown))
	copy(shown, p.shown)
	return View[T]{
		Page:       p.page,
		TotalPages: total,
		Items:      shown,
		State:      p.state,
		HasPrev:    p.page > 0,
		HasNext:    p.page < total-1,
	}
}

func (p *Pager[T]) observersLocked() []func(View[T]) {
	out := make([]func(View[T]), len(p.observers))
	copy(out, p.observers)
	return out
}

func notify[T any](observers []func(View[T]), view View[T]) {
	for _, fn := range observers {
		fn(view)
	}
}

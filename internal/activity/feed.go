package activity

import (
	"sync"
)

// Snapshot is an immutable copy of the feed. Revision increases with every
// change so observers can drop deliveries that arrive out of order.
type Snapshot struct {
	Generation uint64
	Revision   uint64
	Username   string
	Items      []Item
	Loading    bool
	Err        error
}

// Feed owns the item list for the current username. Each Begin starts a
// new generation; writes tagged with an older generation are ignored.
type Feed struct {
	mu       sync.Mutex
	gen      uint64
	rev      uint64
	username string
	items    []Item
	loading  bool
	err      error

	subs    map[int]func(Snapshot)
	nextSub int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(Snapshot))}
}

// Begin discards the current list and starts a new generation for
// username. It returns the generation token for subsequent writes.
func (f *Feed) Begin(username string) uint64 {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.username = username
	f.items = nil
	f.loading = true
	f.err = nil
	snap, subs := f.commitLocked()
	f.mu.Unlock()

	notify(subs, snap)
	return gen
}

// Load sets the initial item list for gen.
func (f *Feed) Load(gen uint64, items []Item) bool {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return false
	}
	f.items = make([]Item, len(items))
	copy(f.items, items)
	snap, subs := f.commitLocked()
	f.mu.Unlock()

	notify(subs, snap)
	return true
}

// Update applies fn to the item at index in place. It returns false when
// gen is stale or index is out of range.
func (f *Feed) Update(gen uint64, index int, fn func(*Item)) bool {
	f.mu.Lock()
	if gen != f.gen || index < 0 || index >= len(f.items) {
		f.mu.Unlock()
		return false
	}
	fn(&f.items[index])
	snap, subs := f.commitLocked()
	f.mu.Unlock()

	notify(subs, snap)
	return true
}

// Fail records a failed primary fetch for gen. The list is emptied.
func (f *Feed) Fail(gen uint64, err error) bool {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return false
	}
	f.items = nil
	f.loading = false
	f.err = err
	snap, subs := f.commitLocked()
	f.mu.Unlock()

	notify(subs, snap)
	return true
}

// Settle clears the loading flag for gen.
func (f *Feed) Settle(gen uint64) bool {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return false
	}
	f.loading = false
	snap, subs := f.commitLocked()
	f.mu.Unlock()

	notify(subs, snap)
	return true
}

// Snapshot returns a copy of the current state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription.
func (f *Feed) Subscribe(fn func(Snapshot)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *Feed) commitLocked() (Snapshot, []func(Snapshot)) {
	f.rev++
	subs := make([]func(Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	return f.snapshotLocked(), subs
}

func (f *Feed) snapshotLocked() Snapshot {
	var items []Item
	if f.items != nil {
		items = make([]Item, len(f.items))
		copy(items, f.items)
	}
	return Snapshot{
		Generation: f.gen,
		Revision:   f.rev,
		Username:   f.username,
		Items:      items,
		Loading:    f.loading,
		Err:        f.err,
	}
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

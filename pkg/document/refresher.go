package document

import (
	"sync"
	"time"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
)

// DefaultDebounce is the minimum time between two regenerations.
const DefaultDebounce = 500 * time.Millisecond

// Clock supplies the current time. time.Now carries a monotonic reading,
// which is what the debounce comparison relies on.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Refresher caches the generated document and regenerates it only when the
// source collection changed and the debounce interval has passed since the
// previous generation.
type Refresher struct {
	mu       sync.Mutex
	gen      *Generator
	clock    Clock
	interval time.Duration

	source    *blocks.Collection
	doc       string
	last      time.Time
	generated bool
}

// NewRefresher creates a refresher. Zero interval means DefaultDebounce and a
// nil clock means SystemClock.
func NewRefresher(gen *Generator, clock Clock, interval time.Duration) *Refresher {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	if clock == nil {
		clock = SystemClock
	}
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Refresher{gen: gen, clock: clock, interval: interval}
}

// Document returns the document for coll, regenerating only when allowed.
func (r *Refresher) Document(coll *blocks.Collection) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if r.generated && (coll == r.source || now.Sub(r.last) < r.interval) {
		return r.doc
	}
	r.regenerate(coll, now)
	return r.doc
}

// Force regenerates immediately, ignoring the debounce interval.
func (r *Refresher) Force(coll *blocks.Collection) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regenerate(coll, r.clock.Now())
	return r.doc
}

// Stale reports whether the cached document was generated from a different
// collection than coll.
func (r *Refresher) Stale(coll *blocks.Collection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.generated || coll != r.source
}

// Interval returns the debounce interval.
func (r *Refresher) Interval() time.Duration { return r.interval }

func (r *Refresher) regenerate(coll *blocks.Collection, now time.Time) {
	r.doc = r.gen.Generate(coll)
	r.source = coll
	r.last = now
	r.generated = true
}

package geocode

import (
	"context"
	"sync"
	"time"

	"github.com/mixit-delights/storefront/internal/domain"
)

// Searcher is the piece of Client the debouncer needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Location, error)
}

type pendingQuery struct {
	cancel context.CancelFunc
	gen    uint64
}

// Debouncer serializes per-key search traffic: each submitted query waits
// out a quiet period before hitting the provider, and a newer query for the
// same key cancels the in-flight one outright. Only the latest query per
// key can ever deliver results.
type Debouncer struct {
	searcher Searcher
	delay    time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingQuery
}

func NewDebouncer(searcher Searcher, delay time.Duration) *Debouncer {
	return &Debouncer{
		searcher: searcher,
		delay:    delay,
		pending:  make(map[string]pendingQuery),
	}
}

// Submit schedules a search for key. The deliver callback runs only if no
// newer Submit for the same key arrives before the provider answers; a
// superseded query is cancelled, not delivered late.
func (d *Debouncer) Submit(ctx context.Context, key, query string, deliver func(query string, results []domain.Location, err error)) {
	queryCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		prev.cancel()
	}
	d.gen++
	gen := d.gen
	d.pending[key] = pendingQuery{cancel: cancel, gen: gen}
	d.mu.Unlock()

	go func() {
		defer d.clear(key, gen)

		select {
		case <-queryCtx.Done():
			return
		case <-time.After(d.delay):
		}

		results, err := d.searcher.Search(queryCtx, query)
		if queryCtx.Err() != nil {
			return
		}
		deliver(query, results, err)
	}()
}

// Cancel drops any pending query for key, e.g. when the subscriber
// disconnects.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.cancel()
		delete(d.pending, key)
	}
}

// clear removes the entry only if it still belongs to this query; a newer
// Submit may already own the slot.
func (d *Debouncer) clear(key string, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok && p.gen == gen {
		delete(d.pending, key)
	}
}

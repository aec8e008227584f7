package geocode

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixit-delights/storefront/internal/domain"
)

type stubSearcher struct {
	delay time.Duration
	calls int64
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]domain.Location, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return []domain.Location{{Name: query}}, nil
}

func TestDebouncerDeliversAfterQuietPeriod(t *testing.T) {
	searcher := &stubSearcher{}
	d := NewDebouncer(searcher, 20*time.Millisecond)

	done := make(chan string, 1)
	d.Submit(context.Background(), "user-1", "garki", func(q string, results []domain.Location, err error) {
		require.NoError(t, err)
		require.Len(t, results, 1)
		done <- results[0].Name
	})

	select {
	case name := <-done:
		assert.Equal(t, "garki", name)
	case <-time.After(time.Second):
		t.Fatal("debounced search never delivered")
	}
}

func TestDebouncerSupersededQueryNeverDelivers(t *testing.T) {
	searcher := &stubSearcher{}
	d := NewDebouncer(searcher, 30*time.Millisecond)

	var mu sync.Mutex
	var delivered []string
	deliver := func(q string, results []domain.Location, err error) {
		mu.Lock()
		delivered = append(delivered, q)
		mu.Unlock()
	}

	// Three rapid keystrokes; only the last survives the quiet period.
	d.Submit(context.Background(), "user-1", "g", deliver)
	d.Submit(context.Background(), "user-1", "ga", deliver)
	d.Submit(context.Background(), "user-1", "garki", deliver)

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"garki"}, delivered)
	assert.Equal(t, int64(1), atomic.LoadInt64(&searcher.calls))
}

func TestDebouncerCancelsInFlightSearch(t *testing.T) {
	// The first search is slow enough to still be running when the second
	// arrives; its results must be dropped, not delivered late.
	searcher := &stubSearcher{delay: 80 * time.Millisecond}
	d := NewDebouncer(searcher, 5*time.Millisecond)

	var mu sync.Mutex
	var delivered []string
	deliver := func(q string, results []domain.Location, err error) {
		mu.Lock()
		delivered = append(delivered, q)
		mu.Unlock()
	}

	d.Submit(context.Background(), "user-1", "slow", deliver)
	time.Sleep(30 * time.Millisecond)
	d.Submit(context.Background(), "user-1", "fast", deliver)

	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"fast"}, delivered)
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	searcher := &stubSearcher{}
	d := NewDebouncer(searcher, 10*time.Millisecond)

	var mu sync.Mutex
	delivered := map[string]bool{}
	deliver := func(q string, results []domain.Location, err error) {
		mu.Lock()
		delivered[q] = true
		mu.Unlock()
	}

	d.Submit(context.Background(), "user-1", "wuse", deliver)
	d.Submit(context.Background(), "user-2", "asokoro", deliver)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, delivered["wuse"])
	assert.True(t, delivered["asokoro"])
}

func TestDebouncerCancelDropsPending(t *testing.T) {
	searcher := &stubSearcher{}
	d := NewDebouncer(searcher, 30*time.Millisecond)

	delivered := make(chan struct{}, 1)
	d.Submit(context.Background(), "user-1", "garki", func(q string, results []domain.Location, err error) {
		delivered <- struct{}{}
	})
	d.Cancel("user-1")

	select {
	case <-delivered:
		t.Fatal("cancelled query still delivered")
	case <-time.After(120 * time.Millisecond):
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&searcher.calls))
}

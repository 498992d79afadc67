package supply

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"framed/internal/immich"
)

// fakeSource is a controllable AssetSource for pool tests.
type fakeSource struct {
	name     string
	count    int64
	countErr error

	mu       sync.Mutex
	fetchErr error
	// overfetch makes FetchRandom return more items than asked for.
	overfetch int
	// delay stretches each fetch so concurrency windows can be observed.
	delay time.Duration

	countCalls  atomic.Int32
	fetchCalls  atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	nextAssetID atomic.Int64
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Count(ctx context.Context) (int64, error) {
	f.countCalls.Add(1)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeSource) FetchRandom(ctx context.Context, n int) ([]immich.Asset, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	f.fetchCalls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	fetchErr := f.fetchErr
	f.mu.Unlock()
	if fetchErr != nil {
		return nil, fetchErr
	}
	if f.overfetch > 0 {
		n += f.overfetch
	}
	assets := make([]immich.Asset, n)
	for i := range assets {
		assets[i] = immich.Asset{ID: fmt.Sprintf("asset-%d", f.nextAssetID.Add(1))}
	}
	return assets, nil
}

func newTestPool(src AssetSource, queueLen, threshold int) *Pool {
	return NewPool(src, PoolOptions{QueueLength: queueLen, RefillThreshold: threshold})
}

func TestPoolCountResolvesOnce(t *testing.T) {
	src := &fakeSource{name: "favorites", count: 42}
	p := newTestPool(src, 10, 3)

	var wg sync.WaitGroup
	results := make([]int64, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Count(context.Background())
		}(i)
	}
	wg.Wait()
	for i, v := range results {
		if v != 42 {
			t.Fatalf("caller %d got count %d, want 42", i, v)
		}
	}
	if got := src.countCalls.Load(); got != 1 {
		t.Fatalf("expected 1 count fetch, got %d", got)
	}
}

func TestPoolCountErrorClampsToZeroWithoutRetry(t *testing.T) {
	src := &fakeSource{name: "favorites", countErr: errors.New("catalog down")}
	p := newTestPool(src, 10, 3)
	if got := p.Count(context.Background()); got != 0 {
		t.Fatalf("expected 0 on count error, got %d", got)
	}
	if got := p.Count(context.Background()); got != 0 {
		t.Fatalf("expected 0 on second call, got %d", got)
	}
	if got := src.countCalls.Load(); got != 1 {
		t.Fatalf("count fetch must not be retried, got %d calls", got)
	}
}

func TestPoolNextReturnsAsset(t *testing.T) {
	src := &fakeSource{name: "favorites", count: 100}
	p := newTestPool(src, 10, 3)
	p.Count(context.Background())

	asset := p.Next(context.Background())
	if asset == nil {
		t.Fatalf("expected an asset from a populated source")
	}
	if asset.ID == "" {
		t.Fatalf("expected a non-empty asset id")
	}
}

func TestPoolQueueNeverExceedsCapacity(t *testing.T) {
	src := &fakeSource{name: "favorites", count: 1000}
	p := newTestPool(src, 5, 2)
	p.Count(context.Background())

	for i := 0; i < 20; i++ {
		if a := p.Next(context.Background()); a == nil {
			t.Fatalf("draw %d: unexpected empty result", i)
		}
		if l := p.QueueLen(); l > 5 {
			t.Fatalf("queue length %d exceeds capacity 5", l)
		}
	}
}

func TestPoolClampsNeedToSourceCount(t *testing.T) {
	src := &fakeSource{name: "album:small", count: 4}
	p := newTestPool(src, 10, 3)
	p.Count(context.Background())

	if a := p.Next(context.Background()); a == nil {
		t.Fatalf("expected an asset")
	}
	time.Sleep(20 * time.Millisecond)
	// Refills ask for at most the source's own count, never full capacity.
	if l := p.QueueLen(); l > 4 {
		t.Fatalf("queued %d items from a source holding 4", l)
	}
}

func TestPoolZeroCountIssuesNoFetch(t *testing.T) {
	src := &fakeSource{name: "album:empty", count: 0}
	p := newTestPool(src, 10, 3)
	p.Count(context.Background())

	if a := p.Next(context.Background()); a != nil {
		t.Fatalf("expected nil from an empty pool, got %v", a)
	}
	// Give any stray background refill a chance to run.
	time.Sleep(50 * time.Millisecond)
	if got := src.fetchCalls.Load(); got != 0 {
		t.Fatalf("expected no fetches for a zero-count pool, got %d", got)
	}
}

func TestPoolSingleRefillInFlight(t *testing.T) {
	src := &fakeSource{name: "favorites", count: 10000, delay: 2 * time.Millisecond}
	p := newTestPool(src, 10, 9)
	p.Count(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				p.TriggerBackgroundRefill()
				p.Next(context.Background())
			}
		}()
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)
	if got := src.maxInFlight.Load(); got > 1 {
		t.Fatalf("observed %d concurrent refill fetches, want at most 1", got)
	}
}

func TestPoolDiscardsSurplus(t *testing.T) {
	// The source hands back more items than asked for; the pool must cap
	// at queue capacity and drop the rest.
	src := &fakeSource{name: "favorites", count: 1000, overfetch: 5}
	p := newTestPool(src, 3, 1)
	p.Count(context.Background())

	if a := p.Next(context.Background()); a == nil {
		t.Fatalf("expected an asset")
	}
	if l := p.QueueLen(); l > 3 {
		t.Fatalf("queue length %d exceeds capacity 3", l)
	}
}

func TestPoolFetchErrorIsSoft(t *testing.T) {
	src := &fakeSource{name: "favorites", count: 100}
	src.fetchErr = errors.New("timeout")
	p := newTestPool(src, 10, 3)
	p.Count(context.Background())

	if a := p.Next(context.Background()); a != nil {
		t.Fatalf("expected nil while the source is failing")
	}
	// Source recovers; the next natural trigger retries.
	src.mu.Lock()
	src.fetchErr = nil
	src.mu.Unlock()
	if a := p.Next(context.Background()); a == nil {
		t.Fatalf("expected an asset after the source recovered")
	}
}

func TestPoolInitialFillIgnoresThreshold(t *testing.T) {
	src := &fakeSource{name: "favorites", count: 100}
	p := newTestPool(src, 10, 3)
	p.Count(context.Background())

	p.TriggerInitialFill()
	deadline := time.Now().Add(time.Second)
	for p.QueueLen() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("initial fill did not reach capacity, queue=%d", p.QueueLen())
		}
		time.Sleep(time.Millisecond)
	}
}

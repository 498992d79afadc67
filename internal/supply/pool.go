package supply

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"framed/internal/immich"
)

// Pool owns one AssetSource, a lazily-resolved total count, and a bounded
// prefetch queue with autonomous background refill. The queue is a buffered
// channel, so enqueue/dequeue are safe for unsynchronized concurrent use.
//
// Refill exclusivity is a single-slot channel acquired by every refill path:
// background triggers try-acquire and skip when the slot is taken, while the
// synchronous empty-queue path blocks for the slot. At most one refill runs
// per pool at any time, background or synchronous.
type Pool struct {
	name      string
	source    AssetSource
	queue     chan immich.Asset
	refillCh  chan struct{} // size 1: the refill slot
	threshold int
	baseCtx   context.Context
	log       zerolog.Logger

	countOnce sync.Once
	count     atomic.Int64
	resolved  atomic.Bool
}

// PoolOptions tunes one pool. Zero values fall back to package defaults.
type PoolOptions struct {
	QueueLength     int
	RefillThreshold int
	// BaseContext bounds background refills; canceling it stops them.
	BaseContext context.Context
	Logger      zerolog.Logger
}

// NewPool builds a pool over source. The queue starts empty; call
// TriggerInitialFill (or let the first Next do it) to start prefetching.
func NewPool(source AssetSource, opts PoolOptions) *Pool {
	length := opts.QueueLength
	if length <= 0 {
		length = DefaultQueueLength
	}
	threshold := opts.RefillThreshold
	if threshold <= 0 {
		threshold = DefaultRefillThreshold
	}
	baseCtx := opts.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Pool{
		name:      source.Name(),
		source:    source,
		queue:     make(chan immich.Asset, length),
		refillCh:  make(chan struct{}, 1),
		threshold: threshold,
		baseCtx:   baseCtx,
		log:       opts.Logger,
	}
}

// Name returns the pool's stable name.
func (p *Pool) Name() string { return p.name }

// QueueLen reports the current queue length.
func (p *Pool) QueueLen() int { return len(p.queue) }

// Count returns the pool's total matching asset count. The first call
// resolves it from the source; concurrent first-callers block until that
// single fetch completes and all receive the same value. A fetch error is
// logged and clamps the count to 0 with no automatic retry.
func (p *Pool) Count(ctx context.Context) int64 {
	p.countOnce.Do(func() {
		n, err := p.source.Count(ctx)
		if err != nil {
			p.log.Warn().Err(err).Str("pool", p.name).Msg("count fetch failed, treating as empty")
			n = 0
		}
		p.count.Store(n)
		p.resolved.Store(true)
	})
	return p.count.Load()
}

// Next signals a background refill check, then attempts to dequeue. An empty
// queue gets exactly one synchronous refill attempt before reporting nil.
// Nil is a normal outcome meaning transient exhaustion, not pool depletion.
func (p *Pool) Next(ctx context.Context) *immich.Asset {
	p.TriggerBackgroundRefill()
	select {
	case a := <-p.queue:
		return &a
	default:
	}
	p.syncRefill(ctx)
	select {
	case a := <-p.queue:
		return &a
	default:
		return nil
	}
}

// TriggerBackgroundRefill launches an asynchronous refill unless one is
// already in flight or the queue is above the refill threshold.
func (p *Pool) TriggerBackgroundRefill() { p.triggerRefill(false) }

// TriggerInitialFill starts the eager first fill performed at pool-set build
// time; unlike a regular background refill it ignores the threshold check.
func (p *Pool) TriggerInitialFill() { p.triggerRefill(true) }

func (p *Pool) triggerRefill(initial bool) {
	if !initial && len(p.queue) > p.threshold {
		return
	}
	select {
	case p.refillCh <- struct{}{}:
	default:
		// refill already in flight
		return
	}
	go func() {
		defer func() { <-p.refillCh }()
		p.refill(p.baseCtx, false, initial)
	}()
}

// syncRefill runs one refill on the caller, waiting for any in-flight
// background refill to release the slot first.
func (p *Pool) syncRefill(ctx context.Context) {
	select {
	case p.refillCh <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-p.refillCh }()
	p.refill(ctx, true, false)
}

// refill tops the queue up toward capacity. The caller must hold the refill
// slot. Fetch errors are logged and swallowed; the next natural trigger
// retries.
func (p *Pool) refill(ctx context.Context, synchronous, initial bool) {
	if !synchronous && !initial && len(p.queue) >= cap(p.queue) {
		return
	}
	// A synchronous refill only exists to unblock an empty queue.
	if synchronous && !initial && len(p.queue) > 0 {
		return
	}
	need := cap(p.queue) - len(p.queue)
	if p.resolved.Load() {
		// The source cannot hand out more unique items than it holds.
		if total := p.count.Load(); total < int64(cap(p.queue)) {
			remaining := total - int64(len(p.queue))
			if remaining < 0 {
				remaining = 0
			}
			if remaining < int64(need) {
				need = int(remaining)
			}
		}
	}
	if need <= 0 {
		return
	}

	refillsTotal.WithLabelValues(p.name, refillMode(synchronous, initial)).Inc()
	assets, err := p.source.FetchRandom(ctx, need)
	if err != nil {
		refillErrors.WithLabelValues(p.name).Inc()
		p.log.Warn().Err(err).Str("pool", p.name).Int("need", need).Msg("refill fetch failed")
		return
	}
	enqueued := 0
	for _, a := range assets {
		select {
		case p.queue <- a:
			enqueued++
		default:
			// Consumers drained slower than we produced; drop the surplus.
			surplus := len(assets) - enqueued
			discardedAssets.WithLabelValues(p.name).Add(float64(surplus))
			p.log.Debug().Str("pool", p.name).Int("surplus", surplus).Msg("queue filled up, discarding surplus assets")
			queueLength.WithLabelValues(p.name).Set(float64(len(p.queue)))
			return
		}
	}
	queueLength.WithLabelValues(p.name).Set(float64(len(p.queue)))
}

func refillMode(synchronous, initial bool) string {
	switch {
	case initial:
		return "initial"
	case synchronous:
		return "sync"
	default:
		return "background"
	}
}

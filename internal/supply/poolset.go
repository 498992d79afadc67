package supply

import (
	"context"

	"github.com/samber/lo"
)

// poolSetKey is the fixed cache key for the one pool set per account.
const poolSetKey = "pools"

// poolSet returns the account's active pools, rebuilding them from the
// catalog when the cached set has expired. Rebuilds are single-flight; the
// old pools and their queues are discarded whole, not drained.
func (a *Account) poolSet(ctx context.Context) []*Pool {
	pools, err := a.pools.GetOrAdd(ctx, poolSetKey, a.buildPools)
	if err != nil {
		// buildPools fails soft per pool and never returns an error.
		a.log.Error().Err(err).Msg("pool set build failed")
		return nil
	}
	return pools
}

// buildPools constructs one pool per configured filter, resolves each
// pool's count, discards pools that resolve to zero, and starts the eager
// initial fill on the survivors. A pool excluded here stays excluded for the
// lifetime of this pool-set generation even if its true count changes.
func (a *Account) buildPools(ctx context.Context) ([]*Pool, error) {
	var pools []*Pool
	for _, f := range a.filters() {
		source := NewCatalogSource(a.client, f, a.selector)
		pool := NewPool(source, PoolOptions{
			QueueLength:     a.opts.QueueLength,
			RefillThreshold: a.opts.RefillThreshold,
			BaseContext:     a.ctx,
			Logger:          a.log,
		})
		if pool.Count(ctx) <= 0 {
			a.log.Debug().Str("pool", pool.Name()).Msg("pool resolved empty, skipping")
			continue
		}
		pool.TriggerInitialFill()
		pools = append(pools, pool)
	}
	a.log.Info().Int("pools", len(pools)).Msg("pool set built")
	return pools, nil
}

// filters expands the account options into the filter list, one per pool.
func (a *Account) filters() []Filter {
	var filters []Filter
	if a.opts.ShowFavorites {
		filters = append(filters, Filter{Kind: FilterFavorites})
	}
	albums := lo.Without(a.opts.Albums, a.opts.ExcludedAlbums...)
	for _, id := range albums {
		filters = append(filters, Filter{Kind: FilterAlbum, AlbumID: id})
	}
	for _, id := range a.opts.People {
		filters = append(filters, Filter{Kind: FilterPerson, PersonID: id})
	}
	if a.opts.ShowMemories {
		filters = append(filters, Filter{Kind: FilterMemory})
	}
	if a.opts.ShowRandom {
		filters = append(filters, Filter{Kind: FilterRandom})
	}
	return filters
}

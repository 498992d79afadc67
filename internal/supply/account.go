package supply

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"framed/internal/immich"
	"framed/pkg/types"
)

// bulkListSize bounds the per-filter fetch used by the aggregate listing.
const bulkListSize = 1000

// AccountOptions configures one account's supply context.
type AccountOptions struct {
	Name string

	ShowFavorites bool
	ShowMemories  bool
	ShowRandom    bool
	// Albums are album ids to build pools for, minus ExcludedAlbums.
	Albums         []string
	ExcludedAlbums []string
	// People are person ids to build pools for.
	People []string

	QueueLength     int
	RefillThreshold int
	// PoolTTL bounds pool-set reuse; zero means DefaultPoolTTL.
	PoolTTL time.Duration
	// ListTTL bounds aggregate-listing reuse; zero means DefaultListTTL.
	ListTTL time.Duration
	// Seed seeds this account's random generator; zero means time-based.
	Seed   int64
	Logger zerolog.Logger
}

// Account is the supply context for one configured Immich account. It has
// exclusive ownership of its catalog client, pool-set cache, pools and
// random generator; Close tears all of that down.
type Account struct {
	name     string
	client   *immich.Client
	opts     AccountOptions
	selector *WeightedSelector
	pools    *Cache[string, []*Pool]
	lists    *Cache[string, []immich.Asset]
	ctx      context.Context
	cancel   context.CancelFunc
	log      zerolog.Logger
}

// NewAccount builds the supply context. The account takes ownership of
// client and closes it on Close.
func NewAccount(client *immich.Client, opts AccountOptions) *Account {
	poolTTL := opts.PoolTTL
	if poolTTL <= 0 {
		poolTTL = DefaultPoolTTL
	}
	listTTL := opts.ListTTL
	if listTTL <= 0 {
		listTTL = DefaultListTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Account{
		name:     opts.Name,
		client:   client,
		opts:     opts,
		selector: NewWeightedSelector(opts.Seed),
		pools:    NewCache[string, []*Pool](poolTTL),
		lists:    NewCache[string, []immich.Asset](listTTL),
		ctx:      ctx,
		cancel:   cancel,
		log:      opts.Logger.With().Str("account", opts.Name).Logger(),
	}
}

// Name returns the configured account name.
func (a *Account) Name() string { return a.name }

// GetNextAsset draws one pool weighted by its live count and dequeues from
// it. Nil means no asset is available this round; callers skip the tick and
// try again later.
func (a *Account) GetNextAsset(ctx context.Context) *immich.Asset {
	pools := a.poolSet(ctx)
	entries := lo.Map(pools, func(p *Pool, _ int) Weighted[*Pool] {
		return Weighted[*Pool]{Item: p, Weight: p.Count(ctx)}
	})
	pool, ok := Draw(a.selector, entries)
	if !ok {
		drawsTotal.WithLabelValues(a.name, "empty").Inc()
		return nil
	}
	asset := pool.Next(ctx)
	if asset == nil {
		drawsTotal.WithLabelValues(a.name, "empty").Inc()
		return nil
	}
	drawsTotal.WithLabelValues(a.name, "asset").Inc()
	return asset
}

// GetAssetCount reports the aggregate count across the account's active
// pools.
func (a *Account) GetAssetCount(ctx context.Context) int64 {
	var total int64
	for _, p := range a.poolSet(ctx) {
		total += p.Count(ctx)
	}
	return total
}

// Assets returns the account's flat aggregate listing (favorites, album
// contents, person matches, today's memories), deduplicated by id and
// TTL-cached. This is the non-queue-based supply mode consumed by bulk
// proportional sampling.
func (a *Account) Assets(ctx context.Context) []immich.Asset {
	assets, err := a.lists.GetOrAdd(ctx, "assets", a.listAssets)
	if err != nil {
		a.log.Warn().Err(err).Msg("aggregate listing failed")
		return nil
	}
	return assets
}

func (a *Account) listAssets(ctx context.Context) ([]immich.Asset, error) {
	var all []immich.Asset
	for _, f := range a.filters() {
		assets, err := a.listFilter(ctx, f)
		if err != nil {
			// Soft-fail per filter; a broken album should not empty
			// the whole listing.
			a.log.Warn().Err(err).Str("filter", f.Name()).Msg("listing fetch failed")
			continue
		}
		all = append(all, assets...)
	}
	return lo.UniqBy(all, func(a immich.Asset) string { return a.ID }), nil
}

func (a *Account) listFilter(ctx context.Context, f Filter) ([]immich.Asset, error) {
	switch f.Kind {
	case FilterAlbum:
		album, err := a.client.GetAlbum(ctx, f.AlbumID)
		if err != nil {
			return nil, err
		}
		return album.Assets, nil
	case FilterMemory:
		return a.client.MemoryAssets(ctx, time.Now())
	default:
		src := NewCatalogSource(a.client, f, a.selector)
		return src.FetchRandom(ctx, bulkListSize)
	}
}

// Status reports the account's active pools.
func (a *Account) Status(ctx context.Context) []types.PoolStatus {
	pools := a.poolSet(ctx)
	out := make([]types.PoolStatus, 0, len(pools))
	for _, p := range pools {
		out = append(out, types.PoolStatus{Name: p.Name(), Count: p.Count(ctx), QueueLen: p.QueueLen()})
	}
	return out
}

// Close cancels background refills and releases the catalog client.
func (a *Account) Close() {
	a.cancel()
	a.client.Close()
}

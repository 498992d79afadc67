package supply

import (
	"context"
	"time"

	"framed/internal/immich"
)

// FilterKind tags one pool variant.
type FilterKind string

const (
	FilterFavorites FilterKind = "favorites"
	FilterAlbum     FilterKind = "album"
	FilterPerson    FilterKind = "person"
	FilterMemory    FilterKind = "memory"
	FilterRandom    FilterKind = "random"
)

// Filter scopes a pool to a slice of the catalog. Only the fields the kind
// needs are set: AlbumID for FilterAlbum, PersonID for FilterPerson.
type Filter struct {
	Kind     FilterKind
	AlbumID  string
	PersonID string
}

// Name returns a stable human-readable pool name for logs and metrics.
func (f Filter) Name() string {
	switch f.Kind {
	case FilterAlbum:
		return "album:" + f.AlbumID
	case FilterPerson:
		return "person:" + f.PersonID
	default:
		return string(f.Kind)
	}
}

// AssetSource is the capability a pool uses to count and fetch matching
// assets from the remote catalog. Implementations fail soft at the pool
// boundary: errors are logged there and degrade to zero/empty.
type AssetSource interface {
	Name() string
	Count(ctx context.Context) (int64, error)
	FetchRandom(ctx context.Context, n int) ([]immich.Asset, error)
}

// CatalogSource implements AssetSource over an Immich client for one filter
// variant. The memory variant resolves "today's memories" once per day via a
// TTL cell and serves shuffled slices out of that listing, since the catalog
// has no random-sample endpoint for memories.
type CatalogSource struct {
	client   *immich.Client
	filter   Filter
	selector *WeightedSelector
	memories *Cache[string, []immich.Asset]
}

// NewCatalogSource builds the source for one filter. The selector is used
// only by the memory variant to shuffle its listing.
func NewCatalogSource(client *immich.Client, filter Filter, selector *WeightedSelector) *CatalogSource {
	s := &CatalogSource{client: client, filter: filter, selector: selector}
	if filter.Kind == FilterMemory {
		s.memories = NewCache[string, []immich.Asset](memoryListTTL)
	}
	return s
}

// memoryListTTL keeps today's memory listing for an hour; the set only
// changes at midnight.
const memoryListTTL = 1 * time.Hour

func (s *CatalogSource) Name() string { return s.filter.Name() }

// searchFilter shapes the Immich search payload for this variant. Every
// variant restricts to non-archived images; the frame never shows videos.
func (s *CatalogSource) searchFilter() immich.SearchFilter {
	notArchived := false
	f := immich.SearchFilter{
		Type:       immich.AssetTypeImage,
		IsArchived: &notArchived,
	}
	switch s.filter.Kind {
	case FilterFavorites:
		fav := true
		f.IsFavorite = &fav
	case FilterAlbum:
		f.AlbumIDs = []string{s.filter.AlbumID}
	case FilterPerson:
		f.PersonIDs = []string{s.filter.PersonID}
	}
	return f
}

func (s *CatalogSource) Count(ctx context.Context) (int64, error) {
	switch s.filter.Kind {
	case FilterAlbum:
		return s.client.GetAlbumCount(ctx, s.filter.AlbumID)
	case FilterMemory:
		assets, err := s.memoryAssets(ctx)
		if err != nil {
			return 0, err
		}
		return int64(len(assets)), nil
	default:
		return s.client.SearchStatistics(ctx, s.searchFilter())
	}
}

func (s *CatalogSource) FetchRandom(ctx context.Context, n int) ([]immich.Asset, error) {
	if s.filter.Kind == FilterMemory {
		return s.randomMemoryAssets(ctx, n)
	}
	return s.client.SearchRandom(ctx, s.searchFilter(), n)
}

// memoryAssets returns today's memory listing, fetched at most once per TTL
// window across concurrent callers.
func (s *CatalogSource) memoryAssets(ctx context.Context) ([]immich.Asset, error) {
	day := time.Now().UTC().Format("2006-01-02")
	return s.memories.GetOrAdd(ctx, day, func(ctx context.Context) ([]immich.Asset, error) {
		return s.client.MemoryAssets(ctx, time.Now())
	})
}

func (s *CatalogSource) randomMemoryAssets(ctx context.Context, n int) ([]immich.Asset, error) {
	assets, err := s.memoryAssets(ctx)
	if err != nil {
		return nil, err
	}
	shuffled := make([]immich.Asset, len(assets))
	copy(shuffled, assets)
	s.selector.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled, nil
}

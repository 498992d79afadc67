package immich

import (
	"fmt"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
)

// avgEntrySize is the assumed per-entry footprint used to translate a byte
// budget into an LRU entry count. Album listings dominate, and a few hundred
// KB of JSON-decoded metadata per album is a reasonable upper bound.
const avgEntrySize = "256 KB"

// responseCache memoizes decoded catalog responses (albums, people) behind
// an LRU bounded by a configured byte budget.
type responseCache struct {
	lru *lru.Cache[string, any]
}

func newResponseCache(budget string) (*responseCache, error) {
	budgetBytes, err := humanize.ParseBytes(budget)
	if err != nil {
		return nil, fmt.Errorf("immich: parse cache size %q: %w", budget, err)
	}
	entrySize, _ := humanize.ParseBytes(avgEntrySize)
	size := 1
	if n := budgetBytes / entrySize; n > 0 {
		size = int(n)
	}
	l, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &responseCache{lru: l}, nil
}

func (r *responseCache) add(key string, val any) {
	r.lru.Add(key, val)
}

// cacheGet returns the cached value for key when present and of type T.
func cacheGet[T any](r *responseCache, key string) (T, bool) {
	var zero T
	v, ok := r.lru.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

package supply

import (
	"math/rand"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Weighted pairs an item with its live count for one draw. Weights are
// computed fresh for every draw and never snapshotted across draws.
type Weighted[T any] struct {
	Item   T
	Weight int64
}

// WeightedSelector is a thread-safe source of randomness for weighted draws.
// Injecting it (rather than using the process-wide generator) keeps draws
// deterministic under a seeded generator in tests.
type WeightedSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewWeightedSelector builds a selector seeded with seed. A zero seed uses
// the current time.
func NewWeightedSelector(seed int64) *WeightedSelector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &WeightedSelector{rng: rand.New(rand.NewSource(seed))}
}

// Int63n returns a uniform random int64 in [0, n).
func (s *WeightedSelector) Int63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63n(n)
}

// Shuffle randomizes the order of n elements via swap.
func (s *WeightedSelector) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// Draw selects one entry with probability proportional to its weight. It
// returns false when the total weight is zero, which callers must treat as
// "no item available", not an error.
func Draw[T any](sel *WeightedSelector, entries []Weighted[T]) (T, bool) {
	total := totalWeight(entries)
	if total <= 0 {
		var zero T
		return zero, false
	}
	item, _, ok := DrawAt(entries, sel.Int63n(total))
	return item, ok
}

// DrawAt resolves the cumulative-weight draw for a fixed random index r in
// [0, total). It walks entries in registration order subtracting each weight
// from r; the first entry for which r < weight wins. The second return value
// is the local index within the winner's weight range.
func DrawAt[T any](entries []Weighted[T], r int64) (T, int64, bool) {
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		if r < e.Weight {
			return e.Item, r, true
		}
		r -= e.Weight
	}
	var zero T
	return zero, 0, false
}

func totalWeight[T any](entries []Weighted[T]) int64 {
	return lo.SumBy(entries, func(e Weighted[T]) int64 {
		if e.Weight < 0 {
			return 0
		}
		return e.Weight
	})
}

package supply

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"framed/internal/immich"
	"framed/pkg/types"
)

// AccountSource is the per-account surface the multi-account strategy
// selects over. *Account implements it.
type AccountSource interface {
	Name() string
	GetNextAsset(ctx context.Context) *immich.Asset
	GetAssetCount(ctx context.Context) int64
	Assets(ctx context.Context) []immich.Asset
	Status(ctx context.Context) []types.PoolStatus
}

// Strategy applies the weighted draw one level up, across independently
// configured accounts. Account weights are their live aggregate counts,
// computed fresh per draw.
type Strategy struct {
	accounts []AccountSource
	selector *WeightedSelector
	// maxWait bounds NextAssetWait's polling.
	maxWait   time.Duration
	startTime time.Time
	log       zerolog.Logger
}

// StrategyOptions tunes the multi-account strategy.
type StrategyOptions struct {
	// MaxWait bounds NextAssetWait; zero means DefaultAssetWait.
	MaxWait time.Duration
	Seed    int64
	Logger  zerolog.Logger
}

// NewStrategy builds a strategy over accounts, in registration order.
func NewStrategy(accounts []AccountSource, opts StrategyOptions) *Strategy {
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultAssetWait
	}
	return &Strategy{
		accounts:  accounts,
		selector:  NewWeightedSelector(opts.Seed),
		maxWait:   maxWait,
		startTime: time.Now(),
		log:       opts.Logger,
	}
}

// Accounts returns the registered accounts in order.
func (s *Strategy) Accounts() []AccountSource { return s.accounts }

// Account returns the account with the given name.
func (s *Strategy) Account(name string) (AccountSource, error) {
	for _, a := range s.accounts {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, NewAccountNotFound(name)
}

// GetNextAsset draws one account weighted by its aggregate count and
// delegates to it. A nil result (total weight zero, or the chosen account
// was transiently exhausted) means no asset this round; callers do not retry
// against a different account.
func (s *Strategy) GetNextAsset(ctx context.Context) *immich.Asset {
	entries := lo.Map(s.accounts, func(a AccountSource, _ int) Weighted[AccountSource] {
		return Weighted[AccountSource]{Item: a, Weight: a.GetAssetCount(ctx)}
	})
	account, ok := Draw(s.selector, entries)
	if !ok {
		return nil
	}
	return account.GetNextAsset(ctx)
}

// GetAssetCount reports the aggregate count across all accounts.
func (s *Strategy) GetAssetCount(ctx context.Context) int64 {
	var total int64
	for _, a := range s.accounts {
		total += a.GetAssetCount(ctx)
	}
	return total
}

// NextAssetWait polls GetNextAsset until an asset becomes available or the
// wall-clock budget elapses. Timeout means "no asset now", not an error.
func (s *Strategy) NextAssetWait(ctx context.Context) *immich.Asset {
	deadline := time.Now().Add(s.maxWait)
	for {
		if a := s.GetNextAsset(ctx); a != nil {
			return a
		}
		if time.Now().After(deadline) {
			return nil
		}
		select {
		case <-time.After(assetWaitPoll):
		case <-ctx.Done():
			return nil
		}
	}
}

// SampleProportional draws a shuffled, size-proportional slice from each
// account's aggregate listing. Proportions are normalized against the
// largest account weight, and each take is rounded up, so a minority account
// with any assets still contributes a non-empty slice.
func (s *Strategy) SampleProportional(ctx context.Context) []immich.Asset {
	weights := lo.Map(s.accounts, func(a AccountSource, _ int) int64 {
		return a.GetAssetCount(ctx)
	})
	maxWeight := lo.Max(weights)
	if maxWeight <= 0 {
		return nil
	}
	var sample []immich.Asset
	for i, account := range s.accounts {
		if weights[i] <= 0 {
			continue
		}
		assets := account.Assets(ctx)
		if len(assets) == 0 {
			continue
		}
		shuffled := make([]immich.Asset, len(assets))
		copy(shuffled, assets)
		s.selector.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		proportion := float64(weights[i]) / float64(maxWeight)
		take := int(math.Ceil(float64(len(shuffled)) * proportion))
		if take > len(shuffled) {
			take = len(shuffled)
		}
		sample = append(sample, shuffled[:take]...)
	}
	return sample
}

// Status reports the supply state across all accounts.
func (s *Strategy) Status(ctx context.Context) types.StatusResponse {
	resp := types.StatusResponse{
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	for _, a := range s.accounts {
		st := types.AccountStatus{
			Name:       a.Name(),
			AssetCount: a.GetAssetCount(ctx),
			Pools:      a.Status(ctx),
		}
		resp.TotalAssets += st.AssetCount
		resp.Accounts = append(resp.Accounts, st)
	}
	return resp
}

// Ready reports whether any account currently has assets to supply.
func (s *Strategy) Ready(ctx context.Context) bool {
	return s.GetAssetCount(ctx) > 0
}

// Close tears down every account that supports it.
func (s *Strategy) Close() {
	for _, a := range s.accounts {
		if c, ok := a.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

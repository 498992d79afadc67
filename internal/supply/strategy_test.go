package supply

import (
	"context"
	"fmt"
	"testing"
	"time"

	"framed/internal/immich"
	"framed/pkg/types"
)

// stubAccount is a canned AccountSource for strategy tests.
type stubAccount struct {
	name   string
	count  int64
	assets []immich.Asset
	// draws counts GetNextAsset calls.
	draws int
}

func (s *stubAccount) Name() string { return s.name }

func (s *stubAccount) GetNextAsset(ctx context.Context) *immich.Asset {
	s.draws++
	if len(s.assets) == 0 {
		return nil
	}
	return &s.assets[0]
}

func (s *stubAccount) GetAssetCount(ctx context.Context) int64 { return s.count }

func (s *stubAccount) Assets(ctx context.Context) []immich.Asset { return s.assets }

func (s *stubAccount) Status(ctx context.Context) []types.PoolStatus {
	return []types.PoolStatus{{Name: "stub", Count: s.count, QueueLen: len(s.assets)}}
}

func makeAssets(prefix string, n int) []immich.Asset {
	assets := make([]immich.Asset, n)
	for i := range assets {
		assets[i] = immich.Asset{ID: fmt.Sprintf("%s-%d", prefix, i)}
	}
	return assets
}

func TestStrategyDrawsProportionally(t *testing.T) {
	big := &stubAccount{name: "big", count: 90, assets: makeAssets("big", 90)}
	small := &stubAccount{name: "small", count: 10, assets: makeAssets("small", 10)}
	s := NewStrategy([]AccountSource{big, small}, StrategyOptions{Seed: 42})

	const draws = 10000
	for i := 0; i < draws; i++ {
		if a := s.GetNextAsset(context.Background()); a == nil {
			t.Fatalf("draw %d: unexpected empty result", i)
		}
	}
	// Two-sided binomial check with generous slack: expect ~9000/1000.
	if big.draws < 8700 || big.draws > 9300 {
		t.Fatalf("big account drawn %d times, expected around 9000", big.draws)
	}
	if small.draws < 700 || small.draws > 1300 {
		t.Fatalf("small account drawn %d times, expected around 1000", small.draws)
	}
}

func TestStrategyZeroTotalReturnsNil(t *testing.T) {
	a := &stubAccount{name: "a", count: 0}
	b := &stubAccount{name: "b", count: 0}
	s := NewStrategy([]AccountSource{a, b}, StrategyOptions{Seed: 1})
	if got := s.GetNextAsset(context.Background()); got != nil {
		t.Fatalf("expected nil for zero total weight, got %v", got)
	}
	if a.draws != 0 || b.draws != 0 {
		t.Fatalf("no account should have been asked, got %d/%d", a.draws, b.draws)
	}
}

func TestStrategyExhaustedAccountNotRetried(t *testing.T) {
	// The chosen account is transiently exhausted; the draw must surface
	// nil rather than retry a different account.
	empty := &stubAccount{name: "empty", count: 100}
	full := &stubAccount{name: "full", count: 0, assets: makeAssets("full", 5)}
	s := NewStrategy([]AccountSource{empty, full}, StrategyOptions{Seed: 1})
	if got := s.GetNextAsset(context.Background()); got != nil {
		t.Fatalf("expected nil from the exhausted account, got %v", got)
	}
	if full.draws != 0 {
		t.Fatalf("other account must not be retried, got %d draws", full.draws)
	}
}

func TestStrategyAccountLookup(t *testing.T) {
	a := &stubAccount{name: "family", count: 1}
	s := NewStrategy([]AccountSource{a}, StrategyOptions{Seed: 1})
	got, err := s.Account("family")
	if err != nil || got.Name() != "family" {
		t.Fatalf("expected lookup to succeed, got %v, %v", got, err)
	}
	if _, err := s.Account("nobody"); !IsAccountNotFound(err) {
		t.Fatalf("expected account-not-found error, got %v", err)
	}
}

func TestStrategyAggregateCountAndStatus(t *testing.T) {
	a := &stubAccount{name: "a", count: 90}
	b := &stubAccount{name: "b", count: 10}
	s := NewStrategy([]AccountSource{a, b}, StrategyOptions{Seed: 1})
	if got := s.GetAssetCount(context.Background()); got != 100 {
		t.Fatalf("expected aggregate count 100, got %d", got)
	}
	st := s.Status(context.Background())
	if st.TotalAssets != 100 || len(st.Accounts) != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if !s.Ready(context.Background()) {
		t.Fatalf("expected ready with assets present")
	}
}

func TestSampleProportionalMinorityNonEmpty(t *testing.T) {
	big := &stubAccount{name: "big", count: 90, assets: makeAssets("big", 90)}
	small := &stubAccount{name: "small", count: 10, assets: makeAssets("small", 10)}
	s := NewStrategy([]AccountSource{big, small}, StrategyOptions{Seed: 42})

	sample := s.SampleProportional(context.Background())
	var fromSmall, fromBig int
	for _, a := range sample {
		switch {
		case len(a.ID) >= 5 && a.ID[:5] == "small":
			fromSmall++
		default:
			fromBig++
		}
	}
	if fromBig != 90 {
		t.Fatalf("majority account should contribute all 90 assets, got %d", fromBig)
	}
	// ceil(10 * 10/90) = 2
	if fromSmall == 0 {
		t.Fatalf("minority account with assets must contribute a non-empty slice")
	}
	if fromSmall != 2 {
		t.Fatalf("expected ceil(10*10/90)=2 from the minority account, got %d", fromSmall)
	}
}

func TestSampleProportionalSkipsEmptyAccounts(t *testing.T) {
	full := &stubAccount{name: "full", count: 50, assets: makeAssets("full", 50)}
	empty := &stubAccount{name: "empty", count: 0}
	s := NewStrategy([]AccountSource{full, empty}, StrategyOptions{Seed: 1})
	sample := s.SampleProportional(context.Background())
	if len(sample) != 50 {
		t.Fatalf("expected 50 sampled assets, got %d", len(sample))
	}
}

func TestNextAssetWaitTimesOut(t *testing.T) {
	empty := &stubAccount{name: "empty", count: 0}
	s := NewStrategy([]AccountSource{empty}, StrategyOptions{Seed: 1, MaxWait: 10 * time.Millisecond})
	start := time.Now()
	if got := s.NextAssetWait(context.Background()); got != nil {
		t.Fatalf("expected nil on timeout, got %v", got)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("wait took far longer than its budget")
	}
}

func TestNextAssetWaitReturnsImmediatelyWhenAvailable(t *testing.T) {
	a := &stubAccount{name: "a", count: 5, assets: makeAssets("a", 5)}
	s := NewStrategy([]AccountSource{a}, StrategyOptions{Seed: 1})
	if got := s.NextAssetWait(context.Background()); got == nil {
		t.Fatalf("expected an asset without waiting")
	}
}

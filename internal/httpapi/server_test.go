package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"framed/internal/immich"
	"framed/internal/supply"
	"framed/pkg/types"
)

// stubService is a canned Service for handler tests.
type stubService struct {
	next    *immich.Asset
	waited  *immich.Asset
	count   int64
	sample  []immich.Asset
	account supply.AccountSource
	ready   bool

	waitCalls int
}

func (s *stubService) GetNextAsset(ctx context.Context) *immich.Asset { return s.next }

func (s *stubService) NextAssetWait(ctx context.Context) *immich.Asset {
	s.waitCalls++
	return s.waited
}

func (s *stubService) GetAssetCount(ctx context.Context) int64 { return s.count }

func (s *stubService) SampleProportional(ctx context.Context) []immich.Asset { return s.sample }

func (s *stubService) Account(name string) (supply.AccountSource, error) {
	if s.account != nil && s.account.Name() == name {
		return s.account, nil
	}
	return nil, supply.NewAccountNotFound(name)
}

func (s *stubService) Status(ctx context.Context) types.StatusResponse {
	return types.StatusResponse{TotalAssets: s.count}
}

func (s *stubService) Ready(ctx context.Context) bool { return s.ready }

// stubAccount satisfies supply.AccountSource for the account= query path.
type stubAccount struct {
	name string
	next *immich.Asset
}

func (a *stubAccount) Name() string { return a.name }

func (a *stubAccount) GetNextAsset(ctx context.Context) *immich.Asset { return a.next }

func (a *stubAccount) GetAssetCount(ctx context.Context) int64 { return 1 }

func (a *stubAccount) Assets(ctx context.Context) []immich.Asset { return nil }

func (a *stubAccount) Status(ctx context.Context) []types.PoolStatus { return nil }

func doRequest(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetAssetReturnsAsset(t *testing.T) {
	svc := &stubService{next: &immich.Asset{ID: "a1", OriginalFileName: "beach.jpg", IsFavorite: true}}
	rec := doRequest(t, NewMux(svc), "/asset")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp types.AssetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "a1" || resp.FileName != "beach.jpg" || !resp.IsFavorite {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestGetAssetEmptyReturnsNoContent(t *testing.T) {
	rec := doRequest(t, NewMux(&stubService{}), "/asset")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestGetAssetWaitUsesBudget(t *testing.T) {
	svc := &stubService{waited: &immich.Asset{ID: "slow"}}
	rec := doRequest(t, NewMux(svc), "/asset?wait=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.waitCalls != 1 {
		t.Fatalf("expected the waiting path, got %d wait calls", svc.waitCalls)
	}
}

func TestGetAssetByAccount(t *testing.T) {
	svc := &stubService{account: &stubAccount{name: "family", next: &immich.Asset{ID: "fam-1"}}}
	rec := doRequest(t, NewMux(svc), "/asset?account=family")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp types.AssetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "fam-1" {
		t.Fatalf("unexpected asset: %+v", resp)
	}
}

func TestGetAssetUnknownAccountIs404(t *testing.T) {
	rec := doRequest(t, NewMux(&stubService{}), "/asset?account=nobody")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestGetAssetsSample(t *testing.T) {
	sample := make([]immich.Asset, 30)
	for i := range sample {
		sample[i] = immich.Asset{ID: fmt.Sprintf("a-%d", i)}
	}
	svc := &stubService{sample: sample}

	rec := doRequest(t, NewMux(svc), "/assets")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp types.AssetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Assets) != 30 {
		t.Fatalf("expected 30 assets, got %d", len(resp.Assets))
	}
}

func TestGetAssetsCountTruncates(t *testing.T) {
	sample := make([]immich.Asset, 30)
	for i := range sample {
		sample[i] = immich.Asset{ID: fmt.Sprintf("a-%d", i)}
	}
	rec := doRequest(t, NewMux(&stubService{sample: sample}), "/assets?count=5")
	var resp types.AssetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Assets) != 5 {
		t.Fatalf("expected 5 assets, got %d", len(resp.Assets))
	}
}

func TestGetAssetsBadCountIs400(t *testing.T) {
	for _, v := range []string{"abc", "0", "-3"} {
		rec := doRequest(t, NewMux(&stubService{}), "/assets?count="+v)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("count=%q: expected 400, got %d", v, rec.Code)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	rec := doRequest(t, NewMux(&stubService{count: 123}), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp types.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalAssets != 123 {
		t.Fatalf("unexpected status: %+v", resp)
	}
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, NewMux(&stubService{}), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	if rec := doRequest(t, NewMux(&stubService{ready: true}), "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when ready, got %d", rec.Code)
	}
	if rec := doRequest(t, NewMux(&stubService{}), "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when empty, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := doRequest(t, NewMux(&stubService{}), "/healthz")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", got)
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"framed/internal/immich"
	"framed/internal/supply"
	"framed/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	GetNextAsset(ctx context.Context) *immich.Asset
	NextAssetWait(ctx context.Context) *immich.Asset
	GetAssetCount(ctx context.Context) int64
	SampleProportional(ctx context.Context) []immich.Asset
	Account(name string) (supply.AccountSource, error)
	Status(ctx context.Context) types.StatusResponse
	Ready(ctx context.Context) bool
}

// maxSampleCount caps the bulk sample size a single request may ask for.
const maxSampleCount = 500

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// GetAsset godoc
	// @Summary  Next asset for the display loop
	// @Produce  json
	// @Param    account  query  string  false  "Restrict the draw to one account"
	// @Param    wait     query  bool    false  "Poll up to the configured budget instead of answering immediately"
	// @Success  200  {object}  types.AssetResponse
	// @Success  204  "no asset available this round"
	// @Failure  404  {object}  types.ErrorResponse
	// @Router   /asset [get]
	r.Get("/asset", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		var asset *immich.Asset
		if name := r.URL.Query().Get("account"); name != "" {
			account, err := svc.Account(name)
			if err != nil {
				if supply.IsAccountNotFound(err) {
					writeJSONError(w, http.StatusNotFound, err.Error())
					return
				}
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				return
			}
			asset = account.GetNextAsset(ctx)
		} else if r.URL.Query().Get("wait") == "true" {
			asset = svc.NextAssetWait(ctx)
		} else {
			asset = svc.GetNextAsset(ctx)
		}
		if asset == nil {
			// Transient exhaustion is a normal outcome, not an error.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, assetResponse(asset))
	})

	// GetAssets godoc
	// @Summary  Bulk size-proportional sample across accounts
	// @Produce  json
	// @Param    count  query  int  false  "Maximum number of assets to return"
	// @Success  200  {object}  types.AssetsResponse
	// @Router   /assets [get]
	r.Get("/assets", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		limit := maxSampleCount
		if v := r.URL.Query().Get("count"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeJSONError(w, http.StatusBadRequest, "count must be a positive integer")
				return
			}
			if n < limit {
				limit = n
			}
		}
		sample := svc.SampleProportional(ctx)
		if len(sample) > limit {
			sample = sample[:limit]
		}
		resp := types.AssetsResponse{Assets: make([]types.AssetResponse, 0, len(sample))}
		for i := range sample {
			resp.Assets = append(resp.Assets, assetResponse(&sample[i]))
		}
		writeJSON(w, resp)
	})

	// GetStatus godoc
	// @Summary  Supply state across accounts and pools
	// @Produce  json
	// @Success  200  {object}  types.StatusResponse
	// @Router   /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		writeJSON(w, svc.Status(ctx))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if svc.Ready(ctx) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no assets"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// assetResponse maps a catalog asset onto the wire DTO.
func assetResponse(a *immich.Asset) types.AssetResponse {
	resp := types.AssetResponse{
		ID:         a.ID,
		FileName:   a.OriginalFileName,
		Type:       string(a.Type),
		IsFavorite: a.IsFavorite,
		CapturedAt: a.FileCreatedAt,
		Rating:     a.Rating,
	}
	if a.ExifInfo != nil {
		resp.Description = a.ExifInfo.Description
	}
	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// requestLogger emits one structured line per request when a logger is set.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if zlog == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(sr, r)
		z := zlog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sr.status).
			Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("request")
	})
}

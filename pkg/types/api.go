package types

import "time"

// AssetResponse is the JSON shape of one supplied asset.
type AssetResponse struct {
	// Catalog id of the asset.
	// example: 9b3c4e6a-0f1d-4c5e-8a7b-2d3f4a5b6c7d
	ID string `json:"id" example:"9b3c4e6a-0f1d-4c5e-8a7b-2d3f4a5b6c7d"`
	// Original file name as stored in the catalog.
	// example: IMG_2043.jpg
	FileName string `json:"file_name" example:"IMG_2043.jpg"`
	// Media type reported by the catalog (IMAGE, VIDEO, ...).
	// example: IMAGE
	Type string `json:"type" example:"IMAGE"`
	// Whether the asset is flagged favorite.
	// example: true
	IsFavorite bool `json:"is_favorite" example:"true"`
	// Capture timestamp.
	CapturedAt time.Time `json:"captured_at"`
	// Optional star rating.
	// example: 4
	Rating int `json:"rating,omitempty" example:"4"`
	// Optional EXIF description text.
	Description string `json:"description,omitempty"`
}

// AssetsResponse wraps the bulk proportional sample returned by GET /assets.
type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

// PoolStatus summarizes one active pool for /status.
type PoolStatus struct {
	// Pool name, derived from its filter (favorites, album:<id>, ...).
	// example: favorites
	Name string `json:"name" example:"favorites"`
	// Resolved total count of matching assets.
	// example: 412
	Count int64 `json:"count" example:"412"`
	// Current prefetch queue length.
	// example: 7
	QueueLen int `json:"queue_len" example:"7"`
}

// AccountStatus summarizes one account for /status.
type AccountStatus struct {
	// Configured account name.
	// example: family
	Name string `json:"name" example:"family"`
	// Aggregate asset count across the account's active pools.
	// example: 1854
	AssetCount int64 `json:"asset_count" example:"1854"`
	// Active pools for this account.
	Pools []PoolStatus `json:"pools"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Per-account supply state.
	Accounts []AccountStatus `json:"accounts"`
	// Aggregate asset count across all accounts.
	// example: 2312
	TotalAssets int64 `json:"total_assets" example:"2312"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown account
	Error string `json:"error" example:"unknown account"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

package immich

import "time"

// AssetType enumerates the media types Immich reports for an asset.
type AssetType string

const (
	AssetTypeImage AssetType = "IMAGE"
	AssetTypeVideo AssetType = "VIDEO"
	AssetTypeAudio AssetType = "AUDIO"
	AssetTypeOther AssetType = "OTHER"
)

// ExifInfo carries the subset of EXIF metadata the frame displays.
type ExifInfo struct {
	Description      string  `json:"description,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Country          string  `json:"country,omitempty"`
	Make             string  `json:"make,omitempty"`
	Model            string  `json:"model,omitempty"`
	DateTimeOriginal *string `json:"dateTimeOriginal,omitempty"`
}

// Asset is an immutable snapshot of a remote catalog asset. The supply core
// only holds transient copies inside pool queues; the catalog stays the
// source of truth.
type Asset struct {
	ID               string    `json:"id"`
	OriginalFileName string    `json:"originalFileName"`
	Type             AssetType `json:"type"`
	IsFavorite       bool      `json:"isFavorite"`
	IsArchived       bool      `json:"isArchived"`
	FileCreatedAt    time.Time `json:"fileCreatedAt"`
	Rating           int       `json:"rating,omitempty"`
	ExifInfo         *ExifInfo `json:"exifInfo,omitempty"`
}

// Album is the album summary returned by the albums endpoints.
type Album struct {
	ID         string  `json:"id"`
	AlbumName  string  `json:"albumName"`
	AssetCount int64   `json:"assetCount"`
	Assets     []Asset `json:"assets,omitempty"`
}

// Person is a named face recognized by the catalog.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Memory is a "on this day" group of assets for a given date.
type Memory struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Assets []Asset `json:"assets"`
}

// SearchFilter mirrors the fields of Immich's search payloads the supply
// layer uses. Zero values are omitted so an empty filter means "any asset".
type SearchFilter struct {
	Type       AssetType `json:"type,omitempty"`
	IsFavorite *bool     `json:"isFavorite,omitempty"`
	IsArchived *bool     `json:"isArchived,omitempty"`
	AlbumIDs   []string  `json:"albumIds,omitempty"`
	PersonIDs  []string  `json:"personIds,omitempty"`
}

// searchRandomRequest is the POST /search/random payload.
type searchRandomRequest struct {
	SearchFilter
	Size int `json:"size"`
}

// searchStatisticsResponse is the POST /search/statistics response.
type searchStatisticsResponse struct {
	Total int64 `json:"total"`
}

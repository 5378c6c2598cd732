package models

import "time"

// BBoxQuery is a bounding-box listing request.
type BBoxQuery struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
	Limit  int
	Offset int
}

// WholeGlobe returns a query covering every valid coordinate.
func WholeGlobe(limit, offset int) BBoxQuery {
	return BBoxQuery{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180, Limit: limit, Offset: offset}
}

// Page is one page of bounding-box results. Total ignores pagination.
type Page struct {
	Items  []JoinedRecord `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// DatasetStats counts the rows currently loaded.
type DatasetStats struct {
	Species     int `json:"species"`
	Collections int `json:"collections"`
	Located     int `json:"located"`
}

// DatasetStatus is reported by GET /status.
type DatasetStatus struct {
	DatasetStats
	LoadedAt *time.Time `json:"loaded_at"`
}

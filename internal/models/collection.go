package models

import "github.com/paulmach/orb"

// SpeciesRecord is one row of the species cultivation sheet, keyed by species code.
type SpeciesRecord struct {
	SpeciesCode    string            `json:"species_code"`
	ScientificName *string           `json:"scientific_name"`
	CommonName     *string           `json:"common_name"`
	Cultivation    map[string]string `json:"cultivation"`
}

// CollectionRecord is one normalized seed collection. Latitude and Longitude
// are derived from Cords and are either both set or both nil.
type CollectionRecord struct {
	CollectionCode string   `json:"collection_code"`
	SpeciesCode    *string  `json:"species_code"`
	CommonName     *string  `json:"common_name"`
	PerOunce       *float64 `json:"per_ounce"`
	Weight         *float64 `json:"weight"`
	Chaff          *float64 `json:"chaff"`
	PLS            *float64 `json:"pls"`
	DateCollected  *string  `json:"date_collected"`
	Cords          *string  `json:"cords"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	YearCollected  *float64 `json:"year_collected"`
	County         *string  `json:"county"`
	Formation      *string  `json:"formation"`
	Elevation      *string  `json:"elevation"`
	RanOut         *string  `json:"ran_out"`
	PrairieMoon    *string  `json:"prairie_moon"`
	StorageCode    *string  `json:"storage_code"`
	Notes          *string  `json:"notes"`
}

// HasCoordinates reports whether both derived coordinates are present.
func (c CollectionRecord) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// JoinedRecord is a collection merged with its species. Species is nil when
// no species row matches the collection's species code.
type JoinedRecord struct {
	CollectionRecord
	Species *SpeciesRecord `json:"species"`
}

// Point returns the location as an orb point (lng, lat).
func (c CollectionRecord) Point() (orb.Point, bool) {
	if !c.HasCoordinates() {
		return orb.Point{}, false
	}
	return orb.Point{*c.Longitude, *c.Latitude}, true
}

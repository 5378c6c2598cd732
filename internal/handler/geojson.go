package handler

import (
	"github.com/paulmach/orb/geojson"

	"seedtracker-api/internal/models"
)

const geoJSONContentType = "application/geo+json"

// featureCollection converts a page into point features. Pagination is
// reported as foreign members of the collection.
func featureCollection(page *models.Page) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range page.Items {
		if f := feature(&page.Items[i]); f != nil {
			fc.Append(f)
		}
	}
	fc.ExtraMembers = geojson.Properties{
		"total":  page.Total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}
	return fc
}

func feature(rec *models.JoinedRecord) *geojson.Feature {
	point, ok := rec.Point()
	if !ok {
		return nil
	}

	f := geojson.NewFeature(point)
	f.ID = rec.CollectionCode
	f.Properties["collection_code"] = rec.CollectionCode

	optional := map[string]*string{
		"species_code":   rec.SpeciesCode,
		"common_name":    rec.CommonName,
		"date_collected": rec.DateCollected,
		"county":         rec.County,
		"storage_code":   rec.StorageCode,
		"cords":          rec.Cords,
	}
	for k, v := range optional {
		if v != nil {
			f.Properties[k] = *v
		}
	}
	if rec.YearCollected != nil {
		f.Properties["year_collected"] = *rec.YearCollected
	}
	if rec.Species != nil && rec.Species.ScientificName != nil {
		f.Properties["scientific_name"] = *rec.Species.ScientificName
	}
	return f
}

package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"seedtracker-api/internal/models"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanJoined(row scanner) (*models.JoinedRecord, error) {
	var (
		code                                          string
		speciesCode, commonName, dateCollected, cords sql.NullString
		county, formation, elevation, ranOut          sql.NullString
		prairieMoon, storageCode, notes               sql.NullString
		perOunce, weight, chaff, pls, lat, lng, year  sql.NullFloat64
		spCode, spScientific, spCommon, spCultivation sql.NullString
	)

	err := row.Scan(
		&code, &speciesCode, &commonName,
		&perOunce, &weight, &chaff, &pls,
		&dateCollected, &cords, &lat, &lng, &year,
		&county, &formation, &elevation, &ranOut, &prairieMoon, &storageCode, &notes,
		&spCode, &spScientific, &spCommon, &spCultivation,
	)
	if err != nil {
		return nil, err
	}

	rec := &models.JoinedRecord{
		CollectionRecord: models.CollectionRecord{
			CollectionCode: code,
			SpeciesCode:    str(speciesCode),
			CommonName:     str(commonName),
			PerOunce:       num(perOunce),
			Weight:         num(weight),
			Chaff:          num(chaff),
			PLS:            num(pls),
			DateCollected:  str(dateCollected),
			Cords:          str(cords),
			Latitude:       num(lat),
			Longitude:      num(lng),
			YearCollected:  num(year),
			County:         str(county),
			Formation:      str(formation),
			Elevation:      str(elevation),
			RanOut:         str(ranOut),
			PrairieMoon:    str(prairieMoon),
			StorageCode:    str(storageCode),
			Notes:          str(notes),
		},
	}

	if spCode.Valid {
		sp := &models.SpeciesRecord{
			SpeciesCode:    spCode.String,
			ScientificName: str(spScientific),
			CommonName:     str(spCommon),
			Cultivation:    map[string]string{},
		}
		if spCultivation.Valid && spCultivation.String != "" {
			if err := json.Unmarshal([]byte(spCultivation.String), &sp.Cultivation); err != nil {
				return nil, fmt.Errorf("decode cultivation for %s: %w", sp.SpeciesCode, err)
			}
		}
		rec.Species = sp
	}

	return rec, nil
}

func str(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func num(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

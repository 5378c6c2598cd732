package repository

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour of the backing database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Queries is the schema and statement set the store runs. Statements use '?'
// placeholders; they are rebound for dialects that number parameters.
type Queries struct {
	// Schema creates both tables and their indexes when missing.
	Schema []string
	// Reset drops both tables. A reload runs Reset then Schema.
	Reset []string

	InsertSpecies    string
	InsertCollection string

	GetByCode  string
	CountBBox  string
	ListBBox   string
	CountStats string
}

// DefaultQueries is the built-in schema for species_data and collection_data.
var DefaultQueries = Queries{
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS species_data (
			species_code    TEXT PRIMARY KEY,
			scientific_name TEXT,
			common_name     TEXT,
			cultivation     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS collection_data (
			collection_code TEXT PRIMARY KEY,
			species_code    TEXT,
			common_name     TEXT,
			per_ounce       DOUBLE PRECISION,
			weight          DOUBLE PRECISION,
			chaff           DOUBLE PRECISION,
			pls             DOUBLE PRECISION,
			date_collected  TEXT,
			cords           TEXT,
			latitude        DOUBLE PRECISION,
			longitude       DOUBLE PRECISION,
			year_collected  DOUBLE PRECISION,
			county          TEXT,
			formation       TEXT,
			elevation       TEXT,
			ran_out         TEXT,
			prairie_moon    TEXT,
			storage_code    TEXT,
			notes           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_lat_lng ON collection_data (latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_species ON collection_data (species_code)`,
	},

	Reset: []string{
		`DROP TABLE IF EXISTS collection_data`,
		`DROP TABLE IF EXISTS species_data`,
	},

	InsertSpecies: `
		INSERT INTO species_data (species_code, scientific_name, common_name, cultivation)
		VALUES (?, ?, ?, ?)`,

	InsertCollection: `
		INSERT INTO collection_data (
			collection_code, species_code, common_name,
			per_ounce, weight, chaff, pls,
			date_collected, cords, latitude, longitude, year_collected,
			county, formation, elevation, ran_out, prairie_moon, storage_code, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

	GetByCode: selectJoined + `
		WHERE c.collection_code = ?`,

	CountBBox: `
		SELECT COUNT(*)
		FROM collection_data c` + bboxWhere,

	ListBBox: selectJoined + bboxWhere + `
		ORDER BY c.collection_code
		LIMIT ? OFFSET ?`,

	CountStats: `
		SELECT
			(SELECT COUNT(*) FROM species_data),
			(SELECT COUNT(*) FROM collection_data),
			(SELECT COUNT(*) FROM collection_data WHERE latitude IS NOT NULL AND longitude IS NOT NULL)`,
}

const selectJoined = `
		SELECT
			c.collection_code, c.species_code, c.common_name,
			c.per_ounce, c.weight, c.chaff, c.pls,
			c.date_collected, c.cords, c.latitude, c.longitude, c.year_collected,
			c.county, c.formation, c.elevation, c.ran_out, c.prairie_moon, c.storage_code, c.notes,
			s.species_code, s.scientific_name, s.common_name, s.cultivation
		FROM collection_data c
		LEFT JOIN species_data s ON s.species_code = c.species_code`

const bboxWhere = `
		WHERE c.latitude IS NOT NULL AND c.longitude IS NOT NULL
		  AND c.latitude BETWEEN ? AND ?
		  AND c.longitude BETWEEN ? AND ?`

// rebind rewrites '?' placeholders as $1, $2, ... for Postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

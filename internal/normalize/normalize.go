// Package normalize turns raw spreadsheet tables into typed species and collection records.
//
// Field-level parse failures never fail a batch: the field becomes nil and the
// row is kept. Only structural problems with a table (a collection sheet with
// the wrong number of columns, a species sheet without a code column) are errors.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"golang.org/x/sync/errgroup"

	"seedtracker-api/internal/coords"
	"seedtracker-api/internal/models"
	"seedtracker-api/internal/source"
)

var (
	// ErrColumnMismatch is returned when a collection sheet does not have the expected column layout.
	ErrColumnMismatch = errors.New("collection sheet column count mismatch")

	// ErrMissingSpeciesCode is returned when a species sheet has no species code column.
	ErrMissingSpeciesCode = errors.New("species sheet has no species code column")
)

// Collection sheet columns, in source order. Columns are renamed by position;
// the header text of the uploaded sheet is not trusted.
const (
	colCollectionCode = iota
	colSpeciesCode
	colScientificName
	colCommonName
	colPerOunce
	colWeight
	colSeedCount
	colChaff
	colPLS
	colDateCollected
	colCords
	colYearCollected
	colCounty
	colFormation
	colElevation
	colRanOut
	colPrairieMoon
	colStorageCode
	colNotes

	collectionColumns
)

// CollectionColumns lists the canonical names of the collection sheet columns.
var CollectionColumns = [collectionColumns]string{
	"Collection Code",
	"Species Code",
	"Scientific Name",
	"Common Name",
	"Per Ounce",
	"Weight",
	"Seed Count",
	"Chaff",
	"PLS",
	"Date Collected",
	"Cords",
	"Year Collected",
	"County",
	"Formation",
	"Elevation",
	"Ran Out",
	"Prairie Moon",
	"Storage Code",
	"Notes",
}

// parallelThreshold is the row count below which rows are normalized on the calling goroutine.
const parallelThreshold = 512

// Stats summarizes field-level degradation in one normalization run.
type Stats struct {
	Rows               int `json:"rows"`
	SkippedRows        int `json:"skipped_rows"`
	CoordinatesParsed  int `json:"coordinates_parsed"`
	CoordinatesInvalid int `json:"coordinates_invalid"`
	CoordinatesMissing int `json:"coordinates_missing"`
	InvalidNumbers     int `json:"invalid_numbers"`
	InvalidDates       int `json:"invalid_dates"`
}

func (s *Stats) add(o Stats) {
	s.Rows += o.Rows
	s.SkippedRows += o.SkippedRows
	s.CoordinatesParsed += o.CoordinatesParsed
	s.CoordinatesInvalid += o.CoordinatesInvalid
	s.CoordinatesMissing += o.CoordinatesMissing
	s.InvalidNumbers += o.InvalidNumbers
	s.InvalidDates += o.InvalidDates
}

// Normalizer converts source tables into records. It holds configuration
// only and is safe for concurrent use.
type Normalizer struct {
	hemispheres coords.Defaults
	workers     int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithHemispheres sets the hemisphere applied to coordinates without a letter.
func WithHemispheres(d coords.Defaults) Option {
	return func(n *Normalizer) { n.hemispheres = d }
}

// WithWorkers sets how many goroutines normalize large sheets.
func WithWorkers(workers int) Option {
	return func(n *Normalizer) {
		if workers > 0 {
			n.workers = workers
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		hemispheres: coords.DefaultHemispheres,
		workers:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Hemispheres returns the configured hemisphere defaults.
func (n *Normalizer) Hemispheres() coords.Defaults {
	return n.hemispheres
}

// Collections normalizes a collection sheet. Output order matches input order;
// rows without a collection code are skipped.
func (n *Normalizer) Collections(t source.Table) ([]models.CollectionRecord, Stats, error) {
	if len(t.Header) != collectionColumns {
		return nil, Stats{}, fmt.Errorf("normalize: %w: got %d columns, want %d",
			ErrColumnMismatch, len(t.Header), collectionColumns)
	}

	type result struct {
		rec   models.CollectionRecord
		stats Stats
		ok    bool
	}
	results := make([]result, len(t.Rows))

	convert := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rec, st, ok := n.collectionRow(t.Rows[i])
			results[i] = result{rec: rec, stats: st, ok: ok}
		}
	}

	if len(t.Rows) < parallelThreshold || n.workers < 2 {
		convert(0, len(t.Rows))
	} else {
		var g errgroup.Group
		g.SetLimit(n.workers)
		chunk := (len(t.Rows) + n.workers - 1) / n.workers
		for lo := 0; lo < len(t.Rows); lo += chunk {
			lo, hi := lo, min(lo+chunk, len(t.Rows))
			g.Go(func() error {
				convert(lo, hi)
				return nil
			})
		}
		_ = g.Wait()
	}

	var stats Stats
	records := make([]models.CollectionRecord, 0, len(results))
	for _, r := range results {
		stats.add(r.stats)
		if !r.ok {
			continue
		}
		records = append(records, r.rec)
	}
	return records, stats, nil
}

// CollectionRow normalizes a single collection row. The row is read
// positionally; missing trailing cells are treated as empty.
func (n *Normalizer) CollectionRow(row []string) (models.CollectionRecord, bool) {
	rec, _, ok := n.collectionRow(row)
	return rec, ok
}

func (n *Normalizer) collectionRow(row []string) (models.CollectionRecord, Stats, bool) {
	st := Stats{Rows: 1}
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	code := strings.TrimSpace(cell(colCollectionCode))
	if code == "" {
		st.SkippedRows = 1
		return models.CollectionRecord{}, st, false
	}

	number := func(i int) *float64 {
		v, ok := parseNumber(cell(i))
		if !ok {
			st.InvalidNumbers++
		}
		return v
	}

	rec := models.CollectionRecord{
		CollectionCode: code,
		SpeciesCode:    text(cell(colSpeciesCode)),
		CommonName:     text(cell(colCommonName)),
		PerOunce:       number(colPerOunce),
		Weight:         number(colWeight),
		Chaff:          number(colChaff),
		PLS:            number(colPLS),
		Cords:          text(cell(colCords)),
		YearCollected:  number(colYearCollected),
		County:         text(cell(colCounty)),
		Formation:      text(cell(colFormation)),
		Elevation:      text(cell(colElevation)),
		RanOut:         text(cell(colRanOut)),
		PrairieMoon:    text(cell(colPrairieMoon)),
		StorageCode:    text(cell(colStorageCode)),
		Notes:          text(cell(colNotes)),
	}

	date, ok := parseDate(cell(colDateCollected))
	if !ok {
		st.InvalidDates++
	}
	rec.DateCollected = date

	switch {
	case rec.Cords == nil:
		st.CoordinatesMissing++
	default:
		if c, ok := coords.ParseWith(*rec.Cords, n.hemispheres); ok {
			rec.Latitude, rec.Longitude = &c.Lat, &c.Lng
			st.CoordinatesParsed++
		} else {
			st.CoordinatesInvalid++
		}
	}

	return rec, st, true
}

// Species normalizes the species sheet. Species code, scientific name and
// common name columns are located by header; every other column is kept in
// Cultivation under its trimmed header.
func (n *Normalizer) Species(t source.Table) ([]models.SpeciesRecord, Stats, error) {
	codeCol, sciCol, commonCol := -1, -1, -1
	for i, h := range t.Header {
		switch headerKey(h) {
		case "speciescode":
			if codeCol == -1 {
				codeCol = i
			}
		case "scientificname":
			if sciCol == -1 {
				sciCol = i
			}
		case "commonname":
			if commonCol == -1 {
				commonCol = i
			}
		}
	}
	if codeCol == -1 {
		return nil, Stats{}, fmt.Errorf("normalize: %w", ErrMissingSpeciesCode)
	}

	var stats Stats
	records := make([]models.SpeciesRecord, 0, len(t.Rows))
	for i := range t.Rows {
		stats.Rows++
		code := strings.TrimSpace(t.Cell(i, codeCol))
		if code == "" {
			stats.SkippedRows++
			continue
		}

		rec := models.SpeciesRecord{
			SpeciesCode: code,
			Cultivation: map[string]string{},
		}
		if sciCol >= 0 {
			rec.ScientificName = text(t.Cell(i, sciCol))
		}
		if commonCol >= 0 {
			rec.CommonName = text(t.Cell(i, commonCol))
		}
		for j, h := range t.Header {
			if j == codeCol || j == sciCol || j == commonCol {
				continue
			}
			name := strings.TrimSpace(h)
			if name == "" {
				continue
			}
			if v := strings.TrimSpace(t.Cell(i, j)); v != "" {
				rec.Cultivation[name] = v
			}
		}
		records = append(records, rec)
	}
	return records, stats, nil
}

// headerKey lowercases a header and drops spaces, underscores and dashes.
func headerKey(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

// text trims a cell; empty cells are nil.
func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseNumber parses a numeric cell, stripping thousands separators.
// An empty cell is nil and ok; an unparseable cell is nil and not ok.
func parseNumber(s string) (*float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}

// parseDate parses a date in any common layout and formats it as YYYY-MM-DD.
// An empty cell is nil and ok; an unparseable cell is nil and not ok.
func parseDate(s string) (*string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, false
	}
	d := t.Format("2006-01-02")
	return &d, true
}

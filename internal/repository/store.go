package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/paulmach/orb"

	"seedtracker-api/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Store implements the collection repository on database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	q       Queries
}

// Option configures a Store.
type Option func(*Store)

// WithQueries replaces the built-in schema and statements.
func WithQueries(q Queries) Option {
	return func(s *Store) { s.q = q }
}

// NewStore wraps an open database. The dialect decides placeholder style.
func NewStore(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{db: db, dialect: dialect, q: DefaultQueries}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to the configured backend. For sqlite, source is a file path
// and its directory is created when missing.
func Open(ctx context.Context, driver, source string, opts ...Option) (*Store, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch Dialect(driver) {
	case DialectSQLite:
		if dir := filepath.Dir(source); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("repository: create directory: %w", err)
			}
		}
		db, err = sql.Open("sqlite", sqliteDSN(source))
		dialect = DialectSQLite
	case DialectPostgres:
		db, err = sql.Open("pgx", source)
		dialect = DialectPostgres
	default:
		return nil, fmt.Errorf("repository: unknown driver %q", driver)
	}
	if err != nil {
		return nil, storageErr("open database", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storageErr("ping database", err)
	}

	store := NewStore(db, dialect, opts...)
	if err := store.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the schema when it does not exist yet. Existing data is kept.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range s.q.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return storageErr("create schema", err)
		}
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return storageErr("ping", s.db.PingContext(ctx))
}

// ResetAndLoad drops and recreates the schema and inserts both record sets in
// a single transaction. On error nothing changes. Duplicate codes keep the
// last occurrence.
func (s *Store) ResetAndLoad(ctx context.Context, species []models.SpeciesRecord, collections []models.CollectionRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin reload", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range slices.Concat(s.q.Reset, s.q.Schema) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return storageErr("reset schema", err)
		}
	}

	if err := s.insertSpecies(ctx, tx, lastWins(species, func(r models.SpeciesRecord) string { return r.SpeciesCode })); err != nil {
		return err
	}
	if err := s.insertCollections(ctx, tx, lastWins(collections, func(r models.CollectionRecord) string { return r.CollectionCode })); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit reload", err)
	}
	return nil
}

func (s *Store) insertSpecies(ctx context.Context, tx *sql.Tx, species []models.SpeciesRecord) error {
	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(s.q.InsertSpecies))
	if err != nil {
		return storageErr("prepare species insert", err)
	}
	defer stmt.Close()

	for _, sp := range species {
		var cultivation any
		if len(sp.Cultivation) > 0 {
			b, err := json.Marshal(sp.Cultivation)
			if err != nil {
				return fmt.Errorf("repository: encode cultivation for %s: %w", sp.SpeciesCode, err)
			}
			cultivation = string(b)
		}
		if _, err := stmt.ExecContext(ctx, sp.SpeciesCode, sp.ScientificName, sp.CommonName, cultivation); err != nil {
			return storageErr("insert species "+sp.SpeciesCode, err)
		}
	}
	return nil
}

func (s *Store) insertCollections(ctx context.Context, tx *sql.Tx, collections []models.CollectionRecord) error {
	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(s.q.InsertCollection))
	if err != nil {
		return storageErr("prepare collection insert", err)
	}
	defer stmt.Close()

	for _, c := range collections {
		lat, lng := c.Latitude, c.Longitude
		if lat == nil || lng == nil {
			lat, lng = nil, nil
		}
		_, err := stmt.ExecContext(ctx,
			c.CollectionCode, c.SpeciesCode, c.CommonName,
			c.PerOunce, c.Weight, c.Chaff, c.PLS,
			c.DateCollected, c.Cords, lat, lng, c.YearCollected,
			c.County, c.Formation, c.Elevation, c.RanOut, c.PrairieMoon, c.StorageCode, c.Notes,
		)
		if err != nil {
			return storageErr("insert collection "+c.CollectionCode, err)
		}
	}
	return nil
}

// GetByCode returns one collection joined with its species, or nil when no
// collection has the code.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.JoinedRecord, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(s.q.GetByCode), code)

	rec, err := scanJoined(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get collection", err)
	}
	return rec, nil
}

// ListInBBox returns up to limit collections inside the inclusive bound,
// ordered by collection code and skipping offset matches, plus the total
// number of matches. Rows without coordinates never match.
func (s *Store) ListInBBox(ctx context.Context, bound orb.Bound, limit, offset int) ([]models.JoinedRecord, int, error) {
	args := []any{bound.Min.Lat(), bound.Max.Lat(), bound.Min.Lon(), bound.Max.Lon()}

	var total int
	if err := s.db.QueryRowContext(ctx, s.dialect.rebind(s.q.CountBBox), args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count bounding box", err)
	}

	items := []models.JoinedRecord{}
	if total == 0 || offset >= total {
		return items, total, nil
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(s.q.ListBBox), append(args, limit, offset)...)
	if err != nil {
		return nil, 0, storageErr("list bounding box", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanJoined(rows)
		if err != nil {
			return nil, 0, storageErr("scan collection", err)
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("iterate collections", err)
	}

	return items, total, nil
}

// Stats counts loaded rows. An uninitialised database reports zeros.
func (s *Store) Stats(ctx context.Context) (models.DatasetStats, error) {
	var st models.DatasetStats
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(s.q.CountStats)).Scan(&st.Species, &st.Collections, &st.Located)
	if err != nil {
		if s.missingTable(err) {
			return models.DatasetStats{}, nil
		}
		return models.DatasetStats{}, storageErr("count rows", err)
	}
	return st, nil
}

func (s *Store) missingTable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")
}

// lastWins drops earlier duplicates of a key. Survivors stay in input order.
func lastWins[T any](items []T, key func(T) string) []T {
	last := make(map[string]int, len(items))
	for i, it := range items {
		last[key(it)] = i
	}
	if len(last) == len(items) {
		return items
	}
	out := make([]T, 0, len(last))
	for i, it := range items {
		if last[key(it)] == i {
			out = append(out, it)
		}
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"seedtracker-api/internal/coords"
	"seedtracker-api/internal/models"
	"seedtracker-api/internal/normalize"
	"seedtracker-api/internal/observability"
	"seedtracker-api/internal/source"
)

var (
	// ErrNotFound is returned when no collection has the requested code.
	ErrNotFound = errors.New("collection not found")

	// ErrInvalidBoundingBox is returned for out-of-range or inverted bounds.
	ErrInvalidBoundingBox = errors.New("invalid bounding box")

	// ErrInvalidSource is returned when a source sheet cannot be normalized.
	ErrInvalidSource = errors.New("invalid source sheet")
)

// Pagination limits for ListCollections.
const (
	MinLimit     = 1
	MaxLimit     = 1000
	DefaultLimit = 100
)

const (
	defaultQueryTimeout  = 5 * time.Second
	defaultReloadTimeout = 2 * time.Minute
)

// CollectionRepository interface for dependency injection
type CollectionRepository interface {
	GetByCode(ctx context.Context, code string) (*models.JoinedRecord, error)
	ListInBBox(ctx context.Context, bound orb.Bound, limit, offset int) ([]models.JoinedRecord, int, error)
	ResetAndLoad(ctx context.Context, species []models.SpeciesRecord, collections []models.CollectionRecord) error
	Stats(ctx context.Context) (models.DatasetStats, error)
}

// ReloadResult describes a completed reload.
type ReloadResult struct {
	Species         int             `json:"species"`
	Collections     int             `json:"collections"`
	SpeciesStats    normalize.Stats `json:"species_stats"`
	CollectionStats normalize.Stats `json:"collection_stats"`
	LoadedAt        time.Time       `json:"loaded_at"`
}

// CollectionService contains the lookup, bounding-box and reload logic.
// Reads share the dataset; a reload holds it exclusively, so readers see
// either the previous or the new dataset.
type CollectionService struct {
	repo          CollectionRepository
	normalizer    *normalize.Normalizer
	metrics       *observability.Metrics
	logger        zerolog.Logger
	clock         clockwork.Clock
	queryTimeout  time.Duration
	reloadTimeout time.Duration

	mu       sync.RWMutex
	loadedAt *time.Time
}

// Option configures a CollectionService.
type Option func(*CollectionService)

// WithNormalizer sets the normalizer used for reloads and coordinate backfill.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *CollectionService) { s.normalizer = n }
}

// WithMetrics records reload and coordinate metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *CollectionService) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *CollectionService) { s.logger = l }
}

// WithClock sets the time source for reload timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *CollectionService) { s.clock = c }
}

// WithTimeouts bounds storage calls. Zero keeps the default.
func WithTimeouts(query, reload time.Duration) Option {
	return func(s *CollectionService) {
		if query > 0 {
			s.queryTimeout = query
		}
		if reload > 0 {
			s.reloadTimeout = reload
		}
	}
}

// NewCollectionService creates a new collection service
func NewCollectionService(repo CollectionRepository, opts ...Option) *CollectionService {
	s := &CollectionService{
		repo:          repo,
		normalizer:    normalize.New(),
		logger:        zerolog.Nop(),
		clock:         clockwork.NewRealClock(),
		queryTimeout:  defaultQueryTimeout,
		reloadTimeout: defaultReloadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCollection returns one collection joined with its species. Stored rows
// without coordinates get them derived from the raw Cords text; the derived
// value is not written back.
func (s *CollectionService) GetCollection(ctx context.Context, code string) (*models.JoinedRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("service: empty code: %w", ErrNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rec, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get collection: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("service: %s: %w", code, ErrNotFound)
	}

	s.backfill(rec)
	return rec, nil
}

func (s *CollectionService) backfill(rec *models.JoinedRecord) {
	if rec.HasCoordinates() {
		return
	}
	rec.Latitude, rec.Longitude = nil, nil
	if rec.Cords == nil {
		return
	}
	c, ok := coords.ParseWith(*rec.Cords, s.normalizer.Hemispheres())
	if !ok {
		return
	}
	rec.Latitude, rec.Longitude = &c.Lat, &c.Lng
	if s.metrics != nil {
		s.metrics.CoordinateBackfill.Inc()
	}
}

// ListCollections validates the bounding box, clamps pagination and returns
// one page of collections inside the box.
func (s *CollectionService) ListCollections(ctx context.Context, q models.BBoxQuery) (*models.Page, error) {
	if err := validateBBox(q); err != nil {
		return nil, err
	}
	limit, offset := ClampLimit(q.Limit), max(q.Offset, 0)

	bound := orb.Bound{
		Min: orb.Point{q.MinLng, q.MinLat},
		Max: orb.Point{q.MaxLng, q.MaxLat},
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	items, total, err := s.repo.ListInBBox(ctx, bound, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list collections: %w", err)
	}
	if items == nil {
		items = []models.JoinedRecord{}
	}

	return &models.Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ClampLimit coerces a page size into [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	return min(max(limit, MinLimit), MaxLimit)
}

func validateBBox(q models.BBoxQuery) error {
	for _, v := range []float64{q.MinLat, q.MaxLat, q.MinLng, q.MaxLng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite numbers", ErrInvalidBoundingBox)
		}
	}
	switch {
	case q.MinLat < -90 || q.MaxLat > 90 || q.MinLat > 90 || q.MaxLat < -90:
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidBoundingBox)
	case q.MinLng < -180 || q.MaxLng > 180 || q.MinLng > 180 || q.MaxLng < -180:
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidBoundingBox)
	case q.MinLat > q.MaxLat:
		return fmt.Errorf("%w: minLat %g is greater than maxLat %g", ErrInvalidBoundingBox, q.MinLat, q.MaxLat)
	case q.MinLng > q.MaxLng:
		return fmt.Errorf("%w: minLng %g is greater than maxLng %g", ErrInvalidBoundingBox, q.MinLng, q.MaxLng)
	}
	return nil
}

// ReloadFromSources normalizes both sheets and replaces the stored dataset.
// It is the only write path. A failure leaves the previous dataset in place.
func (s *CollectionService) ReloadFromSources(ctx context.Context, speciesTable, collectionTable source.Table) (*ReloadResult, error) {
	start := s.clock.Now()

	species, speciesStats, err := s.normalizer.Species(speciesTable)
	if err != nil {
		s.countReload("invalid")
		return nil, fmt.Errorf("service: species sheet: %w: %w", ErrInvalidSource, err)
	}
	collections, collectionStats, err := s.normalizer.Collections(collectionTable)
	if err != nil {
		s.countReload("invalid")
		return nil, fmt.Errorf("service: collection sheet: %w: %w", ErrInvalidSource, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.reloadTimeout)
	defer cancel()

	if err := s.repo.ResetAndLoad(ctx, species, collections); err != nil {
		s.countReload("error")
		return nil, fmt.Errorf("service: failed to load dataset: %w", err)
	}

	now := s.clock.Now()
	s.loadedAt = &now

	result := &ReloadResult{
		Species:         len(species),
		Collections:     len(collections),
		SpeciesStats:    speciesStats,
		CollectionStats: collectionStats,
		LoadedAt:        now,
	}
	s.observeReload(result, now.Sub(start))

	s.logger.Info().
		Int("species", result.Species).
		Int("collections", result.Collections).
		Int("coordinates_parsed", collectionStats.CoordinatesParsed).
		Int("coordinates_invalid", collectionStats.CoordinatesInvalid).
		Int("invalid_numbers", collectionStats.InvalidNumbers).
		Int("invalid_dates", collectionStats.InvalidDates).
		Dur("took", now.Sub(start)).
		Msg("dataset reloaded")

	return result, nil
}

// LoadFiles reads both source files (.csv or .xlsx) and reloads the dataset.
func (s *CollectionService) LoadFiles(ctx context.Context, speciesPath, collectionsPath string) (*ReloadResult, error) {
	speciesTable, err := source.ReadFile(speciesPath)
	if err != nil {
		return nil, fmt.Errorf("service: species file: %w", err)
	}
	collectionTable, err := source.ReadFile(collectionsPath)
	if err != nil {
		return nil, fmt.Errorf("service: collections file: %w", err)
	}
	return s.ReloadFromSources(ctx, speciesTable, collectionTable)
}

// Status reports dataset counts and the time of the last reload by this process.
func (s *CollectionService) Status(ctx context.Context) (*models.DatasetStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read dataset stats: %w", err)
	}

	status := &models.DatasetStatus{DatasetStats: stats}
	if s.loadedAt != nil {
		t := *s.loadedAt
		status.LoadedAt = &t
	}
	return status, nil
}

func (s *CollectionService) countReload(outcome string) {
	if s.metrics != nil {
		s.metrics.Reloads.WithLabelValues(outcome).Inc()
	}
}

func (s *CollectionService) observeReload(r *ReloadResult, took time.Duration) {
	if s.metrics == nil {
		return
	}
	m := s.metrics
	m.Reloads.WithLabelValues("success").Inc()
	m.ReloadDuration.Observe(took.Seconds())
	m.DatasetRows.WithLabelValues("species").Set(float64(r.Species))
	m.DatasetRows.WithLabelValues("collections").Set(float64(r.Collections))

	st := r.CollectionStats
	m.Coordinates.WithLabelValues("parsed").Add(float64(st.CoordinatesParsed))
	m.Coordinates.WithLabelValues("invalid").Add(float64(st.CoordinatesInvalid))
	m.Coordinates.WithLabelValues("missing").Add(float64(st.CoordinatesMissing))
	m.FieldDegradations.WithLabelValues("number").Add(float64(st.InvalidNumbers))
	m.FieldDegradations.WithLabelValues("date").Add(float64(st.InvalidDates))
}

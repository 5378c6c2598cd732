package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"seedtracker-api/internal/observability"
	"seedtracker-api/internal/source"
	"seedtracker-api/internal/sourcefiles"
)

// ErrInvalidUpload is returned when an upload is missing a file or is not CSV.
var ErrInvalidUpload = errors.New("invalid upload")

// Reloader replaces the dataset from parsed sheets.
type Reloader interface {
	ReloadFromSources(ctx context.Context, species, collections source.Table) (*ReloadResult, error)
}

// Archiver copies a committed source file to long-term storage.
type Archiver interface {
	Archive(ctx context.Context, key, localPath string) (string, error)
}

// FilePart is one named file of a multipart upload.
type FilePart struct {
	Filename string
	Body     io.Reader
}

// UploadInput carries both source sheets.
type UploadInput struct {
	Species     FilePart
	Collections FilePart
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	Message         string `json:"message"`
	SpeciesPath     string `json:"species_path"`
	CollectionsPath string `json:"collections_path"`
	ReloadResult
	ArchivedKeys []string `json:"archived_keys,omitempty"`
}

// UploadService writes uploaded sheets to the active source paths and
// reloads the dataset from them. One upload runs at a time.
type UploadService struct {
	reloader        Reloader
	speciesPath     string
	collectionsPath string
	archiver        Archiver
	metrics         *observability.Metrics
	logger          zerolog.Logger
	clock           clockwork.Clock

	mu sync.Mutex
}

// UploadOption configures an UploadService.
type UploadOption func(*UploadService)

// WithArchiver mirrors committed files. Archive failures are logged, not returned.
func WithArchiver(a Archiver) UploadOption {
	return func(u *UploadService) { u.archiver = a }
}

// WithUploadMetrics records archive outcomes.
func WithUploadMetrics(m *observability.Metrics) UploadOption {
	return func(u *UploadService) { u.metrics = m }
}

// WithUploadLogger sets the service logger.
func WithUploadLogger(l zerolog.Logger) UploadOption {
	return func(u *UploadService) { u.logger = l }
}

// WithUploadClock sets the clock used for archive keys.
func WithUploadClock(c clockwork.Clock) UploadOption {
	return func(u *UploadService) { u.clock = c }
}

// NewUploadService creates an upload service writing to the given paths.
func NewUploadService(reloader Reloader, speciesPath, collectionsPath string, opts ...UploadOption) *UploadService {
	u := &UploadService{
		reloader:        reloader,
		speciesPath:     speciesPath,
		collectionsPath: collectionsPath,
		logger:          zerolog.Nop(),
		clock:           clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Ingest stages both files, parses and reloads from the staged copies, and
// only then renames them over the active source files. A rejected upload
// leaves the files and the dataset untouched.
func (u *UploadService) Ingest(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if err := validatePart("species", in.Species); err != nil {
		return nil, err
	}
	if err := validatePart("collections", in.Collections); err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	species, err := sourcefiles.Stage(u.speciesPath, in.Species.Body)
	if err != nil {
		return nil, fmt.Errorf("service: stage species file: %w", err)
	}
	defer species.Discard()

	collections, err := sourcefiles.Stage(u.collectionsPath, in.Collections.Body)
	if err != nil {
		return nil, fmt.Errorf("service: stage collections file: %w", err)
	}
	defer collections.Discard()

	speciesTable, err := readStaged(species)
	if err != nil {
		return nil, fmt.Errorf("service: %w: species file: %w", ErrInvalidUpload, err)
	}
	collectionTable, err := readStaged(collections)
	if err != nil {
		return nil, fmt.Errorf("service: %w: collections file: %w", ErrInvalidUpload, err)
	}

	reloaded, err := u.reloader.ReloadFromSources(ctx, speciesTable, collectionTable)
	if err != nil {
		return nil, err
	}

	for _, f := range []*sourcefiles.StagedFile{species, collections} {
		if err := f.Commit(); err != nil {
			u.logger.Error().Err(err).Str("path", f.FinalPath).Msg("dataset reloaded but source file was not replaced")
			return nil, fmt.Errorf("service: commit %s: %w", filepath.Base(f.FinalPath), err)
		}
	}

	result := &UploadResult{
		Message:         "files uploaded and dataset reloaded",
		SpeciesPath:     species.FinalPath,
		CollectionsPath: collections.FinalPath,
		ReloadResult:    *reloaded,
	}
	result.ArchivedKeys = u.archive(ctx, species.FinalPath, collections.FinalPath)

	u.logger.Info().
		Str("species_path", result.SpeciesPath).
		Str("collections_path", result.CollectionsPath).
		Int64("species_bytes", species.Size).
		Int64("collections_bytes", collections.Size).
		Msg("source files replaced")

	return result, nil
}

func validatePart(field string, p FilePart) error {
	if p.Body == nil || p.Filename == "" {
		return fmt.Errorf("%w: missing %s file", ErrInvalidUpload, field)
	}
	if !source.IsCSV(p.Filename) {
		return fmt.Errorf("%w: %s file %q must be a .csv file", ErrInvalidUpload, field, p.Filename)
	}
	return nil
}

// readStaged parses a staged file as CSV; its temp name has no .csv extension.
func readStaged(f *sourcefiles.StagedFile) (source.Table, error) {
	r, err := os.Open(f.TempPath)
	if err != nil {
		return source.Table{}, err
	}
	defer r.Close()
	return source.ReadCSV(r)
}

func (u *UploadService) archive(ctx context.Context, paths ...string) []string {
	if u.archiver == nil {
		return nil
	}
	stamp := u.clock.Now().UTC().Format("20060102T150405Z")

	var keys []string
	for _, p := range paths {
		key, err := u.archiver.Archive(ctx, path.Join(stamp, filepath.Base(p)), p)
		if err != nil {
			u.countArchive("error")
			u.logger.Warn().Err(err).Str("path", p).Msg("failed to archive source file")
			continue
		}
		u.countArchive("success")
		keys = append(keys, key)
	}
	return keys
}

func (u *UploadService) countArchive(outcome string) {
	if u.metrics != nil {
		u.metrics.ArchiveUploads.WithLabelValues(outcome).Inc()
	}
}

package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"seedtracker-api/internal/observability"
	"seedtracker-api/internal/source"
)

type MockReloader struct {
	mock.Mock
}

func (m *MockReloader) ReloadFromSources(ctx context.Context, species, collections source.Table) (*ReloadResult, error) {
	args := m.Called(ctx, species, collections)
	res, _ := args.Get(0).(*ReloadResult)
	return res, args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, key, localPath string) (string, error) {
	args := m.Called(ctx, key, localPath)
	return args.String(0), args.Error(1)
}

const (
	speciesCSV     = "Species Code,Scientific Name,Common Name\nANGE,Andropogon gerardii,Big bluestem\n"
	collectionsCSV = "Collection Code,Species Code,Scientific Name,Common Name,Per Ounce,Weight,Seed Count,Chaff,PLS,Date Collected,Cords,Year Collected,County,Formation,Elevation,Ran Out,Prairie Moon,Storage Code,Notes\n" +
		"ANGE-01,ANGE,,,,,,,,,41 30 0 93 30 0,,,,,,,,\n"
)

func uploadInput(speciesName, speciesBody, collectionsName, collectionsBody string) UploadInput {
	return UploadInput{
		Species:     FilePart{Filename: speciesName, Body: strings.NewReader(speciesBody)},
		Collections: FilePart{Filename: collectionsName, Body: strings.NewReader(collectionsBody)},
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// tempFiles lists leftover staging files in dir.
func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	return matches
}

func TestUploadService_Ingest(t *testing.T) {
	dir := t.TempDir()
	speciesPath := filepath.Join(dir, "cultivationinfo.csv")
	collectionsPath := filepath.Join(dir, "seedcollection.csv")
	writeFile(t, speciesPath, "old species")
	writeFile(t, collectionsPath, "old collections")

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	metrics := observability.NewMetricsForTesting()
	reloader := new(MockReloader)
	archiver := new(MockArchiver)

	svc := NewUploadService(reloader, speciesPath, collectionsPath,
		WithArchiver(archiver), WithUploadClock(clock), WithUploadMetrics(metrics))

	reloader.On("ReloadFromSources", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sp := args.Get(1).(source.Table)
			col := args.Get(2).(source.Table)
			assert.Equal(t, "Species Code", sp.Header[0])
			assert.Len(t, col.Header, 19)
			require.Len(t, col.Rows, 1)
			// the active files are replaced only after a successful reload
			assert.Equal(t, "old collections", readFile(t, collectionsPath))
		}).
		Return(&ReloadResult{Species: 1, Collections: 1, LoadedAt: clock.Now()}, nil)

	archiver.On("Archive", mock.Anything, "20240501T123000Z/cultivationinfo.csv", speciesPath).
		Return("sources/20240501T123000Z/cultivationinfo.csv", nil)
	archiver.On("Archive", mock.Anything, "20240501T123000Z/seedcollection.csv", collectionsPath).
		Return("", assert.AnError)

	result, err := svc.Ingest(context.Background(), uploadInput("species.csv", speciesCSV, "collections.CSV", collectionsCSV))
	require.NoError(t, err)

	assert.Equal(t, speciesPath, result.SpeciesPath)
	assert.Equal(t, collectionsPath, result.CollectionsPath)
	assert.Equal(t, 1, result.Collections)
	assert.Equal(t, []string{"sources/20240501T123000Z/cultivationinfo.csv"}, result.ArchivedKeys)

	assert.Equal(t, speciesCSV, readFile(t, speciesPath))
	assert.Equal(t, collectionsCSV, readFile(t, collectionsPath))
	assert.Empty(t, tempFiles(t, dir))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ArchiveUploads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ArchiveUploads.WithLabelValues("error")))

	reloader.AssertExpectations(t)
	archiver.AssertExpectations(t)
}

func TestUploadService_Ingest_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		input       UploadInput
		reloadError error
		expectError error
	}{
		{
			name:        "species file is not csv",
			input:       uploadInput("species.xlsx", speciesCSV, "collections.csv", collectionsCSV),
			expectError: ErrInvalidUpload,
		},
		{
			name:        "collections file is not csv",
			input:       uploadInput("species.csv", speciesCSV, "collections.txt", collectionsCSV),
			expectError: ErrInvalidUpload,
		},
		{
			name:        "missing collections file",
			input:       UploadInput{Species: FilePart{Filename: "species.csv", Body: strings.NewReader(speciesCSV)}},
			expectError: ErrInvalidUpload,
		},
		{
			name:        "empty species file",
			input:       uploadInput("species.csv", "", "collections.csv", collectionsCSV),
			expectError: source.ErrEmpty,
		},
		{
			name:        "reload rejects the sheet",
			input:       uploadInput("species.csv", speciesCSV, "collections.csv", "a,b\n1,2\n"),
			reloadError: ErrInvalidSource,
			expectError: ErrInvalidSource,
		},
		{
			name:        "storage failure",
			input:       uploadInput("species.csv", speciesCSV, "collections.csv", collectionsCSV),
			reloadError: assert.AnError,
			expectError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			speciesPath := filepath.Join(dir, "cultivationinfo.csv")
			collectionsPath := filepath.Join(dir, "seedcollection.csv")
			writeFile(t, speciesPath, "old species")
			writeFile(t, collectionsPath, "old collections")

			reloader := new(MockReloader)
			svc := NewUploadService(reloader, speciesPath, collectionsPath)

			if tt.reloadError != nil {
				reloader.On("ReloadFromSources", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.reloadError)
			}

			result, err := svc.Ingest(context.Background(), tt.input)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectError)

			assert.Equal(t, "old species", readFile(t, speciesPath))
			assert.Equal(t, "old collections", readFile(t, collectionsPath))
			assert.Empty(t, tempFiles(t, dir))

			if tt.reloadError == nil {
				reloader.AssertNotCalled(t, "ReloadFromSources", mock.Anything, mock.Anything, mock.Anything)
			}
			reloader.AssertExpectations(t)
		})
	}
}

func TestUploadService_Ingest_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	reloader := new(MockReloader)
	svc := NewUploadService(reloader, filepath.Join(dir, "species.csv"), filepath.Join(dir, "collections.csv"))

	reloader.On("ReloadFromSources", mock.Anything, mock.Anything, mock.Anything).Return(&ReloadResult{}, nil)

	result, err := svc.Ingest(context.Background(), uploadInput("a.csv", speciesCSV, "b.csv", collectionsCSV))
	require.NoError(t, err)
	assert.Nil(t, result.ArchivedKeys)
	assert.Equal(t, speciesCSV, readFile(t, filepath.Join(dir, "species.csv")))
}

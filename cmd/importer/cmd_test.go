package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedtracker-api/internal/repository"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCoordsCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "marked DMS",
			args: []string{"coords", `41° 30' 0.0" N 93° 30' 0.0" W`},
			want: "41.500000 -93.500000\n",
		},
		{
			name: "split arguments use default hemispheres",
			args: []string{"coords", "41", "30", "0", "93", "30", "0"},
			want: "41.500000 -93.500000\n",
		},
		{
			name: "custom defaults",
			args: []string{"coords", "--lat-hemisphere", "S", "--lng-hemisphere", "E", "33 52 0 151 12 0"},
			want: "-33.866667 151.200000\n",
		},
		{
			name:    "unparseable",
			args:    []string{"coords", "somewhere"},
			wantErr: true,
		},
		{
			name:    "bad hemisphere flag",
			args:    []string{"coords", "--lat-hemisphere", "E", "41 30 0 93 30 0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLoadCmd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "database.db")
	t.Setenv("SEEDTRACKER_DATABASE_SOURCE", dbPath)
	t.Setenv("SEEDTRACKER_LOG_LEVEL", "error")

	speciesPath := filepath.Join(dir, "species.csv")
	collectionsPath := filepath.Join(dir, "collections.csv")
	require.NoError(t, os.WriteFile(speciesPath, []byte("Species Code,Scientific Name\nANGE,Andropogon gerardii\n"), 0o600))
	require.NoError(t, os.WriteFile(collectionsPath, []byte(
		"Collection Code,Species Code,Scientific Name,Common Name,Per Ounce,Weight,Seed Count,Chaff,PLS,Date Collected,Cords,Year Collected,County,Formation,Elevation,Ran Out,Prairie Moon,Storage Code,Notes\n"+
			"ANGE-01,ANGE,,,,,,,,,41 30 0 93 30 0,,,,,,,,\n"+
			"ANGE-02,ANGE,,,oops,,,,,,,,,,,,,,\n"), 0o600))

	out, err := run(t, "load", "--config", dir, "--species", speciesPath, "--collections", collectionsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 species and 2 collections")
	assert.Contains(t, out, "1 parsed, 0 invalid, 1 missing")
	assert.Contains(t, out, "1 numbers")

	store, err := repository.Open(context.Background(), "sqlite", dbPath)
	require.NoError(t, err)
	defer store.Close()

	rec, err := store.GetByCode(context.Background(), "ANGE-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.InDelta(t, 41.5, *rec.Latitude, 1e-9)
}

func TestLoadCmd_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEEDTRACKER_DATABASE_SOURCE", filepath.Join(dir, "database.db"))

	_, err := run(t, "load", "--config", dir, "--species", filepath.Join(dir, "nope.csv"), "--collections", filepath.Join(dir, "nope.csv"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedtracker-api/internal/coords"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/database.db", cfg.Database.Source)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, filepath.Join("data", "cultivationinfo.csv"), cfg.Data.SpeciesPath())
	assert.Equal(t, filepath.Join("data", "seedcollection.csv"), cfg.Data.CollectionsPath())
	assert.True(t, cfg.Data.LoadOnStart)
	assert.False(t, cfg.Archive.Enabled())
	assert.Greater(t, cfg.Normalize.Workers, 0)

	defaults, err := cfg.Coordinates.Defaults()
	require.NoError(t, err)
	assert.Equal(t, coords.DefaultHemispheres, defaults)
}

func TestLoadConfig_File(t *testing.T) {
	dir := writeConfig(t, `
server:
  address: ":9090"
database:
  driver: postgres
  source: postgres://u:p@localhost/seeds
  query_timeout: 750ms
coordinates:
  default_lat_hemisphere: s
  default_lng_hemisphere: e
archive:
  s3_bucket: seed-archive
log:
  level: debug
  format: console
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Database.ReloadTimeout, "unset keys keep defaults")
	assert.True(t, cfg.Archive.Enabled())
	assert.Equal(t, "debug", cfg.Log.Level)

	defaults, err := cfg.Coordinates.Defaults()
	require.NoError(t, err)
	assert.Equal(t, coords.Defaults{Lat: coords.South, Lng: coords.East}, defaults)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "server:\n  address: \":9090\"\n")
	t.Setenv("SEEDTRACKER_SERVER_ADDRESS", ":7070")
	t.Setenv("SEEDTRACKER_DATABASE_SOURCE", "/tmp/seeds.db")
	t.Setenv("SEEDTRACKER_DATA_LOAD_ON_START", "false")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "/tmp/seeds.db", cfg.Database.Source)
	assert.False(t, cfg.Data.LoadOnStart)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "database:\n  driver: oracle\n"},
		{name: "zero timeout", body: "database:\n  query_timeout: 0s\n"},
		{name: "longitude letter for latitude", body: "coordinates:\n  default_lat_hemisphere: W\n"},
		{name: "latitude letter for longitude", body: "coordinates:\n  default_lng_hemisphere: N\n"},
		{name: "malformed yaml", body: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Info().Msg("dropped")
	logger.Warn().Str("code", "ANGE-01").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "ANGE-01", entry["code"])
	assert.Equal(t, "seedtracker-api", entry["service"])
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "shouting", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.Reloads.WithLabelValues("success").Inc()
	m.Coordinates.WithLabelValues("parsed").Add(3)
	m.DatasetRows.WithLabelValues("collections").Set(12)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reloads.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Coordinates.WithLabelValues("parsed")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.DatasetRows.WithLabelValues("collections")))
}

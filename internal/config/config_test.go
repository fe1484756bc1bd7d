package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")

	cfg := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, "sigmoid", cfg.Weighting.Strategy)
	assert.Equal(t, 30, cfg.Weighting.HubTopN)
	assert.Equal(t, 547.5, cfg.Weighting.Hub.InflectionDays)
	assert.Equal(t, 0.003, cfg.Weighting.Regional.Slope)
	assert.Len(t, cfg.Classifiers.Stars.Labels, 5)
	assert.Len(t, cfg.Classifiers.Sentiment.Labels, 3)
	assert.Equal(t, "SchedDepApt", cfg.Flights.OriginColumn)
	assert.Equal(t, "london-heathrow-airport", cfg.Collectors.SkytraxSlugs["EGLL"])
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
logging:
  level: debug
weighting:
  strategy: exponential
  referenceDate: "2025-06-01"
classifiers:
  stars:
    timeout: 5s
collectors:
  workers: 8
  editions:
    PL: {language: PL, gl: PL, hl: pl-PL, ceid: "PL:pl"}
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "postgres://env")
	t.Setenv(classifierBEnv, "http://classifier-b")
	t.Setenv(resultsDirEnv, "/tmp/out")
	t.Setenv(logLevelEnv, "")

	cfg := Load(path)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "exponential", cfg.Weighting.Strategy)
	assert.Equal(t, "2025-06-01", cfg.Weighting.ReferenceDate)
	assert.Equal(t, 5*time.Second, cfg.Classifiers.Stars.Timeout)
	assert.Equal(t, 512, cfg.Classifiers.Stars.MaxTokens, "unset fields keep defaults")
	assert.Equal(t, 8, cfg.Collectors.Workers)
	assert.Equal(t, "pl-PL", cfg.Collectors.Editions["PL"].HL)
	assert.Equal(t, "en-GB", cfg.Collectors.Editions["GB"].HL)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, "http://classifier-b", cfg.Classifiers.Sentiment.URL)
	assert.Equal(t, "/tmp/out", cfg.Paths.ResultsDir)
}

func TestPathsResolve(t *testing.T) {
	t.Parallel()

	p := PathsConfig{DataDir: "data"}
	assert.Equal(t, filepath.Join("data", "airports.csv"), p.Resolve("airports.csv"))
	assert.Equal(t, "/abs/flights.csv", p.Resolve("/abs/flights.csv"))
	assert.Empty(t, p.Resolve(""))
}

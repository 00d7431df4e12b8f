package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("PALACE_DATA_DIR", dataDir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StorageFile, cfg.StorageType)
	assert.Equal(t, HistoryNone, cfg.HistoryType)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, "palace_rounds", cfg.Elasticsearch.Index)
	assert.Equal(t, filepath.Join(dataDir, "leaderboard.json"), cfg.StatsPath())
	assert.Equal(t, filepath.Join(dataDir, "palace.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(dataDir, "rules.hcl"), cfg.RulesPath())

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PALACE_DATA_DIR", t.TempDir())
	t.Setenv("PALACE_ENVIRONMENT", "production")
	t.Setenv("PALACE_STORAGE_TYPE", "SQLite")
	t.Setenv("PALACE_HISTORY_TYPE", "elasticsearch")
	t.Setenv("PALACE_ELASTICSEARCH_URL", "http://es:9200")
	t.Setenv("PALACE_SEED", "42")
	t.Setenv("PALACE_STATS_FILE", "/var/lib/palace/stats.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, HistoryElasticsearch, cfg.HistoryType)
	assert.Equal(t, "http://es:9200", cfg.Elasticsearch.URL)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "/var/lib/palace/stats.json", cfg.StatsPath())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "palace.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PALACE_LOG_LEVEL=debug\n"), 0644))
	t.Setenv("PALACE_DATA_DIR", dir)
	t.Cleanup(func() { os.Unsetenv("PALACE_LOG_LEVEL") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadBackends(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage", env: map[string]string{"PALACE_STORAGE_TYPE": "postgres"}},
		{name: "unknown history", env: map[string]string{"PALACE_HISTORY_TYPE": "kafka"}},
		{name: "elasticsearch without url", env: map[string]string{"PALACE_HISTORY_TYPE": "elasticsearch"}},
		{name: "bad seed", env: map[string]string{"PALACE_SEED": "abc"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PALACE_DATA_DIR", t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

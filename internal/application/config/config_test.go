package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setValidEnv(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("APP_LOG_LEVEL", "info")
	t.Setenv("APP_ENABLE_DEBUG", "true")
	t.Setenv("HTTP_APP_METRICS_HOST", ":9090")
	t.Setenv("HTTP_APP_PPROF_HOST", "")
	t.Setenv("ANALYSIS_SERVICE_URL", "http://classifier.local/analyze")
	t.Setenv("ANALYSIS_SERVICE_TIMEOUT", "")
	t.Setenv("METRIC_CATALOG_FILE", "")
	t.Setenv("SESSION_TTL", "")
}

func TestNewAppConfig_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.DebugMode)
	assert.Equal(t, ":9090", cfg.MetricsHost)
	assert.Equal(t, ":6060", cfg.PprofHost)
	assert.Equal(t, "http://classifier.local/analyze", cfg.AnalysisURL)
	assert.Equal(t, 10*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.MetricCatalogFile)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("HTTP_APP_PPROF_HOST", ":7070")
	t.Setenv("ANALYSIS_SERVICE_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("METRIC_CATALOG_FILE", "catalog.yaml")

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.PprofHost)
	assert.Equal(t, 3*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "catalog.yaml", cfg.MetricCatalogFile)
}

func TestNewAppConfig_ValidationErrorsAreAggregated(t *testing.T) {
	setValidEnv(t)
	t.Setenv("APP_LOG_LEVEL", "loud")
	t.Setenv("HTTP_APP_METRICS_HOST", "")
	t.Setenv("ANALYSIS_SERVICE_URL", "")
	t.Setenv("SESSION_TTL", "soon")

	_, err := NewAppConfig()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `unsupported log level "loud"`)
	assert.Contains(t, msg, `metrics host is empty`)
	assert.Contains(t, msg, `analysis service url is empty`)
	assert.Contains(t, msg, `SESSION_TTL: invalid duration format`)
}

func TestNewAppConfig_EmptyLogLevel(t *testing.T) {
	setValidEnv(t)
	t.Setenv("APP_LOG_LEVEL", "")

	_, err := NewAppConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `log level is empty`)
}

func TestLoadEnvFile_MissingFileIsIgnored(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, LoadEnvFile())
}

func TestLoadEnvFile_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.env"), []byte("SESSION_TTL=1m\nHTTP_APP_PPROF_HOST=:7071\n"), 0o600))
	chdir(t, dir)
	t.Setenv("SESSION_TTL", "2m")
	t.Setenv("HTTP_APP_PPROF_HOST", "")
	require.NoError(t, os.Unsetenv("HTTP_APP_PPROF_HOST"))

	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "2m", os.Getenv("SESSION_TTL"))
	assert.Equal(t, ":7071", os.Getenv("HTTP_APP_PPROF_HOST"))
}

package config

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/pkg/errors"

	"github.com/joho/godotenv"
)

const (
	defaultPprofHost       = `:6060`
	defaultAnalysisTimeout = 10 * time.Second
	defaultSessionTTL      = 30 * time.Minute
)

type AppConfig struct {
	LogLevel          string
	DebugMode         bool
	MetricsHost       string
	PprofHost         string
	AnalysisURL       string
	AnalysisTimeout   time.Duration
	MetricCatalogFile string
	SessionTTL        time.Duration
}

// LoadEnvFile reads config.env into the environment. A missing file is not
// an error; variables may come from the process environment instead.
func LoadEnvFile() error {
	err := godotenv.Load(`config.env`)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, `failed to load config.env`)
	}
	return nil
}

func NewAppConfig() (*AppConfig, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}

	cfg := AppConfig{}
	cfg.LogLevel = os.Getenv("APP_LOG_LEVEL")
	cfg.DebugMode = os.Getenv("APP_ENABLE_DEBUG") == "true"
	cfg.MetricsHost = os.Getenv("HTTP_APP_METRICS_HOST")
	cfg.PprofHost = envOr("HTTP_APP_PPROF_HOST", defaultPprofHost)
	cfg.AnalysisURL = os.Getenv("ANALYSIS_SERVICE_URL")
	cfg.MetricCatalogFile = os.Getenv("METRIC_CATALOG_FILE")

	var errMsg []string
	var err error
	if cfg.AnalysisTimeout, err = durationOr("ANALYSIS_SERVICE_TIMEOUT", defaultAnalysisTimeout); err != nil {
		errMsg = append(errMsg, err.Error())
	}
	if cfg.SessionTTL, err = durationOr("SESSION_TTL", defaultSessionTTL); err != nil {
		errMsg = append(errMsg, err.Error())
	}

	errMsg = append(errMsg, validate(&cfg)...)
	if len(errMsg) != 0 {
		return nil, errors.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) []string {
	var errMsg []string
	if cfg.LogLevel == "" {
		errMsg = append(errMsg, `log level is empty`)
	} else if _, err := adaptors.ParseLogLevel(cfg.LogLevel); err != nil {
		errMsg = append(errMsg, err.Error())
	}

	if cfg.MetricsHost == "" {
		errMsg = append(errMsg, `metrics host is empty`)
	}

	if cfg.AnalysisURL == "" {
		errMsg = append(errMsg, `analysis service url is empty`)
	}

	if cfg.AnalysisTimeout <= 0 {
		errMsg = append(errMsg, `analysis service timeout must be positive`)
	}

	if cfg.SessionTTL <= 0 {
		errMsg = append(errMsg, `session ttl must be positive`)
	}

	return errMsg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Errorf(`%s: invalid duration format: %v`, key, err)
	}
	return d, nil
}

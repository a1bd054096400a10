package main

import (
	"context"
	"time"

	"phishing_url_analyzer/internal/application/config"
	"phishing_url_analyzer/internal/http"
	"phishing_url_analyzer/internal/service"

	log "github.com/sirupsen/logrus"
)

func main() {
	logInstance := log.New()
	cfg, err := config.NewAppConfig()
	if err != nil {
		logInstance.WithError(err).Fatal(`Failed to load config`)
		return
	}

	//log level
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logInstance.WithError(err).Fatal(`Failed to parse log level`)
		return
	}
	if cfg.DebugMode {
		logLevel = log.DebugLevel
	}

	logInstance.SetFormatter(&log.JSONFormatter{
		TimestampFormat:   time.RFC3339,
		DisableHTMLEscape: true,
		DisableTimestamp:  false,
	})

	logInstance.SetLevel(logLevel)

	catalog, err := config.LoadMetricCatalog(cfg.MetricCatalogFile, service.DefaultMetricCatalog())
	if err != nil {
		logInstance.WithError(err).Fatal(`Failed to load metric catalog`)
		return
	}

	if err := http.Init(context.Background(), logInstance, cfg, catalog); err != nil {
		logInstance.WithError(err).Fatal(`HTTP servers stopped with error`)
	}
}

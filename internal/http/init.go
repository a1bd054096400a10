package http

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"phishing_url_analyzer/internal/adaptors"
	"phishing_url_analyzer/internal/application/config"
	ports "phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
	"phishing_url_analyzer/internal/http/handlers"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/service"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Router struct {
	httpRouter *chi.Mux
	sessions   *handlers.SessionStore
	log        *log.Logger
}

// NewRouter wires every session to its own page and controller. All
// sessions share the analysis client and the metric catalog.
func NewRouter(log *log.Logger, client ports.AnalysisClient, catalog *models.MetricCatalog, sessionTTL time.Duration) *Router {
	factory := func(id string) (*handlers.Session, error) {
		page, err := adaptors.NewPage()
		if err != nil {
			return nil, err
		}
		return &handlers.Session{
			ID:         id,
			Page:       page,
			Controller: service.NewAnalysisController(log, client, page, catalog),
		}, nil
	}

	router := &Router{
		httpRouter: chi.NewRouter(),
		sessions:   handlers.NewSessionStore(sessionTTL, factory, log),
		log:        log,
	}
	initRoutes(router)
	return router
}

func (r *Router) Handler() *chi.Mux {
	return r.httpRouter
}

func (r *Router) Sessions() *handlers.SessionStore {
	return r.sessions
}

// Init runs the application, metrics and pprof servers until SIGINT or
// SIGTERM, or until one of them fails.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig, catalog *models.MetricCatalog) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := NewHTTPServerConfig()
	if err != nil {
		return err
	}

	client := adaptors.NewAnalysisClient(appCfg.AnalysisURL, appCfg.AnalysisTimeout, log)
	router := NewRouter(log, client, catalog, appCfg.SessionTTL)

	httpServer := NewHttpServer(cfg, router.Handler(), log)
	metricsServer := NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log)
	pprofServer := NewPprofServer(appCfg.PprofHost, cfg.Timeouts.ShutdownWait, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(metricsServer.Start)
	if appCfg.DebugMode {
		g.Go(pprofServer.Start)
	}
	g.Go(func() error {
		return router.Sessions().Run(gctx, sweepInterval(appCfg.SessionTTL))
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(`shutdown signal received`)
		var errs error
		for _, stopFn := range []func() error{httpServer.Stop, pprofServer.Stop, metricsServer.Stop} {
			if err := stopFn(); err != nil {
				log.WithError(err).Error(`server did not stop cleanly`)
				errs = errors.Append(errs, err)
			}
		}
		return errs
	})

	return g.Wait()
}

func sweepInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 4; interval > time.Second {
		return interval
	}
	return time.Second
}

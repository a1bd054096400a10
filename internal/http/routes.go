package http

import (
	"phishing_url_analyzer/internal/http/handlers"
	"phishing_url_analyzer/internal/http/middleware"
)

func initRoutes(r *Router) {
	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))

	r.httpRouter.Get("/", handlers.NewPageHandler(r.sessions, r.log).Handle)
	r.httpRouter.Get("/state", handlers.NewStateHandler(r.sessions, r.log).Handle)
	r.httpRouter.Get("/ready", handlers.NewReadyHandler().Handle)
	r.httpRouter.Post("/analyze", handlers.NewAnalyzeHandler(r.sessions, r.log).Handle)
}

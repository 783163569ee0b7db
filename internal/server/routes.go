package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, sessions *Registry, game GameConfig, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("BugHunt API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, store))
	r.Get("/ws/game", handleWSGame(logger, sessions))

	// Player routes — session resolved from the Bearer token.
	r.Route("/api/game", func(r chi.Router) {
		r.Post("/start", handleStart(logger, store, sessions, game))
		r.Post("/tap", handleTap(sessions))
		r.Post("/skip", handleSkip(sessions))
		r.Get("/state", handleState(sessions))
		r.Get("/result", handleResult(logger, store, sessions))
		r.Get("/events", handleEvents(sessions))
	})

	r.Get("/api/ranking", handleRanking(store))

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))
	r.With(adminAuthMiddleware(store)).Get("/api/admin/me", handleAdminMe())

	// Admin problem management.
	r.Route("/api/admin/problems", func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/", handleAdminListProblems(store))
		r.Post("/", handleAdminCreateProblem(store))
		r.Get("/{id}", handleAdminGetProblem(store))
		r.Put("/{id}", handleAdminUpdateProblem(store))
		r.Delete("/{id}", handleAdminDeleteProblem(store))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}

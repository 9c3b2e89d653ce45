package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, sessions *SessionRegistry, db *sql.DB, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("EmberQuest API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/game", handleGameWS(logger, store, sessions, broker))

	// Player routes.
	r.Post("/api/session", handleStartSession(store, sessions))
	r.Delete("/api/session", handleAbandonSession(store, sessions))
	r.Route("/api/game", func(r chi.Router) {
		r.Get("/state", handleGameState(sessions))
		r.Get("/quests", handleQuestLog(sessions))
		r.Post("/position", handlePosition(logger, store, sessions, broker))
		r.Post("/event", handleGameEvent(logger, store, sessions, broker))
		r.Get("/events", handleEvents(sessions, broker))
	})

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))
	r.Get("/api/admin/me", handleAdminMe(store))

	// Admin content — requires admin session cookie.
	r.Route("/api/admin/scenarios", func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/", handleAdminListScenarios(store))
		r.Post("/", handleAdminCreateScenario(logger, store))
		r.Get("/{id}", handleAdminGetScenario(store))
		r.Put("/{id}", handleAdminUpdateScenario(logger, store))
		r.Delete("/{id}", handleAdminDeleteScenario(logger, store))
	})
	r.With(adminAuthMiddleware(store)).Get("/api/admin/attempts", handleAdminListAttempts(store))

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}

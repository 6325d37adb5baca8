package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/vimleague/hub/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()
	docs := deps.Docs
	cs := cookieSessions{store: deps.Sessions, secure: deps.CookieSecure}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("VIM League Hub", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
		"store":    health.CheckerFunc(docs.Ping),
		"sessions": health.CheckerFunc(deps.Sessions.Ping),
	}).Routes())

	r.Group(func(r chi.Router) {
		r.Use(cs.middleware(logger))

		// Pages.
		r.Get("/", handleHome(logger, docs))
		r.Get("/market", handleMarket(logger, docs))
		r.Get("/matches", handleMatches(logger, docs))
		r.Get("/match/{id}", handleMatch(logger, docs))
		r.Get("/metrics", handleMetrics(logger, docs))
		r.Get("/league-records", handleRecords(logger, docs))
		r.Get("/team/{groupId}/{teamRef}", handleTeam(logger, docs))
		r.Get("/stories/{slug}", handleStory(logger, docs))
		r.Get("/live/events", handleLiveEvents(logger, docs, broker, deps.closing))

		// Players.
		r.Post("/register", handleRegister(logger, docs, cs))
		r.Post("/login", handleLogin(logger, docs, cs))
		r.Get("/logout", handleLogout(logger, cs))
		r.Get("/profile", handleProfile(logger, docs))
		r.Post("/profile/update", handleProfileUpdate(logger, docs))
		r.Post("/profile/delete", handleProfileDelete(logger, docs, cs))
		r.Post("/market/view/{playerName}", handleMarketView(logger, docs))

		// Admin.
		r.Get("/admin-login", handleAdminLoginPage(logger, docs))
		r.Post("/admin-login", handleAdminLogin(logger, docs, cs, deps.AdminHash))
		r.Get("/admin", handleAdminPage(logger, docs))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Post("/admin/add-story", handleAddStory(logger, docs))
			r.Post("/admin/delete-story", handleDeleteStory(logger, docs))
			r.Post("/admin/add-record", handleAddRecord(logger, docs))
			r.Post("/admin/delete-record", handleDeleteRecord(logger, docs))
			r.Post("/admin/live", handleLiveLink(logger, docs, broker))

			r.Post("/admin/add-match", handleAddMatch(logger, docs))
			r.Post("/admin/update-match-details", handleMatchDetails(logger, docs))
			r.Post("/admin/delete-match", handleDeleteMatch(logger, docs))

			r.Post("/admin/approve-player", handleApprovePlayer(logger, docs))
			r.Post("/admin/update-market-player", handleUpdateMarketPlayer(logger, docs))
			r.Post("/admin/delete-player", handleDeletePlayer(logger, docs))

			r.Post("/admin/add-group", handleAddGroup(logger, docs))
			r.Post("/admin/delete-group", handleDeleteGroup(logger, docs))
			r.Post("/admin/update-team", handleUpdateTeam(logger, docs))
			r.Post("/admin/delete-team", handleDeleteTeam(logger, docs))
			r.Post("/admin/add-to-roster", handleAddToRoster(logger, docs))
			r.Post("/admin/delete-from-roster", handleDeleteFromRoster(logger, docs))

			r.Post("/admin/update-stat", handleUpdateStat(logger, docs))
			r.Post("/admin/delete-stat", handleDeleteStat(logger, docs))
		})
	})

	if deps.PublicDir != "" {
		if info, err := os.Stat(deps.PublicDir); err == nil && info.IsDir() {
			logger.Info("serving static files", "dir", deps.PublicDir)
			r.NotFound(handleStatic(deps.PublicDir))
		}
	}
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

// loadDoc loads the document or answers 500. It reports whether the caller
// should continue.
func loadDoc(w http.ResponseWriter, r *http.Request, logger *slog.Logger, docs store.Store) (*league.Document, bool) {
	doc, err := docs.Load(r.Context())
	if err != nil {
		serverError(w, r, logger, err)
		return nil, false
	}
	return doc, true
}

func handleHome(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, HomeView{
			SiteView:     bindSite(r, doc, "home"),
			Stories:      doc.Stories,
			Matches:      doc.Matches,
			Leaderboards: doc.Leaderboards,
		})
	}
}

// handleMarket lists verified players only.
func handleMarket(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, MarketView{
			SiteView: bindSite(r, doc, "market"),
			Players:  playerViews(doc.MarketPlayers()),
		})
	}
}

func handleMatches(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, MatchesView{
			SiteView: bindSite(r, doc, "matches"),
			Matches:  doc.Matches,
		})
	}
}

func handleMatch(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		id, err := league.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			redirect(w, r, "/matches")
			return
		}
		m, err := doc.MatchByID(id)
		if err != nil {
			redirect(w, r, "/matches")
			return
		}
		writeJSON(w, http.StatusOK, MatchView{
			SiteView: bindSite(r, doc, "matches"),
			Match:    *m,
		})
	}
}

func handleMetrics(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, MetricsView{
			SiteView:     bindSite(r, doc, "metrics"),
			Groups:       doc.Groups,
			Leaderboards: doc.Leaderboards,
		})
	}
}

func handleRecords(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, RecordsView{
			SiteView: bindSite(r, doc, "records"),
			Records:  doc.Records,
		})
	}
}

// handleTeam shows a team addressed by its id or its position in the group.
// Unknown groups and teams go back to the standings.
func handleTeam(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		groupID, err := league.ParseID(chi.URLParam(r, "groupId"))
		if err != nil {
			redirect(w, r, "/metrics")
			return
		}
		g, t, err := doc.Team(groupID, chi.URLParam(r, "teamRef"))
		if err != nil {
			redirect(w, r, "/metrics")
			return
		}
		writeJSON(w, http.StatusOK, TeamView{
			SiteView:  bindSite(r, doc, "metrics"),
			GroupID:   g.ID,
			GroupName: g.Name,
			Team:      *t,
		})
	}
}

func handleStory(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		s, err := doc.StoryBySlug(chi.URLParam(r, "slug"))
		if err != nil {
			redirect(w, r, "/")
			return
		}
		writeJSON(w, http.StatusOK, StoryView{
			SiteView: bindSite(r, doc, "home"),
			Story:    *s,
		})
	}
}

// handleAdminPage sends visitors without the admin flag to the key prompt.
func handleAdminPage(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !currentSession(r).IsAdmin {
			redirect(w, r, "/admin-login")
			return
		}
		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, AdminView{
			SiteView:     bindSite(r, doc, "admin"),
			Players:      playerViews(doc.Players),
			Matches:      doc.Matches,
			Groups:       doc.Groups,
			Leaderboards: doc.Leaderboards,
			Records:      doc.Records,
			Stories:      doc.Stories,
		})
	}
}

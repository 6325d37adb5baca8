package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

// handleAddMatch schedules an upcoming match from whatever fields the admin
// filled in.
func handleAddMatch(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddMatchRequest
		values, err := bind(r, &req)
		if err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err = docs.Update(r.Context(), func(d *league.Document) error {
			d.AddMatch(fields(values), time.Now())
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

// handleMatchDetails attaches the match sheet and completes the match.
func handleMatchDetails(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchDetailsRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		details := req.details()
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Match not found", d.CompleteMatch(req.MatchID, details))
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteMatch(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			if !d.DeleteMatch(req.MatchID) {
				return userError{msg: "Match not found", err: league.ErrNotFound}
			}
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

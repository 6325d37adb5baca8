package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

func handleAddGroup(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GroupRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			d.AddGroup(strings.TrimSpace(req.Name), time.Now())
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteGroup(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteGroupRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			if !d.DeleteGroup(req.GroupID) {
				return userError{msg: "Group not found", err: league.ErrNotFound}
			}
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

// handleUpdateTeam edits the standing of a referenced team, or adds a new
// team when no team is referenced.
func handleUpdateTeam(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TeamRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		standing := league.Standing{MP: req.MP, Wins: req.Wins, Loses: req.Loses, Pts: req.Pts}
		ref := firstNonEmpty(req.TeamID, req.TeamIndex)
		err := docs.Update(r.Context(), func(d *league.Document) error {
			_, err := d.UpsertTeam(req.GroupID, ref, strings.TrimSpace(req.TeamName), req.Logo, standing)
			return explain("Team not found", err)
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteTeam(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteTeamRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		ref := firstNonEmpty(req.TeamID, req.TeamIndex)
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Team not found", d.DeleteTeam(req.GroupID, ref))
		})
		finish(w, r, logger, "/admin", err)
	}
}

// handleAddToRoster adds a registered player to a team. The player must
// exist; the roster keeps the player's stored spelling.
func handleAddToRoster(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RosterRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		ref := firstNonEmpty(req.TeamID, req.TeamIndex)
		name := strings.TrimSpace(req.PlayerName)
		err := docs.Update(r.Context(), func(d *league.Document) error {
			err := d.AddToRoster(req.GroupID, ref, name, req.IsManager == "true")
			if errors.Is(err, league.ErrUnknownPlayer) {
				return userError{msg: `Player "` + name + `" not found!`, err: err}
			}
			return explain("Team not found", err)
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteFromRoster(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteRosterRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		teamRef := firstNonEmpty(req.TeamID, req.TeamIndex)
		entryRef := firstNonEmpty(req.EntryID, req.PlayerIndex)
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Roster entry not found", d.RemoveFromRoster(req.GroupID, teamRef, entryRef))
		})
		finish(w, r, logger, "/admin", err)
	}
}

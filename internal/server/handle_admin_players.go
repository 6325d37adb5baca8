package server

import (
	"log/slog"
	"net/http"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

// handleApprovePlayer verifies a player, which lists them on the market.
func handleApprovePlayer(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ApprovePlayerRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Player Not Found", d.ApprovePlayer(req.PlayerID, req.CardImage))
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleUpdateMarketPlayer(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MarketPlayerRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		stats := league.Stats{
			Goals:   req.Goals,
			Assists: req.Assists,
			Saves:   req.Saves,
			MVPs:    req.MVPs,
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Player Not Found", d.UpdateMarketPlayer(req.Username, stats, req.Bio))
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeletePlayer(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			if !d.DeletePlayer(req.PlayerID) {
				return userError{msg: "Player Not Found", err: league.ErrNotFound}
			}
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

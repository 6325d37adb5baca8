package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

func handleAddStory(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StoryRequest
		values, err := bind(r, &req)
		if err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err = docs.Update(r.Context(), func(d *league.Document) error {
			d.AddStory(fields(values), time.Now())
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteStory(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteStoryRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Story not found", d.DeleteStory(req.ref()))
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleAddRecord(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecordRequest
		values, err := bind(r, &req)
		if err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err = docs.Update(r.Context(), func(d *league.Document) error {
			d.AddRecord(fields(values), time.Now())
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteRecord(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteRecordRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			if !d.DeleteRecord(req.RecordID) {
				return userError{msg: "Record not found", err: league.ErrNotFound}
			}
			return nil
		})
		finish(w, r, logger, "/admin", err)
	}
}

// handleLiveLink sets the stream link and pushes it to open pages.
func handleLiveLink(logger *slog.Logger, docs store.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LiveLinkRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			d.SetLiveLink(req.Link)
			return nil
		})
		if err == nil {
			broker.Publish(LiveEvent{Type: "live", LiveLink: req.Link})
		}
		finish(w, r, logger, "/admin", err)
	}
}

// handleUpdateStat overwrites the entry at statIndex, or appends one for
// playerName, then re-sorts that leaderboard.
func handleUpdateStat(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StatRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Unknown leaderboard", d.UpdateStat(req.Type, req.StatIndex, req.PlayerName, req.Value))
		})
		finish(w, r, logger, "/admin", err)
	}
}

func handleDeleteStat(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteStatRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin", err)
			return
		}
		err := docs.Update(r.Context(), func(d *league.Document) error {
			return explain("Leaderboard entry not found", d.DeleteStat(req.Type, req.StatIndex))
		})
		finish(w, r, logger, "/admin", err)
	}
}

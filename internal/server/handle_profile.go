package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

var errUnchanged = errors.New("document unchanged")

func handleProfile(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !currentSession(r).SignedIn() {
			redirectError(w, r, "/market", "Please login first")
			return
		}
		doc, err := docs.Load(r.Context())
		if err != nil {
			serverError(w, r, logger, err)
			return
		}
		site := bindSite(r, doc, "profile")
		if site.User == nil {
			redirectError(w, r, "/market", "Please login first")
			return
		}
		writeJSON(w, http.StatusOK, ProfileView{SiteView: site})
	}
}

func handleProfileUpdate(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if !sess.SignedIn() {
			redirect(w, r, "/profile")
			return
		}

		var req ProfileUpdateRequest
		values, err := bind(r, &req)
		if err != nil {
			finish(w, r, logger, "/profile", err)
			return
		}

		err = docs.Update(r.Context(), func(d *league.Document) error {
			err := d.UpdateProfile(sess.PlayerID, fields(values))
			if errors.Is(err, league.ErrNameTaken) {
				return explain("Username already taken!", err)
			}
			return explain("Please login first", err)
		})
		finish(w, r, logger, "/profile", err)
	}
}

// handleProfileDelete removes the signed-in player and ends the session.
func handleProfileDelete(logger *slog.Logger, docs store.Store, cs cookieSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if !sess.SignedIn() {
			redirect(w, r, "/profile")
			return
		}

		id := sess.PlayerID
		err := docs.Update(r.Context(), func(d *league.Document) error {
			if !d.DeletePlayer(id) {
				return errUnchanged
			}
			return nil
		})
		if err != nil && !errors.Is(err, errUnchanged) {
			serverError(w, r, logger, err)
			return
		}

		if err := cs.destroy(w, r); err != nil {
			logger.Error("destroying session", "error", err)
		}
		redirect(w, r, "/market")
	}
}

// handleMarketView counts the signed-in visitor as a viewer of the player
// once, and answers with the distinct viewer count.
func handleMarketView(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if !sess.SignedIn() {
			writeJSON(w, http.StatusOK, ViewCountResponse{Success: false})
			return
		}

		name := chi.URLParam(r, "playerName")
		if n, err := url.PathUnescape(name); err == nil {
			name = n
		}

		var count int
		err := docs.Update(r.Context(), func(d *league.Document) error {
			n, changed, err := d.RecordView(name, sess.PlayerID)
			if err != nil {
				return err
			}
			count = n
			if !changed {
				return errUnchanged
			}
			return nil
		})
		switch {
		case err == nil, errors.Is(err, errUnchanged):
			writeJSON(w, http.StatusOK, ViewCountResponse{Success: true, Count: count})
		case errors.Is(err, league.ErrNotFound):
			writeJSON(w, http.StatusOK, ViewCountResponse{Success: false})
		default:
			serverError(w, r, logger, err)
		}
	}
}

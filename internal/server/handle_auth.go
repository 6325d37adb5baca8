package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vimleague/hub/internal/league"
	"github.com/vimleague/hub/internal/store"
)

func handleRegister(logger *slog.Logger, docs store.Store, cs cookieSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		values, err := bind(r, &req)
		if err != nil {
			finish(w, r, logger, "/market", err)
			return
		}

		var id league.ID
		err = docs.Update(r.Context(), func(d *league.Document) error {
			p, err := d.Register(strings.TrimSpace(req.Name), req.Password, fields(values), time.Now())
			if err != nil {
				return explain("Username already taken!", err)
			}
			id = p.ID
			return nil
		})
		if err != nil {
			finish(w, r, logger, "/market", err)
			return
		}

		sess := currentSession(r)
		sess.PlayerID = id
		if err := cs.renew(w, r, sess); err != nil {
			serverError(w, r, logger, err)
			return
		}
		redirect(w, r, "/profile")
	}
}

func handleLogin(logger *slog.Logger, docs store.Store, cs cookieSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/market", err)
			return
		}

		doc, err := docs.Load(r.Context())
		if err != nil {
			serverError(w, r, logger, err)
			return
		}
		p, err := doc.Authenticate(req.Username, req.Password)
		if errors.Is(err, league.ErrInvalidCredentials) {
			redirectError(w, r, "/market", "Invalid username or password")
			return
		}
		if err != nil {
			serverError(w, r, logger, err)
			return
		}

		sess := currentSession(r)
		sess.PlayerID = p.ID
		if err := cs.renew(w, r, sess); err != nil {
			serverError(w, r, logger, err)
			return
		}
		redirect(w, r, "/profile")
	}
}

func handleLogout(logger *slog.Logger, cs cookieSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cs.destroy(w, r); err != nil {
			logger.Error("destroying session", "error", err)
		}
		redirect(w, r, "/")
	}
}

func handleAdminLoginPage(logger *slog.Logger, docs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := docs.Load(r.Context())
		if err != nil {
			serverError(w, r, logger, err)
			return
		}
		site := bindSite(r, doc, "admin")
		site.Error = ""
		writeJSON(w, http.StatusOK, AdminLoginView{SiteView: site})
	}
}

// handleAdminLogin grants the admin flag to the session that presents the
// shared key.
func handleAdminLogin(logger *slog.Logger, docs store.Store, cs cookieSessions, adminHash []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if _, err := bind(r, &req); err != nil {
			finish(w, r, logger, "/admin-login", err)
			return
		}

		if err := bcrypt.CompareHashAndPassword(adminHash, []byte(req.Password)); err != nil {
			logger.Warn("admin login rejected", "remote_addr", r.RemoteAddr)

			doc, err := docs.Load(r.Context())
			if err != nil {
				serverError(w, r, logger, err)
				return
			}
			site := bindSite(r, doc, "admin")
			site.Error = "WRONG KEY!"
			writeJSON(w, http.StatusOK, AdminLoginView{SiteView: site})
			return
		}

		sess := currentSession(r)
		sess.IsAdmin = true
		if err := cs.renew(w, r, sess); err != nil {
			serverError(w, r, logger, err)
			return
		}
		logger.Info("admin signed in", "remote_addr", r.RemoteAddr)
		redirect(w, r, "/admin")
	}
}

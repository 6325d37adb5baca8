package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vimleague/hub/internal/session"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
)

const sessionCookieName = "vsl_session"

// cookieSessions binds session.Store entries to the browser cookie.
type cookieSessions struct {
	store  session.Store
	secure bool
}

// middleware resolves the session cookie. Unknown, expired or missing
// cookies yield an empty session, so handlers always see one.
func (cs cookieSessions) middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess session.Session
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				s, err := cs.store.Get(r.Context(), cookie.Value)
				switch {
				case err == nil:
					sess = s
				case !errors.Is(err, session.ErrNotFound):
					logger.Error("loading session", "error", err)
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, &sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// save persists s and (re)issues the cookie.
func (cs cookieSessions) save(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	if err := cs.store.Save(r.Context(), s); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// renew saves s under a fresh id and drops the old entry. It runs whenever
// the session gains a player or the admin flag.
func (cs cookieSessions) renew(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	if s.ID != "" {
		if err := cs.store.Delete(r.Context(), s.ID); err != nil {
			return err
		}
		s.ID = ""
	}
	return cs.save(w, r, s)
}

// destroy drops the session and clears the cookie.
func (cs cookieSessions) destroy(w http.ResponseWriter, r *http.Request) error {
	s := currentSession(r)
	var err error
	if s.ID != "" {
		err = cs.store.Delete(r.Context(), s.ID)
	}
	*s = session.Session{}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

func currentSession(r *http.Request) *session.Session {
	if s, ok := r.Context().Value(ctxKeySession).(*session.Session); ok {
		return s
	}
	return &session.Session{}
}

// requireAdmin rejects requests from sessions that never presented the
// admin key.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentSession(r).IsAdmin {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

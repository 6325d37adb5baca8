package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vimleague/hub/internal/league"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

// redirectError sends the visitor to page with msg in the error query
// parameter, where the page shows it.
func redirectError(w http.ResponseWriter, r *http.Request, page, msg string) {
	redirect(w, r, page+"?error="+url.QueryEscape(msg))
}

func serverError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", middleware.GetReqID(r.Context()),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// userError is a failure whose message is shown back to the visitor.
type userError struct {
	msg string
	err error
}

func (e userError) Error() string { return e.msg }
func (e userError) Unwrap() error { return e.err }

// explain turns lookup and validation failures from the league package into
// a userError carrying msg. Other errors pass through unchanged.
func explain(msg string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, league.ErrNotFound),
		errors.Is(err, league.ErrUnknownPlayer),
		errors.Is(err, league.ErrUnknownStatType),
		errors.Is(err, league.ErrInvalidRef),
		errors.Is(err, league.ErrNameTaken):
		return userError{msg: msg, err: err}
	}
	return err
}

// finish redirects to page after a document update, carrying the message of
// a userError when the update was refused.
func finish(w http.ResponseWriter, r *http.Request, logger *slog.Logger, page string, err error) {
	var ue userError
	switch {
	case err == nil:
		redirect(w, r, page)
	case errors.As(err, &ue):
		redirectError(w, r, page, ue.msg)
	default:
		serverError(w, r, logger, err)
	}
}

package server

import (
	"net/http"

	"github.com/vimleague/hub/internal/league"
)

// Page views are the data a template needs to render each page. They are
// served as JSON; markup is produced by the front end.

// PlayerView is a player as shown to visitors. It never carries the
// password.
type PlayerView struct {
	ID        league.ID      `json:"id"`
	Name      string         `json:"name"`
	Goals     league.Stat    `json:"goals"`
	Assists   league.Stat    `json:"assists"`
	Saves     league.Stat    `json:"saves"`
	MVPs      league.Stat    `json:"mvps"`
	Views     int            `json:"views"`
	CardImage string         `json:"cardImage"`
	Verified  bool           `json:"verified"`
	Profile   map[string]any `json:"profile,omitempty"`
}

func newPlayerView(p league.Player) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Goals:     p.Goals,
		Assists:   p.Assists,
		Saves:     p.Saves,
		MVPs:      p.MVPs,
		Views:     len(p.Views),
		CardImage: p.CardImage,
		Verified:  bool(p.Verified),
		Profile:   p.Extra,
	}
}

func playerViews(players []league.Player) []PlayerView {
	out := make([]PlayerView, 0, len(players))
	for _, p := range players {
		out = append(out, newPlayerView(p))
	}
	return out
}

// SiteView is shared by every page: navigation state and the live stream.
type SiteView struct {
	Page     string      `json:"page"`
	IsAdmin  bool        `json:"isAdmin"`
	User     *PlayerView `json:"user"`
	LiveLink string      `json:"liveLink"`
	Error    string      `json:"error,omitempty"`
}

func bindSite(r *http.Request, doc *league.Document, page string) SiteView {
	sess := currentSession(r)
	v := SiteView{
		Page:     page,
		IsAdmin:  sess.IsAdmin,
		LiveLink: doc.LiveLink,
		Error:    r.URL.Query().Get("error"),
	}
	if sess.SignedIn() {
		if p, err := doc.PlayerByID(sess.PlayerID); err == nil {
			pv := newPlayerView(*p)
			v.User = &pv
		}
	}
	return v
}

type HomeView struct {
	SiteView
	Stories      []league.Story      `json:"stories"`
	Matches      []league.Match      `json:"matches"`
	Leaderboards league.Leaderboards `json:"leaderboards"`
}

type MarketView struct {
	SiteView
	Players []PlayerView `json:"players"`
}

type MatchesView struct {
	SiteView
	Matches []league.Match `json:"matches"`
}

type MatchView struct {
	SiteView
	Match league.Match `json:"match"`
}

type MetricsView struct {
	SiteView
	Groups       []league.Group      `json:"groups"`
	Leaderboards league.Leaderboards `json:"leaderboards"`
}

type RecordsView struct {
	SiteView
	Records []league.Record `json:"records"`
}

type TeamView struct {
	SiteView
	GroupID   league.ID   `json:"groupId"`
	GroupName string      `json:"groupName"`
	Team      league.Team `json:"team"`
}

type StoryView struct {
	SiteView
	Story league.Story `json:"story"`
}

type ProfileView struct {
	SiteView
}

// AdminView is the dashboard: the whole document, passwords stripped.
type AdminView struct {
	SiteView
	Players      []PlayerView        `json:"players"`
	Matches      []league.Match      `json:"matches"`
	Groups       []league.Group      `json:"groups"`
	Leaderboards league.Leaderboards `json:"leaderboards"`
	Records      []league.Record     `json:"records"`
	Stories      []league.Story      `json:"stories"`
}

type AdminLoginView struct {
	SiteView
}

// ViewCountResponse answers the market view counter.
type ViewCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count,omitempty"`
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/vimleague/hub/internal/handler/health"
)

// ErrorResponse is returned for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type pageQuery struct {
	Error string `query:"error"`
}

type matchPath struct {
	ID string `path:"id"`
}

type teamPath struct {
	GroupID string `path:"groupId"`
	TeamRef string `path:"teamRef" description:"Team id, or its position in the group."`
}

type storyPath struct {
	Slug string `path:"slug"`
}

type marketViewPath struct {
	PlayerName string `path:"playerName"`
}

// adminOperations are the admin form posts. Each redirects to /admin, with
// an error query parameter when the change was refused.
var adminOperations = []struct {
	path    string
	summary string
	req     any
}{
	{"/admin/add-story", "Publish a story", StoryRequest{}},
	{"/admin/delete-story", "Delete a story by id or position", DeleteStoryRequest{}},
	{"/admin/add-record", "Add a league record", RecordRequest{}},
	{"/admin/delete-record", "Delete a league record", DeleteRecordRequest{}},
	{"/admin/live", "Set the live stream link", LiveLinkRequest{}},
	{"/admin/add-match", "Schedule a match", AddMatchRequest{}},
	{"/admin/update-match-details", "Submit a match sheet and complete the match", MatchDetailsRequest{}},
	{"/admin/delete-match", "Delete a match", MatchRequest{}},
	{"/admin/approve-player", "Verify a player and set their card", ApprovePlayerRequest{}},
	{"/admin/update-market-player", "Set a player's stats and bio", MarketPlayerRequest{}},
	{"/admin/delete-player", "Delete a player", PlayerRequest{}},
	{"/admin/add-group", "Add a group", GroupRequest{}},
	{"/admin/delete-group", "Delete a group", DeleteGroupRequest{}},
	{"/admin/update-team", "Add a team, or edit a team's standing", TeamRequest{}},
	{"/admin/delete-team", "Delete a team", DeleteTeamRequest{}},
	{"/admin/add-to-roster", "Add a registered player to a team", RosterRequest{}},
	{"/admin/delete-from-roster", "Remove a roster entry", DeleteRosterRequest{}},
	{"/admin/update-stat", "Set or append a leaderboard entry", StatRequest{}},
	{"/admin/delete-stat", "Delete a leaderboard entry", DeleteStatRequest{}},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "VIM League Hub"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Pages and form endpoints of the league site. Pages answer with the view they render.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the document store and session store answer.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	pages := []struct {
		path    string
		summary string
		req     any
		view    any
	}{
		{"/", "Home page", pageQuery{}, HomeView{}},
		{"/market", "Verified players", pageQuery{}, MarketView{}},
		{"/matches", "Match list", pageQuery{}, MatchesView{}},
		{"/match/{id}", "Match details", matchPath{}, MatchView{}},
		{"/metrics", "Group standings and leaderboards", pageQuery{}, MetricsView{}},
		{"/league-records", "League records", pageQuery{}, RecordsView{}},
		{"/team/{groupId}/{teamRef}", "Team details", teamPath{}, TeamView{}},
		{"/stories/{slug}", "Story", storyPath{}, StoryView{}},
		{"/profile", "Signed-in player's profile", pageQuery{}, ProfileView{}},
		{"/admin", "Admin dashboard", pageQuery{}, AdminView{}},
		{"/admin-login", "Admin key prompt", nil, AdminLoginView{}},
	}
	for _, p := range pages {
		op, _ := r.NewOperationContext(http.MethodGet, p.path)
		op.SetSummary(p.summary)
		op.SetTags("pages")
		if p.req != nil {
			op.AddReqStructure(p.req)
		}
		op.AddRespStructure(p.view, openapi.WithHTTPStatus(http.StatusOK))
		op.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
		_ = r.AddOperation(op)
	}

	// GET /live/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/live/events")
	getEvents.SetSummary("Live stream events")
	getEvents.SetDescription("Server-sent events carrying the live stream link, starting with the current one.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/register")
	postRegister.SetSummary("Register a player")
	postRegister.SetDescription("Creates an unverified player and signs them in. Extra fields are kept on the profile.")
	postRegister.SetTags("players")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(postRegister)

	// POST /login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/login")
	postLogin.SetSummary("Player login")
	postLogin.SetTags("players")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(postLogin)

	// GET /logout
	getLogout, _ := r.NewOperationContext(http.MethodGet, "/logout")
	getLogout.SetSummary("Log out")
	getLogout.SetTags("players")
	getLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(getLogout)

	// POST /profile/update
	postProfile, _ := r.NewOperationContext(http.MethodPost, "/profile/update")
	postProfile.SetSummary("Update own profile")
	postProfile.SetDescription("Merges submitted fields over the profile. Stats, views and verification cannot be changed.")
	postProfile.SetTags("players")
	postProfile.AddReqStructure(ProfileUpdateRequest{})
	postProfile.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(postProfile)

	// POST /profile/delete
	deleteProfile, _ := r.NewOperationContext(http.MethodPost, "/profile/delete")
	deleteProfile.SetSummary("Delete own profile")
	deleteProfile.SetTags("players")
	deleteProfile.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(deleteProfile)

	// POST /market/view/{playerName}
	postView, _ := r.NewOperationContext(http.MethodPost, "/market/view/{playerName}")
	postView.SetSummary("Count a profile view")
	postView.SetDescription("Counts the signed-in visitor once per player and returns the distinct viewer count.")
	postView.SetTags("players")
	postView.AddReqStructure(marketViewPath{})
	postView.AddRespStructure(ViewCountResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postView)

	// POST /admin-login
	postAdminLogin, _ := r.NewOperationContext(http.MethodPost, "/admin-login")
	postAdminLogin.SetSummary("Admin login")
	postAdminLogin.SetDescription("Grants the session admin rights when the shared key matches.")
	postAdminLogin.SetTags("admin")
	postAdminLogin.AddReqStructure(AdminLoginRequest{})
	postAdminLogin.AddRespStructure(AdminLoginView{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdminLogin.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(postAdminLogin)

	for _, a := range adminOperations {
		op, _ := r.NewOperationContext(http.MethodPost, a.path)
		op.SetSummary(a.summary)
		op.SetTags("admin")
		op.AddReqStructure(a.req)
		op.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
		op.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusForbidden),
			openapi.WithContentType("text/plain"))
		_ = r.AddOperation(op)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

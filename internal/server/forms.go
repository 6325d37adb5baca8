package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/vimleague/hub/internal/league"
)

var (
	formDecoder = newFormDecoder()
	validate    = newValidator()
)

func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	// Ids that fail to parse decode as zero, which no entity carries, so
	// the lookup that follows reports them as not found.
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		id, _ := league.ParseID(vals[0])
		return id, nil
	}, league.ID(0))
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		return league.ParseStat(vals[0]), nil
	}, league.Stat(0))
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		return league.ParseScore(vals[0]), nil
	}, league.Score(0))
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the submitted form (or JSON object) into v and validates it.
// The raw values are returned for handlers that keep free-form fields.
func bind(r *http.Request, v any) (url.Values, error) {
	values, err := readValues(r)
	if err != nil {
		return nil, userError{msg: "Invalid form submission", err: err}
	}
	if err := formDecoder.Decode(v, values); err != nil {
		return nil, userError{msg: "Invalid form submission", err: err}
	}
	if err := validate.Struct(v); err != nil {
		return nil, userError{msg: validationMessage(err), err: err}
	}
	return values, nil
}

func readValues(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := readJSON(r, &body); err != nil {
			return nil, err
		}
		return jsonValues(body), nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

func jsonValues(body map[string]any) url.Values {
	values := make(url.Values, len(body))
	for k, v := range body {
		switch v := v.(type) {
		case nil:
		case []any:
			for _, e := range v {
				values.Add(k, scalar(e))
			}
		default:
			values.Set(k, scalar(v))
		}
	}
	return values
}

func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// fields flattens values to their first entry per key.
func fields(values url.Values) map[string]string {
	m := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			m[k] = vs[0]
		}
	}
	return m
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("Missing %s", fe.Field())
	case "oneof":
		return fmt.Sprintf("Unknown %s %q", fe.Field(), fe.Value())
	}
	return fmt.Sprintf("Invalid %s", fe.Field())
}

// firstNonEmpty picks the stable id when present and falls back to the
// positional index older pages still submit.
func firstNonEmpty(refs ...string) string {
	for _, s := range refs {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

type RegisterRequest struct {
	Name     string `form:"name" formData:"name" validate:"required"`
	Password string `form:"password" formData:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `form:"username" formData:"username"`
	Password string `form:"password" formData:"password"`
}

type AdminLoginRequest struct {
	Password string `form:"password" formData:"password"`
}

type ProfileUpdateRequest struct {
	Name     string `form:"name" formData:"name"`
	Password string `form:"password" formData:"password"`
	Bio      string `form:"bio" formData:"bio"`
}

type StoryRequest struct {
	Title   string `form:"title" formData:"title"`
	Content string `form:"content" formData:"content"`
	Image   string `form:"image" formData:"image"`
}

type DeleteStoryRequest struct {
	StoryID    string `form:"storyId" formData:"storyId" validate:"required_without=StoryIndex"`
	StoryIndex string `form:"storyIndex" formData:"storyIndex"`
}

func (req DeleteStoryRequest) ref() string { return firstNonEmpty(req.StoryID, req.StoryIndex) }

// MatchDetailsRequest is the admin match sheet. Each team's rows arrive as
// parallel columns; a single row arrives as one value per column.
type MatchDetailsRequest struct {
	MatchID     league.ID `form:"matchId" formData:"matchId"`
	Narrative   string    `form:"narrative" formData:"narrative"`
	PossessionA string    `form:"possessionA" formData:"possessionA"`
	PossessionB string    `form:"possessionB" formData:"possessionB"`
	Highlights  string    `form:"highlights" formData:"highlights"`
	MVPName     string    `form:"mvpName" formData:"mvpName"`
	MVPCardURL  string    `form:"mvpCardUrl" formData:"mvpCardUrl"`
	Standouts   string    `form:"standouts" formData:"standouts"`
	GoalsA      string    `form:"goalsA" formData:"goalsA"`
	AssistsA    string    `form:"assistsA" formData:"assistsA"`
	SavesA      string    `form:"savesA" formData:"savesA"`
	GoalsB      string    `form:"goalsB" formData:"goalsB"`
	AssistsB    string    `form:"assistsB" formData:"assistsB"`
	SavesB      string    `form:"savesB" formData:"savesB"`
	LineupA     string    `form:"lineupA" formData:"lineupA"`
	LineupB     string    `form:"lineupB" formData:"lineupB"`

	TeamAPlayer    []string `form:"teamAPlayer" formData:"teamAPlayer"`
	TeamAType      []string `form:"teamAType" formData:"teamAType"`
	TeamAMainValue []string `form:"teamAMainValue" formData:"teamAMainValue"`
	TeamAAssists   []string `form:"teamAAssists" formData:"teamAAssists"`
	TeamBPlayer    []string `form:"teamBPlayer" formData:"teamBPlayer"`
	TeamBType      []string `form:"teamBType" formData:"teamBType"`
	TeamBMainValue []string `form:"teamBMainValue" formData:"teamBMainValue"`
	TeamBAssists   []string `form:"teamBAssists" formData:"teamBAssists"`
}

func (req MatchDetailsRequest) details() league.MatchDetails {
	return league.MatchDetails{
		Narrative:    req.Narrative,
		PossessionA:  req.PossessionA,
		PossessionB:  req.PossessionB,
		Highlights:   req.Highlights,
		MVPName:      req.MVPName,
		MVPCardURL:   req.MVPCardURL,
		Standouts:    req.Standouts,
		GoalsA:       req.GoalsA,
		AssistsA:     req.AssistsA,
		SavesA:       req.SavesA,
		GoalsB:       req.GoalsB,
		AssistsB:     req.AssistsB,
		SavesB:       req.SavesB,
		LineupA:      req.LineupA,
		LineupB:      req.LineupB,
		TeamAPlayers: league.ZipLines(req.TeamAPlayer, req.TeamAType, req.TeamAMainValue, req.TeamAAssists),
		TeamBPlayers: league.ZipLines(req.TeamBPlayer, req.TeamBType, req.TeamBMainValue, req.TeamBAssists),
	}
}

type MatchRequest struct {
	MatchID league.ID `form:"matchId" formData:"matchId"`
}

type AddMatchRequest struct {
	TeamA string `form:"teamA" formData:"teamA"`
	TeamB string `form:"teamB" formData:"teamB"`
	Date  string `form:"date" formData:"date"`
	Time  string `form:"time" formData:"time"`
}

type PlayerRequest struct {
	PlayerID league.ID `form:"playerId" formData:"playerId"`
}

type ApprovePlayerRequest struct {
	PlayerID  league.ID `form:"playerId" formData:"playerId"`
	CardImage string    `form:"cardImage" formData:"cardImage"`
}

type MarketPlayerRequest struct {
	Username string      `form:"username" formData:"username" validate:"required"`
	Goals    league.Stat `form:"goals" formData:"goals"`
	Assists  league.Stat `form:"assists" formData:"assists"`
	Saves    league.Stat `form:"saves" formData:"saves"`
	MVPs     league.Stat `form:"mvps" formData:"mvps"`
	Bio      string      `form:"bio" formData:"bio"`
}

type RosterRequest struct {
	GroupID    league.ID `form:"groupId" formData:"groupId"`
	TeamID     string    `form:"teamId" formData:"teamId"`
	TeamIndex  string    `form:"teamIndex" formData:"teamIndex"`
	PlayerName string    `form:"playerName" formData:"playerName" validate:"required"`
	IsManager  string    `form:"isManager" formData:"isManager"`
}

type DeleteRosterRequest struct {
	GroupID     league.ID `form:"groupId" formData:"groupId"`
	TeamID      string    `form:"teamId" formData:"teamId"`
	TeamIndex   string    `form:"teamIndex" formData:"teamIndex"`
	EntryID     string    `form:"entryId" formData:"entryId"`
	PlayerIndex string    `form:"playerIndex" formData:"playerIndex"`
}

type RecordRequest struct {
	Title  string `form:"title" formData:"title"`
	Holder string `form:"holder" formData:"holder"`
	Value  string `form:"value" formData:"value"`
}

type DeleteRecordRequest struct {
	RecordID league.ID `form:"recordId" formData:"recordId"`
}

type LiveLinkRequest struct {
	Link string `form:"link" formData:"link"`
}

type GroupRequest struct {
	Name string `form:"name" formData:"name" validate:"required"`
}

type DeleteGroupRequest struct {
	GroupID league.ID `form:"groupId" formData:"groupId"`
}

// TeamRequest edits the standing of the team it references, or creates a
// team named TeamName when it references none.
type TeamRequest struct {
	GroupID   league.ID   `form:"groupId" formData:"groupId"`
	TeamID    string      `form:"teamId" formData:"teamId"`
	TeamIndex string      `form:"teamIndex" formData:"teamIndex"`
	TeamName  string      `form:"teamName" formData:"teamName"`
	Logo      string      `form:"logo" formData:"logo"`
	MP        league.Stat `form:"mp" formData:"mp"`
	Wins      league.Stat `form:"wins" formData:"wins"`
	Loses     league.Stat `form:"loses" formData:"loses"`
	Pts       league.Stat `form:"pts" formData:"pts"`
}

type DeleteTeamRequest struct {
	GroupID   league.ID `form:"groupId" formData:"groupId"`
	TeamID    string    `form:"teamId" formData:"teamId"`
	TeamIndex string    `form:"teamIndex" formData:"teamIndex"`
}

type StatRequest struct {
	Type       league.StatType `form:"type" formData:"type" validate:"oneof=scorers saves assists"`
	StatIndex  string          `form:"statIndex" formData:"statIndex"`
	PlayerName string          `form:"playerName" formData:"playerName"`
	Value      league.Score    `form:"value" formData:"value"`
}

type DeleteStatRequest struct {
	Type      league.StatType `form:"type" formData:"type" validate:"oneof=scorers saves assists"`
	StatIndex string          `form:"statIndex" formData:"statIndex" validate:"required"`
}

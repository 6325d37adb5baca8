package league

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchCompleted MatchStatus = "completed"
)

// Match moves from upcoming to completed once details are submitted and
// never moves back.
type Match struct {
	ID      ID            `json:"id"`
	Status  MatchStatus   `json:"status"`
	Details *MatchDetails `json:"details,omitempty"`

	// Extra holds the fields entered when scheduling (teams, date, venue, ...).
	Extra map[string]any `json:"-"`
}

func (m *Match) UnmarshalJSON(b []byte) error {
	type plain Match
	var v plain
	extra, err := unmarshalWithExtra(b, &v)
	if err != nil {
		return err
	}
	*m = Match(v)
	m.Extra = extra
	return nil
}

func (m Match) MarshalJSON() ([]byte, error) {
	type plain Match
	return marshalWithExtra(plain(m), m.Extra)
}

type MatchDetails struct {
	Narrative    string       `json:"narrative"`
	PossessionA  string       `json:"possessionA"`
	PossessionB  string       `json:"possessionB"`
	Highlights   string       `json:"highlights"`
	MVPName      string       `json:"mvpName"`
	MVPCardURL   string       `json:"mvpCardUrl"`
	Standouts    string       `json:"standouts"`
	GoalsA       string       `json:"goalsA"`
	AssistsA     string       `json:"assistsA"`
	SavesA       string       `json:"savesA"`
	GoalsB       string       `json:"goalsB"`
	AssistsB     string       `json:"assistsB"`
	SavesB       string       `json:"savesB"`
	LineupA      string       `json:"lineupA"`
	LineupB      string       `json:"lineupB"`
	TeamAPlayers []PlayerLine `json:"teamAPlayers"`
	TeamBPlayers []PlayerLine `json:"teamBPlayers"`
}

// Sheets submitted as JSON may carry counts as numbers; they are kept as
// the text the form would have sent.
func (m *MatchDetails) UnmarshalJSON(b []byte) error {
	type plain MatchDetails
	b, err := scalarsAsStrings(b)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, (*plain)(m))
}

// PlayerLine is one row of a team's match sheet.
type PlayerLine struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Assists string `json:"assists"`
}

func (l *PlayerLine) UnmarshalJSON(b []byte) error {
	type plain PlayerLine
	b, err := scalarsAsStrings(b)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, (*plain)(l))
}

// ZipLines builds match-sheet rows from parallel columns. Columns shorter
// than names read as empty; rows without a name are dropped.
func ZipLines(names, types, values, assists []string) []PlayerLine {
	at := func(col []string, i int) string {
		if i < len(col) {
			return col[i]
		}
		return ""
	}
	lines := []PlayerLine{}
	for i, name := range names {
		if name == "" {
			continue
		}
		lines = append(lines, PlayerLine{
			Name:    name,
			Type:    at(types, i),
			Value:   at(values, i),
			Assists: at(assists, i),
		})
	}
	return lines
}

func (d *Document) MatchByID(id ID) (*Match, error) {
	for i := range d.Matches {
		if d.Matches[i].ID == id {
			return &d.Matches[i], nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
}

// AddMatch schedules an upcoming match carrying the submitted fields.
func (d *Document) AddMatch(fields map[string]string, now time.Time) *Match {
	m := Match{
		ID:     d.NewID(now),
		Status: MatchUpcoming,
		Extra:  fieldsToExtra(nil, fields, "id", "status", "details"),
	}
	d.Matches = append(d.Matches, m)
	return &d.Matches[len(d.Matches)-1]
}

// CompleteMatch attaches details and marks the match completed. Resubmitting
// replaces the details; the status stays completed.
func (d *Document) CompleteMatch(id ID, details MatchDetails) error {
	m, err := d.MatchByID(id)
	if err != nil {
		return err
	}
	if details.TeamAPlayers == nil {
		details.TeamAPlayers = []PlayerLine{}
	}
	if details.TeamBPlayers == nil {
		details.TeamBPlayers = []PlayerLine{}
	}
	m.Status = MatchCompleted
	m.Details = &details
	return nil
}

func (d *Document) DeleteMatch(id ID) bool {
	n := len(d.Matches)
	d.Matches = slices.DeleteFunc(d.Matches, func(m Match) bool { return m.ID == id })
	return len(d.Matches) != n
}

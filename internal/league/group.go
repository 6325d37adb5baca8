package league

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Teams []Team `json:"teams"`
}

type Team struct {
	ID     string        `json:"id,omitempty"`
	Name   string        `json:"name"`
	Logo   string        `json:"logo"`
	MP     Stat          `json:"mp"`
	Wins   Stat          `json:"wins"`
	Loses  Stat          `json:"loses"`
	Pts    Stat          `json:"pts"`
	Roster []RosterEntry `json:"roster"`
}

// RosterEntry references a player by name only; renaming or deleting the
// player leaves the entry as is.
type RosterEntry struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	IsManager Flag   `json:"isManager"`
}

// Standing holds the table counters of a team.
type Standing struct {
	MP, Wins, Loses, Pts Stat
}

func (d *Document) GroupByID(id ID) (*Group, error) {
	for i := range d.Groups {
		if d.Groups[i].ID == id {
			return &d.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
}

func (d *Document) AddGroup(name string, now time.Time) *Group {
	d.Groups = append(d.Groups, Group{ID: d.NewID(now), Name: name, Teams: []Team{}})
	return &d.Groups[len(d.Groups)-1]
}

func (d *Document) DeleteGroup(id ID) bool {
	n := len(d.Groups)
	d.Groups = slices.DeleteFunc(d.Groups, func(g Group) bool { return g.ID == id })
	return len(d.Groups) != n
}

// Team resolves ref as a team id first and as a position second.
func (g *Group) Team(ref string) (*Team, int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, 0, fmt.Errorf("team: %w", ErrInvalidRef)
	}
	for i := range g.Teams {
		if g.Teams[i].ID == ref {
			return &g.Teams[i], i, nil
		}
	}
	if i, ok := Index(ref, len(g.Teams)); ok {
		return &g.Teams[i], i, nil
	}
	return nil, 0, fmt.Errorf("team %q in group %s: %w", ref, g.ID, ErrNotFound)
}

// Team looks up a team by group id and team reference.
func (d *Document) Team(groupID ID, ref string) (*Group, *Team, error) {
	g, err := d.GroupByID(groupID)
	if err != nil {
		return nil, nil, err
	}
	t, _, err := g.Team(ref)
	if err != nil {
		return g, nil, err
	}
	return g, t, nil
}

// UpsertTeam updates the standing of the referenced team, or creates a team
// when ref is empty or stale and a name is given. It reports whether a team
// was created.
func (d *Document) UpsertTeam(groupID ID, ref, name, logo string, s Standing) (bool, error) {
	g, err := d.GroupByID(groupID)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(ref) != "" {
		if t, _, err := g.Team(ref); err == nil {
			t.MP, t.Wins, t.Loses, t.Pts = s.MP, s.Wins, s.Loses, s.Pts
			return false, nil
		}
	}
	if name == "" {
		return false, fmt.Errorf("team %q in group %s: %w", ref, groupID, ErrNotFound)
	}
	g.Teams = append(g.Teams, Team{
		ID:     uuid.NewString(),
		Name:   name,
		Logo:   logo,
		Roster: []RosterEntry{},
	})
	return true, nil
}

func (d *Document) DeleteTeam(groupID ID, ref string) error {
	g, err := d.GroupByID(groupID)
	if err != nil {
		return err
	}
	_, i, err := g.Team(ref)
	if err != nil {
		return err
	}
	g.Teams = slices.Delete(g.Teams, i, i+1)
	return nil
}

// AddToRoster appends a registered player, under their stored name, to a team.
func (d *Document) AddToRoster(groupID ID, teamRef, playerName string, manager bool) error {
	p, err := d.FindPlayer(playerName)
	if err != nil {
		return err
	}
	_, t, err := d.Team(groupID, teamRef)
	if err != nil {
		return err
	}
	t.Roster = append(t.Roster, RosterEntry{
		ID:        uuid.NewString(),
		Name:      p.Name,
		IsManager: Flag(manager),
	})
	return nil
}

// RemoveFromRoster deletes an entry addressed by id or by position.
func (d *Document) RemoveFromRoster(groupID ID, teamRef, entryRef string) error {
	_, t, err := d.Team(groupID, teamRef)
	if err != nil {
		return err
	}
	entryRef = strings.TrimSpace(entryRef)
	for i := range t.Roster {
		if t.Roster[i].ID != "" && t.Roster[i].ID == entryRef {
			t.Roster = slices.Delete(t.Roster, i, i+1)
			return nil
		}
	}
	if i, ok := Index(entryRef, len(t.Roster)); ok {
		t.Roster = slices.Delete(t.Roster, i, i+1)
		return nil
	}
	return fmt.Errorf("roster entry %q: %w", entryRef, ErrNotFound)
}

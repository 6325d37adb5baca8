package league_test

import (
	"errors"
	"testing"

	"github.com/vimleague/hub/internal/league"
)

func groupWithTeams(t *testing.T, names ...string) (*league.Document, league.ID) {
	t.Helper()
	d := league.New()
	g := d.AddGroup("Group A", now)
	gid := g.ID
	for _, name := range names {
		created, err := d.UpsertTeam(gid, "", name, name+".png", league.Standing{})
		if err != nil || !created {
			t.Fatalf("create team %q: created=%v err=%v", name, created, err)
		}
	}
	return d, gid
}

func TestUpsertTeamBranchesOnRef(t *testing.T) {
	d, gid := groupWithTeams(t, "Lions")

	created, err := d.UpsertTeam(gid, "0", "ignored", "", league.Standing{MP: 3, Wins: 2, Loses: 1, Pts: 6})
	if err != nil || created {
		t.Fatalf("update = (%v, %v), want (false, nil)", created, err)
	}
	g, _ := d.GroupByID(gid)
	if len(g.Teams) != 1 {
		t.Fatalf("teams = %d, want 1", len(g.Teams))
	}
	team := g.Teams[0]
	if team.Name != "Lions" || team.MP != 3 || team.Wins != 2 || team.Loses != 1 || team.Pts != 6 {
		t.Errorf("team = %+v", team)
	}

	// Addressing by stable id works the same way.
	if _, err := d.UpsertTeam(gid, team.ID, "", "", league.Standing{Pts: 9}); err != nil {
		t.Fatalf("update by id: %v", err)
	}
	if g.Teams[0].Pts != 9 {
		t.Errorf("pts = %d, want 9", g.Teams[0].Pts)
	}

	if _, err := d.UpsertTeam(gid, "", "", "", league.Standing{}); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("no ref and no name err = %v, want ErrNotFound", err)
	}
	if _, err := d.UpsertTeam(1, "", "Bears", "", league.Standing{}); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("unknown group err = %v, want ErrNotFound", err)
	}
}

func TestNewTeamStartsAtZero(t *testing.T) {
	d, gid := groupWithTeams(t, "Lions")
	_, team, err := d.Team(gid, "0")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if team.MP != 0 || team.Pts != 0 || team.Roster == nil || team.ID == "" {
		t.Errorf("team = %+v", team)
	}
}

func TestDeleteTeamThenStaleIndexIsNotFound(t *testing.T) {
	d, gid := groupWithTeams(t, "Lions", "Bears", "Wolves")

	if err := d.DeleteTeam(gid, "0"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Later indices shift down; the old last index no longer exists.
	_, team, err := d.Team(gid, "1")
	if err != nil || team.Name != "Wolves" {
		t.Fatalf("index 1 = %+v, %v; want Wolves", team, err)
	}
	if _, _, err := d.Team(gid, "2"); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("stale index err = %v, want ErrNotFound", err)
	}
	if err := d.DeleteTeam(gid, "2"); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("delete stale index err = %v, want ErrNotFound", err)
	}
	if err := d.AddToRoster(gid, "5", "x", false); err == nil {
		t.Error("expected error for stale team index")
	}
}

func TestRoster(t *testing.T) {
	d, gid := groupWithTeams(t, "Lions")
	d.Register("Al", "pw", nil, now)
	d.Register("Bo", "pw", nil, now)

	if err := d.AddToRoster(gid, "0", "AL", true); err != nil {
		t.Fatalf("add Al: %v", err)
	}
	if err := d.AddToRoster(gid, "0", "bo", false); err != nil {
		t.Fatalf("add Bo: %v", err)
	}
	if err := d.AddToRoster(gid, "0", "Cy", false); !errors.Is(err, league.ErrUnknownPlayer) {
		t.Errorf("unregistered player err = %v, want ErrUnknownPlayer", err)
	}

	_, team, _ := d.Team(gid, "0")
	if len(team.Roster) != 2 {
		t.Fatalf("roster = %+v", team.Roster)
	}
	if team.Roster[0].Name != "Al" || !team.Roster[0].IsManager {
		t.Errorf("entry 0 = %+v, want stored name Al as manager", team.Roster[0])
	}

	bo := team.Roster[1].ID
	if err := d.RemoveFromRoster(gid, "0", bo); err != nil {
		t.Fatalf("remove by id: %v", err)
	}
	if err := d.RemoveFromRoster(gid, "0", "0"); err != nil {
		t.Fatalf("remove by index: %v", err)
	}
	_, team, _ = d.Team(gid, "0")
	if len(team.Roster) != 0 {
		t.Errorf("roster = %+v, want empty", team.Roster)
	}
	if err := d.RemoveFromRoster(gid, "0", "0"); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("remove from empty roster err = %v, want ErrNotFound", err)
	}
}

func TestDeleteGroup(t *testing.T) {
	d, gid := groupWithTeams(t)
	if !d.DeleteGroup(gid) {
		t.Fatal("delete reported no change")
	}
	if _, err := d.GroupByID(gid); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

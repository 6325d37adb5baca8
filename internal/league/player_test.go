package league_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vimleague/hub/internal/league"
)

var now = time.UnixMilli(1700000000000)

func TestRegisterRejectsCaseInsensitiveDuplicate(t *testing.T) {
	d := league.New()

	al, err := d.Register("Al", "pw", map[string]string{"position": "GK"}, now)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if al.Verified || al.Goals != 0 || len(al.Views) != 0 {
		t.Errorf("new player should be unverified with zero stats: %+v", al)
	}
	if league.Text(al.Extra, "position") != "GK" {
		t.Errorf("extra field not kept: %+v", al.Extra)
	}

	if _, err := d.Register("AL", "other", nil, now); !errors.Is(err, league.ErrNameTaken) {
		t.Fatalf("second register err = %v, want ErrNameTaken", err)
	}
	if len(d.Players) != 1 {
		t.Errorf("players = %d, want 1", len(d.Players))
	}
}

func TestRegisterIgnoresReservedFields(t *testing.T) {
	d := league.New()
	p, err := d.Register("Al", "pw", map[string]string{"verified": "true", "goals": "99"}, now)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.Verified || p.Goals != 0 {
		t.Errorf("reserved fields leaked into the new player: %+v", p)
	}
	if _, ok := p.Extra["verified"]; ok {
		t.Error("reserved key stored as extra")
	}
}

func TestAuthenticate(t *testing.T) {
	d := league.New()
	al, _ := d.Register("Al", "secret", nil, now)

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  bool
	}{
		{name: "exact", user: "Al", password: "secret"},
		{name: "name case folds", user: "aL", password: "secret"},
		{name: "password is case sensitive", user: "Al", password: "SECRET", wantErr: true},
		{name: "unknown user", user: "Bo", password: "secret", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := d.Authenticate(tt.user, tt.password)
			if tt.wantErr {
				if !errors.Is(err, league.ErrInvalidCredentials) {
					t.Fatalf("err = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("authenticate: %v", err)
			}
			if p.ID != al.ID {
				t.Errorf("got player %d, want %d", p.ID, al.ID)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	d := league.New()
	al, _ := d.Register("Al", "pw", nil, now)
	d.Register("Bo", "pw", nil, now)
	id := al.ID

	err := d.UpdateProfile(id, map[string]string{"bio": "striker", "verified": "true", "goals": "50"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	p, _ := d.PlayerByID(id)
	if league.Text(p.Extra, "bio") != "striker" {
		t.Errorf("bio = %v", p.Extra["bio"])
	}
	if p.Verified || p.Goals != 0 {
		t.Errorf("profile update changed protected fields: %+v", p)
	}

	if err := d.UpdateProfile(id, map[string]string{"name": "bo"}); !errors.Is(err, league.ErrNameTaken) {
		t.Errorf("rename onto existing name err = %v, want ErrNameTaken", err)
	}
	if err := d.UpdateProfile(id, map[string]string{"name": "Alan"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if p, _ := d.PlayerByID(id); p.Name != "Alan" {
		t.Errorf("name = %q, want Alan", p.Name)
	}

	if err := d.UpdateProfile(999, nil); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("unknown player err = %v, want ErrNotFound", err)
	}
}

func TestMarketListsOnlyVerifiedPlayers(t *testing.T) {
	d := league.New()
	al, _ := d.Register("Al", "pw", nil, now)
	alID := al.ID
	d.Register("Bo", "pw", nil, now)

	if got := d.MarketPlayers(); len(got) != 0 {
		t.Fatalf("market before approval = %d players, want 0", len(got))
	}

	if err := d.ApprovePlayer(alID, "cards/al.png"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got := d.MarketPlayers()
	if len(got) != 1 || got[0].Name != "Al" || got[0].CardImage != "cards/al.png" {
		t.Fatalf("market = %+v, want only Al with card", got)
	}

	if err := d.ApprovePlayer(12345, "x"); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("approve unknown err = %v, want ErrNotFound", err)
	}
}

func TestRecordViewCountsUniqueViewers(t *testing.T) {
	d := league.New()
	d.Register("Al", "pw", nil, now)

	count, changed, err := d.RecordView("Al", 7)
	if err != nil || count != 1 || !changed {
		t.Fatalf("first view = (%d, %v, %v), want (1, true, nil)", count, changed, err)
	}
	count, changed, err = d.RecordView("Al", 7)
	if err != nil || count != 1 || changed {
		t.Fatalf("repeat view = (%d, %v, %v), want (1, false, nil)", count, changed, err)
	}
	count, _, _ = d.RecordView("Al", 8)
	if count != 2 {
		t.Errorf("second viewer count = %d, want 2", count)
	}

	if _, _, err := d.RecordView("al", 7); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("view lookup is exact; err = %v, want ErrNotFound", err)
	}
}

func TestUpdateMarketPlayer(t *testing.T) {
	d := league.New()
	d.Register("Al", "pw", nil, now)

	stats := league.Stats{Goals: league.ParseStat("4"), Assists: league.ParseStat("x"), Saves: 1, MVPs: 2}
	if err := d.UpdateMarketPlayer("Al", stats, "fast"); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, _ := d.PlayerByName("Al")
	if p.Goals != 4 || p.Assists != 0 || p.Saves != 1 || p.MVPs != 2 {
		t.Errorf("stats = %+v", p)
	}
	if league.Text(p.Extra, "bio") != "fast" {
		t.Errorf("bio = %v", p.Extra["bio"])
	}

	if err := d.UpdateMarketPlayer("Nobody", stats, ""); !errors.Is(err, league.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePlayerLeavesRosterEntries(t *testing.T) {
	d := league.New()
	al, _ := d.Register("Al", "pw", nil, now)
	alID := al.ID
	g := d.AddGroup("A", now)
	gid := g.ID
	if _, err := d.UpsertTeam(gid, "", "Lions", "", league.Standing{}); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if err := d.AddToRoster(gid, "0", "al", false); err != nil {
		t.Fatalf("add to roster: %v", err)
	}

	if !d.DeletePlayer(alID) {
		t.Fatal("delete reported no change")
	}
	if d.DeletePlayer(alID) {
		t.Error("second delete reported a change")
	}
	_, team, _ := d.Team(gid, "0")
	if len(team.Roster) != 1 || team.Roster[0].Name != "Al" {
		t.Errorf("roster = %+v, want dangling entry for Al", team.Roster)
	}
}

package league

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Player struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Goals     Stat   `json:"goals"`
	Assists   Stat   `json:"assists"`
	Saves     Stat   `json:"saves"`
	MVPs      Stat   `json:"mvps"`
	Views     IDs    `json:"views"`
	CardImage string `json:"cardImage"`
	Verified  Flag   `json:"verified"`

	// Extra holds profile fields submitted by the player (bio, position, ...).
	Extra map[string]any `json:"-"`
}

func (p *Player) UnmarshalJSON(b []byte) error {
	type plain Player
	var v plain
	extra, err := unmarshalWithExtra(b, &v)
	if err != nil {
		return err
	}
	*p = Player(v)
	p.Extra = extra
	return nil
}

func (p Player) MarshalJSON() ([]byte, error) {
	type plain Player
	return marshalWithExtra(plain(p), p.Extra)
}

// Stats is the set of counters an admin edits from the market panel.
type Stats struct {
	Goals   Stat
	Assists Stat
	Saves   Stat
	MVPs    Stat
}

// profileKeys are modeled fields; they never land in Player.Extra.
var profileKeys = []string{
	"id", "name", "password", "goals", "assists", "saves", "mvps", "views", "cardImage", "verified",
}

func (d *Document) PlayerByID(id ID) (*Player, error) {
	for i := range d.Players {
		if d.Players[i].ID == id {
			return &d.Players[i], nil
		}
	}
	return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
}

// PlayerByName finds a player by exact name.
func (d *Document) PlayerByName(name string) (*Player, error) {
	for i := range d.Players {
		if d.Players[i].Name == name {
			return &d.Players[i], nil
		}
	}
	return nil, fmt.Errorf("player %q: %w", name, ErrNotFound)
}

// FindPlayer finds a player by case-insensitive name.
func (d *Document) FindPlayer(name string) (*Player, error) {
	for i := range d.Players {
		if strings.EqualFold(d.Players[i].Name, name) {
			return &d.Players[i], nil
		}
	}
	return nil, fmt.Errorf("player %q: %w", name, ErrUnknownPlayer)
}

func (d *Document) nameTaken(name string, except ID) bool {
	for _, p := range d.Players {
		if p.ID != except && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// Register creates an unverified player with zeroed stats. Extra submitted
// fields are kept on the profile.
func (d *Document) Register(name, password string, fields map[string]string, now time.Time) (*Player, error) {
	if d.nameTaken(name, 0) {
		return nil, ErrNameTaken
	}
	p := Player{
		ID:       d.NewID(now),
		Name:     name,
		Password: password,
		Views:    IDs{},
		Extra:    fieldsToExtra(nil, fields, profileKeys...),
	}
	d.Players = append(d.Players, p)
	return &d.Players[len(d.Players)-1], nil
}

// Authenticate matches the name case-insensitively and the password exactly.
func (d *Document) Authenticate(name, password string) (*Player, error) {
	for i := range d.Players {
		p := &d.Players[i]
		if strings.EqualFold(p.Name, name) && p.Password == password {
			return p, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// UpdateProfile merges submitted fields over the player's profile. Name and
// password may change; stats, views, verification and card image may not.
func (d *Document) UpdateProfile(id ID, fields map[string]string) error {
	p, err := d.PlayerByID(id)
	if err != nil {
		return err
	}
	if name, ok := fields["name"]; ok {
		name = strings.TrimSpace(name)
		if name != "" && name != p.Name {
			if d.nameTaken(name, id) {
				return ErrNameTaken
			}
			p.Name = name
		}
	}
	if pw, ok := fields["password"]; ok && pw != "" {
		p.Password = pw
	}
	p.Extra = fieldsToExtra(p.Extra, fields, profileKeys...)
	return nil
}

// DeletePlayer removes the player. Roster entries and leaderboard rows that
// name the player are left untouched.
func (d *Document) DeletePlayer(id ID) bool {
	n := len(d.Players)
	d.Players = slices.DeleteFunc(d.Players, func(p Player) bool { return p.ID == id })
	return len(d.Players) != n
}

// ApprovePlayer verifies the player and sets the card shown on the market.
func (d *Document) ApprovePlayer(id ID, cardImage string) error {
	p, err := d.PlayerByID(id)
	if err != nil {
		return err
	}
	p.Verified = true
	p.CardImage = cardImage
	return nil
}

// UpdateMarketPlayer overwrites the stats and bio of the named player.
func (d *Document) UpdateMarketPlayer(name string, s Stats, bio string) error {
	p, err := d.PlayerByName(name)
	if err != nil {
		return err
	}
	p.Goals, p.Assists, p.Saves, p.MVPs = s.Goals, s.Assists, s.Saves, s.MVPs
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	p.Extra["bio"] = bio
	return nil
}

// RecordView adds viewer to the player's viewer set and returns the number
// of distinct viewers.
func (d *Document) RecordView(name string, viewer ID) (count int, changed bool, err error) {
	p, err := d.PlayerByName(name)
	if err != nil {
		return 0, false, err
	}
	if !slices.Contains(p.Views, viewer) {
		p.Views = append(p.Views, viewer)
		changed = true
	}
	return len(p.Views), changed, nil
}

// MarketPlayers returns the verified players in document order.
func (d *Document) MarketPlayers() []Player {
	out := []Player{}
	for _, p := range d.Players {
		if p.Verified {
			out = append(out, p)
		}
	}
	return out
}

package league

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the whole league state. It is always read and written as one unit.
type Document struct {
	Players      []Player     `json:"players"`
	Matches      []Match      `json:"matches"`
	LiveLink     string       `json:"liveLink"`
	Groups       []Group      `json:"groups"`
	Leaderboards Leaderboards `json:"leaderboards"`
	Records      []Record     `json:"records"`
	Stories      []Story      `json:"stories"`

	// Extra keeps top-level keys this version does not model.
	Extra map[string]any `json:"-"`
}

// New returns an empty document with every collection present.
func New() *Document {
	d := &Document{}
	d.Backfill()
	return d
}

// Decode parses a stored document and fills in any missing collection.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	d.Backfill()
	return &d, nil
}

// Encode renders the document the way it is kept on disk.
func Encode(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Backfill replaces absent collections with empty ones.
func (d *Document) Backfill() {
	if d.Players == nil {
		d.Players = []Player{}
	}
	if d.Matches == nil {
		d.Matches = []Match{}
	}
	if d.Groups == nil {
		d.Groups = []Group{}
	}
	if d.Records == nil {
		d.Records = []Record{}
	}
	if d.Stories == nil {
		d.Stories = []Story{}
	}
	if d.Leaderboards == nil {
		d.Leaderboards = Leaderboards{}
	}
	for _, t := range StatTypes {
		if d.Leaderboards[t] == nil {
			d.Leaderboards[t] = []LeaderboardEntry{}
		}
	}
	for i := range d.Players {
		if d.Players[i].Views == nil {
			d.Players[i].Views = IDs{}
		}
	}
	for i := range d.Groups {
		g := &d.Groups[i]
		if g.Teams == nil {
			g.Teams = []Team{}
		}
		for j := range g.Teams {
			if g.Teams[j].Roster == nil {
				g.Teams[j].Roster = []RosterEntry{}
			}
		}
	}
}

// AssignIDs gives teams and roster entries written by older versions a
// stable id. It runs before every mutation so the ids are persisted.
func (d *Document) AssignIDs() {
	for i := range d.Groups {
		for j := range d.Groups[i].Teams {
			t := &d.Groups[i].Teams[j]
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			for k := range t.Roster {
				if t.Roster[k].ID == "" {
					t.Roster[k].ID = uuid.NewString()
				}
			}
		}
	}
}

// NewID returns a creation-time id that no entity in d already uses.
func (d *Document) NewID(now time.Time) ID {
	id := ID(now.UnixMilli())
	var max ID
	for _, p := range d.Players {
		max = maxID(max, p.ID)
	}
	for _, m := range d.Matches {
		max = maxID(max, m.ID)
	}
	for _, g := range d.Groups {
		max = maxID(max, g.ID)
	}
	for _, r := range d.Records {
		max = maxID(max, r.ID)
	}
	for _, s := range d.Stories {
		max = maxID(max, s.ID)
	}
	if id <= max {
		id = max + 1
	}
	return id
}

func maxID(a, b ID) ID {
	if b > a {
		return b
	}
	return a
}

func (d *Document) UnmarshalJSON(b []byte) error {
	type plain Document
	var p plain
	extra, err := unmarshalWithExtra(b, &p)
	if err != nil {
		return err
	}
	*d = Document(p)
	d.Extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return marshalWithExtra(plain(d), d.Extra)
}

// unmarshalWithExtra decodes b into v and returns the object keys v does not
// declare.
func unmarshalWithExtra(b []byte, v any) (map[string]any, error) {
	if err := json.Unmarshal(b, v); err != nil {
		return nil, err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	known, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(known, &keys); err != nil {
		return nil, err
	}
	for k := range keys {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// marshalWithExtra encodes v and merges in extra keys; declared fields win.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, ok := out[k]; ok {
			continue
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}
	return json.Marshal(out)
}

// fieldsToExtra copies submitted form fields into an extra map, skipping the
// reserved keys.
func fieldsToExtra(dst map[string]any, fields map[string]string, reserved ...string) map[string]any {
	for k, v := range fields {
		if isReserved(k, reserved) {
			continue
		}
		if dst == nil {
			dst = make(map[string]any)
		}
		dst[k] = v
	}
	return dst
}

func isReserved(k string, reserved []string) bool {
	for _, r := range reserved {
		if k == r {
			return true
		}
	}
	return false
}

// Text returns a string-valued extra field.
func Text(extra map[string]any, key string) string {
	s, _ := extra[key].(string)
	return s
}

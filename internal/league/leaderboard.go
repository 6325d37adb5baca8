package league

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

type StatType string

const (
	Scorers StatType = "scorers"
	Saves   StatType = "saves"
	Assists StatType = "assists"
)

// StatTypes are the leaderboards every document carries.
var StatTypes = []StatType{Scorers, Saves, Assists}

type LeaderboardEntry struct {
	Name  string `json:"name"`
	Value Score  `json:"value"`
}

// Score is a leaderboard value. Unlike Stat it keeps fractions and sign.
// Anything that is not a finite number reads as zero.
type Score float64

func ParseScore(s string) Score {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Score(f)
}

func (s *Score) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		*s = Score(v)
	case string:
		*s = ParseScore(v)
	default:
		*s = 0
	}
	return nil
}

// Leaderboards maps a stat type to its entries, highest value first.
type Leaderboards map[StatType][]LeaderboardEntry

// UpdateStat overwrites the value at index ref or, when ref does not address
// an entry and a name is given, appends a new entry. The list is re-sorted
// descending by value either way.
func (d *Document) UpdateStat(t StatType, ref, name string, value Score) error {
	list, ok := d.Leaderboards[t]
	if !ok {
		return fmt.Errorf("%q: %w", t, ErrUnknownStatType)
	}
	if i, ok := Index(ref, len(list)); ok {
		list[i].Value = value
	} else if name != "" {
		list = append(list, LeaderboardEntry{Name: name, Value: value})
	}
	sortDesc(list)
	d.Leaderboards[t] = list
	return nil
}

// DeleteStat removes the entry at index ref.
func (d *Document) DeleteStat(t StatType, ref string) error {
	list, ok := d.Leaderboards[t]
	if !ok {
		return fmt.Errorf("%q: %w", t, ErrUnknownStatType)
	}
	i, ok := Index(ref, len(list))
	if !ok {
		return fmt.Errorf("%s entry %q: %w", t, ref, ErrNotFound)
	}
	d.Leaderboards[t] = slices.Delete(list, i, i+1)
	return nil
}

func sortDesc(list []LeaderboardEntry) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Value > list[j].Value })
}

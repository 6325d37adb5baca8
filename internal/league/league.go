// Package league defines the league document and every mutation applied to it.
// It performs no I/O: callers load a Document, mutate it here, and persist it.
package league

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownPlayer      = errors.New("player not registered")
	ErrNameTaken          = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownStatType    = errors.New("unknown leaderboard type")
	ErrInvalidRef         = errors.New("invalid reference")
)

// ID identifies players, matches, groups, records and stories. Values are
// millisecond timestamps taken at creation time. Older documents and form
// bodies carry them as strings, so both encodings are accepted.
type ID int64

func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty id: %w", ErrInvalidRef)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("id %q: %w", s, ErrInvalidRef)
		}
		n = int64(f)
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = v
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := ParseID(n.String())
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Stat is a non-negative counter. Anything that does not parse as a number
// reads as zero.
type Stat int

func ParseStat(s string) Stat {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return clampStat(n)
	}
	// Leading-digit prefix, e.g. "12 goals".
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	if n, err := strconv.Atoi(s[:end]); err == nil {
		return clampStat(n)
	}
	return 0
}

func clampStat(n int) Stat {
	if n < 0 {
		return 0
	}
	return Stat(n)
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = 0
	case len(b) > 0 && b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = ParseStat(str)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			*s = 0
			return nil
		}
		*s = clampStat(int(f))
	}
	return nil
}

// Flag is a boolean that also reads the string and numeric forms older
// documents carry ("true", "on", 1). Anything else reads as false.
type Flag bool

func ParseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true
	}
	return false
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case bool:
		*f = Flag(v)
	case string:
		*f = ParseFlag(v)
	case float64:
		*f = v != 0
	default:
		*f = false
	}
	return nil
}

// IDs is a list of ids. A lone scalar reads as a one-element list and
// entries that are not ids are dropped.
type IDs []ID

func (ids *IDs) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		raw = []json.RawMessage{b}
	}
	out := IDs{}
	for _, r := range raw {
		var id ID
		if err := json.Unmarshal(r, &id); err == nil && id != 0 {
			out = append(out, id)
		}
	}
	*ids = out
	return nil
}

// scalarsAsStrings rewrites the number and bool members of a JSON object as
// strings, so they decode into string fields.
func scalarsAsStrings(b []byte) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	for k, v := range obj {
		v = bytes.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		if c := v[0]; c == '-' || c >= '0' && c <= '9' || c == 't' || c == 'f' {
			obj[k], _ = json.Marshal(string(v))
		}
	}
	return json.Marshal(obj)
}

// Index parses a positional reference into a collection of length n.
func Index(ref string, n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

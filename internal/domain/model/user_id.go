package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"telegram-profile-bridge/internal/domain"
)

// UserID is the external (Telegram) identifier of a profile.
// Clients send it either as a JSON number or a string; both map to the same key.
type UserID string

// ParseUserID normalizes a raw identifier taken from a path or a form value.
func ParseUserID(raw string) (UserID, error) {
	id := UserID(strings.TrimSpace(raw))
	if id.IsZero() {
		return "", domain.ErrInvalidArgument
	}
	return id, nil
}

// IsZero reports whether the id is absent. A numeric 0 decodes to the empty
// id; the string "0" is a valid key.
func (id UserID) IsZero() bool { return id == "" }

func (id UserID) String() string { return string(id) }

// Int64 returns the numeric form, ok=false when the id is not a canonical integer.
func (id UserID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

func (id UserID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok && n != 0 {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*id = ""
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*id = UserID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = UserID(n.String())
	return nil
}

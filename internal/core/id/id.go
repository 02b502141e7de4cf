// Package id defines the identifier type shared by articles and documents.
//
// Reference stores hand out identifiers in different shapes (numeric
// sequences over REST, UUIDs in Postgres), so the core keeps them opaque.
package id

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque identifier.
type ID string

// New generates a UUIDv7 identifier (time-ordered).
func New() ID {
	u, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}
	return ID(u.String())
}

// Parse trims s and rejects empty identifiers.
func Parse(s string) (ID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return ID(s), true
}

// IsNil checks if ID is empty.
func (i ID) IsNil() bool { return i == "" }

func (i ID) String() string { return string(i) }

// Less is a total order: integer IDs first, compared numerically, then all
// other IDs compared lexically.
func (i ID) Less(other ID) bool {
	a, errA := strconv.ParseInt(string(i), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if a != b {
			return a < b
		}
		return i < other
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return i < other
	}
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (i *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = ID(n.String())
	return nil
}

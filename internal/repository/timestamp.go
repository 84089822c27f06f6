package repository

import (
	"fmt"
	"time"
)

// docTimestamp decodes the store's timestamp union once at the scan
// boundary. A native timestamp is normalized to RFC 3339; a value that is
// already a plain string (not yet materialized by the store) is preserved
// unchanged; NULL is absence.
type docTimestamp struct {
	value string
	valid bool
}

func (t *docTimestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.value, t.valid = "", false
	case time.Time:
		t.value, t.valid = v.UTC().Format(time.RFC3339), true
	case []byte:
		t.value, t.valid = string(v), true
	case string:
		t.value, t.valid = v, true
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

// String returns the normalized form, or "" for absence.
func (t docTimestamp) String() string { return t.value }

// Ptr returns the normalized form, or nil for absence.
func (t docTimestamp) Ptr() *string {
	if !t.valid {
		return nil
	}
	s := t.value
	return &s
}

package models

import (
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix marks identifiers minted locally before the server has
// acknowledged the entity. The prefix is part of the wire/storage form so
// that pre-remap identifiers survive serialization round trips.
const TempIDPrefix = "temp_"

// EntityID distinguishes locally-minted temporary identifiers from
// server-issued permanent ones. Keeping the distinction in the type (rather
// than a bare string with a prefix convention) means "is this id temporary?"
// is never a question callers can forget to ask.
//
// The zero value is "no id".
type EntityID struct {
	value string
	temp  bool
}

// NewTempID mints a fresh temporary identifier.
func NewTempID() EntityID {
	return EntityID{value: TempIDPrefix + uuid.NewString(), temp: true}
}

// PermanentID wraps a server-issued identifier.
func PermanentID(s string) EntityID {
	return EntityID{value: s}
}

// ParseEntityID classifies a stored or user-supplied identifier string.
func ParseEntityID(s string) EntityID {
	if s == "" {
		return EntityID{}
	}
	return EntityID{value: s, temp: strings.HasPrefix(s, TempIDPrefix)}
}

func (id EntityID) String() string { return id.value }

// IsTemp reports whether the identifier was minted locally and has never
// been acknowledged by the server.
func (id EntityID) IsTemp() bool { return id.temp }

func (id EntityID) IsZero() bool { return id.value == "" }

func (id EntityID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

func (id *EntityID) UnmarshalText(b []byte) error {
	*id = ParseEntityID(string(b))
	return nil
}

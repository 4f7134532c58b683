package model

import (
	"bytes"
	"encoding/json"
)

// Presence - the three states of a value the client may or may not know about
type Presence int

const (
	// Unknown - never fetched, or fetch still in flight
	Unknown Presence = iota
	// Absent - fetched, and the server confirmed it does not exist
	Absent
	// Present - fetched and known
	Present
)

func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

var jsonNull = []byte("null")

// Lookup - a value tagged as Unknown, Absent or Present. The zero value is Unknown.
// JSON null decodes to Absent, anything else to Present.
type Lookup[T any] struct {
	presence Presence
	value    T
}

// Found - a Present lookup
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{presence: Present, value: v}
}

// Missing - an Absent lookup
func Missing[T any]() Lookup[T] {
	return Lookup[T]{presence: Absent}
}

// Presence -
func (l Lookup[T]) Presence() Presence {
	return l.presence
}

// Get returns the value and whether it is Present
func (l Lookup[T]) Get() (T, bool) {
	return l.value, l.presence == Present
}

// Value returns the value, the zero value unless Present
func (l Lookup[T]) Value() T {
	return l.value
}

// IsUnknown -
func (l Lookup[T]) IsUnknown() bool {
	return l.presence == Unknown
}

// IsAbsent -
func (l Lookup[T]) IsAbsent() bool {
	return l.presence == Absent
}

// IsPresent -
func (l Lookup[T]) IsPresent() bool {
	return l.presence == Present
}

// IsKnown - Absent or Present
func (l Lookup[T]) IsKnown() bool {
	return l.presence != Unknown
}

// MarshalJSON - Unknown and Absent both encode as null
func (l Lookup[T]) MarshalJSON() ([]byte, error) {
	if l.presence != Present {
		return jsonNull, nil
	}
	return json.Marshal(l.value)
}

// UnmarshalJSON -
func (l *Lookup[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		var zero T
		l.presence, l.value = Absent, zero
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	l.presence, l.value = Present, v
	return nil
}

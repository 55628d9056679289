package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OpenStatus is a tri-state "open now" value. The zero value is StatusUnknown,
// so an unset field never reads as closed.
type OpenStatus int8

const (
	StatusUnknown OpenStatus = iota
	StatusOpen
	StatusClosed
)

// StatusFromBool maps an optional provider flag onto the tri-state.
func StatusFromBool(b *bool) OpenStatus {
	switch {
	case b == nil:
		return StatusUnknown
	case *b:
		return StatusOpen
	default:
		return StatusClosed
	}
}

// Known reports whether the status is open or closed.
func (s OpenStatus) Known() bool {
	return s == StatusOpen || s == StatusClosed
}

func (s OpenStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as true, false or null.
func (s OpenStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusOpen:
		return []byte("true"), nil
	case StatusClosed:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (s *OpenStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = StatusUnknown
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("open status: %w", err)
	}
	*s = StatusFromBool(&b)
	return nil
}

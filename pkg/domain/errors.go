package domain

import (
	"errors"
	"fmt"
)

// ErrPortOverflow is returned when a ship is parked in a port with no free place.
var ErrPortOverflow = errors.New("port overflow")

// ErrPlaceNotFound is returned when a removal index is outside the occupied places.
var ErrPlaceNotFound = errors.New("place not found")

// ErrPortNotFound is returned when a mutation targets a port name that does not exist.
var ErrPortNotFound = errors.New("port not found")

// ErrInvalidFormat is returned when collection text does not follow the line format.
var ErrInvalidFormat = errors.New("invalid collection format")

// ErrDecode is matched by every DecodeError.
var ErrDecode = errors.New("cannot decode ship")

// ErrInvalidName is returned by SanitizeName.
var ErrInvalidName = errors.New("invalid port name")

// ErrSnapshotNotFound is returned when a snapshot key cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// DecodeError reports an unknown ship kind or a malformed payload.
type DecodeError struct {
	Line    int    // 1-based line number, 0 when decoding outside a file
	Kind    string // Tag in front of the separator
	Payload string // Text after the separator
	Err     error  // Underlying cause
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %q ship %q", e.Kind, e.Payload)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// IOError wraps a failure to open, read or write the underlying file.
// It is kept apart from format errors so callers can tell a missing file from a bad one.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

package msgs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed matches every decoding failure.
	ErrMalformed = errors.New("malformed message")
	// ErrNameTooLong indicates a handshake name over NameLen bytes.
	ErrNameTooLong = errors.New("name too long")
	// ErrTextTooLong indicates a debug text over DebugLen bytes.
	ErrTextTooLong = errors.New("text too long")
)

// MalformedError describes why a payload failed to decode.
type MalformedError struct {
	Type   Type
	Reason string
}

// Error implements error.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %v message: %s", e.Type, e.Reason)
}

// Is matches ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func malformed(t Type, format string, args ...interface{}) error {
	return &MalformedError{Type: t, Reason: fmt.Sprintf(format, args...)}
}

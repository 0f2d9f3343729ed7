package frame

import (
	"errors"

	"github.com/robotalks/nxtlink/pkg/l0/hs"
)

// Stuffing bytes.
const (
	Delim  byte = 0x7E
	Esc    byte = 0x7D
	EscXor byte = 0x20
)

var (
	// ErrFrameNotFound indicates no complete frame is buffered yet.
	ErrFrameNotFound = hs.ErrFrameNotFound
	// ErrBadEscape indicates an escape byte not followed by a stuffed byte.
	ErrBadEscape = errors.New("bad escape sequence")
	// ErrFrameDiscarded indicates buffered bytes were dropped to resync.
	ErrFrameDiscarded = errors.New("frame discarded")
)

// Encode stuffs payload and appends the delimiter.
func Encode(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+len(payload)/8+1)
	for _, b := range payload {
		if b == Delim || b == Esc {
			out = append(out, Esc, b^EscXor)
			continue
		}
		out = append(out, b)
	}
	return append(out, Delim)
}

// Decode reverses Encode. A trailing delimiter is ignored.
func Decode(p []byte) ([]byte, error) {
	if n := len(p); n > 0 && p[n-1] == Delim {
		p = p[:n-1]
	}
	out := make([]byte, 0, len(p))
	for i := 0; i < len(p); i++ {
		b := p[i]
		switch b {
		case Delim:
			return nil, ErrBadEscape
		case Esc:
			i++
			if i >= len(p) {
				return nil, ErrBadEscape
			}
			b = p[i] ^ EscXor
			if b != Delim && b != Esc {
				return nil, ErrBadEscape
			}
		}
		out = append(out, b)
	}
	return out, nil
}

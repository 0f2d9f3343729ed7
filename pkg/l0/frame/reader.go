package frame

import (
	"github.com/golang/glog"
)

// DefaultMaxLen bounds a stuffed frame including the delimiter.
const DefaultMaxLen = 128

// Source is the receive side of an hs.Transport.
type Source interface {
	Read(p []byte) int
	ReadDelimited(p []byte, delim byte) (int, error)
	Buffered() int
	Full() bool
}

// Reader extracts frames from a Source without blocking.
type Reader struct {
	Source Source
	MaxLen int

	buf []byte
}

// NewReader creates a Reader with DefaultMaxLen.
func NewReader(src Source) *Reader {
	return &Reader{Source: src, MaxLen: DefaultMaxLen}
}

func (r *Reader) maxLen() int {
	if r.MaxLen > 0 {
		return r.MaxLen
	}
	return DefaultMaxLen
}

// ReadFrame returns the next unstuffed payload. It returns
// ErrFrameNotFound, consuming nothing, while no delimiter is buffered.
// Bare delimiters are skipped. When MaxLen bytes or full buffers hold no
// delimiter, the scanned bytes are dropped and ErrFrameDiscarded is
// returned.
func (r *Reader) ReadFrame() ([]byte, error) {
	max := r.maxLen()
	if len(r.buf) != max {
		r.buf = make([]byte, max)
	}
	for {
		n, err := r.Source.ReadDelimited(r.buf, Delim)
		if err == ErrFrameNotFound {
			if r.Source.Full() || r.Source.Buffered() >= max {
				dropped := r.discard()
				glog.Warningf("frame: no delimiter in %d bytes, discarded", dropped)
				return nil, ErrFrameDiscarded
			}
			return nil, err
		}
		if err != nil {
			return nil, err
		}
		if n == 1 {
			continue
		}
		return Decode(r.buf[:n])
	}
}

// ReadChunk returns exactly n raw bytes, or ErrFrameNotFound until n bytes
// are buffered.
func (r *Reader) ReadChunk(n int) ([]byte, error) {
	if r.Source.Buffered() < n {
		return nil, ErrFrameNotFound
	}
	p := make([]byte, n)
	for got := 0; got < n; {
		got += r.Source.Read(p[got:])
	}
	return p, nil
}

// discard drops the bytes ReadDelimited scanned, at most MaxLen.
func (r *Reader) discard() int {
	want, total := r.Source.Buffered(), 0
	if want > len(r.buf) {
		want = len(r.buf)
	}
	for total < want {
		p := r.buf
		if len(p) > want-total {
			p = p[:want-total]
		}
		n := r.Source.Read(p)
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

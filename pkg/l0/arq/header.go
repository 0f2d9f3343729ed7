package arq

import (
	"fmt"
	"math/rand"
)

// Seq is a 6-bit sequence number.
type Seq byte

// SeqMask masks the sequence bits of a header.
const SeqMask = 0x3f

// NewSeq creates a random initial sequence number.
func NewSeq() Seq {
	return Seq(rand.Intn(SeqMask + 1))
}

// Next calculates the next sequence number.
func (s Seq) Next() Seq {
	return (s + 1) & SeqMask
}

// Kind is the frame kind encoded in the header flags.
type Kind byte

// Frame kinds.
const (
	KindData   Kind = 0x00
	KindSyn    Kind = 0x40
	KindAck    Kind = 0x80
	KindSynAck Kind = 0xc0
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "DATA"
	case KindSyn:
		return "SYN"
	case KindAck:
		return "ACK"
	case KindSynAck:
		return "SYNACK"
	}
	return fmt.Sprintf("KIND(%#x)", byte(k))
}

// Header is the first byte of a frame.
type Header byte

// MakeHeader builds a header.
func MakeHeader(kind Kind, seq Seq) Header {
	return Header(byte(kind) | byte(seq&SeqMask))
}

// Kind extracts the frame kind.
func (h Header) Kind() Kind {
	return Kind(byte(h) &^ SeqMask)
}

// Seq extracts the sequence number.
func (h Header) Seq() Seq {
	return Seq(h) & SeqMask
}

func (h Header) String() string {
	return fmt.Sprintf("%v/%d", h.Kind(), h.Seq())
}

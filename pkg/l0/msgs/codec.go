package msgs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

type handshakeWire struct {
	NameLen        uint8
	Name           [NameLen]byte
	Width          uint16
	Length         uint16
	TowerOffsetX   uint8
	TowerOffsetY   uint8
	AxleOffset     uint8
	SensorOffsets  [SensorsNum]uint8
	SensorHeadings [SensorsNum]uint16
	Deadline       uint16
}

type debugWire struct {
	TextLen uint8
	Text    [DebugLen]byte
}

var sizes = func() (s [len(typeNames)]int) {
	for i := range s {
		s[i] = 1
	}
	s[TypeHandshake] += binary.Size(handshakeWire{})
	s[TypeUpdate] += binary.Size(Update{})
	s[TypeOrder] += binary.Size(Order{})
	s[TypeLine] += binary.Size(Line{})
	s[TypeDebug] += binary.Size(debugWire{})
	return
}()

// Size returns the encoded size of a message of type t, or 0 if t is
// unknown.
func Size(t Type) int {
	if !t.Known() {
		return 0
	}
	return sizes[t]
}

// Encode serializes msg with its type byte.
func Encode(msg Message) ([]byte, error) {
	var body interface{}
	switch m := msg.(type) {
	case *Handshake:
		if len(m.Name) > NameLen {
			return nil, fmt.Errorf("handshake %q: %w", m.Name, ErrNameTooLong)
		}
		w := &handshakeWire{
			NameLen:        uint8(len(m.Name)),
			Width:          m.Width,
			Length:         m.Length,
			TowerOffsetX:   m.TowerOffsetX,
			TowerOffsetY:   m.TowerOffsetY,
			AxleOffset:     m.AxleOffset,
			SensorOffsets:  m.SensorOffsets,
			SensorHeadings: m.SensorHeadings,
			Deadline:       m.Deadline,
		}
		copy(w.Name[:], m.Name)
		body = w
	case *Debug:
		if len(m.Text) > DebugLen {
			return nil, fmt.Errorf("debug: %w", ErrTextTooLong)
		}
		w := &debugWire{TextLen: uint8(len(m.Text))}
		copy(w.Text[:], m.Text)
		body = w
	case *Update, *Order, *Line:
		body = m
	case nil:
		return nil, errors.New("encode nil message")
	}
	t := msg.Type()
	if !t.Known() {
		return nil, fmt.Errorf("encode %v: unknown type", t)
	}
	buf := bytes.NewBuffer(make([]byte, 0, Size(t)))
	buf.WriteByte(byte(t))
	if body != nil {
		if err := binary.Write(buf, binary.LittleEndian, body); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Decode parses a payload produced by Encode. Failures match
// ErrMalformed.
func Decode(p []byte) (Message, error) {
	if len(p) == 0 {
		return nil, malformed(0, "empty payload")
	}
	t := Type(p[0])
	msg := New(t)
	if msg == nil {
		return nil, malformed(t, "unknown type")
	}
	if len(p) != Size(t) {
		return nil, malformed(t, "size %d, want %d", len(p), Size(t))
	}
	r := bytes.NewReader(p[1:])
	read := func(v interface{}) error {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return malformed(t, "%v", err)
		}
		return nil
	}
	switch m := msg.(type) {
	case *Handshake:
		var w handshakeWire
		if err := read(&w); err != nil {
			return nil, err
		}
		if w.NameLen > NameLen {
			return nil, malformed(t, "name length %d", w.NameLen)
		}
		*m = Handshake{
			Name:           string(w.Name[:w.NameLen]),
			Width:          w.Width,
			Length:         w.Length,
			TowerOffsetX:   w.TowerOffsetX,
			TowerOffsetY:   w.TowerOffsetY,
			AxleOffset:     w.AxleOffset,
			SensorOffsets:  w.SensorOffsets,
			SensorHeadings: w.SensorHeadings,
			Deadline:       w.Deadline,
		}
	case *Debug:
		var w debugWire
		if err := read(&w); err != nil {
			return nil, err
		}
		if w.TextLen > DebugLen {
			return nil, malformed(t, "text length %d", w.TextLen)
		}
		m.Text = string(w.Text[:w.TextLen])
	case *Update, *Order, *Line:
		if err := read(m); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// Package msgs is the application message codec carried over the ARQ link.
//
// Every message is a type byte followed by a fixed little-endian layout
// without padding, so the size of a message is determined by its type.
package msgs

import "fmt"

// Type is the first byte of every message.
type Type byte

// Message types.
const (
	TypeHandshake Type = iota
	TypeUpdate
	TypeOrder
	TypeIdle
	TypePause
	TypeUnpause
	TypeConfirm
	TypeFinish
	TypePing
	TypePingResponse
	TypeLine
	TypeDebug
)

var typeNames = [...]string{
	TypeHandshake:    "HANDSHAKE",
	TypeUpdate:       "UPDATE",
	TypeOrder:        "ORDER",
	TypeIdle:         "IDLE",
	TypePause:        "PAUSE",
	TypeUnpause:      "UNPAUSE",
	TypeConfirm:      "CONFIRM",
	TypeFinish:       "FINISH",
	TypePing:         "PING",
	TypePingResponse: "PING_RESPONSE",
	TypeLine:         "LINE",
	TypeDebug:        "DEBUG",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TYPE(%d)", byte(t))
}

// Known reports whether t is a defined message type.
func (t Type) Known() bool {
	return int(t) < len(typeNames)
}

// Field sizes.
const (
	NameLen    = 10
	DebugLen   = 32
	SensorsNum = 4
)

// Message is implemented by every message variant.
type Message interface {
	Type() Type
}

// Handshake introduces the robot to the server. Offsets are in cm,
// headings in degrees and Deadline in seconds.
type Handshake struct {
	Name           string
	Width          uint16
	Length         uint16
	TowerOffsetX   uint8
	TowerOffsetY   uint8
	AxleOffset     uint8
	SensorOffsets  [SensorsNum]uint8
	SensorHeadings [SensorsNum]uint16
	Deadline       uint16
}

// Update reports the pose in cm and degrees plus sensor readings in cm.
type Update struct {
	X          int16
	Y          int16
	Heading    int16
	TowerAngle int16
	Sensors    [SensorsNum]uint8
}

// Order sets a new target in cm.
type Order struct {
	X int16
	Y int16
}

// Line reports a line segment from P to Q in cm.
type Line struct {
	XP int16
	YP int16
	XQ int16
	YQ int16
}

// Debug carries a short text.
type Debug struct {
	Text string
}

// Debugf formats a Debug message, truncating to DebugLen bytes.
func Debugf(format string, args ...interface{}) *Debug {
	text := fmt.Sprintf(format, args...)
	if len(text) > DebugLen {
		text = text[:DebugLen]
	}
	return &Debug{Text: text}
}

// Messages without a body.
type (
	Idle         struct{}
	Pause        struct{}
	Unpause      struct{}
	Confirm      struct{}
	Finish       struct{}
	Ping         struct{}
	PingResponse struct{}
)

// Type implementations.
func (*Handshake) Type() Type    { return TypeHandshake }
func (*Update) Type() Type       { return TypeUpdate }
func (*Order) Type() Type        { return TypeOrder }
func (*Line) Type() Type         { return TypeLine }
func (*Debug) Type() Type        { return TypeDebug }
func (*Idle) Type() Type         { return TypeIdle }
func (*Pause) Type() Type        { return TypePause }
func (*Unpause) Type() Type      { return TypeUnpause }
func (*Confirm) Type() Type      { return TypeConfirm }
func (*Finish) Type() Type       { return TypeFinish }
func (*Ping) Type() Type         { return TypePing }
func (*PingResponse) Type() Type { return TypePingResponse }

// New creates an empty message of type t, or nil if t is unknown.
func New(t Type) Message {
	switch t {
	case TypeHandshake:
		return &Handshake{}
	case TypeUpdate:
		return &Update{}
	case TypeOrder:
		return &Order{}
	case TypeLine:
		return &Line{}
	case TypeDebug:
		return &Debug{}
	case TypeIdle:
		return &Idle{}
	case TypePause:
		return &Pause{}
	case TypeUnpause:
		return &Unpause{}
	case TypeConfirm:
		return &Confirm{}
	case TypeFinish:
		return &Finish{}
	case TypePing:
		return &Ping{}
	case TypePingResponse:
		return &PingResponse{}
	}
	return nil
}

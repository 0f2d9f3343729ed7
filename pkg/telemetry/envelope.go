// Package telemetry describes link traffic for remote observers.
package telemetry

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Direction of an Envelope.
type Direction int32

// Directions.
const (
	DirectionState Direction = 0
	DirectionOut   Direction = 1
	DirectionIn    Direction = 2
)

func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionIn:
		return "in"
	}
	return "state"
}

// Envelope carries a link event: a state change or an encoded message.
type Envelope struct {
	Direction Direction `protobuf:"varint,1,opt,name=direction,proto3" json:"direction,omitempty"`
	Type      uint32    `protobuf:"varint,2,opt,name=type,proto3" json:"type,omitempty"`
	Payload   []byte    `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
	UnixNano  int64     `protobuf:"varint,4,opt,name=unix_nano,json=unixNano,proto3" json:"unix_nano,omitempty"`
	State     string    `protobuf:"bytes,5,opt,name=state,proto3" json:"state,omitempty"`
}

// ProtoMessage implements proto.Message.
func (e *Envelope) ProtoMessage() {}

// Reset implements proto.Message.
func (e *Envelope) Reset() { *e = Envelope{} }

// String implements proto.Message.
func (e *Envelope) String() string { return proto.CompactTextString(e) }

// NewMessageEnvelope wraps msg sent or received.
func NewMessageEnvelope(dir Direction, msg msgs.Message, unixNano int64) (*Envelope, error) {
	payload, err := msgs.Encode(msg)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Direction: dir,
		Type:      uint32(msg.Type()),
		Payload:   payload,
		UnixNano:  unixNano,
	}, nil
}

// NewStateEnvelope reports a link state.
func NewStateEnvelope(state string, unixNano int64) *Envelope {
	return &Envelope{Direction: DirectionState, State: state, UnixNano: unixNano}
}

// Topic is the topic suffix an Envelope is published to.
func (e *Envelope) Topic() string {
	if e.Direction == DirectionState {
		return "state"
	}
	return e.Direction.String() + "/" + msgs.Type(e.Type).String()
}

// Message decodes the wrapped message.
func (e *Envelope) Message() (msgs.Message, error) {
	return msgs.Decode(e.Payload)
}

// Marshal encodes the Envelope.
func (e *Envelope) Marshal() ([]byte, error) {
	return proto.Marshal(e)
}

// Unmarshal decodes an Envelope.
func Unmarshal(p []byte) (*Envelope, error) {
	e := &Envelope{}
	if err := proto.Unmarshal(p, e); err != nil {
		return nil, err
	}
	return e, nil
}

package arq

import (
	"context"
	"fmt"
)

// State is the connection state.
type State int

// States.
const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// PayloadHandler is called with every payload delivered in order.
type PayloadHandler interface {
	HandlePayload(context.Context, []byte)
}

// HandlePayloadFunc is func type of PayloadHandler.
type HandlePayloadFunc func(context.Context, []byte)

// HandlePayload implements PayloadHandler.
func (f HandlePayloadFunc) HandlePayload(ctx context.Context, p []byte) {
	f(ctx, p)
}

// StateNotifier is called when the connection state changed.
type StateNotifier interface {
	StateChanged(context.Context, State)
}

// StateChangedFunc is func type of StateNotifier.
type StateChangedFunc func(context.Context, State)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, state State) {
	f(ctx, state)
}

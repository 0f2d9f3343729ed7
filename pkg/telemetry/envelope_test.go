package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

func TestMessageEnvelope(t *testing.T) {
	e, err := NewMessageEnvelope(DirectionIn, &msgs.Order{X: 12, Y: -5}, 42)
	require.NoError(t, err)
	require.Equal(t, "in/ORDER", e.Topic())

	p, err := e.Marshal()
	require.NoError(t, err)
	decoded, err := Unmarshal(p)
	require.NoError(t, err)
	require.Equal(t, e, decoded)

	msg, err := decoded.Message()
	require.NoError(t, err)
	require.Equal(t, &msgs.Order{X: 12, Y: -5}, msg)
}

func TestStateEnvelope(t *testing.T) {
	e := NewStateEnvelope("connected", 7)
	require.Equal(t, "state", e.Topic())
	p, err := e.Marshal()
	require.NoError(t, err)
	decoded, err := Unmarshal(p)
	require.NoError(t, err)
	require.Equal(t, "connected", decoded.State)
	require.Equal(t, int64(7), decoded.UnixNano)
}

func TestNewMessageEnvelopeFails(t *testing.T) {
	_, err := NewMessageEnvelope(DirectionOut, &msgs.Debug{Text: string(make([]byte, msgs.DebugLen+1))}, 0)
	require.Error(t, err)
}

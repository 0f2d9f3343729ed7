package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

func TestParseOrder(t *testing.T) {
	msg, err := ParseOrder([]string{"12", "-5"})
	require.NoError(t, err)
	require.Equal(t, &msgs.Order{X: 12, Y: -5}, msg)

	for _, args := range [][]string{{"1"}, {"1", "x"}, {"40000", "0"}} {
		_, err := ParseOrder(args)
		require.Error(t, err)
	}
}

func TestFormatMessage(t *testing.T) {
	require.Equal(t, "PING", FormatMessage(&msgs.Ping{}, false))
	require.Equal(t, "ORDER {X:12 Y:-5}", FormatMessage(&msgs.Order{X: 12, Y: -5}, false))
	require.Equal(t, `{"type":"ORDER","msg":{"X":12,"Y":-5}}`, FormatMessage(&msgs.Order{X: 12, Y: -5}, true))
}

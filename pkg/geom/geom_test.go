package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPosFromCentimeters(t *testing.T) {
	require.Equal(t, Pos2D{X: 120, Y: -50}, PosFromCentimeters(12, -5))
	x, y := Pos2D{X: 124, Y: -56}.Centimeters()
	require.Equal(t, int16(12), x)
	require.Equal(t, int16(-6), y)
	x, y = Pos2D{X: 1e9, Y: -1e9}.Centimeters()
	require.Equal(t, int16(math.MaxInt16), x)
	require.Equal(t, int16(math.MinInt16), y)
}

func TestAngle(t *testing.T) {
	testCases := []struct {
		name    string
		degrees float64
		wire    int16
	}{
		{"zero", 0, 0},
		{"right", 90, 90},
		{"behind", 180, 180},
		{"left", -90, 270},
		{"wrap", 450, 90},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.wire, AngleFromDegrees(tc.degrees).WireDegrees())
		})
	}
	require.InDelta(t, math.Pi/2, AngleFromDegrees(-270).Radians(), 1e-9)
}

func TestBearing(t *testing.T) {
	a := Pos2D{}.BearingTo(Pos2D{X: 0, Y: 10})
	require.InDelta(t, 90, a.Degrees(), 1e-9)
	p := a.Project(10)
	require.InDelta(t, 0, p.X, 1e-9)
	require.InDelta(t, 10, p.Y, 1e-9)
	require.InDelta(t, 10, Pos2D{}.DistanceTo(p), 1e-9)
}

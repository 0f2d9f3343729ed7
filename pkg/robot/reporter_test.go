package robot

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/nxtlink/pkg/drive"
	"github.com/robotalks/nxtlink/pkg/geom"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

type testContext struct {
	now time.Time
}

func (c *testContext) Context() context.Context { return context.Background() }
func (c *testContext) Time() time.Time           { return c.now }
func (c *testContext) PriorityLevel() int        { return 0 }
func (c *testContext) TriggerNext()              {}

type testSender struct {
	sent []msgs.Message
}

func (s *testSender) Send(m msgs.Message) error {
	s.sent = append(s.sent, m)
	return nil
}

func TestReporter(t *testing.T) {
	bus := &drive.Bus{}
	sender := &testSender{}
	r := &Reporter{
		Bus:      bus,
		Sensors:  &drive.StaticSensors{Values: [msgs.SensorsNum]uint8{10, 20, 30, 40}, Tower: geom.AngleFromDegrees(-45)},
		Sender:   sender,
		Interval: 200 * time.Millisecond,
	}
	cc := &testContext{now: time.Unix(100, 0)}
	bus.Pose.Put(geom.Pose2D{Pos2D: geom.Pos2D{X: 1234, Y: -56}, Heading: geom.AngleFromRadians(-math.Pi / 2)})

	require.NoError(t, r.Control(cc))
	require.Empty(t, sender.sent)

	bus.Flags.SetHandshook(true)
	require.NoError(t, r.Control(cc))
	require.Equal(t, []msgs.Message{&msgs.Update{
		X: 123, Y: -6, Heading: 270, TowerAngle: -45,
		Sensors: [msgs.SensorsNum]uint8{10, 20, 30, 40},
	}}, sender.sent)

	cc.now = cc.now.Add(100 * time.Millisecond)
	require.NoError(t, r.Control(cc))
	require.Len(t, sender.sent, 1)
	cc.now = cc.now.Add(100 * time.Millisecond)
	require.NoError(t, r.Control(cc))
	require.Len(t, sender.sent, 2)

	bus.Flags.SetPaused(true)
	cc.now = cc.now.Add(time.Second)
	require.NoError(t, r.Control(cc))
	require.Len(t, sender.sent, 2)
}

package robot

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/geom"
	"github.com/robotalks/nxtlink/pkg/l0/hs"
	"github.com/robotalks/nxtlink/pkg/l0/link"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

func recvType(ctx context.Context, t *testing.T, l *link.Link, typ msgs.Type) msgs.Message {
	for {
		msg, err := l.Recv(ctx)
		require.NoError(t, err)
		if msg.Type() == typ {
			return msg
		}
	}
}

func TestRobotSession(t *testing.T) {
	robotPort, serverPort := net.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverTr := hs.New(hs.OpenFunc(func(int) (hs.Port, error) { return serverPort, nil }))
	require.NoError(t, serverTr.Enable(0))
	defer serverTr.Disable()
	server := link.FromTransport(serverTr)
	serverLoop := fx.NewLoop().Add(server)
	serverLoop.Interval = time.Millisecond
	go serverLoop.Run(ctx)

	conf := NewConfig()
	conf.ReportInterval = 50 * time.Millisecond
	profile := DefaultProfile()
	profile.Name = "bench"
	r, err := conf.NewRobot(hs.OpenFunc(func(int) (hs.Port, error) { return robotPort, nil }), profile)
	require.NoError(t, err)
	go r.Run(ctx)

	hello := recvType(ctx, t, server, msgs.TypeHandshake).(*msgs.Handshake)
	require.Equal(t, "bench", hello.Name)

	require.NoError(t, server.Send(&msgs.Confirm{}))
	update := recvType(ctx, t, server, msgs.TypeUpdate).(*msgs.Update)
	require.Equal(t, &msgs.Update{}, update)

	require.NoError(t, server.Send(&msgs.Order{X: 10, Y: 0}))
	recvType(ctx, t, server, msgs.TypeIdle)
	pose, ok := r.Bus.Pose.Peek()
	require.True(t, ok)
	require.InDelta(t, 100, pose.X, 10)

	require.NoError(t, server.Send(&msgs.Ping{}))
	recvType(ctx, t, server, msgs.TypePingResponse)

	require.NoError(t, r.Debugf("at %d", 10))
	require.Equal(t, &msgs.Debug{Text: "at 10"}, recvType(ctx, t, server, msgs.TypeDebug))
	require.NoError(t, r.SendLine(geom.Pos2D{X: 10, Y: 20}, geom.Pos2D{X: -30, Y: 40}))
	require.Equal(t, &msgs.Line{XP: 1, YP: 2, XQ: -3, YQ: 4}, recvType(ctx, t, server, msgs.TypeLine))

	require.NoError(t, server.Send(&msgs.Finish{}))
	for r.Bus.Flags.Handshook() {
		require.NoError(t, ctx.Err())
		time.Sleep(time.Millisecond)
	}
}

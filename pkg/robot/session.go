package robot

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/nxtlink/pkg/drive"
	"github.com/robotalks/nxtlink/pkg/l0/arq"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Connector is the session view of a link.Link.
type Connector interface {
	Connect(context.Context) error
	Changed() (arq.State, <-chan struct{})
	Send(msgs.Message) error
}

// Session keeps the robot connected: it connects, introduces the robot
// with HANDSHAKE and starts over whenever the connection is lost.
type Session struct {
	Conn          Connector
	Bus           *drive.Bus
	Handshake     *msgs.Handshake
	RetryInterval time.Duration
}

// Run implements Runnable.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.connect(ctx); err != nil {
			return err
		}
		glog.Infof("session: connected, handshake as %q", s.Handshake.Name)
		if err := s.Conn.Send(s.Handshake); err != nil {
			glog.Warningf("session: handshake: %v", err)
		}
		if err := s.waitLost(ctx); err != nil {
			return err
		}
		s.Bus.Flags.Reset()
		glog.Warning("session: connection lost")
	}
}

func (s *Session) connect(ctx context.Context) error {
	for {
		err := s.Conn.Connect(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.V(1).Infof("session: connect: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.RetryInterval):
		}
	}
}

func (s *Session) waitLost(ctx context.Context) error {
	for {
		state, changed := s.Conn.Changed()
		if state == arq.Disconnected {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

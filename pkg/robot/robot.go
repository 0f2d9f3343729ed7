// Package robot wires the link, the dispatcher and the drive controller
// into the robot process.
package robot

import (
	"context"

	"github.com/robotalks/nxtlink/pkg/drive"
	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/geom"
	"github.com/robotalks/nxtlink/pkg/l0/dispatch"
	"github.com/robotalks/nxtlink/pkg/l0/hs"
	"github.com/robotalks/nxtlink/pkg/l0/link"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Robot is the assembled robot process.
type Robot struct {
	Config     *Config
	Transport  *hs.Transport
	Link       *link.Link
	Bus        *drive.Bus
	Dispatcher *dispatch.Dispatcher
	Session    *Session
	Reporter   *Reporter
	Drive      fx.LoopAdder
}

// NewRobot assembles a robot over opener. The drive defaults to the
// simulator.
func (c *Config) NewRobot(opener hs.Opener, profile *Profile) (*Robot, error) {
	handshake, err := profile.Handshake()
	if err != nil {
		return nil, err
	}
	r := &Robot{
		Config:    c,
		Transport: c.NewTransport(opener),
		Bus:       &drive.Bus{},
	}
	r.Link = link.FromTransport(r.Transport)
	r.Link.Conn.Timeout, r.Link.Conn.Retries = c.AckTimeout, c.Retries
	r.Dispatcher = &dispatch.Dispatcher{
		Source: r.Link,
		Sender: r.Link,
		Flags:  &r.Bus.Flags,
		Target: &r.Bus.Target,
		Pose:   &r.Bus.Pose,
	}
	r.Session = &Session{
		Conn:          r.Link,
		Bus:           r.Bus,
		Handshake:     handshake,
		RetryInterval: c.ConnectRetry,
	}
	r.Reporter = &Reporter{
		Bus:      r.Bus,
		Sensors:  &drive.StaticSensors{},
		Sender:   r.Link,
		Interval: c.ReportInterval,
	}
	r.Drive = drive.NewSim(r.Bus, r.Link, geom.Pose2D{})
	return r, nil
}

// AddToLoop implements LoopAdder.
func (r *Robot) AddToLoop(l *fx.Loop) {
	l.Add(r.Link, r.Drive, r.Reporter)
	l.AddRunnable(
		fx.NamedRun("dispatch", r.Dispatcher),
		fx.NamedRun("session", r.Session),
	)
}

// Run enables the transport and runs until ctx is done.
func (r *Robot) Run(ctx context.Context) error {
	if err := r.Transport.Enable(r.Config.Baud); err != nil {
		return err
	}
	defer r.Transport.Disable()
	return fx.NewLoop().Add(r).Run(ctx)
}

// Debugf sends a DEBUG message.
func (r *Robot) Debugf(format string, args ...interface{}) error {
	return r.Link.Send(msgs.Debugf(format, args...))
}

// SendLine reports a line segment from p to q.
func (r *Robot) SendLine(p, q geom.Pos2D) error {
	m := &msgs.Line{}
	m.XP, m.YP = p.Centimeters()
	m.XQ, m.YQ = q.Centimeters()
	return r.Link.Send(m)
}

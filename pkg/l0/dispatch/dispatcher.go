// Package dispatch applies messages from the server to the robot state.
package dispatch

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/nxtlink/pkg/geom"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
	"github.com/robotalks/nxtlink/pkg/state"
)

// Source delivers received messages, blocking until one is available.
type Source interface {
	Recv(context.Context) (msgs.Message, error)
}

// Sender queues replies.
type Sender interface {
	Send(msgs.Message) error
}

// Dispatcher is the single consumer of received messages.
type Dispatcher struct {
	Source Source
	Sender Sender
	Flags  *state.Flags
	Target *state.Mailbox[geom.Pos2D]
	Pose   *state.Mailbox[geom.Pose2D]
}

// Run implements Runnable.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		msg, err := d.Source.Recv(ctx)
		if err != nil {
			return err
		}
		d.Dispatch(msg)
	}
}

// Dispatch applies a single message.
func (d *Dispatcher) Dispatch(msg msgs.Message) {
	switch m := msg.(type) {
	case *msgs.Handshake, *msgs.Confirm:
		if !d.Flags.SetHandshook(true) {
			glog.Infof("dispatch: handshook by %v", m.Type())
		}
	case *msgs.Order:
		target := geom.PosFromCentimeters(m.X, m.Y)
		d.Target.Put(target)
		glog.V(2).Infof("dispatch: target %v", target)
	case *msgs.Pause:
		if !d.Flags.SetPaused(true) {
			d.holdPosition()
		}
	case *msgs.Unpause:
		d.Flags.SetPaused(false)
	case *msgs.Finish:
		d.Flags.SetHandshook(false)
		d.holdPosition()
		glog.Info("dispatch: finished")
	case *msgs.Ping:
		if err := d.Sender.Send(&msgs.PingResponse{}); err != nil {
			glog.Warningf("dispatch: ping response: %v", err)
		}
	default:
		glog.V(2).Infof("dispatch: ignore %v", msg.Type())
	}
}

// holdPosition makes the current pose the target.
func (d *Dispatcher) holdPosition() {
	if pose, ok := d.Pose.Peek(); ok {
		d.Target.Put(pose.Pos2D)
	}
}

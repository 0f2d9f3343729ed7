package robot

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/nxtlink/pkg/drive"
	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Reporter sends UPDATE periodically while the session is active.
type Reporter struct {
	Bus      *drive.Bus
	Sensors  drive.Sensors
	Sender   drive.Sender
	Interval time.Duration

	last time.Time
}

// AddToLoop implements LoopAdder.
func (r *Reporter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvReport, r)
}

// Control implements Controller.
func (r *Reporter) Control(cc fx.ControlContext) error {
	now := cc.Time()
	if !r.Bus.Flags.Active() || now.Sub(r.last) < r.Interval {
		return nil
	}
	pose, ok := r.Bus.Pose.Peek()
	if !ok {
		return nil
	}
	r.last = now
	msg := &msgs.Update{Heading: pose.Heading.WireDegrees()}
	msg.X, msg.Y = pose.Centimeters()
	if s := r.Sensors; s != nil {
		msg.Sensors = s.Ranges()
		msg.TowerAngle = int16(math.Round(s.TowerAngle().Degrees()))
	}
	if err := r.Sender.Send(msg); err != nil {
		glog.V(1).Infof("report: %v", err)
	}
	return nil
}

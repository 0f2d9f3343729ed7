package drive

import (
	"math"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/geom"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Sim defaults.
const (
	DefaultSpeed     = 150.0 // mm/s
	DefaultTurnRate  = math.Pi / 2
	DefaultTolerance = 10.0 // mm

	headingTolerance = 0.05
)

// Sender queues messages to the server.
type Sender interface {
	Send(msgs.Message) error
}

// Sim drives a simulated robot toward the target: it turns in place to
// face the target, then drives straight. It holds position while paused
// and reports IDLE when a target is reached.
type Sim struct {
	Bus       *Bus
	Sender    Sender
	Speed     float64
	TurnRate  float64
	Tolerance float64

	pose      geom.Pose2D
	target    geom.Pos2D
	hasTarget bool
	lastTime  time.Time
}

// NewSim creates a Sim starting at pose.
func NewSim(bus *Bus, sender Sender, start geom.Pose2D) *Sim {
	bus.Pose.Put(start)
	return &Sim{
		Bus:       bus,
		Sender:    sender,
		Speed:     DefaultSpeed,
		TurnRate:  DefaultTurnRate,
		Tolerance: DefaultTolerance,
		pose:      start,
	}
}

// AddToLoop implements LoopAdder.
func (s *Sim) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, s)
}

// Control implements Controller.
func (s *Sim) Control(cc fx.ControlContext) error {
	now := cc.Time()
	var dt float64
	if !s.lastTime.IsZero() {
		dt = now.Sub(s.lastTime).Seconds()
	}
	s.lastTime = now

	if target, ok := s.Bus.Target.Take(); ok {
		s.target, s.hasTarget = target, true
		glog.V(2).Infof("drive: new target %v", target)
	}
	if s.hasTarget && !s.Bus.Flags.Paused() {
		s.step(dt)
	}
	s.Bus.Pose.Put(s.pose)
	return nil
}

func (s *Sim) step(dt float64) {
	dist := s.pose.DistanceTo(s.target)
	if dist <= s.Tolerance {
		s.arrived()
		return
	}
	bearing := s.pose.BearingTo(s.target)
	diff := bearing.Sub(s.pose.Heading).Radians()
	if math.Abs(diff) > headingTolerance {
		turn := s.TurnRate * dt
		if turn > math.Abs(diff) {
			turn = math.Abs(diff)
		}
		s.pose.Heading = s.pose.Heading.Add(geom.Angle(math.Copysign(turn, diff)))
		return
	}
	s.pose.Heading = bearing
	move := s.Speed * dt
	if move > dist {
		move = dist
	}
	s.pose.Pos2D = s.pose.Pos2D.Add(s.pose.Heading.Project(move))
	if s.pose.DistanceTo(s.target) <= s.Tolerance {
		s.arrived()
	}
}

func (s *Sim) arrived() {
	s.hasTarget = false
	glog.V(2).Infof("drive: reached %v", s.target)
	if s.Sender == nil || !s.Bus.Flags.Active() {
		return
	}
	if err := s.Sender.Send(&msgs.Idle{}); err != nil {
		glog.Warningf("drive: idle: %v", err)
	}
}

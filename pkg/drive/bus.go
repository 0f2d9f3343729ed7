// Package drive defines what the link shares with the drive controller,
// and provides a simulated controller for bench runs.
package drive

import (
	"github.com/robotalks/nxtlink/pkg/geom"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
	"github.com/robotalks/nxtlink/pkg/state"
)

// Bus is the state shared between the dispatcher, the drive controller
// and the reporters.
type Bus struct {
	Flags  state.Flags
	Target state.Mailbox[geom.Pos2D]
	Pose   state.Mailbox[geom.Pose2D]
}

// Sensors reads the sensor tower.
type Sensors interface {
	Ranges() [msgs.SensorsNum]uint8
	TowerAngle() geom.Angle
}

// StaticSensors always reports the same readings.
type StaticSensors struct {
	Values [msgs.SensorsNum]uint8
	Tower  geom.Angle
}

// Ranges implements Sensors.
func (s *StaticSensors) Ranges() [msgs.SensorsNum]uint8 { return s.Values }

// TowerAngle implements Sensors.
func (s *StaticSensors) TowerAngle() geom.Angle { return s.Tower }

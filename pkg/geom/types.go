// Package geom provides planar positions and headings in robot units:
// millimeters and radians.
package geom

import "math"

// Pos2D is a position in millimeters.
type Pos2D struct {
	X, Y float64
}

// Pose2D is a position plus heading.
type Pose2D struct {
	Pos2D
	Heading Angle
}

// PosFromCentimeters converts wire units (cm) to millimeters.
func PosFromCentimeters(x, y int16) Pos2D {
	return Pos2D{X: float64(x) * 10, Y: float64(y) * 10}
}

// Centimeters rounds the position to wire units, saturating at the
// int16 range.
func (p Pos2D) Centimeters() (x, y int16) {
	return clampInt16(p.X / 10), clampInt16(p.Y / 10)
}

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// Sub returns p - p1.
func (p Pos2D) Sub(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X - p1.X, Y: p.Y - p1.Y}
}

// Norm is the distance from origin.
func (p Pos2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// DistanceTo is the euclidean distance between positions.
func (p Pos2D) DistanceTo(p1 Pos2D) float64 {
	return p1.Sub(p).Norm()
}

// BearingTo is the angle of the vector from p to p1.
func (p Pos2D) BearingTo(p1 Pos2D) Angle {
	d := p1.Sub(p)
	return AngleFromRadians(math.Atan2(d.Y, d.X))
}

func clampInt16(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

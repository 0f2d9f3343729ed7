package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background tasks.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Controller is invoked once per loop tick.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext provides the context of the current tick.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the tick started.
	Time() time.Time
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// TriggerNext schedules another tick right after this one.
	TriggerNext()
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefined priority levels. Lower runs first within a tick.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvLink is where the serial link is polled.
	PrLvLink = PrLvTop
	// PrLvControl is for drive controllers.
	PrLvControl = PrLvNormal
	// PrLvReport is for outbound periodic reports.
	PrLvReport = PrLvLow
)

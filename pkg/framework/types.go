// Package framework runs the tick driven mission loop.
//
// Controllers registered at priority levels run in order on every tick:
// sensors sample first, then the mission logic turns readings into
// records, and the transmitters write them out last. Controllers talk by
// posting messages which are consumed on the next tick.
package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is anything passed between controllers.
type Message interface{}

// Controller runs once per tick.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// ControlContext provides the context of current tick.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is the time the tick started, shared by all controllers.
	Time() time.Time
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Messages retrieves messages collected when this tick starts.
	Messages() MessageStore
	// PostMessage enqueues a message for the next tick.
	PostMessage(Message)
}

// MessageStore provides access to messages of the current tick.
type MessageStore interface {
	// ProcessMessages calls fn for each message, fn returns true to
	// take the message out of the store.
	ProcessMessages(fn func(Message) bool)
	// Len gets the number of remaining messages.
	Len() int
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefine priority levels
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is the alias of priority level for sensors.
	PrLvSense = PrLvHigh
	// PrLvControl is the alias of priority level for mission logic.
	PrLvControl = PrLvNormal
	// PrLvTransmit is the alias of priority level for transmitters.
	PrLvTransmit = PrLvLow
)

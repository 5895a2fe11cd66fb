package hoot

import "github.com/casualjim/hoot/internal/channel"

type (
	// DeliveryError aggregates the failures of a single send. Use errors.Is
	// and errors.As to reach the individual causes.
	DeliveryError = channel.DeliveryError
	// SubscriberError is the failure of one subscriber.
	SubscriberError = channel.SubscriberError
)

// ErrSubscriberPanic marks a subscriber that panicked instead of returning.
var ErrSubscriberPanic = channel.ErrSubscriberPanic

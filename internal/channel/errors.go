package channel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrSubscriberPanic marks a failure caused by a panicking callback.
var ErrSubscriberPanic = errors.New("subscriber panicked")

// SubscriberError is the failure of a single subscriber during a dispatch.
type SubscriberError struct {
	SubscriptionID uuid.UUID
	Callback       string
	Err            error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %s (%s): %v", e.SubscriptionID, e.Callback, e.Err)
}

func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// DeliveryError aggregates every failure of one dispatch. Failures of a
// channel come before the failures of its parent.
type DeliveryError struct {
	Failures []error
}

func (e *DeliveryError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "delivery failed (%d):", len(e.Failures))
	for i, err := range e.Failures {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteByte(' ')
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *DeliveryError) Unwrap() []error {
	return e.Failures
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrSubscriberPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrSubscriberPanic, r)
}

package messages

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Message is the constraint for everything that travels through the bus.
type Message interface {
	UID() uuid.UUID
}

// Base is an embeddable header that satisfies Message.
type Base struct {
	ID        uuid.UUID       `json:"uid"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// NewBase stamps a new header with a fresh UID and the current time.
func NewBase() Base {
	return Base{
		ID:        NewUID(),
		Timestamp: strfmt.DateTime(time.Now().UTC()),
	}
}

// UID returns the message uid.
func (b Base) UID() uuid.UUID {
	return b.ID
}

// NewUID generates a version 7 UUID. It panics if the UUID generation fails.
func NewUID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

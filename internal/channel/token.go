package channel

import (
	"sync"

	"github.com/google/uuid"
)

// Token removes a subscription when unsubscribed. Several tokens can point at
// the same subscription; the first Unsubscribe wins, the rest are no-ops.
type Token struct {
	id     uuid.UUID
	remove func(uuid.UUID)
	once   sync.Once
}

func newToken(id uuid.UUID, remove func(uuid.UUID)) *Token {
	return &Token{id: id, remove: remove}
}

func inertToken() *Token {
	return &Token{}
}

// ID returns the id of the subscription, empty for an inert token.
func (t *Token) ID() string {
	if t.id == uuid.Nil {
		return ""
	}
	return t.id.String()
}

// Unsubscribe removes the subscription. It is idempotent.
func (t *Token) Unsubscribe() {
	t.once.Do(func() {
		if t.remove != nil {
			t.remove(t.id)
		}
	})
}

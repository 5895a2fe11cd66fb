package channel

import (
	"context"
	"reflect"

	"github.com/casualjim/hoot/lifetime"
	"github.com/casualjim/hoot/messages"
	"github.com/casualjim/hoot/pkg/reflectx"
	"github.com/google/uuid"
)

// Handler receives a dispatched message.
type Handler[T, C any] func(ctx context.Context, msg T, category C) error

// Predicate filters messages before a handler runs.
type Predicate[T, C any] func(msg T, category C) bool

// identity is what makes two subscriptions the same subscription.
type identity struct {
	source    lifetime.Source
	callback  uintptr
	predicate uintptr
}

func identityOf[T, C any](source lifetime.Source, fn Handler[T, C], pred Predicate[T, C]) identity {
	return identity{
		source:    source,
		callback:  reflectx.FuncID(fn),
		predicate: reflectx.FuncID(pred),
	}
}

func (i identity) equal(other identity) bool {
	return i.callback == other.callback &&
		i.predicate == other.predicate &&
		sameSource(i.source, other.source)
}

func sameSource(a, b lifetime.Source) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

type subscription[T, C any] struct {
	id        uuid.UUID
	key       identity
	source    lifetime.Source
	callback  Handler[T, C]
	predicate Predicate[T, C]
}

func newSubscription[T, C any](source lifetime.Source, fn Handler[T, C], pred Predicate[T, C]) *subscription[T, C] {
	return &subscription[T, C]{
		id:        messages.NewUID(),
		key:       identityOf(source, fn, pred),
		source:    source,
		callback:  fn,
		predicate: pred,
	}
}

// IsAlive reports whether the subscribing owner still exists.
func (s *subscription[T, C]) IsAlive() bool {
	return s.source != nil && s.source.Alive()
}

// CanExecute is true when there is no predicate or the predicate accepts the
// message. Dead subscriptions never execute.
func (s *subscription[T, C]) CanExecute(msg T, category C) bool {
	if !s.IsAlive() {
		return false
	}
	if s.predicate == nil {
		return true
	}
	return s.predicate(msg, category)
}

// Send runs the callback. Errors and panics are left to the caller.
func (s *subscription[T, C]) Send(ctx context.Context, msg T, category C) error {
	if !s.IsAlive() || s.callback == nil {
		return nil
	}
	return s.callback(ctx, msg, category)
}

// Same reports whether this live subscription was made from the exact same
// source, callback and predicate.
func (s *subscription[T, C]) Same(source lifetime.Source, fn Handler[T, C], pred Predicate[T, C]) bool {
	return s.same(identityOf(source, fn, pred))
}

func (s *subscription[T, C]) same(key identity) bool {
	return s.IsAlive() && s.key.equal(key)
}

func (s *subscription[T, C]) name() string {
	if s.callback == nil {
		return "<nil>"
	}
	return reflectx.FunctionName(s.callback)
}

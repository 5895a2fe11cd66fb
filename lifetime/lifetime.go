// Package lifetime provides the handles subscribers use to tie a subscription
// to the life of something else.
//
// A Source answers one question, lock-free: is the owner still around? The
// messaging core never extends the owner's life. When a source reports dead,
// its subscriptions are skipped and purged on a later dispatch.
//
// Available sources:
//   - Weak: alive until the pointed-to object is garbage collected
//   - Scope: alive until Close is called, for explicit teardown
//   - Context: alive until the context is done
//   - Always: never expires
//
// Sources are compared with == to detect duplicate subscriptions, so custom
// implementations must be comparable (pointer receivers are the easy way).
package lifetime

import (
	"context"
	"sync/atomic"
	"weak"
)

// Source reports whether the owner of a subscription is still alive.
type Source interface {
	Alive() bool
}

// Weak returns a source that stays alive as long as p is reachable from
// somewhere else. A nil pointer yields a source that is already dead.
//
// Callbacks must not capture p strongly, or it will never be collected.
func Weak[T any](p *T) Source {
	return weakSource[T]{ptr: weak.Make(p)}
}

type weakSource[T any] struct {
	ptr weak.Pointer[T]
}

func (w weakSource[T]) Alive() bool {
	return w.ptr.Value() != nil
}

// Scope is a source with an explicit end.
type Scope struct {
	closed atomic.Bool
}

// NewScope creates an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// Alive is true until Close has been called.
func (s *Scope) Alive() bool {
	return !s.closed.Load()
}

// Close ends the scope. It is safe to call more than once.
func (s *Scope) Close() {
	s.closed.Store(true)
}

// Context returns a source that dies when ctx is done. Sources created from
// the same context compare equal.
func Context(ctx context.Context) Source {
	return contextSource{done: ctx.Done()}
}

type contextSource struct {
	done <-chan struct{}
}

func (c contextSource) Alive() bool {
	if c.done == nil {
		return true
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Always returns a source that never dies.
func Always() Source {
	return always{}
}

type always struct{}

func (always) Alive() bool { return true }

package channel

import (
	"context"
	"sync"

	"github.com/casualjim/hoot/lifetime"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Channel routes messages of type T to its subscriptions, then to its parent.
type Channel[T, C any] struct {
	category C
	parent   *Channel[T, C]

	mu            sync.Mutex
	subscriptions *orderedmap.OrderedMap[uuid.UUID, *subscription[T, C]]
	closed        bool
}

// New creates a channel serving category. The parent, when not nil, receives
// every dispatch after this channel's own subscribers are done.
func New[T, C any](category C, parent *Channel[T, C]) *Channel[T, C] {
	return &Channel[T, C]{
		category:      category,
		parent:        parent,
		subscriptions: orderedmap.New[uuid.UUID, *subscription[T, C]](),
	}
}

// Category returns the category this channel serves.
func (c *Channel[T, C]) Category() C {
	return c.category
}

// Parent returns the channel dispatches cascade to, or nil.
func (c *Channel[T, C]) Parent() *Channel[T, C] {
	return c.parent
}

// Subscribe registers fn for source, filtered by pred when not nil.
//
// Subscribing again with the same source, callback and predicate returns a
// token for the existing subscription. A closed channel returns a token that
// does nothing.
func (c *Channel[T, C]) Subscribe(source lifetime.Source, fn Handler[T, C], pred Predicate[T, C]) *Token {
	key := identityOf(source, fn, pred)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return inertToken()
	}

	for pair := c.subscriptions.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.same(key) {
			return newToken(pair.Key, c.unsubscribe)
		}
	}

	sub := newSubscription(source, fn, pred)
	c.subscriptions.Set(sub.id, sub)
	return newToken(sub.id, c.unsubscribe)
}

func (c *Channel[T, C]) unsubscribe(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions.Delete(id)
}

// Len counts the live subscriptions.
func (c *Channel[T, C]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for pair := c.subscriptions.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsAlive() {
			n++
		}
	}
	return n
}

// Close drops every subscription. Later subscribes and dispatches are no-ops.
// Closing twice is fine.
func (c *Channel[T, C]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.subscriptions = orderedmap.New[uuid.UUID, *subscription[T, C]]()
}

// Closed reports whether Close was called.
func (c *Channel[T, C]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Dispatch delivers msg to every live subscription whose predicate accepts it,
// concurrently, and waits for all of them. It then cascades to the parent.
//
// A closed channel neither delivers nor cascades.
//
// Once ctx is done no further callbacks are started; the context error is
// reported once in the returned DeliveryError. Callbacks already running are
// not interrupted. A context that is done before the call fails the dispatch
// whether or not anyone is subscribed.
func (c *Channel[T, C]) Dispatch(ctx context.Context, msg T, category C) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Failures: []error{err}}
	}

	var out outcome
	for ch := c; ch != nil; ch = ch.parent {
		if !ch.deliver(ctx, msg, category, &out) {
			break
		}
	}

	if out.canceled {
		out.failures = append(out.failures, ctx.Err())
	}
	if len(out.failures) == 0 {
		return nil
	}
	return &DeliveryError{Failures: out.failures}
}

type outcome struct {
	failures []error
	canceled bool
}

// deliver runs the local subscribers, it returns false when the channel is closed.
// Predicates run on the subscriber goroutine so a panicking one fails only its
// own subscription.
func (c *Channel[T, C]) deliver(ctx context.Context, msg T, category C, out *outcome) bool {
	live, open := c.snapshot()
	if len(live) == 0 {
		return open
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures []error
	)
	for _, sub := range live {
		if ctx.Err() != nil {
			out.canceled = true
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.send(ctx, sub, msg, category); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	out.failures = append(out.failures, failures...)
	return true
}

func (c *Channel[T, C]) send(ctx context.Context, sub *subscription[T, C], msg T, category C) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
		if err != nil {
			err = &SubscriberError{SubscriptionID: sub.id, Callback: sub.name(), Err: err}
		}
	}()
	if !sub.CanExecute(msg, category) {
		return nil
	}
	return sub.Send(ctx, msg, category)
}

// snapshot copies the live subscriptions and purges the dead ones.
func (c *Channel[T, C]) snapshot() ([]*subscription[T, C], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false
	}

	live := make([]*subscription[T, C], 0, c.subscriptions.Len())
	var dead []uuid.UUID
	for pair := c.subscriptions.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsAlive() {
			live = append(live, pair.Value)
			continue
		}
		dead = append(dead, pair.Key)
	}
	for _, id := range dead {
		c.subscriptions.Delete(id)
	}
	return live, true
}

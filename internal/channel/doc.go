// Package channel implements the routing node of the messaging core: one
// Channel per (message type, category) pair, holding the subscriptions for
// that pair and cascading every dispatch to its parent.
//
// Design decisions:
//   - Category agnostic: the channel is generic over the message type T and the
//     category type C, it never inspects the category, it only passes it along
//   - Ordered snapshot: subscriptions live in an insertion-ordered map guarded by
//     a mutex; a dispatch copies the live entries and releases the lock before
//     any user code runs (predicates included)
//   - Concurrent fan-out: every matching subscription runs in its own goroutine,
//     the dispatch waits for all of them before cascading to the parent
//   - Failure isolation: a failing or panicking subscriber never prevents its
//     siblings from running; failures are collected into a DeliveryError
//   - Idempotent subscribe: an identical (source, callback, predicate) triple
//     maps onto the existing subscription
//   - Lazy expiry: subscriptions whose source died are purged on the next
//     snapshot
//
// Lock ordering: callers may hold nothing while calling into a channel. A
// channel holds only its own mutex and never while calling its parent.
//
// Example usage:
//
//	global := channel.New[Order, string]("", nil)
//	orders := channel.New[Order, string]("orders", global)
//
//	tok := orders.Subscribe(lifetime.Always(), func(ctx context.Context, o Order, cat string) error {
//	    return ship(ctx, o)
//	}, nil)
//	defer tok.Unsubscribe()
//
//	// runs orders subscribers, then global subscribers
//	err := orders.Dispatch(ctx, order, "orders")
package channel

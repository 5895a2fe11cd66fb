/*
Package hoot provides an in-process, typed publish/subscribe messaging core.

Messages are plain Go values that expose a UID. They are routed by their Go
type and an optional category to subscribers that registered for that pair.
Subscribers are tied to the lifetime of an owner, so a subscription ends on
its own once the owner is gone.

The package is built around a few key abstractions:

  - Service: owns the channel registry and is passed to every collaborator
  - Channel: one routing node per (message type, category) pair
  - Subscription: a source, a callback and an optional predicate
  - Category: either Global() or Named(name)

# Basic Usage

	svc := hoot.New(hoot.WithLogger(logger))
	defer svc.Close(ctx)

	// receives OrderCreated sent with the "orders" category
	hoot.Subscribe[OrderCreated](svc, hoot.Named("orders")).
	    Message(lifetime.Weak(inventory), inventory.onOrder)

	// receives every OrderCreated, whatever the category
	hoot.Subscribe[OrderCreated](svc, hoot.Global()).
	    MessageWhen(lifetime.Weak(audit), audit.onOrder, func(o OrderCreated, _ hoot.Category) bool {
	        return o.Total > 1000
	    })

	// waits for every matching subscriber
	if err := hoot.Send(ctx, svc, order, hoot.Named("orders")); err != nil {
	    // err is a *hoot.DeliveryError listing each failed subscriber
	}

	// returns immediately, failures are logged and reported
	hoot.Push(svc, order, hoot.Named("orders"))

# Delivery order

Sending with a category first runs the subscribers of that category, all of
them concurrently. Once they are done the global subscribers of the message
type run. A global subscriber receives exactly one delivery per send. There is
no order between subscribers of the same channel, nor between separate sends.

# Lifetimes

Every subscription is made for a lifetime.Source. When the source dies the
subscription is skipped and later purged. Unsubscribing through the returned
Subscription removes it right away. Subscribing twice with the same source,
callback and predicate yields the same subscription.

Callbacks are identified by their func value. A method value such as
inventory.onOrder is a new func value every time it is evaluated; keep it in a
variable when the same subscription may be made twice.

# Concurrency

The registry is guarded by a reader/writer lock and each channel by its own
mutex. Locks are never held while callbacks run, so callbacks may subscribe,
unsubscribe and send freely.
*/
package hoot

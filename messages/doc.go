// Package messages defines what the messaging core expects from a message
// and the helpers used to trace messages through logs.
//
// Design decisions:
//   - Minimal contract: a message only has to expose a UID, everything else is
//     the caller's own type
//   - Traceability only: the UID identifies a message instance in logs, it is
//     never used to deduplicate deliveries
//   - Time-ordered ids: UIDs are UUIDv7 so they sort by creation time
//   - Log friendly: Envelope renders any message with its routing data as a
//     single JSON document
//
// Example usage:
//
//	type OrderCreated struct {
//	    messages.Base
//	    OrderID string
//	}
//
//	msg := OrderCreated{Base: messages.NewBase(), OrderID: "o-1"}
//	slog.Info("sending", "envelope", messages.Describe(msg, "orders"))
package messages

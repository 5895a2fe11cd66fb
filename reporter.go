package hoot

import "context"

// Reporter receives the failures of fire-and-forget sends. The label names
// the message type and category that failed.
type Reporter interface {
	Report(ctx context.Context, err error, label string)
}

// ReporterFunc adapts a plain function to a Reporter.
type ReporterFunc func(ctx context.Context, err error, label string)

func (f ReporterFunc) Report(ctx context.Context, err error, label string) {
	f(ctx, err, label)
}

type discardReporter struct{}

func (discardReporter) Report(context.Context, error, string) {}

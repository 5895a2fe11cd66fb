package hoot

import (
	"log/slog"
	"time"

	"github.com/fogfish/opts"
)

// WithPushTimeout bounds every Push. Zero, the default, means no deadline.
var WithPushTimeout = opts.ForName[Service, time.Duration]("pushTimeout")

// WithLogger sets the logger for delivery failures and channel lifecycle
// events. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) opts.Option[Service] {
	return opts.Type[Service](func(s *Service) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	})
}

// WithReporter sets the collaborator that receives failed pushes after they
// are logged.
func WithReporter(reporter Reporter) opts.Option[Service] {
	return opts.Type[Service](func(s *Service) error {
		if reporter != nil {
			s.reporter = reporter
		}
		return nil
	})
}

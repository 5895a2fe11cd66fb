package hoot

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/casualjim/hoot/internal/channel"
	"github.com/casualjim/hoot/internal/registry"
	"github.com/casualjim/hoot/lifetime"
	"github.com/casualjim/hoot/messages"
	"github.com/casualjim/hoot/pkg/reflectx"
	"github.com/casualjim/hoot/pkg/slogx"
	"github.com/fogfish/opts"
)

// Handler receives a message together with the category it was sent with.
// Global subscribers see the original category, not Global().
type Handler[T any] func(ctx context.Context, msg T, category Category) error

// Predicate decides whether a handler runs for a message.
type Predicate[T any] func(msg T, category Category) bool

// Subscription is the handle returned by Subscribe. Unsubscribe is idempotent.
type Subscription interface {
	ID() string
	Unsubscribe()
}

type channelKey struct {
	typ      reflect.Type
	category Category
}

func keyFor[T any](category Category) channelKey {
	return channelKey{typ: reflect.TypeFor[T](), category: category}
}

// dispatcher is the type-erased view of a channel held by the registry.
type dispatcher interface {
	Len() int
	Close()
}

// Service routes messages to subscribers. Create it with New and share it
// with every component that publishes or subscribes.
type Service struct {
	logger      *slog.Logger
	reporter    Reporter
	pushTimeout time.Duration

	mu       sync.RWMutex
	channels map[channelKey]dispatcher
	closed   bool

	pending registry.Registry[context.CancelFunc]
	wg      sync.WaitGroup
}

// New creates a service. It panics when an option fails to apply.
func New(options ...opts.Option[Service]) *Service {
	s := &Service{
		logger:   slog.Default().With(slogx.LoggerName("hoot")),
		reporter: discardReporter{},
		channels: make(map[channelKey]dispatcher),
		pending:  registry.New[context.CancelFunc](),
	}
	if err := opts.Apply(s, options); err != nil {
		panic(err)
	}
	return s
}

// Builder completes a subscription for one message type and category.
type Builder[T messages.Message] struct {
	ch *channel.Channel[T, Category]
}

// Subscribe starts a subscription to messages of type T sent with category.
// The channel for the pair is created on first use. Subscribing on a closed
// service yields subscriptions that never receive anything.
func Subscribe[T messages.Message](svc *Service, category Category) *Builder[T] {
	return &Builder[T]{ch: channelFor[T](svc, category)}
}

// Message subscribes fn for as long as src is alive.
func (b *Builder[T]) Message(src lifetime.Source, fn Handler[T]) Subscription {
	return b.MessageWhen(src, fn, nil)
}

// MessageWhen subscribes fn for as long as src is alive, only for messages
// accepted by pred. A nil pred accepts everything.
func (b *Builder[T]) MessageWhen(src lifetime.Source, fn Handler[T], pred Predicate[T]) Subscription {
	return b.ch.Subscribe(src, channel.Handler[T, Category](fn), channel.Predicate[T, Category](pred))
}

func channelFor[T messages.Message](s *Service, category Category) *channel.Channel[T, Category] {
	s.mu.RLock()
	ch := lookupLocked[T](s, category)
	s.mu.RUnlock()
	if ch != nil {
		return ch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		ch := channel.New[T](category, nil)
		ch.Close()
		return ch
	}
	return ensureLocked[T](s, category)
}

func lookupLocked[T messages.Message](s *Service, category Category) *channel.Channel[T, Category] {
	d, ok := s.channels[keyFor[T](category)]
	if !ok {
		return nil
	}
	return d.(*channel.Channel[T, Category])
}

func ensureLocked[T messages.Message](s *Service, category Category) *channel.Channel[T, Category] {
	if ch := lookupLocked[T](s, category); ch != nil {
		return ch
	}

	var parent *channel.Channel[T, Category]
	if !category.IsGlobal() {
		parent = ensureLocked[T](s, Global())
	}
	ch := channel.New(category, parent)
	s.channels[keyFor[T](category)] = ch
	s.logger.Debug("channel created",
		slogx.MessageType(reflectx.TypeName[T]()),
		slogx.Category(category),
	)
	return ch
}

// Send delivers msg to the subscribers of its category and then to the global
// subscribers of T, and waits for all of them. Each global subscriber runs
// once per send.
//
// The returned error is nil or a *DeliveryError. Sending a message nobody
// subscribed to is not an error.
func Send[T messages.Message](ctx context.Context, svc *Service, msg T, category Category) error {
	svc.mu.RLock()
	target := lookupLocked[T](svc, category)
	if target == nil && !category.IsGlobal() {
		target = lookupLocked[T](svc, Global())
	}
	svc.mu.RUnlock()

	if target == nil {
		return nil
	}
	return target.Dispatch(ctx, msg, category)
}

// Push sends msg in the background and returns immediately. A failed delivery
// is logged once and handed to the Reporter. Pushing on a closed service drops
// the message.
func Push[T messages.Message](svc *Service, msg T, category Category) {
	svc.mu.RLock()
	if svc.closed {
		svc.mu.RUnlock()
		svc.logger.Debug("dropping push on closed service",
			slogx.MessageType(reflectx.TypeName[T]()),
			slogx.Category(category),
		)
		return
	}
	ctx, cancel := svc.pushContext()
	id := messages.NewUID().String()
	svc.pending.Add(id, cancel)
	svc.wg.Add(1)
	svc.mu.RUnlock()

	go func() {
		defer svc.wg.Done()
		defer func() {
			svc.pending.Del(id)
			cancel()
		}()

		if err := Send(ctx, svc, msg, category); err != nil {
			svc.pushFailed(ctx, msg, reflectx.TypeName[T](), category, err)
		}
	}()
}

func (s *Service) pushContext() (context.Context, context.CancelFunc) {
	if s.pushTimeout > 0 {
		return context.WithTimeout(context.Background(), s.pushTimeout)
	}
	return context.WithCancel(context.Background())
}

func (s *Service) pushFailed(ctx context.Context, msg messages.Message, typeName string, category Category, err error) {
	s.logger.ErrorContext(ctx, "failed to push message",
		slogx.Error(err),
		slogx.MessageType(typeName),
		slogx.Category(category),
		slogx.UID(msg.UID()),
		slog.String("message", messages.Describe(msg, typeName, category.String())),
	)
	s.reporter.Report(context.WithoutCancel(ctx), err, fmt.Sprintf("push %s %s", typeName, category))
}

// Close stops the service. It waits for pending pushes until ctx is done, in
// which case they are cancelled and the context error is returned. Cancelled
// pushes are still waited for, so subscribers must honour their context for
// Close to return. Every channel is then closed. Closing an already closed
// service returns nil.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	channels := s.channels
	s.channels = nil
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		ids := s.pending.Names()
		for _, id := range ids {
			if cancel, ok := s.pending.Del(id); ok {
				cancel()
			}
		}
		err = fmt.Errorf("draining pending pushes: %w", ctx.Err())
		s.logger.WarnContext(ctx, "cancelled pending pushes",
			slog.Int("pending", len(ids)),
			slogx.Error(err),
		)
		<-drained
	}

	for _, ch := range channels {
		ch.Close()
	}
	s.logger.Debug("service closed", slog.Int("channels", len(channels)))
	return err
}

// ChannelStats describes one channel of the service.
type ChannelStats struct {
	MessageType string
	Category    Category
	Subscribers int
}

// Stats lists every channel with its live subscriber count, ordered by
// message type and then category. Global channels sort first.
func (s *Service) Stats() []ChannelStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]ChannelStats, 0, len(s.channels))
	for key, ch := range s.channels {
		stats = append(stats, ChannelStats{
			MessageType: reflectx.NameOf(key.typ),
			Category:    key.category,
			Subscribers: ch.Len(),
		})
	}
	slices.SortFunc(stats, func(a, b ChannelStats) int {
		if c := cmp.Compare(a.MessageType, b.MessageType); c != 0 {
			return c
		}
		if a.Category.IsGlobal() != b.Category.IsGlobal() {
			if a.Category.IsGlobal() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Category.Name(), b.Category.Name())
	})
	return stats
}

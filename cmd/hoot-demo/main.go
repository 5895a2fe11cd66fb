package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/casualjim/hoot"
	"github.com/casualjim/hoot/internal/config"
	"github.com/casualjim/hoot/lifetime"
	"github.com/casualjim/hoot/messages"
	"github.com/casualjim/hoot/pkg/slogx"
	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/k0kubun/pp/v3"
)

type OrderCreated struct {
	messages.Base
	Order string `json:"order"`
	Level int    `json:"level"`
}

func order(name string, level int) OrderCreated {
	return OrderCreated{Base: messages.NewBase(), Order: name, Level: level}
}

// listener is a subscriber owner. Its subscriptions end when it is collected.
type listener struct {
	name string
	mu   sync.Mutex
	seen []string
}

func (l *listener) handle(_ context.Context, msg OrderCreated, category hoot.Category) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, fmt.Sprintf("%s@%s", msg.Order, category))
	return nil
}

func (l *listener) received() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.seen...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("invalid configuration: %v", err))
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))
	slog.Info("running hoot demo")

	reports := make(chan string, 8)
	svc := hoot.New(
		hoot.WithLogger(slog.Default().With(slogx.LoggerName("hoot.demo"))),
		hoot.WithPushTimeout(cfg.PushTimeout),
		hoot.WithReporter(hoot.ReporterFunc(func(_ context.Context, err error, label string) {
			reports <- fmt.Sprintf("%s: %v", label, err)
		})),
	)

	ctx := context.Background()
	scenarios := []struct {
		name string
		run  func(context.Context, *hoot.Service, <-chan string) error
	}{
		{"A: category before global", cascade},
		{"B: category isolation", isolation},
		{"C: predicates", predicates},
		{"D: duplicate subscriptions", duplicates},
		{"E: failing push", failingPush},
	}
	failed := false
	for _, sc := range scenarios {
		fmt.Println(color.CyanString("==> %s", sc.name))
		if err := sc.run(ctx, svc, reports); err != nil {
			failed = true
			fmt.Println(color.RedString("    failed: %v", err))
			continue
		}
		fmt.Println(color.GreenString("    ok"))
	}

	fmt.Println(color.CyanString("==> channels"))
	pp.Println(svc.Stats())

	drainCtx, cancel := context.WithTimeout(ctx, cfg.DrainTimeout)
	defer cancel()
	if err := svc.Close(drainCtx); err != nil {
		slog.Error("failed to close service", slogx.Error(err))
		failed = true
	}
	if failed {
		cancel()
		os.Exit(1)
	}
}

func cascade(ctx context.Context, svc *hoot.Service, _ <-chan string) error {
	var (
		mu    sync.Mutex
		trace []string
	)
	note := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		trace = append(trace, s)
	}

	scope := lifetime.NewScope()
	defer scope.Close()
	hoot.Subscribe[OrderCreated](svc, hoot.Named("orders")).Message(scope,
		func(context.Context, OrderCreated, hoot.Category) error {
			note("S1 start")
			time.Sleep(10 * time.Millisecond)
			note("S1 done")
			return nil
		})
	hoot.Subscribe[OrderCreated](svc, hoot.Global()).Message(scope,
		func(context.Context, OrderCreated, hoot.Category) error {
			note("S2")
			return nil
		})

	if err := hoot.Send(ctx, svc, order("o-1", 1), hoot.Named("orders")); err != nil {
		return err
	}
	fmt.Printf("    trace: %v\n", trace)
	if len(trace) != 3 || trace[2] != "S2" {
		return fmt.Errorf("unexpected order %v", trace)
	}
	return nil
}

func isolation(ctx context.Context, svc *hoot.Service, _ <-chan string) error {
	l := &listener{name: "S1"}
	hoot.Subscribe[OrderCreated](svc, hoot.Named("a")).Message(lifetime.Weak(l), l.handle)

	if err := hoot.Send(ctx, svc, order("o-2", 1), hoot.Named("b")); err != nil {
		return err
	}
	if seen := l.received(); len(seen) != 0 {
		return fmt.Errorf("%s received %v", l.name, seen)
	}
	return nil
}

func predicates(ctx context.Context, svc *hoot.Service, _ <-chan string) error {
	l := &listener{name: "S1"}
	hoot.Subscribe[OrderCreated](svc, hoot.Named("levels")).MessageWhen(lifetime.Weak(l), l.handle,
		func(msg OrderCreated, _ hoot.Category) bool { return msg.Level > 5 })

	for _, level := range []int{3, 7} {
		if err := hoot.Send(ctx, svc, order(fmt.Sprintf("level-%d", level), level), hoot.Named("levels")); err != nil {
			return err
		}
	}
	seen := l.received()
	fmt.Printf("    received: %v\n", seen)
	if len(seen) != 1 {
		return fmt.Errorf("expected only level-7, got %v", seen)
	}
	return nil
}

func duplicates(ctx context.Context, svc *hoot.Service, _ <-chan string) error {
	l := &listener{name: "S1"}
	src := lifetime.Weak(l)
	handle := l.handle

	first := hoot.Subscribe[OrderCreated](svc, hoot.Named("dups")).Message(src, handle)
	second := hoot.Subscribe[OrderCreated](svc, hoot.Named("dups")).Message(src, handle)
	fmt.Printf("    tokens: %s %s\n", first.ID(), second.ID())

	first.Unsubscribe()
	if err := hoot.Send(ctx, svc, order("o-3", 1), hoot.Named("dups")); err != nil {
		return err
	}
	if seen := l.received(); len(seen) != 0 {
		return fmt.Errorf("delivered after unsubscribe: %v", seen)
	}
	return nil
}

func failingPush(_ context.Context, svc *hoot.Service, reports <-chan string) error {
	scope := lifetime.NewScope()
	defer scope.Close()
	hoot.Subscribe[OrderCreated](svc, hoot.Named("fragile")).Message(scope,
		func(context.Context, OrderCreated, hoot.Category) error {
			return errors.New("warehouse offline")
		})

	hoot.Push(svc, order("o-4", 1), hoot.Named("fragile"))
	select {
	case report := <-reports:
		fmt.Printf("    reported: %s\n", report)
		return nil
	case <-time.After(time.Second):
		return errors.New("no failure was reported")
	}
}

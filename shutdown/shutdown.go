// Package shutdown runs cleanup hooks in priority order when the process is asked to stop.
package shutdown

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/flanksource/commons/logger"
)

// Lower priorities run first: stop accepting work before closing what it depends on.
const (
	PriorityIngress = 0
	PriorityDefault = 100
	PriorityStorage = 300
)

type hook struct {
	label    string
	priority int
	seq      int
	fn       func(context.Context) error
	index    int
}

type hookHeap []*hook

func (h hookHeap) Len() int { return len(h) }
func (h hookHeap) Less(i, j int) bool {
	if h[i].priority == h[j].priority {
		return h[i].seq < h[j].seq
	}
	return h[i].priority < h[j].priority
}
func (h hookHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *hookHeap) Push(x any) {
	item := x.(*hook)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *hookHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Hooks is a set of cleanup functions. The zero value is ready to use.
type Hooks struct {
	mu    sync.Mutex
	hooks hookHeap
	seq   int
}

func New() *Hooks {
	return &Hooks{}
}

// Add registers fn. Hooks with equal priority run in registration order.
func (h *Hooks) Add(label string, priority int, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	heap.Push(&h.hooks, &hook{label: label, priority: priority, seq: h.seq, fn: fn})
}

func (h *Hooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hooks.Len()
}

// Run executes and removes every hook. A failing or panicking hook does not stop the others;
// their errors are joined.
func (h *Hooks) Run(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hooks.Len() == 0 {
		return nil
	}
	logger.Infof("Executing %d shutdown hooks", h.hooks.Len())

	var errs []error
	for h.hooks.Len() > 0 {
		next := heap.Pop(&h.hooks).(*hook)
		logger.Debugf("Executing shutdown hook: %s (priority=%d)", next.label, next.priority)
		if err := run(ctx, next); err != nil {
			logger.Errorf("shutdown hook %s failed: %v", next.label, err)
			errs = append(errs, fmt.Errorf("%s: %w", next.label, err))
		}
	}
	return errors.Join(errs...)
}

func run(ctx context.Context, h *hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.fn(ctx)
}

// NotifyContext returns a context cancelled on the first SIGINT or SIGTERM. A second signal
// exits the process immediately.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	ctx, stop, _ := watch(parent, signals, func() {
		fmt.Fprintf(os.Stderr, "\nForce exit\n")
		os.Exit(1)
	})
	return ctx, func() {
		signal.Stop(signals)
		stop()
	}
}

// watch cancels ctx on the first value received from signals and calls forceExit on the
// second. The returned channel is closed once the watching goroutine has returned, which
// happens on a forced exit or after stop is called.
func watch(parent context.Context, signals <-chan os.Signal, forceExit func()) (context.Context, context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	stopped := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() { close(stopped) })
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-signals:
			fmt.Fprintf(os.Stderr, "\nReceived %s - initiating graceful shutdown...\n", sig)
			fmt.Fprintf(os.Stderr, "   Press Ctrl+C again to force immediate exit\n\n")
			cancel()
		case <-ctx.Done():
			return
		}
		select {
		case <-signals:
			forceExit()
		case <-stopped:
		}
	}()

	return ctx, stop, done
}

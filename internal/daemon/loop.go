package daemon

import (
	"context"
	"errors"
	"log/slog"
)

// ErrStopped is returned when work is posted to a loop that has exited.
var ErrStopped = errors.New("daemon loop stopped")

var errTaskPanicked = errors.New("daemon task panicked")

// Loop runs every engine and controller call on a single goroutine. X
// event callbacks, hotkeys, IPC requests and config reloads all post
// closures here.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	logger *slog.Logger
}

// NewLoop creates a loop with room for buffer pending tasks.
func NewLoop(buffer int, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes posted tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("loop task panic recovered", "error", err)
		}
	}()
	fn()
}

// Post queues fn. It blocks while the queue is full and reports false
// once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() {
		err := errTaskPanicked
		defer func() { result <- err }()
		err = fn()
	}) {
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

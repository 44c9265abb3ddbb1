package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// forcedExitCode is the status used when a second signal interrupts shutdown.
const forcedExitCode = 130

// SignalContext is cancelled by the first SIGINT or SIGTERM, which starts a
// graceful shutdown. A second signal before Stop exits the process at once.
type SignalContext struct {
	context.Context
	Cancel func()

	signals  chan os.Signal
	exit     func(code int)
	stopped  chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	signal os.Signal
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Call Stop once shutdown has finished.
func NewSignalContext(parent context.Context) *SignalContext {
	sc := newSignalContext(parent, os.Exit)
	signal.Notify(sc.signals, os.Interrupt, syscall.SIGTERM)
	go sc.watch()
	return sc
}

func newSignalContext(parent context.Context, exit func(int)) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	return &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		signals: make(chan os.Signal, 2),
		exit:    exit,
		stopped: make(chan struct{}),
	}
}

func (sc *SignalContext) watch() {
	defer signal.Stop(sc.signals)

	select {
	case sig := <-sc.signals:
		sc.mu.Lock()
		sc.signal = sig
		sc.mu.Unlock()
		sc.Cancel()
	case <-sc.Done():
		return
	}

	select {
	case <-sc.signals:
		sc.exit(forcedExitCode)
	case <-sc.stopped:
	}
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.signal
}

// Stop cancels the context and stops listening for signals.
func (sc *SignalContext) Stop() {
	sc.stopOnce.Do(func() {
		sc.Cancel()
		close(sc.stopped)
	})
}

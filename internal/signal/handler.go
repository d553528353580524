// Package signal turns SIGINT and SIGTERM into context cancellation for the
// patchops CLI, so in-flight downloads stop and the process exits with 130.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Interrupt records whether a termination signal arrived.
type Interrupt struct {
	received atomic.Bool
}

// Received reports whether SIGINT or SIGTERM was delivered.
func (i *Interrupt) Received() bool {
	return i.received.Load()
}

// SetupSignalHandler registers SIGINT and SIGTERM handlers.
// When a signal is received, it calls onInterrupt (if non-nil), then
// cancels the context. The handler unregisters itself after the first
// signal, so a second Ctrl-C terminates the process immediately. It also
// unregisters once ctx is done.
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func()) *Interrupt {
	in := &Interrupt{}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			in.received.Store(true)
			if onInterrupt != nil {
				onInterrupt()
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return in
}

// Package signal turns SIGINT and SIGTERM into context cancellation for a
// release run.
//
// A release blocks on operator input and on external commands. Canceling
// the run context stops the command in flight (it is started with
// exec.CommandContext) and keeps later steps from starting. Steps that
// already finished stay finished.
//
// This package imports only the standard library.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitCodeInterrupted is the conventional exit status after SIGINT.
const ExitCodeInterrupted = 130

// Handler cancels its context when SIGINT or SIGTERM arrives.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the run context
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal

	mu       sync.Mutex
	received os.Signal
	once     sync.Once
	stopOnce sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := orchestrator.Run(h.Context())
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// Buffered so signal.Notify never drops a signal.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed once a signal has arrived.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Received returns the first signal seen, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// WasInterrupted reports whether a signal has arrived.
func (h *Handler) WasInterrupted() bool {
	select {
	case <-h.interrupted:
		return true
	default:
		return false
	}
}

// Stop stops listening and cancels the context. Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handleSignal records sig and cancels the run. Only the first call has
// any effect.
func (h *Handler) handleSignal(sig os.Signal) {
	h.once.Do(func() {
		h.mu.Lock()
		h.received = sig
		h.mu.Unlock()
		h.cancel()
		close(h.interrupted)
	})
}

// listen drains the signal channel until Stop is called or the parent
// context ends. Repeated signals are received and ignored.
func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}

/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package supervisor turns the one-shot takers of a mailbox into a
// persistent, error tolerant subscription.
//
// A Loop keeps exactly one taker registered on its mailbox. Each delivered
// batch is handed to the batch handler; once the handler returns the loop
// registers again, so at most one batch is in flight per Loop. Handler
// errors and panics are reported to the error handler and never stop the
// loop. Unsubscribe is cooperative: a running batch completes, and a batch
// delivered after Unsubscribe never reaches the handler; its values are put
// back on the mailbox for whoever takes next.
package supervisor

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/mailroom/internal/safe"
	"github.com/tochemey/mailroom/log"
	"github.com/tochemey/mailroom/mailbox"
)

// BatchHandler processes one delivered batch.
type BatchHandler[T any] func(ctx context.Context, batch []T) error

// ErrorHandler receives the errors returned (or panics raised) by a BatchHandler.
type ErrorHandler func(err error)

// Loop is the single consumer of a mailbox.
type Loop[T any] struct {
	mailbox *mailbox.Mailbox[T]
	handler BatchHandler[T]
	onError ErrorHandler
	logger  log.Logger
	ctx     context.Context

	subscribed *atomic.Bool

	// mu orders the subscription check of a delivery against Unsubscribe
	// so that Wait never misses a batch that was let through.
	mu       sync.Mutex
	inflight chan struct{}
}

// New creates a Loop consuming the given mailbox and registers it right away.
// A nil onError only logs the handler errors.
func New[T any](mb *mailbox.Mailbox[T], handler BatchHandler[T], onError ErrorHandler, opts ...Option) *Loop[T] {
	cfg := newConfig(opts...)
	loop := &Loop[T]{
		mailbox:    mb,
		handler:    handler,
		onError:    onError,
		logger:     cfg.logger,
		ctx:        cfg.ctx,
		subscribed: atomic.NewBool(true),
	}

	loop.register()
	return loop
}

// Unsubscribe stops the loop from registering again. It does not interrupt
// a batch in flight. Calling it more than once has no further effect.
func (l *Loop[T]) Unsubscribe() {
	l.mu.Lock()
	l.subscribed.Store(false)
	l.mu.Unlock()
}

// Subscribed reports whether the loop still accepts deliveries
func (l *Loop[T]) Subscribed() bool {
	return l.subscribed.Load()
}

// Wait blocks until no batch is in flight or the context is done.
// After Unsubscribe no new batch starts, so a nil return means the loop is drained.
func (l *Loop[T]) Wait(ctx context.Context) error {
	l.mu.Lock()
	inflight := l.inflight
	l.mu.Unlock()

	if inflight == nil {
		return nil
	}

	select {
	case <-inflight:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop[T]) register() {
	l.mailbox.Take(l.deliver)
}

// deliver is the taker registered on the mailbox
func (l *Loop[T]) deliver(batch []T) {
	l.mu.Lock()
	if !l.subscribed.Load() {
		l.mu.Unlock()
		l.logger.Debugf("handing back a batch of %d item(s) delivered after unsubscribe", len(batch))
		l.handBack(batch)
		return
	}
	done := make(chan struct{})
	l.inflight = done
	l.mu.Unlock()

	if err := l.run(batch); err != nil {
		l.report(err)
	}

	l.mu.Lock()
	l.inflight = nil
	l.mu.Unlock()
	close(done)

	if l.subscribed.Load() {
		l.register()
	}
}

// handBack returns the values of a batch the loop no longer processes to the
// mailbox, so that another taker can acknowledge them.
func (l *Loop[T]) handBack(batch []T) {
	for _, value := range batch {
		l.mailbox.Put(value)
	}
}

// run invokes the batch handler and turns a panic into a PanicError
func (l *Loop[T]) run(batch []T) error {
	return safe.Call(func() error {
		return l.handler(l.ctx, batch)
	})
}

func (l *Loop[T]) report(err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Errorf("error handler panicked: %v (handling: %v)", r, err)
		}
	}()

	if l.onError == nil {
		l.logger.Error(err)
		return
	}
	l.onError(err)
}

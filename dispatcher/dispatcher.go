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

package dispatcher

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailroom/errors"
	"github.com/tochemey/mailroom/internal/metric"
	"github.com/tochemey/mailroom/internal/safe"
	"github.com/tochemey/mailroom/internal/validation"
	"github.com/tochemey/mailroom/log"
	"github.com/tochemey/mailroom/mailbox"
	"github.com/tochemey/mailroom/schema"
	"github.com/tochemey/mailroom/supervisor"
)

// Emitter forwards an event produced while processing an action
type Emitter[E any] func(event E)

// Handler processes one action. It may emit any number of events and should
// call finish when the action is complete. The dispatcher calls finish
// again after the handler returns; only the first call has an effect.
type Handler[A, E any] func(ctx context.Context, action A, emit Emitter[E], finish func()) error

// Resolver validates a raw message into an action, upgrading it once when
// it carries a legacy version tag. *schema.Union satisfies it.
type Resolver[A any] interface {
	Resolve(msg schema.Message) (action A, upgraded bool, err error)
}

// Failure describes an item whose handler returned an error or panicked
type Failure struct {
	ID      string
	Action  any
	Message schema.Message
	Err     error
}

// FailureHandler is notified of every failed item
type FailureHandler func(failure Failure)

// Dispatcher validates inbound messages and feeds the resulting actions,
// one at a time, to its handler.
type Dispatcher[A, E any] struct {
	name        string
	handler     Handler[A, E]
	actions     Resolver[A]
	events      schema.Checker[E]
	logger      log.Logger
	metric      *metric.DispatcherMetric
	ctx         context.Context
	gracePeriod time.Duration
	onFailure   FailureHandler

	mailbox *mailbox.Mailbox[*item[A, E]]
	loop    *supervisor.Loop[*item[A, E]]

	// mu orders Accept against Shutdown so that no item is queued once closed is set
	mu     sync.RWMutex
	closed *atomic.Bool
}

// New creates a Dispatcher and starts consuming right away.
func New[A, E any](handler Handler[A, E], actions Resolver[A], events schema.Checker[E], opts ...Option) (*Dispatcher[A, E], error) {
	cfg := newConfig(opts...)

	chain := validation.
		New(validation.AllErrors()).
		AddValidator(validation.NewRequiredValidator(handler != nil, gerrors.ErrUndefinedHandler)).
		AddValidator(validation.NewRequiredValidator(!isNil(actions), gerrors.ErrUndefinedResolver)).
		AddValidator(validation.NewRequiredValidator(!isNil(events), gerrors.ErrUndefinedChecker)).
		AddValidator(validation.NewEmptyStringValidator("name", cfg.name)).
		AddValidator(validation.NewPositiveDurationValidator("grace period", cfg.gracePeriod, gerrors.ErrInvalidGracePeriod)).
		AddAssertion(cfg.meter != nil, "the [meter] is required")
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	dispatcherMetric, err := metric.NewDispatcherMetric(cfg.meter, cfg.name)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger.With("dispatcher", cfg.name)
	d := &Dispatcher[A, E]{
		name:        cfg.name,
		handler:     handler,
		actions:     actions,
		events:      events,
		logger:      logger,
		metric:      dispatcherMetric,
		ctx:         cfg.ctx,
		gracePeriod: cfg.gracePeriod,
		onFailure:   cfg.onFailure,
		mailbox:     mailbox.New[*item[A, E]](),
		closed:      atomic.NewBool(false),
	}

	d.loop = supervisor.New(d.mailbox, d.process, d.report,
		supervisor.WithLogger(logger),
		supervisor.WithContext(cfg.ctx))

	logger.Debug("dispatcher started")
	return d, nil
}

// Name returns the dispatcher name
func (d *Dispatcher[A, E]) Name() string {
	return d.name
}

// Closed reports whether Shutdown has been called
func (d *Dispatcher[A, E]) Closed() bool {
	return d.closed.Load()
}

// Accept validates msg and queues the resulting action.
//
// When msg is rejected, either because it is invalid after one upgrade
// attempt or because the dispatcher is closed, finish is called before
// Accept returns and the cause is returned. Otherwise the action is queued,
// nil is returned and finish is called once the handler is done with it.
// emit receives the valid events produced by the handler.
func (d *Dispatcher[A, E]) Accept(msg schema.Message, emit Emitter[E], finish func()) error {
	done := once(finish)

	action, upgraded, err := d.actions.Resolve(msg)
	if err != nil {
		d.logger.Warnf("rejecting message (%v): %v", msg, err)
		d.metric.Rejected(d.ctx)
		done()
		return err
	}

	d.mu.RLock()
	if d.closed.Load() {
		d.mu.RUnlock()
		d.logger.Warnf("rejecting message (%v): %v", msg, gerrors.ErrDispatcherClosed)
		d.metric.Rejected(d.ctx)
		done()
		return gerrors.ErrDispatcherClosed
	}

	it := newItem(action, msg, emit, done)
	d.mailbox.Put(it)
	d.mu.RUnlock()

	if upgraded {
		d.logger.Debugf("item=(%s) upgraded to the current version", it.id)
		d.metric.Upgraded(d.ctx)
	}
	d.metric.Accepted(d.ctx)
	return nil
}

// Shutdown stops the dispatcher from accepting and consuming actions, then
// waits for the batch in flight up to the grace period or until ctx is done.
// Actions still queued are not processed: their finish is called right away.
// Shutdown can be called more than once; every call waits again.
func (d *Dispatcher[A, E]) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	first := d.closed.CompareAndSwap(false, true)
	d.mu.Unlock()

	if first {
		d.logger.Debug("shutting down dispatcher")
		d.loop.Unsubscribe()
		d.mailbox.Take(d.drop)
	}

	ctx, cancel := context.WithTimeout(ctx, d.gracePeriod)
	defer cancel()

	if err := d.loop.Wait(ctx); err != nil {
		d.logger.Warnf("in-flight actions did not complete within %s", d.gracePeriod)
		return fmt.Errorf("%w: %w", gerrors.ErrShutdownTimeout, err)
	}
	return nil
}

// process is the batch handler of the supervisor loop
func (d *Dispatcher[A, E]) process(ctx context.Context, batch []*item[A, E]) error {
	for _, it := range batch {
		d.handle(ctx, it)
	}
	return nil
}

// handle runs the adapter handler for one item. Whatever happens, the
// item's finish is invoked before the next item starts.
func (d *Dispatcher[A, E]) handle(ctx context.Context, it *item[A, E]) {
	start := time.Now()
	logger := d.logger.With("item", it.id)

	err := safe.Call(func() error {
		return d.handler(ctx, it.action, d.emitter(ctx, it, logger), it.finish)
	})
	if err != nil {
		failure := gerrors.NewHandlerError(it.id, err)
		logger.Errorf("failed to process action=(%T) message=(%v): %v", it.action, it.message, err)
		d.metric.Failed(ctx)
		d.fail(logger, Failure{
			ID:      it.id,
			Action:  it.action,
			Message: it.message,
			Err:     failure,
		})
	}

	d.metric.Processed(ctx, time.Since(start))
	d.complete(logger, it)
}

// drop acknowledges the items left in the mailbox once the dispatcher is
// closed. It stays registered since a batch handed back by the loop can
// arrive after the queued items were drained.
func (d *Dispatcher[A, E]) drop(batch []*item[A, E]) {
	for _, it := range batch {
		logger := d.logger.With("item", it.id)
		logger.Warnf("dropping action=(%T) queued at shutdown", it.action)
		d.metric.Dropped(d.ctx)
		d.complete(logger, it)
	}
	d.mailbox.Take(d.drop)
}

// emitter wraps the item's emit so that only valid events are forwarded
func (d *Dispatcher[A, E]) emitter(ctx context.Context, it *item[A, E], logger log.Logger) Emitter[E] {
	return func(event E) {
		if err := d.events.Check(event); err != nil {
			logger.Warnf("dropping invalid event (%T): %v", event, err)
			d.metric.EventDropped(ctx)
			return
		}
		if it.emit != nil {
			it.emit(event)
		}
	}
}

func (d *Dispatcher[A, E]) fail(logger log.Logger, failure Failure) {
	if d.onFailure == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("failure handler panicked: %v", r)
		}
	}()
	d.onFailure(failure)
}

func (d *Dispatcher[A, E]) complete(logger log.Logger, it *item[A, E]) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("finish callback panicked: %v", r)
		}
	}()
	it.finish()
}

// report receives the errors escaping process. Item failures are handled
// in place, so only a failure of the dispatcher itself lands here.
func (d *Dispatcher[A, E]) report(err error) {
	d.logger.Errorf("batch processing failed: %v", err)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return value.IsNil()
	default:
		return false
	}
}

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
	"time"

	"go.opentelemetry.io/otel/metric"

	imetric "github.com/tochemey/mailroom/internal/metric"
	"github.com/tochemey/mailroom/log"
)

// DefaultGracePeriod is how long Shutdown waits for the batch in flight
const DefaultGracePeriod = 5 * time.Second

const defaultName = "dispatcher"

// Option configures a Dispatcher at creation time.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*config)

// Apply applies the option
func (f OptionFunc) Apply(c *config) {
	f(c)
}

type config struct {
	name          string
	logger        log.Logger
	meter         metric.Meter
	meterProvider metric.MeterProvider
	gracePeriod   time.Duration
	onFailure     FailureHandler
	ctx           context.Context
}

func newConfig(opts ...Option) *config {
	c := &config{
		name:        defaultName,
		logger:      log.DefaultLogger,
		gracePeriod: DefaultGracePeriod,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt.Apply(c)
	}
	if c.meter == nil {
		c.meter = imetric.New(imetric.WithMeterProvider(c.meterProvider)).Meter()
	}
	return c
}

// WithName sets the dispatcher name used in logs, metrics and groups
func WithName(name string) Option {
	return OptionFunc(func(c *config) {
		c.name = name
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMeter sets the otel meter. It takes precedence over WithMeterProvider.
func WithMeter(meter metric.Meter) Option {
	return OptionFunc(func(c *config) {
		c.meter = meter
	})
}

// WithMeterProvider sets the otel meter provider the dispatcher meter comes from.
// The global meter provider is used otherwise.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(c *config) {
		c.meterProvider = provider
	})
}

// WithGracePeriod sets how long Shutdown waits for the batch in flight
func WithGracePeriod(period time.Duration) Option {
	return OptionFunc(func(c *config) {
		c.gracePeriod = period
	})
}

// WithFailureHandler sets the callback invoked for every failed item
func WithFailureHandler(handler FailureHandler) Option {
	return OptionFunc(func(c *config) {
		c.onFailure = handler
	})
}

// WithContext sets the context handed to the adapter handler.
// Cancelling it does not stop the dispatcher; use Shutdown for that.
func WithContext(ctx context.Context) Option {
	return OptionFunc(func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	})
}

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

package metric

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// namingProvider records the instrumentation names it hands meters out for
type namingProvider struct {
	noop.MeterProvider

	mu    sync.Mutex
	names []string
}

func (p *namingProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	p.mu.Lock()
	p.names = append(p.names, name)
	p.mu.Unlock()
	return p.MeterProvider.Meter(name, opts...)
}

func (p *namingProvider) requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...)
}

func TestProvider(t *testing.T) {
	t.Run("With the global meter provider", func(t *testing.T) {
		previous := otel.GetMeterProvider()
		global := new(namingProvider)
		otel.SetMeterProvider(global)
		t.Cleanup(func() { otel.SetMeterProvider(previous) })

		require.NotNil(t, New().Meter())
		// a nil provider keeps the global one
		require.NotNil(t, New(WithMeterProvider(nil)).Meter())
		assert.Equal(t, []string{instrumentationName, instrumentationName}, global.requested())
	})
	t.Run("With a given meter provider feeding the dispatcher metric", func(t *testing.T) {
		custom := new(namingProvider)
		provider := New(WithMeterProvider(custom))
		assert.Equal(t, []string{instrumentationName}, custom.requested())

		dispatcherMetric, err := NewDispatcherMetric(provider.Meter(), "feed")
		require.NoError(t, err)
		assert.NotNil(t, dispatcherMetric)
	})
}

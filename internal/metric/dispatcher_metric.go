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
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const dispatcherAttribute = "dispatcher"

// DispatcherMetric defines the dispatcher instrumentation
type DispatcherMetric struct {
	attributes metric.MeasurementOption

	// Specifies the total number of messages accepted
	acceptedCount metric.Int64Counter
	// Specifies the total number of messages rejected at the boundary
	rejectedCount metric.Int64Counter
	// Specifies the total number of messages upgraded to a newer version
	upgradedCount metric.Int64Counter
	// Specifies the total number of items processed
	processedCount metric.Int64Counter
	// Specifies the total number of items whose handler failed
	failedCount metric.Int64Counter
	// Specifies the total number of queued items dropped at shutdown
	droppedCount metric.Int64Counter
	// Specifies the total number of invalid events dropped
	droppedEventsCount metric.Int64Counter
	// Specifies the processing duration of an item in milliseconds
	processingDuration metric.Int64Histogram
}

// NewDispatcherMetric creates an instance of DispatcherMetric.
// Every measurement carries the dispatcher name as attribute.
func NewDispatcherMetric(meter metric.Meter, name string) (*DispatcherMetric, error) {
	dispatcherMetric := &DispatcherMetric{
		attributes: metric.WithAttributes(attribute.String(dispatcherAttribute, name)),
	}

	var err error
	if dispatcherMetric.acceptedCount, err = meter.Int64Counter(
		"dispatcher_accepted_count",
		metric.WithDescription("Total number of messages accepted"),
	); err != nil {
		return nil, fmt.Errorf("failed to create acceptedCount instrument, %w", err)
	}

	if dispatcherMetric.rejectedCount, err = meter.Int64Counter(
		"dispatcher_rejected_count",
		metric.WithDescription("Total number of messages rejected"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rejectedCount instrument, %w", err)
	}

	if dispatcherMetric.upgradedCount, err = meter.Int64Counter(
		"dispatcher_upgraded_count",
		metric.WithDescription("Total number of messages upgraded to a newer version"),
	); err != nil {
		return nil, fmt.Errorf("failed to create upgradedCount instrument, %w", err)
	}

	if dispatcherMetric.processedCount, err = meter.Int64Counter(
		"dispatcher_processed_count",
		metric.WithDescription("Total number of items processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if dispatcherMetric.failedCount, err = meter.Int64Counter(
		"dispatcher_failed_count",
		metric.WithDescription("Total number of items whose handler failed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failedCount instrument, %w", err)
	}

	if dispatcherMetric.droppedCount, err = meter.Int64Counter(
		"dispatcher_dropped_count",
		metric.WithDescription("Total number of queued items dropped at shutdown"),
	); err != nil {
		return nil, fmt.Errorf("failed to create droppedCount instrument, %w", err)
	}

	if dispatcherMetric.droppedEventsCount, err = meter.Int64Counter(
		"dispatcher_dropped_events_count",
		metric.WithDescription("Total number of invalid events dropped"),
	); err != nil {
		return nil, fmt.Errorf("failed to create droppedEventsCount instrument, %w", err)
	}

	if dispatcherMetric.processingDuration, err = meter.Int64Histogram(
		"dispatcher_processing_duration",
		metric.WithDescription("The processing latency of an item in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processingDuration instrument, %w", err)
	}

	return dispatcherMetric, nil
}

// Accepted records an accepted message
func (x *DispatcherMetric) Accepted(ctx context.Context) {
	x.acceptedCount.Add(ctx, 1, x.attributes)
}

// Rejected records a message rejected before enqueueing
func (x *DispatcherMetric) Rejected(ctx context.Context) {
	x.rejectedCount.Add(ctx, 1, x.attributes)
}

// Upgraded records a message accepted after a version upgrade
func (x *DispatcherMetric) Upgraded(ctx context.Context) {
	x.upgradedCount.Add(ctx, 1, x.attributes)
}

// Processed records a processed item and its latency
func (x *DispatcherMetric) Processed(ctx context.Context, duration time.Duration) {
	x.processedCount.Add(ctx, 1, x.attributes)
	x.processingDuration.Record(ctx, duration.Milliseconds(), x.attributes)
}

// Failed records an item whose handler returned an error or panicked
func (x *DispatcherMetric) Failed(ctx context.Context) {
	x.failedCount.Add(ctx, 1, x.attributes)
}

// Dropped records a queued item acknowledged without processing at shutdown
func (x *DispatcherMetric) Dropped(ctx context.Context) {
	x.droppedCount.Add(ctx, 1, x.attributes)
}

// EventDropped records an invalid event that was not forwarded
func (x *DispatcherMetric) EventDropped(ctx context.Context) {
	x.droppedEventsCount.Add(ctx, 1, x.attributes)
}

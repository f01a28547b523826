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

	"github.com/flowchartsman/retry"
)

// Retry wraps an idempotent handler so that a failing action is run again
// with an exponential backoff between minWait and maxWait, for at most
// maxAttempts attempts in total. The attempts get a no-op finish; the real
// finish is called once, after the last attempt. Events emitted by a failed
// attempt are not taken back.
func Retry[A, E any](handler Handler[A, E], maxAttempts int, minWait, maxWait time.Duration) Handler[A, E] {
	return func(ctx context.Context, action A, emit Emitter[E], finish func()) error {
		defer finish()
		retrier := retry.NewRetrier(maxAttempts, minWait, maxWait)
		return retrier.RunContext(ctx, func(ctx context.Context) error {
			return handler(ctx, action, emit, func() {})
		})
	}
}

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

package oslib

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tochemey/mailroom/log"
)

// ShutdownHook releases the resources of the process once it is interrupted
type ShutdownHook func(ctx context.Context) error

// WaitForInterrupt blocks until one of signals is received, SIGINT and SIGTERM
// by default, then runs hook with ctx. It returns the hook error, or the
// context error when ctx is done before any signal arrives; hook does not
// run in that case.
func WaitForInterrupt(ctx context.Context, logger log.Logger, hook ShutdownHook, signals ...os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	notifier := make(chan os.Signal, 1)
	signal.Notify(notifier, signals...)
	defer signal.Stop(notifier)

	select {
	case sig := <-notifier:
		logger.Infof("received an OS signal (%s) to shutdown", sig.String())
		if hook == nil {
			return nil
		}
		if err := hook(ctx); err != nil {
			logger.Error(err)
			return err
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

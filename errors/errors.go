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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMessage is returned when an inbound message does not match any variant of the action schema.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrUpgradeAmbiguous is returned when a message fails on its discriminant and there is not
	// exactly one variant it can be rewritten to.
	ErrUpgradeAmbiguous = errors.New("ambiguous message upgrade")

	// ErrUpgradeFailed is returned when a rewritten message still fails validation.
	ErrUpgradeFailed = errors.New("message upgrade failed")

	// ErrInvalidEvent is returned when an emitted event does not match the event schema.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidSchema is returned when a schema declaration is inconsistent.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUndefinedHandler is returned when a dispatcher is created without a handler.
	ErrUndefinedHandler = errors.New("handler is not defined")

	// ErrUndefinedResolver is returned when a dispatcher is created without an action schema.
	ErrUndefinedResolver = errors.New("action schema is not defined")

	// ErrUndefinedChecker is returned when a dispatcher is created without an event schema.
	ErrUndefinedChecker = errors.New("event schema is not defined")

	// ErrDispatcherClosed is returned when a message reaches a dispatcher that has been shut down.
	ErrDispatcherClosed = errors.New("dispatcher is closed")

	// ErrShutdownTimeout is returned when in-flight work did not complete within the grace period.
	ErrShutdownTimeout = errors.New("shutdown grace period elapsed")

	// ErrInvalidGracePeriod is returned when the shutdown grace period is not positive.
	ErrInvalidGracePeriod = errors.New("invalid grace period")

	// ErrDispatcherNotFound is returned when a named dispatcher is not part of a group.
	ErrDispatcherNotFound = errors.New("dispatcher not found")

	// ErrDispatcherExists is returned when a name is already taken in a group.
	ErrDispatcherExists = errors.New("dispatcher already exists")
)

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// HandlerError is returned when an adapter handler fails to process a single
// work item. It carries the item identifier for log correlation.
type HandlerError struct {
	id  string
	err error
}

var _ error = (*HandlerError)(nil)

// NewHandlerError creates an instance of HandlerError
func NewHandlerError(id string, err error) *HandlerError {
	return &HandlerError{id: id, err: err}
}

// ID returns the identifier of the failed item
func (e *HandlerError) ID() string {
	return e.id
}

// Error implements the standard error interface
func (e *HandlerError) Error() string {
	return fmt.Sprintf("item=(%s) handler failed: %v", e.id, e.err)
}

func (e *HandlerError) Unwrap() error {
	return e.err
}

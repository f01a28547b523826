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

package schema

import (
	"fmt"
	"reflect"

	goset "github.com/deckarep/golang-set/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	gerrors "github.com/tochemey/mailroom/errors"
)

// Checker validates an outbound event before it leaves the dispatcher
type Checker[E any] interface {
	Check(event E) error
}

// CheckerFunc adapts a function to the Checker interface
type CheckerFunc[E any] func(event E) error

// Check calls f
func (f CheckerFunc[E]) Check(event E) error {
	return f(event)
}

// Tagged is implemented by events that carry their discriminant
type Tagged interface {
	Topic() string
}

// Validatable returns a Checker rejecting nil events and running the
// ozzo-validation rules of events implementing validation.Validatable.
func Validatable[E any]() Checker[E] {
	return CheckerFunc[E](func(event E) error {
		if isNil(event) {
			return fmt.Errorf("%w: nil event", gerrors.ErrInvalidEvent)
		}
		if err := validation.Validate(event); err != nil {
			return fmt.Errorf("%w: %w", gerrors.ErrInvalidEvent, err)
		}
		return nil
	})
}

// Registered returns a Checker accepting only events whose topic is one of
// tags, on top of the Validatable rules.
func Registered[E Tagged](tags ...string) Checker[E] {
	known := goset.NewSet(tags...)
	base := Validatable[E]()
	return CheckerFunc[E](func(event E) error {
		if err := base.Check(event); err != nil {
			return err
		}
		if topic := event.Topic(); !known.Contains(topic) {
			return fmt.Errorf("%w: unknown topic %q", gerrors.ErrInvalidEvent, topic)
		}
		return nil
	})
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

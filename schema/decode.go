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

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"
)

// DecodeOption tunes the decoder built by Decode
type DecodeOption func(*mapstructure.DecoderConfig)

// Strict rejects messages carrying keys the target type does not declare.
func Strict() DecodeOption {
	return func(c *mapstructure.DecoderConfig) {
		c.ErrorUnused = true
	}
}

// WeaklyTyped accepts loosely typed inputs such as "42" for an int field.
func WeaklyTyped() DecodeOption {
	return func(c *mapstructure.DecoderConfig) {
		c.WeaklyTypedInput = true
	}
}

// Decode builds a variant decoder that maps a message onto V using the
// json struct tags of V, validates the result with ozzo-validation when V
// implements validation.Validatable and hands it out as a T.
// V must be assignable to T, which is usually the family's action interface.
func Decode[T any, V any](opts ...DecodeOption) func(Message) (T, error) {
	return func(msg Message) (T, error) {
		var zero T
		var value V

		config := &mapstructure.DecoderConfig{
			Result:  &value,
			TagName: "json",
		}
		for _, opt := range opts {
			opt(config)
		}

		decoder, err := mapstructure.NewDecoder(config)
		if err != nil {
			return zero, err
		}

		if err := decoder.Decode(map[string]any(msg)); err != nil {
			return zero, err
		}

		if err := validation.Validate(value); err != nil {
			return zero, err
		}

		out, ok := any(value).(T)
		if !ok {
			return zero, fmt.Errorf("%T is not a %s", value, reflect.TypeFor[T]())
		}
		return out, nil
	}
}

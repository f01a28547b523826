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
	"errors"
	"fmt"
	"maps"
	"strings"

	goset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/mailroom/errors"
	"github.com/tochemey/mailroom/internal/validation"
)

// DefaultField is the conventional discriminant field
const DefaultField = "topic"

// Message is a raw inbound structured value
type Message map[string]any

// Variant is one tagged shape of a Union.
type Variant[T any] struct {
	// Tag is the discriminant value of the variant
	Tag string
	// Previous is the legacy tag a message can be rewritten from. Optional.
	Previous string
	// Decode turns a message carrying Tag into a T
	Decode func(Message) (T, error)
}

// Union is a discriminated union of variants
type Union[T any] struct {
	field    string
	variants map[string]Variant[T]
	tags     []string
	known    goset.Set[string]
	// legacy tag -> tags it upgrades to, in declaration order
	upgrades map[string][]string
}

// NewUnion creates a Union keyed by field. An empty field defaults to DefaultField.
func NewUnion[T any](field string, variants ...Variant[T]) (*Union[T], error) {
	if field == "" {
		field = DefaultField
	}

	u := &Union[T]{
		field:    field,
		variants: make(map[string]Variant[T], len(variants)),
		tags:     make([]string, 0, len(variants)),
		known:    goset.NewThreadUnsafeSet[string](),
		upgrades: make(map[string][]string),
	}

	chain := validation.New().
		AddAssertion(len(variants) > 0, "a union requires at least one variant")

	for i, variant := range variants {
		chain.AddAssertion(strings.TrimSpace(variant.Tag) != "", fmt.Sprintf("variant #%d has no tag", i)).
			AddAssertion(variant.Decode != nil, fmt.Sprintf("variant %q has no decoder", variant.Tag)).
			AddAssertion(variant.Previous != variant.Tag, fmt.Sprintf("variant %q cannot upgrade from itself", variant.Tag)).
			AddAssertion(!u.known.Contains(variant.Tag), fmt.Sprintf("variant %q is declared twice", variant.Tag))

		u.known.Add(variant.Tag)
		u.tags = append(u.tags, variant.Tag)
		u.variants[variant.Tag] = variant
		if variant.Previous != "" {
			u.upgrades[variant.Previous] = append(u.upgrades[variant.Previous], variant.Tag)
		}
	}

	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidSchema, err)
	}
	return u, nil
}

// MustUnion is like NewUnion but panics on an invalid declaration.
// It is meant for package level schema variables.
func MustUnion[T any](field string, variants ...Variant[T]) *Union[T] {
	u, err := NewUnion(field, variants...)
	if err != nil {
		panic(err)
	}
	return u
}

// Field returns the discriminant field
func (u *Union[T]) Field() string {
	return u.field
}

// Tags returns the variant tags in declaration order
func (u *Union[T]) Tags() []string {
	out := make([]string, len(u.tags))
	copy(out, u.tags)
	return out
}

// Validate decodes msg with the variant named by its discriminant.
// A missing or unknown discriminant yields a *MismatchError; a decode
// failure yields an error wrapping errors.ErrInvalidMessage.
func (u *Union[T]) Validate(msg Message) (T, error) {
	var zero T
	received := msg[u.field]
	tag, ok := received.(string)
	if !ok || !u.known.Contains(tag) {
		return zero, &MismatchError{
			Field:    u.field,
			Received: received,
			Expected: u.candidates(tag),
		}
	}

	value, err := u.variants[tag].Decode(msg)
	if err != nil {
		return zero, fmt.Errorf("%w: variant %q: %w", gerrors.ErrInvalidMessage, tag, err)
	}
	return value, nil
}

// Resolve validates msg and, when it fails on its discriminant only,
// upgrades it once. The boolean reports whether an upgrade happened.
// msg is never modified.
func (u *Union[T]) Resolve(msg Message) (T, bool, error) {
	var zero T
	value, err := u.Validate(msg)
	if err == nil {
		return value, false, nil
	}

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		return zero, false, err
	}

	if len(mismatch.Expected) != 1 {
		return zero, false, fmt.Errorf("%w: %w", gerrors.ErrUpgradeAmbiguous, err)
	}

	target := mismatch.Expected[0]
	upgraded := make(Message, len(msg)+1)
	maps.Copy(upgraded, msg)
	upgraded[u.field] = target

	value, err = u.Validate(upgraded)
	if err != nil {
		return zero, false, fmt.Errorf("%w: %v -> %q: %w", gerrors.ErrUpgradeFailed, mismatch.Received, target, err)
	}
	return value, true, nil
}

// candidates returns the tags a message carrying tag can be rewritten to.
// A single variant union without declared legacy tags accepts any
// discriminant mismatch as an upgrade to its lone tag.
func (u *Union[T]) candidates(tag string) []string {
	if targets, ok := u.upgrades[tag]; ok && tag != "" {
		out := make([]string, len(targets))
		copy(out, targets)
		return out
	}

	if len(u.tags) == 1 && len(u.upgrades) == 0 {
		return []string{u.tags[0]}
	}
	return nil
}

// MismatchError reports a discriminant holding an unexpected value.
// Expected lists the tags the message can be upgraded to.
type MismatchError struct {
	Field    string
	Received any
	Expected []string
}

var _ error = (*MismatchError)(nil)

// Error implements the standard error interface
func (e *MismatchError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, tag := range e.Expected {
		expected[i] = fmt.Sprintf("%q", tag)
	}

	switch len(expected) {
	case 0:
		return fmt.Sprintf("invalid value at %q: received %#v, no known upgrade", e.Field, e.Received)
	default:
		return fmt.Sprintf("invalid literal value at %q: expected %s, received %#v", e.Field, strings.Join(expected, " | "), e.Received)
	}
}

// Unwrap makes every mismatch an errors.ErrInvalidMessage
func (e *MismatchError) Unwrap() error {
	return gerrors.ErrInvalidMessage
}

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

package mailbox

import (
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/tochemey/mailroom/internal/queue"
)

const (
	// idle means no goroutine is draining the operations
	idle int32 = iota
	// busy means a goroutine is draining the operations
	busy
)

// Taker consumes one batch of values. It runs on its own goroutine and the
// mailbox never waits for it to return.
type Taker[T any] func(batch []T)

// operation is either a put (taker == nil) or a take
type operation[T any] struct {
	value T
	taker Taker[T]
}

// Mailbox is a coalescing two-queue rendezvous.
//
// The zero value is not ready for use; always construct via New.
type Mailbox[T any] struct {
	operations *queue.Mpsc[operation[T]]
	processing atomic.Int32

	// owned by the drain goroutine
	values      []T
	takers      []Taker[T]
	dispatching bool
}

// New creates an instance of Mailbox
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{
		operations: queue.NewMpsc[operation[T]](),
	}
}

// Put appends the given value to the pending batch and attempts a hand-off.
// The zero value of T is a valid value and can be used as a bare signal.
func (m *Mailbox[T]) Put(value T) {
	m.operations.Push(operation[T]{value: value})
	m.process()
}

// Take registers a taker for the next batch and attempts a hand-off.
// A nil taker is ignored.
func (m *Mailbox[T]) Take(taker Taker[T]) {
	if taker == nil {
		return
	}
	m.operations.Push(operation[T]{taker: taker})
	m.process()
}

// process drains the recorded operations on a single goroutine.
// Only a transition from idle to busy starts a drain goroutine.
func (m *Mailbox[T]) process() {
	if !m.processing.CompareAndSwap(idle, busy) {
		return
	}

	go func() {
		for {
			if op, ok := m.operations.Pop(); ok {
				m.apply(op)
				m.tick()
				continue
			}

			m.processing.Store(idle)

			// a producer may have recorded an operation after the last Pop
			if !m.operations.IsEmpty() && m.processing.CompareAndSwap(idle, busy) {
				runtime.Gosched()
				continue
			}
			return
		}
	}()
}

func (m *Mailbox[T]) apply(op operation[T]) {
	if op.taker != nil {
		m.takers = append(m.takers, op.taker)
		return
	}
	m.values = append(m.values, op.value)
}

// tick hands the pending batch to the pending takers.
// It loops to pick up anything that accumulated while takers were started.
func (m *Mailbox[T]) tick() {
	for {
		if m.dispatching {
			return
		}

		if len(m.values) == 0 || len(m.takers) == 0 {
			return
		}

		m.dispatching = true
		batch, takers := m.values, m.takers
		m.values, m.takers = nil, nil

		for i, taker := range takers {
			delivered := batch
			if i > 0 {
				// every taker owns its slice
				delivered = slices.Clone(batch)
			}
			go taker(delivered)
		}

		m.dispatching = false
	}
}

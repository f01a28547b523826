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

package queue

import (
	"sync/atomic"
)

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Mpsc is an unbounded Multi-Producer-Single-Consumer FIFO queue.
// Push is lock-free and safe from any goroutine. Pop, Len and IsEmpty
// belong to the single consumer at a time; handing the consumer role over
// must go through a happens-before edge (an atomic flag or a channel).
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type Mpsc[T any] struct {
	// producers swap the tail
	tail atomic.Pointer[node[T]]
	// the consumer walks from the head sentinel
	head   *node[T]
	length atomic.Int64
}

// NewMpsc creates an instance of Mpsc
func NewMpsc[T any]() *Mpsc[T] {
	sentinel := new(node[T])
	q := &Mpsc[T]{head: sentinel}
	q.tail.Store(sentinel)
	return q
}

// Push appends the value at the back of the queue. It never blocks.
func (q *Mpsc[T]) Push(value T) {
	n := &node[T]{value: value}
	previous := q.tail.Swap(n)
	q.length.Add(1)
	previous.next.Store(n)
}

// Pop removes the value at the front of the queue.
// Returns false when the queue is empty or when a producer has swapped
// the tail but not linked its node yet.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.head.next.Load()
	if next == nil {
		return zero, false
	}

	q.head = next
	value := next.value
	next.value = zero
	q.length.Add(-1)
	return value, true
}

// Len returns the number of values pushed and not popped yet
func (q *Mpsc[T]) Len() int64 {
	return q.length.Load()
}

// IsEmpty reports whether a Push is pending consumption.
// It also reports false while a producer is linking its node, so a
// consumer that sees false may retry Pop.
func (q *Mpsc[T]) IsEmpty() bool {
	return q.length.Load() == 0
}

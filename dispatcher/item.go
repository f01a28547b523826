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
	"sync"

	"github.com/google/uuid"

	"github.com/tochemey/mailroom/schema"
)

// item is a unit of work: one validated action and its completion callback
type item[A, E any] struct {
	id      string
	action  A
	message schema.Message
	emit    Emitter[E]
	finish  func()
}

// newItem expects finish to be guarded by once already
func newItem[A, E any](action A, message schema.Message, emit Emitter[E], finish func()) *item[A, E] {
	return &item[A, E]{
		id:      uuid.NewString(),
		action:  action,
		message: message,
		emit:    emit,
		finish:  finish,
	}
}

// once makes finish safe to call from both the handler and the dispatcher
func once(finish func()) func() {
	if finish == nil {
		return func() {}
	}
	return sync.OnceFunc(finish)
}

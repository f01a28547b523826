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
	"github.com/tochemey/mailroom/eventstream"
	"github.com/tochemey/mailroom/schema"
)

// StreamEmitter publishes every event on the given topic of stream
func StreamEmitter[E any](stream *eventstream.Stream, topic string) Emitter[E] {
	return func(event E) {
		stream.Publish(topic, event)
	}
}

// TaggedEmitter publishes every event on the topic named by the event itself
func TaggedEmitter[E schema.Tagged](stream *eventstream.Stream) Emitter[E] {
	return func(event E) {
		stream.Publish(event.Topic(), event)
	}
}

// Discard is an Emitter dropping every event
func Discard[E any]() Emitter[E] {
	return func(E) {}
}

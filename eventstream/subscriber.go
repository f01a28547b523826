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

package eventstream

import (
	goset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/mailroom/internal/queue"
)

// Subscriber receives the messages published on the topics it subscribed to
type Subscriber interface {
	// ID returns the subscriber id
	ID() string
	// Active reports whether the subscriber still receives messages
	Active() bool
	// Topics returns the topics the subscriber is subscribed to
	Topics() []string
	// Iterator drains the messages received so far into a closed channel
	Iterator() chan *Message
	// Shutdown stops the subscriber from receiving messages
	Shutdown()

	signal(message *Message)
	subscribe(topic string)
	unsubscribe(topic string)
}

type subscriber struct {
	id       string
	messages *queue.Mpsc[*Message]
	topics   goset.Set[string]
	active   *atomic.Bool
}

var _ Subscriber = (*subscriber)(nil)

func newSubscriber() *subscriber {
	return &subscriber{
		id:       uuid.NewString(),
		messages: queue.NewMpsc[*Message](),
		topics:   goset.NewSet[string](),
		active:   atomic.NewBool(true),
	}
}

// ID return subscriber id
func (x *subscriber) ID() string {
	return x.id
}

// Active checks whether the subscriber is active
func (x *subscriber) Active() bool {
	return x.active.Load()
}

// Topics returns the list of topics the subscriber has subscribed to
func (x *subscriber) Topics() []string {
	return x.topics.ToSlice()
}

// Shutdown shutdowns the subscriber
func (x *subscriber) Shutdown() {
	x.active.Store(false)
}

// Iterator must be called from a single goroutine at a time.
func (x *subscriber) Iterator() chan *Message {
	out := make(chan *Message, x.messages.Len())
	for x.active.Load() && len(out) < cap(out) {
		msg, ok := x.messages.Pop()
		if !ok {
			break
		}
		out <- msg
	}
	close(out)
	return out
}

// signal only enqueues while active
func (x *subscriber) signal(message *Message) {
	if x.active.Load() {
		x.messages.Push(message)
	}
}

func (x *subscriber) subscribe(topic string) {
	x.topics.Add(topic)
}

func (x *subscriber) unsubscribe(topic string) {
	x.topics.Remove(topic)
}

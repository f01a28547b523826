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
	"github.com/tochemey/mailroom/internal/xsync"
)

// Stream is a topic based broker for the events emitted by adapters
type Stream struct {
	subscribers *xsync.Map[string, Subscriber]
	topics      *xsync.Map[string, *xsync.Map[string, Subscriber]]
}

// New creates an instance of Stream
func New() *Stream {
	return &Stream{
		subscribers: xsync.NewMap[string, Subscriber](),
		topics:      xsync.NewMap[string, *xsync.Map[string, Subscriber]](),
	}
}

// AddSubscriber adds a subscriber
func (b *Stream) AddSubscriber() Subscriber {
	subscriber := newSubscriber()
	b.subscribers.Set(subscriber.ID(), subscriber)
	return subscriber
}

// RemoveSubscriber unsubscribes sub from all its topics and shuts it down
func (b *Stream) RemoveSubscriber(sub Subscriber) {
	for _, topic := range sub.Topics() {
		b.Unsubscribe(sub, topic)
	}
	b.subscribers.Delete(sub.ID())
	sub.Shutdown()
}

// SubscribersCount returns the number of subscribers for a given topic
func (b *Stream) SubscribersCount(topic string) int {
	if subscribers, ok := b.topics.Get(topic); ok {
		return subscribers.Len()
	}
	return 0
}

// Subscribe subscribes an active subscriber to a topic
func (b *Stream) Subscribe(subscriber Subscriber, topic string) {
	if !subscriber.Active() {
		return
	}

	subscriber.subscribe(topic)
	subscribers := b.topics.GetOrSet(topic, xsync.NewMap[string, Subscriber]())
	subscribers.Set(subscriber.ID(), subscriber)
}

// Unsubscribe removes a subscriber from a topic
func (b *Stream) Unsubscribe(subscriber Subscriber, topic string) {
	subscriber.unsubscribe(topic)
	if subscribers, ok := b.topics.Get(topic); ok {
		subscribers.Delete(subscriber.ID())
	}
}

// Publish delivers payload to the active subscribers of topic.
// Delivery is synchronous so the messages published by one goroutine keep their order.
func (b *Stream) Publish(topic string, payload any) {
	subscribers, ok := b.topics.Get(topic)
	if !ok || subscribers.Len() == 0 {
		return
	}

	message := NewMessage(topic, payload)
	subscribers.Range(func(_ string, sub Subscriber) {
		if sub.Active() {
			sub.signal(message)
		}
	})
}

// Close shuts every subscriber down and forgets all topics
func (b *Stream) Close() {
	for _, subscriber := range b.subscribers.Values() {
		subscriber.Shutdown()
	}
	b.subscribers.Reset()
	b.topics.Reset()
}

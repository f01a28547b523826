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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects batches delivered to its takers
type recorder[T any] struct {
	batches chan []T
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{batches: make(chan []T, 64)}
}

func (r *recorder[T]) take(batch []T) {
	r.batches <- batch
}

func (r *recorder[T]) next(t *testing.T) []T {
	t.Helper()
	select {
	case batch := <-r.batches:
		return batch
	case <-time.After(time.Second):
		require.FailNow(t, "no batch delivered")
		return nil
	}
}

func (r *recorder[T]) none(t *testing.T) {
	t.Helper()
	select {
	case batch := <-r.batches:
		require.FailNowf(t, "unexpected delivery", "%v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMailbox(t *testing.T) {
	t.Run("With values put before the taker delivered as one batch", func(t *testing.T) {
		mailbox := New[string]()
		rec := newRecorder[string]()

		mailbox.Put("one")
		mailbox.Put("two")
		mailbox.Take(rec.take)

		assert.Equal(t, []string{"one", "two"}, rec.next(t))
		rec.none(t)
	})

	t.Run("With a taker registered before the value", func(t *testing.T) {
		mailbox := New[int]()
		rec := newRecorder[int]()

		mailbox.Take(rec.take)
		rec.none(t)

		mailbox.Put(1)
		assert.Equal(t, []int{1}, rec.next(t))
	})

	t.Run("With bare signals and a single registration", func(t *testing.T) {
		mailbox := New[*string]()
		rec := newRecorder[*string]()

		mailbox.Put(nil)
		mailbox.Put(nil)
		mailbox.Take(rec.take)
		assert.Equal(t, []*string{nil, nil}, rec.next(t))

		// a taker fires once per registration
		mailbox.Put(nil)
		rec.none(t)

		// the pending signal waits for the next registration
		mailbox.Take(rec.take)
		assert.Equal(t, []*string{nil}, rec.next(t))
	})

	t.Run("With nil taker ignored", func(t *testing.T) {
		mailbox := New[int]()
		rec := newRecorder[int]()

		mailbox.Take(nil)
		mailbox.Put(1)
		mailbox.Take(rec.take)
		assert.Equal(t, []int{1}, rec.next(t))
	})

	t.Run("With every pending taker receiving the same batch", func(t *testing.T) {
		mailbox := New[int]()
		first := newRecorder[int]()
		second := newRecorder[int]()

		mailbox.Take(first.take)
		mailbox.Take(second.take)
		mailbox.Put(7)

		assert.Equal(t, []int{7}, first.next(t))
		assert.Equal(t, []int{7}, second.next(t))
	})

	t.Run("With values put during delivery starting a new batch", func(t *testing.T) {
		mailbox := New[int]()
		second := newRecorder[int]()
		first := make(chan []int, 1)
		release := make(chan struct{})

		mailbox.Take(func(batch []int) {
			first <- batch
			<-release
		})
		mailbox.Put(1)

		require.Equal(t, []int{1}, <-first)

		// the first taker is still running
		mailbox.Put(2)
		mailbox.Put(3)
		mailbox.Take(second.take)
		assert.Equal(t, []int{2, 3}, second.next(t))
		close(release)
	})

	// A taker that registers another taker while it runs gets the next
	// batch through a fresh tick, without waiting for the first taker.
	t.Run("With a taker re-registering from inside its delivery", func(t *testing.T) {
		mailbox := New[int]()
		rec := newRecorder[int]()
		done := make(chan struct{})

		mailbox.Take(func(batch []int) {
			rec.take(batch)
			mailbox.Take(rec.take)
			<-done
		})

		mailbox.Put(1)
		assert.Equal(t, []int{1}, rec.next(t))

		mailbox.Put(2)
		assert.Equal(t, []int{2}, rec.next(t))
		close(done)
	})

	t.Run("With concurrent producers no value is lost or duplicated", func(t *testing.T) {
		mailbox := New[int]()
		producers, perProducer := 8, 250
		total := producers * perProducer

		var wg sync.WaitGroup
		wg.Add(producers)
		for p := 0; p < producers; p++ {
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					mailbox.Put(p*perProducer + i)
				}
			}(p)
		}

		rec := newRecorder[int]()
		seen := make(map[int]int, total)
		for len(seen) < total {
			mailbox.Take(rec.take)
			for _, v := range rec.next(t) {
				seen[v]++
			}
		}
		wg.Wait()

		require.Len(t, seen, total)
		for v, count := range seen {
			require.Equalf(t, 1, count, "value %d delivered %d times", v, count)
		}
	})
}

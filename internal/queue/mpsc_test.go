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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMpsc(t *testing.T) {
	t.Run("With Push/Pop", func(t *testing.T) {
		q := NewMpsc[int]()
		require.True(t, q.IsEmpty())
		for j := 0; j < 100; j++ {
			require.Zero(t, q.Len())
			_, ok := q.Pop()
			require.False(t, ok)

			for i := 0; i < j; i++ {
				q.Push(i)
			}

			for i := 0; i < j; i++ {
				x, ok := q.Pop()
				require.True(t, ok)
				require.Equal(t, i, x)
			}
		}

		a, r := 0, 0
		for j := 0; j < 100; j++ {
			for i := 0; i < 4; i++ {
				q.Push(a)
				a++
			}

			for i := 0; i < 2; i++ {
				x, ok := q.Pop()
				require.True(t, ok)
				require.Equal(t, r, x)
				r++
			}
		}

		assert.EqualValues(t, 200, q.Len())
		assert.False(t, q.IsEmpty())
	})

	t.Run("With zero values", func(t *testing.T) {
		q := NewMpsc[*string]()
		q.Push(nil)
		q.Push(nil)
		require.EqualValues(t, 2, q.Len())

		v, ok := q.Pop()
		require.True(t, ok)
		require.Nil(t, v)
		v, ok = q.Pop()
		require.True(t, ok)
		require.Nil(t, v)
		require.True(t, q.IsEmpty())
	})

	t.Run("With concurrent producers", func(t *testing.T) {
		q := NewMpsc[int]()
		producers, perProducer := 8, 500

		var wg sync.WaitGroup
		wg.Add(producers)
		for p := 0; p < producers; p++ {
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					q.Push(p*perProducer + i)
				}
			}(p)
		}
		wg.Wait()

		seen := make(map[int]struct{}, producers*perProducer)
		last := make(map[int]int, producers)
		for {
			v, ok := q.Pop()
			if !ok {
				break
			}
			producer := v / perProducer
			if prev, exists := last[producer]; exists {
				require.Greater(t, v, prev, "per producer order must hold")
			}
			last[producer] = v
			seen[v] = struct{}{}
		}

		assert.Len(t, seen, producers*perProducer)
		assert.True(t, q.IsEmpty())
	})
}

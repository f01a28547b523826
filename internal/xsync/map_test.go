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

package xsync

import (
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("With Set and Get", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("a", 2)

		value, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, value)

		_, ok = m.Get("b")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())
	})
	t.Run("With SetIfAbsent and GetOrSet", func(t *testing.T) {
		m := NewMap[string, int]()
		assert.True(t, m.SetIfAbsent("a", 1))
		assert.False(t, m.SetIfAbsent("a", 2))
		assert.Equal(t, 1, m.GetOrSet("a", 3))
		assert.Equal(t, 4, m.GetOrSet("b", 4))
		assert.Equal(t, 2, m.Len())
	})
	t.Run("With Delete, Pop and Reset", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)
		m.Set("c", 3)

		m.Delete("a")
		value, ok := m.Pop("b")
		require.True(t, ok)
		assert.Equal(t, 2, value)
		_, ok = m.Pop("b")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())

		m.Reset()
		assert.Zero(t, m.Len())
	})
	t.Run("With Keys, Values and Range", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)

		keys := m.Keys()
		sort.Strings(keys)
		assert.Equal(t, []string{"a", "b"}, keys)

		values := m.Values()
		sort.Ints(values)
		assert.Equal(t, []int{1, 2}, values)

		sum := 0
		m.Range(func(k string, v int) {
			// re-entrant access must not deadlock
			m.Set(k+k, v)
			sum += v
		})
		assert.Equal(t, 3, sum)
		assert.Equal(t, 4, m.Len())
	})
	t.Run("With concurrent writers", func(t *testing.T) {
		m := NewMap[string, int]()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				m.Set(strconv.Itoa(i), i)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 50, m.Len())
	})
}

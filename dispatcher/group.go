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
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/mailroom/errors"
	"github.com/tochemey/mailroom/internal/xsync"
)

// Node is the part of a Dispatcher a Group manages, whatever its action and event types
type Node interface {
	Name() string
	Shutdown(ctx context.Context) error
}

var _ Node = (*Dispatcher[any, any])(nil)

// Group holds the dispatchers of a process, one per adapter, by name
type Group struct {
	nodes *xsync.Map[string, Node]
}

// NewGroup creates an empty Group
func NewGroup() *Group {
	return &Group{
		nodes: xsync.NewMap[string, Node](),
	}
}

// Add registers node under its name
func (g *Group) Add(node Node) error {
	if !g.nodes.SetIfAbsent(node.Name(), node) {
		return fmt.Errorf("%w: %s", gerrors.ErrDispatcherExists, node.Name())
	}
	return nil
}

// Get returns the node registered under name
func (g *Group) Get(name string) (Node, bool) {
	return g.nodes.Get(name)
}

// Remove forgets the node registered under name without shutting it down
func (g *Group) Remove(name string) (Node, error) {
	node, ok := g.nodes.Pop(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrDispatcherNotFound, name)
	}
	return node, nil
}

// Len returns the number of nodes
func (g *Group) Len() int {
	return g.nodes.Len()
}

// Names returns the sorted node names
func (g *Group) Names() []string {
	names := g.nodes.Keys()
	sort.Strings(names)
	return names
}

// Shutdown shuts every node down concurrently and returns the combined errors.
// The nodes stay registered.
func (g *Group) Shutdown(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs error
		eg   errgroup.Group
	)

	for _, node := range g.nodes.Values() {
		eg.Go(func() error {
			if err := node.Shutdown(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("dispatcher=(%s): %w", node.Name(), err))
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return errs
}

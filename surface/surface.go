// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package surface defines the rendering surface the loader mounts extensions
// into, together with a concurrency-safe in-memory element tree.
//
// In a browser host a Container is a DOM element. The loader only needs to
// attach and detach named children, so any tree of identified nodes works.
package surface

import (
	"errors"
	"sync"
)

var (
	// ErrNilChild is returned when a nil child is attached or detached.
	ErrNilChild = errors.New("child is nil")
	// ErrNotAChild is returned when removing a node that is not a child of the container.
	ErrNotAChild = errors.New("node is not a child of this container")
	// ErrCycle is returned when a container is attached to itself.
	ErrCycle = errors.New("container cannot be attached to itself")
)

// Container is a node of the rendering surface that hosts child nodes.
type Container interface {
	// ID returns the node identifier. Ids of the children of one container
	// are expected to be unique.
	ID() string
	// Children returns a snapshot of the attached children in attachment order.
	Children() []Container
	// AppendChild attaches child as the last child of the container.
	AppendChild(child Container) error
	// RemoveChild detaches child from the container.
	RemoveChild(child Container) error
}

// Document creates detached nodes for a rendering surface.
type Document interface {
	// CreateElement returns a new detached container carrying the given id.
	CreateElement(id string) Container
}

// FindChild returns the first direct child of parent carrying the given id.
func FindChild(parent Container, id string) (Container, bool) {
	if parent == nil {
		return nil, false
	}
	for _, child := range parent.Children() {
		if child != nil && child.ID() == id {
			return child, true
		}
	}
	return nil, false
}

// Element is an in-memory Container.
type Element struct {
	mu       sync.RWMutex
	id       string
	parent   *Element
	children []Container
}

var _ Container = (*Element)(nil)

// NewElement creates a detached Element
func NewElement(id string) *Element {
	return &Element{id: id}
}

// ID returns the element id
func (e *Element) ID() string {
	return e.id
}

// Children returns a snapshot of the element children
func (e *Element) Children() []Container {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Container, len(e.children))
	copy(out, e.children)
	return out
}

// AppendChild attaches child to the element. An Element child already
// attached elsewhere is moved, as a DOM element would be.
func (e *Element) AppendChild(child Container) error {
	if child == nil {
		return ErrNilChild
	}

	if elem, ok := child.(*Element); ok {
		if elem == e {
			return ErrCycle
		}
		if prev := elem.parentElement(); prev != nil {
			_ = prev.RemoveChild(elem)
		}
		elem.setParent(e)
	}

	e.mu.Lock()
	e.children = append(e.children, child)
	e.mu.Unlock()
	return nil
}

// RemoveChild detaches child from the element
func (e *Element) RemoveChild(child Container) error {
	if child == nil {
		return ErrNilChild
	}

	e.mu.Lock()
	index := -1
	for i, c := range e.children {
		if c == child {
			index = i
			break
		}
	}
	if index < 0 {
		e.mu.Unlock()
		return ErrNotAChild
	}
	e.children = append(e.children[:index], e.children[index+1:]...)
	e.mu.Unlock()

	if elem, ok := child.(*Element); ok {
		elem.setParent(nil)
	}
	return nil
}

// Remove detaches the element from its parent, if any.
func (e *Element) Remove() {
	if parent := e.parentElement(); parent != nil {
		_ = parent.RemoveChild(e)
	}
}

// Parent returns the element the receiver is attached to, or nil.
func (e *Element) Parent() *Element {
	return e.parentElement()
}

func (e *Element) parentElement() *Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parent
}

func (e *Element) setParent(parent *Element) {
	e.mu.Lock()
	e.parent = parent
	e.mu.Unlock()
}

// MemoryDocument creates in-memory Elements.
type MemoryDocument struct{}

var _ Document = MemoryDocument{}

// NewDocument returns a Document producing in-memory Elements
func NewDocument() Document {
	return MemoryDocument{}
}

// CreateElement returns a new detached Element
func (MemoryDocument) CreateElement(id string) Container {
	return NewElement(id)
}

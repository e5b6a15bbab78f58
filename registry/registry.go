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

// Package registry implements the extension registry: the store of every
// registered extension descriptor, answering which extensions apply to a slot
// at a given location.
//
// A Registry is created by the host shell at bootstrap and passed to whatever
// needs it. There is no package-level instance.
package registry

import (
	"sync"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/log"
)

// Registry holds the registered extension descriptors
type Registry interface {
	// RegisterExtensionPoint inserts the descriptor or replaces the one
	// registered under the same slot and app name. Invalid descriptors are
	// logged and ignored.
	RegisterExtensionPoint(descriptor extension.Descriptor)
	// RegisterExtensionPoints registers the descriptors in order; later
	// entries override earlier ones with the same identity.
	RegisterExtensionPoints(descriptors []extension.Descriptor)
	// DeregisterExtensionPoint removes the descriptor of appName in slot and
	// reports whether one was registered. Mounted instances are left alone.
	DeregisterExtensionPoint(slot, appName string) bool
	// GetExtensionPoints returns a copy of every descriptor in registration order.
	GetExtensionPoints() []extension.Descriptor
	// GetMatchingExtensions returns, in registration order, the descriptors
	// mounting in slot whose predicate is active for loc.
	GetMatchingExtensions(slot string, loc extension.Location) []extension.Descriptor
	// Slots returns the distinct slot names in first-registration order.
	Slots() []string
	// Len returns the number of registered descriptors.
	Len() int
	// Reset drops every descriptor.
	Reset()
}

type registry struct {
	mu          sync.RWMutex
	descriptors []extension.Descriptor
	index       map[extension.ID]int
	logger      log.Logger
}

var _ Registry = (*registry)(nil)

// New creates a Registry
func New(opts ...Option) Registry {
	r := &registry{
		index:  make(map[extension.ID]int),
		logger: log.DefaultLogger,
	}
	for _, opt := range opts {
		opt.Apply(r)
	}
	return r
}

// RegisterExtensionPoint inserts or replaces a descriptor. A replaced
// descriptor keeps the position of the one it replaces.
func (r *registry) RegisterExtensionPoint(descriptor extension.Descriptor) {
	if err := descriptor.Validate(); err != nil {
		r.logger.Warnf("Ignoring extension (app=%s, slot=%s): %v", descriptor.AppName, descriptor.MountsIn, err)
		return
	}

	descriptor = descriptor.Clone()
	if descriptor.ActiveWhen == nil {
		descriptor.ActiveWhen = extension.Always()
	}

	id := descriptor.ID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if pos, ok := r.index[id]; ok {
		r.descriptors[pos] = descriptor
		r.logger.Debugf("Extension (%s) replaced.", id.String())
		return
	}

	r.index[id] = len(r.descriptors)
	r.descriptors = append(r.descriptors, descriptor)
	r.logger.Debugf("Extension (%s) registered.", id.String())
}

// RegisterExtensionPoints registers the descriptors in order
func (r *registry) RegisterExtensionPoints(descriptors []extension.Descriptor) {
	for _, descriptor := range descriptors {
		r.RegisterExtensionPoint(descriptor)
	}
}

// DeregisterExtensionPoint removes a descriptor
func (r *registry) DeregisterExtensionPoint(slot, appName string) bool {
	id := extension.ID{Slot: slot, AppName: appName}

	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[id]
	if !ok {
		return false
	}

	r.descriptors = append(r.descriptors[:pos], r.descriptors[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.descriptors); i++ {
		r.index[r.descriptors[i].ID()] = i
	}
	r.logger.Debugf("Extension (%s) deregistered.", id.String())
	return true
}

// GetExtensionPoints returns a snapshot of the registered descriptors
func (r *registry) GetExtensionPoints() []extension.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]extension.Descriptor, len(r.descriptors))
	for i, descriptor := range r.descriptors {
		out[i] = descriptor.Clone()
	}
	return out
}

// GetMatchingExtensions filters the descriptors of slot active at loc.
// Predicates run outside the lock so they cannot stall registrations.
func (r *registry) GetMatchingExtensions(slot string, loc extension.Location) []extension.Descriptor {
	r.mu.RLock()
	candidates := make([]extension.Descriptor, 0, len(r.descriptors))
	for _, descriptor := range r.descriptors {
		if descriptor.MountsIn == slot {
			candidates = append(candidates, descriptor.Clone())
		}
	}
	r.mu.RUnlock()

	matches := candidates[:0]
	for _, descriptor := range candidates {
		if r.isActive(descriptor, loc) {
			matches = append(matches, descriptor)
		}
	}
	return matches
}

// Slots returns the distinct slot names
func (r *registry) Slots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	slots := make([]string, 0)
	for _, descriptor := range r.descriptors {
		if _, ok := seen[descriptor.MountsIn]; ok {
			continue
		}
		seen[descriptor.MountsIn] = struct{}{}
		slots = append(slots, descriptor.MountsIn)
	}
	return slots
}

// Len returns the number of registered descriptors
func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Reset drops every descriptor
func (r *registry) Reset() {
	r.mu.Lock()
	r.descriptors = nil
	clear(r.index)
	r.mu.Unlock()
}

// isActive evaluates the descriptor predicate. A panicking predicate only
// disqualifies its own descriptor.
func (r *registry) isActive(descriptor extension.Descriptor, loc extension.Location) (active bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Warnf("Extension (%s) activity check failed: %v", descriptor.ID().String(), gerrors.NewPanicError(recovered))
			active = false
		}
	}()
	return descriptor.IsActive(loc)
}

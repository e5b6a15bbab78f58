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

package extension

import (
	"context"

	"github.com/tochemey/goslot/log"
	"github.com/tochemey/goslot/surface"
)

// Module is a loaded extension implementation: whatever renders the
// extension into the container it is given.
type Module interface {
	// Mount renders the module into props.Container.
	Mount(ctx context.Context, props MountProps) error
	// Unmount releases everything Mount attached.
	Unmount(ctx context.Context, props MountProps) error
}

// ModuleFactory asynchronously resolves the module of an extension.
// The runtime invokes it lazily, only when an instance is mounted.
type ModuleFactory func(ctx context.Context) (Module, error)

// StaticFactory returns a ModuleFactory resolving to module.
func StaticFactory(module Module) ModuleFactory {
	return func(context.Context) (Module, error) {
		return module, nil
	}
}

// EventBus publishes host events to interested subscribers.
type EventBus interface {
	Publish(topic string, msg any)
}

// RootContext bundles the shared services handed to every mounted instance.
// It is read-only from the point of view of extensions.
type RootContext struct {
	// Logger is the host logger
	Logger log.Logger
	// Events is the host event bus
	Events EventBus
	// Services holds any other host service keyed by name
	Services map[string]any
}

// Service returns the named host service.
func (r RootContext) Service(name string) (any, bool) {
	if r.Services == nil {
		return nil, false
	}
	svc, ok := r.Services[name]
	return svc, ok
}

// MountProps is what a mounted module receives.
type MountProps struct {
	// Name is the app name of the extension
	Name string
	// Key identifies the instance being mounted
	Key InstanceKey
	// Container is the node created for this instance
	Container surface.Container
	// UILib is the rendering capability tag of the extension
	UILib string
	// Root carries the host shared services
	Root RootContext
	// Extra carries host-specific values passed through untouched
	Extra map[string]any
}

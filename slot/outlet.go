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

// Package slot drives the extensions of one slot rendered inside one parent
// container of the host shell.
package slot

import (
	"context"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/loader"
	"github.com/tochemey/goslot/log"
	"github.com/tochemey/goslot/registry"
	"github.com/tochemey/goslot/surface"
)

// Outlet reconciles the extensions matching a slot with the instances
// mounted inside its parent container, on every navigation.
type Outlet struct {
	name       string
	parentName string
	container  surface.Container
	registry   registry.Registry
	loader     *loader.Loader

	logger              log.Logger
	root                extension.RootContext
	maxConcurrentMounts int

	mu sync.Mutex
	// mounted holds the app names of the live instances, in match order
	mounted []string
}

// New creates an Outlet rendering the extensions of slot name into container,
// whose parent name identifies the instances it owns.
func New(name, parentName string, container surface.Container, reg registry.Registry, ld *loader.Loader, opts ...Option) *Outlet {
	o := &Outlet{
		name:       name,
		parentName: parentName,
		container:  container,
		registry:   reg,
		loader:     ld,
		logger:     log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(o)
	}

	if o.root.Logger == nil {
		o.root.Logger = o.logger
	}
	if o.root.Events == nil {
		o.root.Events = ld.Events()
	}
	return o
}

// Name returns the slot name
func (o *Outlet) Name() string {
	return o.name
}

// ParentName returns the name of the parent container
func (o *Outlet) ParentName() string {
	return o.parentName
}

// Render brings the outlet in line with loc: instances that stopped matching
// are unloaded in reverse mount order, then newly matching extensions are
// loaded concurrently. Render returns once every load is done.
func (o *Outlet) Render(ctx context.Context, loc extension.Location) {
	o.mu.Lock()
	defer o.mu.Unlock()

	matches := o.registry.GetMatchingExtensions(o.name, loc)
	wanted := goset.NewThreadUnsafeSet[string]()
	for _, descriptor := range matches {
		wanted.Add(descriptor.AppName)
	}

	stale := goset.NewThreadUnsafeSet[string](o.mounted...).Difference(wanted)
	for i := len(o.mounted) - 1; i >= 0; i-- {
		if stale.Contains(o.mounted[i]) {
			o.loader.Unload(ctx, loader.UnloadEvent{Name: o.mounted[i]}, o.parentName)
		}
	}

	eg := new(errgroup.Group)
	if o.maxConcurrentMounts > 0 {
		eg.SetLimit(o.maxConcurrentMounts)
	}

	for _, descriptor := range matches {
		// the instance may have been torn down outside this outlet
		if o.loader.IsMounted(extension.NewInstanceKey(descriptor.AppName, o.parentName)) {
			continue
		}
		props := loader.PropsFor(descriptor, o.container, o.root)
		eg.Go(func() error {
			o.loader.Load(ctx, props, o.parentName)
			return nil
		})
	}
	_ = eg.Wait()

	mounted := make([]string, 0, len(matches))
	for _, descriptor := range matches {
		if o.loader.IsMounted(extension.NewInstanceKey(descriptor.AppName, o.parentName)) {
			mounted = append(mounted, descriptor.AppName)
		}
	}

	if stale.Cardinality() > 0 || len(mounted) != len(o.mounted) {
		o.logger.Debugf("Slot (%s) in parent (%s) rendered %d extension(s) at %s.", o.name, o.parentName, len(mounted), loc.String())
	}
	o.mounted = mounted
}

// Mounted returns the app names of the live instances, in match order
func (o *Outlet) Mounted() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.mounted))
	copy(out, o.mounted)
	return out
}

// Close unloads every instance of the outlet in reverse mount order.
func (o *Outlet) Close(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.mounted) - 1; i >= 0; i-- {
		o.loader.Unload(ctx, loader.UnloadEvent{Name: o.mounted[i]}, o.parentName)
	}
	o.mounted = nil
}

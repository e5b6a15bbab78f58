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

// Package loader manages the mount and unmount lifecycle of extension
// instances.
//
// Load and Unload never return errors and never panic: one broken extension
// must not stop the host shell or its siblings. Failures are logged and
// published as lifecycle events on the loader event stream.
package loader

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strconv"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/eventstream"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/internal/keylock"
	"github.com/tochemey/goslot/internal/metric"
	"github.com/tochemey/goslot/internal/xsync"
	"github.com/tochemey/goslot/log"
	"github.com/tochemey/goslot/surface"
)

// instance is a live extension instance
type instance struct {
	key       extension.InstanceKey
	parent    surface.Container
	container surface.Container
	parcel    Parcel
	mountedAt time.Time
}

// Loader mounts and unmounts extension instances through a Mounter.
//
// All lifecycle transitions of one instance key are serialised in call order;
// distinct keys proceed independently. Load and Unload block until their step
// is done, hosts wanting fire-and-continue semantics call them from goroutines.
type Loader struct {
	mounter  Mounter
	logger   log.Logger
	events   *eventstream.Stream
	document surface.Document

	metricEnabled bool
	meterProvider otelmetric.MeterProvider
	metric        *metric.LoaderMetric

	instances *xsync.Map[extension.InstanceKey, *instance]
	states    *xsync.Map[extension.InstanceKey, State]
	flights   *flights
	locks     *keylock.Locker[extension.InstanceKey]
	loads     singleflight.Group
}

// New creates a Loader mounting modules with mounter
func New(mounter Mounter, opts ...Option) *Loader {
	l := &Loader{
		mounter:   mounter,
		logger:    log.DefaultLogger,
		events:    eventstream.New(),
		document:  surface.NewDocument(),
		instances: xsync.NewMap[extension.InstanceKey, *instance](),
		states:    xsync.NewMap[extension.InstanceKey, State](),
		flights:   newFlights(),
		locks:     keylock.New[extension.InstanceKey](),
	}

	for _, opt := range opts {
		opt.Apply(l)
	}

	if l.metricEnabled {
		var providerOpts []metric.ProviderOption
		if l.meterProvider != nil {
			providerOpts = append(providerOpts, metric.WithMeterProvider(l.meterProvider))
		}
		loaderMetric, err := metric.NewLoaderMetric(metric.New(providerOpts...).Meter())
		if err != nil {
			l.logger.Warnf("Loader metrics disabled: %v", err)
		} else {
			l.metric = loaderMetric
		}
	}

	return l
}

// Load mounts the extension described by props inside the parent container
// props.Container, under the instance key (props.Name, parentName).
//
// A second Load for a key whose container already exists is a no-op.
// Concurrent Loads for one key are collapsed into a single mount, unless an
// Unload of the key was issued in between.
func (l *Loader) Load(ctx context.Context, props Props, parentName string) {
	key := extension.NewInstanceKey(props.Name, parentName)
	if isNil(props.Container) {
		l.logger.Warnf("Extension (%s) not mounted: %v", key.String(), gerrors.ErrMissingContainer)
		return
	}

	if props.Name == "" {
		l.logger.Warnf("Extension without name not mounted in parent (%s).", parentName)
		return
	}

	gen := l.flights.generation(key)
	_, _, _ = l.loads.Do(flightKey(key, gen), func() (any, error) {
		// a panic must not reach the collapsed callers
		defer func() {
			if recovered := recover(); recovered != nil {
				l.fail(ctx, key, gerrors.NewPanicError(recovered))
			}
		}()
		l.load(ctx, key, gen, props)
		return nil, nil
	})
}

// Unload tears down the instance (event.Name, parentName). Unloading an
// instance that is not mounted is a no-op. A mount still in flight for the
// key is cancelled and awaited first.
func (l *Loader) Unload(ctx context.Context, event UnloadEvent, parentName string) {
	_ = l.unload(ctx, extension.NewInstanceKey(event.Name, parentName))
}

// State returns the lifecycle state of the instance
func (l *Loader) State(key extension.InstanceKey) State {
	if state, ok := l.states.Get(key); ok {
		return state
	}
	return Unmatched
}

// Instances returns the keys of the mounted instances, sorted by container id
func (l *Loader) Instances() []extension.InstanceKey {
	keys := l.instances.Keys()
	slices.SortFunc(keys, func(a, b extension.InstanceKey) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	})
	return keys
}

// IsMounted reports whether the instance holds a parcel
func (l *Loader) IsMounted(key extension.InstanceKey) bool {
	_, ok := l.instances.Get(key)
	return ok
}

// Events returns the event stream lifecycle events are published on
func (l *Loader) Events() *eventstream.Stream {
	return l.events
}

// Subscribe returns a subscriber receiving every LifecycleEvent published
// from now on.
func (l *Loader) Subscribe() eventstream.Subscriber {
	return l.events.Subscribe(LifecycleTopic)
}

// Unsubscribe stops and releases a subscriber returned by Subscribe
func (l *Loader) Unsubscribe(sub eventstream.Subscriber) {
	l.events.Unsubscribe(sub)
}

// Shutdown unloads every mounted instance and returns the unmount failures.
// Every instance is torn down regardless of failures.
func (l *Loader) Shutdown(ctx context.Context) error {
	var err error
	for _, key := range l.Instances() {
		err = multierr.Append(err, l.unload(ctx, key))
	}
	return err
}

func (l *Loader) load(ctx context.Context, key extension.InstanceKey, gen uint64, props Props) {
	mountCtx, cancel := context.WithCancel(ctx)
	l.flights.start(key, gen, cancel)
	defer func() {
		l.flights.finish(key, gen)
		cancel()
	}()

	unlock := l.locks.Lock(key)
	defer unlock()

	// checked under the key lock: a concurrent lifecycle step may have
	// attached the container while this call was waiting
	_, existing, err := findChild(props.Container, key)
	if err != nil {
		l.fail(ctx, key, err)
		return
	}

	if existing {
		l.logger.Debugf("Extension (%s) is already mounted.", key.String())
		return
	}

	if err := mountCtx.Err(); err != nil {
		l.logger.Debugf("Extension (%s) mount cancelled: %v", key.String(), err)
		return
	}

	if props.Factory == nil {
		l.fail(ctx, key, gerrors.ErrNoModuleFactory)
		return
	}

	container, err := l.attach(props.Container, key)
	if err != nil {
		l.fail(ctx, key, err)
		return
	}

	l.transition(key, Mounting, nil)
	start := time.Now()

	parcel, err := l.mount(mountCtx, props, key, container)
	if err != nil {
		l.detach(props.Container, container, key)
		l.fail(ctx, key, err)
		return
	}

	l.instances.Set(key, &instance{
		key:       key,
		parent:    props.Container,
		container: container,
		parcel:    parcel,
		mountedAt: start,
	})
	l.transition(key, Mounted, nil)
	if l.metric != nil {
		l.metric.RecordMount(ctx, key.AppName, time.Since(start))
	}
	l.logger.Infof("Extension (%s) mounted.", key.String())
}

// attach creates the container of key and appends it to parent
func (l *Loader) attach(parent surface.Container, key extension.InstanceKey) (surface.Container, error) {
	var container surface.Container
	_, err := guardSurface(func() (bool, error) {
		container = l.document.CreateElement(key.String())
		if isNil(container) {
			return false, errors.New("document created no container")
		}
		return true, parent.AppendChild(container)
	})
	return container, err
}

// detach removes container from parent, logging failures
func (l *Loader) detach(parent, container surface.Container, key extension.InstanceKey) {
	if _, err := guardSurface(func() (bool, error) {
		return true, parent.RemoveChild(container)
	}); err != nil {
		l.logger.Warnf("Failed to detach container of extension (%s): %v", key.String(), err)
	}
}

// mount invokes the mounter, turning panics and nil parcels into errors
func (l *Loader) mount(ctx context.Context, props Props, key extension.InstanceKey, container surface.Container) (parcel Parcel, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			parcel = nil
			err = gerrors.NewPanicError(recovered)
		}
	}()

	parcel, err = l.mounter.Mount(ctx, props.Factory, extension.MountProps{
		Name:      props.Name,
		Key:       key,
		Container: container,
		UILib:     props.UILib,
		Root:      props.Root,
		Extra:     props.Extra,
	})
	if err == nil && parcel == nil {
		err = errors.New("mounter returned no parcel")
	}
	return parcel, err
}

func (l *Loader) unload(ctx context.Context, key extension.InstanceKey) error {
	// loads issued from here on belong to the next generation and queue
	// behind this unload on the key lock
	l.flights.supersede(key)

	unlock := l.locks.Lock(key)
	defer unlock()

	inst, ok := l.instances.Get(key)
	if !ok {
		l.logger.Debugf("Extension (%s) is not mounted, nothing to unload.", key.String())
		return nil
	}

	l.transition(key, Unmounting, nil)

	var unmountErr error
	if err := l.unmount(ctx, inst.parcel); err != nil {
		unmountErr = gerrors.NewErrUnmountFailure(err)
		l.logger.Errorf("Failed to unmount extension (app=%s, parent=%s): %v", key.AppName, key.ParentName, err)
	}

	// the parcel is released first, then the container is detached,
	// even when unmounting failed
	l.instances.Delete(key)
	if child, found, err := findChild(inst.parent, key); err != nil {
		l.logger.Warnf("Failed to look up container of extension (%s): %v", key.String(), err)
	} else if found {
		l.detach(inst.parent, child, key)
	}

	l.transition(key, Unmounted, unmountErr)
	if l.metric != nil {
		l.metric.RecordUnmount(ctx, key.AppName, unmountErr != nil)
	}
	l.logger.Infof("Extension (%s) unmounted.", key.String())
	return unmountErr
}

// unmount invokes the mounter, turning panics into errors
func (l *Loader) unmount(ctx context.Context, parcel Parcel) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = gerrors.NewPanicError(recovered)
		}
	}()
	return l.mounter.Unmount(ctx, parcel)
}

func (l *Loader) fail(ctx context.Context, key extension.InstanceKey, cause error) {
	l.logger.Errorf("Failed to mount extension (app=%s, parent=%s): %v", key.AppName, key.ParentName, cause)
	l.transition(key, Failed, gerrors.NewErrMountFailure(cause))
	if l.metric != nil {
		l.metric.RecordMountFailure(ctx, key.AppName)
	}
}

func (l *Loader) transition(key extension.InstanceKey, state State, err error) {
	l.states.Set(key, state)
	l.events.Publish(LifecycleTopic, LifecycleEvent{
		Key:       key,
		State:     state,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// findChild looks the container of key up under parent, recovering surface panics
func findChild(parent surface.Container, key extension.InstanceKey) (surface.Container, bool, error) {
	var child surface.Container
	found, err := guardSurface(func() (bool, error) {
		var ok bool
		child, ok = surface.FindChild(parent, key.String())
		return ok, nil
	})
	return child, found, err
}

// guardSurface runs a call into the host rendering surface, turning a panic
// into an error
func guardSurface(fn func() (bool, error)) (ok bool, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			ok = false
			err = gerrors.NewPanicError(recovered)
		}
	}()
	return fn()
}

// isNil reports whether the container is nil, including a nil pointer
// wrapped in the interface
func isNil(container surface.Container) bool {
	if container == nil {
		return true
	}
	value := reflect.ValueOf(container)
	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}

// flightKey renders an unambiguous singleflight key, whatever the names contain
func flightKey(key extension.InstanceKey, gen uint64) string {
	return strconv.Quote(key.AppName) + "/" + strconv.Quote(key.ParentName) + "@" + strconv.FormatUint(gen, 10)
}

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

// Package parcel provides the default loader.Mounter: it resolves module
// factories, drives the module mount and unmount hooks and recovers from
// panics raised by module code.
package parcel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowchartsman/retry"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/loader"
	"github.com/tochemey/goslot/log"
)

const (
	// DefaultFactoryRetries is the number of times a failing factory is retried
	DefaultFactoryRetries = 2
	// DefaultInitialDelay is the delay before the first factory retry
	DefaultInitialDelay = 50 * time.Millisecond
	// DefaultMaxDelay caps the delay between factory retries
	DefaultMaxDelay = time.Second
)

// Runtime mounts extension modules. It is safe for concurrent use.
type Runtime struct {
	logger         log.Logger
	factoryRetries int
	initialDelay   time.Duration
	maxDelay       time.Duration
}

var _ loader.Mounter = (*Runtime)(nil)

// New creates a Runtime
func New(opts ...Option) *Runtime {
	r := &Runtime{
		logger:         log.DefaultLogger,
		factoryRetries: DefaultFactoryRetries,
		initialDelay:   DefaultInitialDelay,
		maxDelay:       DefaultMaxDelay,
	}

	for _, opt := range opts {
		opt.Apply(r)
	}
	return r
}

// Mount resolves the module from factory and mounts it into props.Container.
// Factory failures are retried; a module failing to mount is not.
func (r *Runtime) Mount(ctx context.Context, factory extension.ModuleFactory, props extension.MountProps) (loader.Parcel, error) {
	if factory == nil {
		return nil, gerrors.ErrNoModuleFactory
	}

	module, err := r.resolve(ctx, factory, props.Name)
	if err != nil {
		return nil, err
	}

	if err := guard(func() error { return module.Mount(ctx, props) }); err != nil {
		r.logger.Errorf("Module of extension (%s) failed to mount: %v", props.Key.String(), err)
		return nil, err
	}

	r.logger.Debugf("Module of extension (%s) mounted.", props.Key.String())
	return newParcel(module, props), nil
}

// Unmount tears down a parcel returned by Mount. Unmounting a parcel twice
// is a no-op.
func (r *Runtime) Unmount(ctx context.Context, parcel loader.Parcel) error {
	p, ok := parcel.(*Parcel)
	if !ok {
		return fmt.Errorf("parcel=(%T) was not mounted by this runtime", parcel)
	}

	if err := p.Unmount(ctx); err != nil {
		if errors.Is(err, gerrors.ErrParcelUnmounted) {
			r.logger.Debugf("Module of extension (%s) is already unmounted.", p.Key().String())
			return nil
		}
		return err
	}
	return nil
}

// resolve runs the factory, retrying on failure with an exponential backoff
func (r *Runtime) resolve(ctx context.Context, factory extension.ModuleFactory, name string) (extension.Module, error) {
	var module extension.Module
	retrier := retry.NewRetrier(r.factoryRetries+1, r.initialDelay, r.maxDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return guard(func() error {
			resolved, err := factory(ctx)
			if err != nil {
				r.logger.Warnf("Module factory of extension (%s) failed: %v", name, err)
				return err
			}
			if resolved == nil {
				return gerrors.ErrNilModule
			}
			module = resolved
			return nil
		})
	})
	return module, err
}

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

package parcel

import (
	"context"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/loader"
)

// Parcel is a module mounted into its container.
type Parcel struct {
	module    extension.Module
	props     extension.MountProps
	mountedAt time.Time
	unmounted *atomic.Bool
}

var _ loader.Parcel = (*Parcel)(nil)

func newParcel(module extension.Module, props extension.MountProps) *Parcel {
	return &Parcel{
		module:    module,
		props:     props,
		mountedAt: time.Now(),
		unmounted: atomic.NewBool(false),
	}
}

// Name returns the app name of the mounted module
func (p *Parcel) Name() string {
	return p.props.Name
}

// Key returns the instance key the parcel was mounted for
func (p *Parcel) Key() extension.InstanceKey {
	return p.props.Key
}

// MountedAt returns the time the module finished mounting
func (p *Parcel) MountedAt() time.Time {
	return p.mountedAt
}

// Module returns the mounted module
func (p *Parcel) Module() extension.Module {
	return p.module
}

// IsMounted reports whether the parcel has not been unmounted yet
func (p *Parcel) IsMounted() bool {
	return !p.unmounted.Load()
}

// Unmount releases the module. It returns ErrParcelUnmounted when the parcel
// was already unmounted; the module is unmounted at most once.
func (p *Parcel) Unmount(ctx context.Context) error {
	if !p.unmounted.CompareAndSwap(false, true) {
		return gerrors.ErrParcelUnmounted
	}
	return guard(func() error {
		return p.module.Unmount(ctx, p.props)
	})
}

// guard runs fn, turning a panic into a PanicError
func guard(fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = gerrors.NewPanicError(recovered)
		}
	}()
	return fn()
}

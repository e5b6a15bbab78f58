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
	"fmt"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/internal/xsync"
	"github.com/tochemey/goslot/loader"
)

// Adapters is a loader.Mounter dispatching every mount to the mounter
// registered for the ui library tag of the extension.
type Adapters struct {
	adapters *xsync.Map[string, loader.Mounter]
	fallback loader.Mounter
}

var _ loader.Mounter = (*Adapters)(nil)

// NewAdapters creates an Adapters using fallback for extensions without a
// registered ui library. fallback can be nil.
func NewAdapters(fallback loader.Mounter) *Adapters {
	return &Adapters{
		adapters: xsync.NewMap[string, loader.Mounter](),
		fallback: fallback,
	}
}

// Register sets the mounter handling the given ui library tag
func (a *Adapters) Register(uiLib string, mounter loader.Mounter) {
	a.adapters.Set(uiLib, mounter)
}

// Libraries returns the registered ui library tags
func (a *Adapters) Libraries() []string {
	return a.adapters.Keys()
}

// Mount mounts through the mounter matching props.UILib
func (a *Adapters) Mount(ctx context.Context, factory extension.ModuleFactory, props extension.MountProps) (loader.Parcel, error) {
	mounter, err := a.lookup(props.UILib)
	if err != nil {
		return nil, err
	}

	parcel, err := mounter.Mount(ctx, factory, props)
	if err != nil {
		return nil, err
	}
	return &adapted{Parcel: parcel, mounter: mounter}, nil
}

// Unmount tears the parcel down with the mounter that mounted it
func (a *Adapters) Unmount(ctx context.Context, parcel loader.Parcel) error {
	p, ok := parcel.(*adapted)
	if !ok {
		return fmt.Errorf("parcel=(%T) was not mounted by the adapters", parcel)
	}
	return p.mounter.Unmount(ctx, p.Parcel)
}

func (a *Adapters) lookup(uiLib string) (loader.Mounter, error) {
	if mounter, ok := a.adapters.Get(uiLib); ok {
		return mounter, nil
	}
	if a.fallback != nil {
		return a.fallback, nil
	}
	return nil, gerrors.NewErrAdapterNotFound(uiLib)
}

// adapted remembers which mounter produced a parcel
type adapted struct {
	loader.Parcel
	mounter loader.Mounter
}

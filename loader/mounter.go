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

package loader

import (
	"context"

	"github.com/tochemey/goslot/extension"
)

// Parcel is the opaque handle a Mounter returns for a mounted module.
type Parcel interface {
	// Name returns the app name the parcel was mounted for.
	Name() string
}

// Mounter is the host capability that instantiates a module into a container
// and tears it down again. It is the only thing the loader needs from the
// rendering runtime.
type Mounter interface {
	// Mount resolves the module from factory and mounts it into props.Container.
	Mount(ctx context.Context, factory extension.ModuleFactory, props extension.MountProps) (Parcel, error)
	// Unmount tears down a parcel returned by Mount.
	Unmount(ctx context.Context, parcel Parcel) error
}

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
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/surface"
)

// Props describes the extension instance to load.
type Props struct {
	// Name is the app name of the extension
	Name string
	// Container is the parent container the instance attaches into
	Container surface.Container
	// Factory resolves the module to mount
	Factory extension.ModuleFactory
	// UILib is the rendering capability tag of the extension
	UILib string
	// Root carries the host shared services
	Root extension.RootContext
	// Extra is passed to the module untouched
	Extra map[string]any
}

// PropsFor builds the Props of a registered descriptor
func PropsFor(descriptor extension.Descriptor, container surface.Container, root extension.RootContext) Props {
	return Props{
		Name:      descriptor.AppName,
		Container: container,
		Factory:   descriptor.Load,
		UILib:     descriptor.UILib,
		Root:      root,
	}
}

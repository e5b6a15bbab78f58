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

package slot

import (
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(o *Outlet)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Outlet)

// Apply applies the option to the outlet
func (f OptionFunc) Apply(o *Outlet) {
	f(o)
}

// WithLogger sets the outlet logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(o *Outlet) {
		if logger != nil {
			o.logger = logger
		}
	})
}

// WithRootContext sets the host services handed to every mounted module.
// Without a logger, the outlet logger is used; without an event bus, the
// loader event stream is.
func WithRootContext(root extension.RootContext) Option {
	return OptionFunc(func(o *Outlet) {
		o.root = root
	})
}

// WithMaxConcurrentMounts bounds the number of extensions mounted at once
// during a render. Zero or less means unbounded.
func WithMaxConcurrentMounts(limit int) Option {
	return OptionFunc(func(o *Outlet) {
		o.maxConcurrentMounts = limit
	})
}

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
	"time"

	"github.com/tochemey/goslot/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(r *Runtime)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Runtime)

// Apply applies the option to the runtime
func (f OptionFunc) Apply(r *Runtime) {
	f(r)
}

// WithLogger sets the runtime logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// WithFactoryRetries sets how many times a failing module factory is retried
// before the mount is given up. Zero disables retries.
func WithFactoryRetries(retries int) Option {
	return OptionFunc(func(r *Runtime) {
		if retries >= 0 {
			r.factoryRetries = retries
		}
	})
}

// WithRetryBackoff sets the initial and maximum delay between factory retries.
func WithRetryBackoff(initialDelay, maxDelay time.Duration) Option {
	return OptionFunc(func(r *Runtime) {
		if initialDelay > 0 {
			r.initialDelay = initialDelay
		}
		if maxDelay >= r.initialDelay {
			r.maxDelay = maxDelay
		}
	})
}

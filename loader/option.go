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
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/goslot/eventstream"
	"github.com/tochemey/goslot/log"
	"github.com/tochemey/goslot/surface"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(l *Loader)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Loader)

// Apply applies the option to the loader
func (f OptionFunc) Apply(l *Loader) {
	f(l)
}

// WithLogger sets the loader logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	})
}

// WithEventStream sets the event stream lifecycle events are published on,
// so that they share the host bus. The loader creates its own by default.
func WithEventStream(stream *eventstream.Stream) Option {
	return OptionFunc(func(l *Loader) {
		if stream != nil {
			l.events = stream
		}
	})
}

// WithDocument sets the document instance containers are created with.
// It defaults to the in-memory surface.
func WithDocument(document surface.Document) Option {
	return OptionFunc(func(l *Loader) {
		if document != nil {
			l.document = document
		}
	})
}

// WithMetric enables the OpenTelemetry instruments of the loader, created
// from the global meter provider.
func WithMetric() Option {
	return OptionFunc(func(l *Loader) {
		l.metricEnabled = true
	})
}

// WithMeterProvider enables metrics created from the given meter provider.
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(l *Loader) {
		l.metricEnabled = true
		l.meterProvider = provider
	})
}

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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LoaderMetric defines the extension loader instrumentation
type LoaderMetric struct {
	// Specifies the total number of successful mounts
	mountCount metric.Int64Counter
	// Specifies the total number of failed mounts
	mountFailureCount metric.Int64Counter
	// Specifies the total number of unmounts
	unmountCount metric.Int64Counter
	// Specifies the total number of unmounts reported as failed
	unmountFailureCount metric.Int64Counter
	// Specifies the number of live instances
	liveInstances metric.Int64UpDownCounter
	// Specifies the mount latency in milliseconds
	mountDuration metric.Int64Histogram
}

// NewLoaderMetric creates an instance of LoaderMetric
func NewLoaderMetric(meter metric.Meter) (*LoaderMetric, error) {
	loaderMetric := new(LoaderMetric)
	var err error

	if loaderMetric.mountCount, err = meter.Int64Counter(
		"extension_mount_count",
		metric.WithDescription("Total number of extension instances mounted"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mountCount instrument, %w", err)
	}

	if loaderMetric.mountFailureCount, err = meter.Int64Counter(
		"extension_mount_failure_count",
		metric.WithDescription("Total number of extension mounts that failed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mountFailureCount instrument, %w", err)
	}

	if loaderMetric.unmountCount, err = meter.Int64Counter(
		"extension_unmount_count",
		metric.WithDescription("Total number of extension instances unmounted"),
	); err != nil {
		return nil, fmt.Errorf("failed to create unmountCount instrument, %w", err)
	}

	if loaderMetric.unmountFailureCount, err = meter.Int64Counter(
		"extension_unmount_failure_count",
		metric.WithDescription("Total number of extension unmounts that failed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create unmountFailureCount instrument, %w", err)
	}

	if loaderMetric.liveInstances, err = meter.Int64UpDownCounter(
		"extension_live_instances",
		metric.WithDescription("Number of extension instances currently mounted"),
	); err != nil {
		return nil, fmt.Errorf("failed to create liveInstances instrument, %w", err)
	}

	if loaderMetric.mountDuration, err = meter.Int64Histogram(
		"extension_mount_duration",
		metric.WithDescription("The latency of extension mounts in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mountDuration instrument, %w", err)
	}

	return loaderMetric, nil
}

// RecordMount records a successful mount of appName and its latency
func (x *LoaderMetric) RecordMount(ctx context.Context, appName string, latency time.Duration) {
	attrs := metric.WithAttributes(attribute.String("extension.app", appName))
	x.mountCount.Add(ctx, 1, attrs)
	x.liveInstances.Add(ctx, 1, attrs)
	x.mountDuration.Record(ctx, latency.Milliseconds(), attrs)
}

// RecordMountFailure records a failed mount of appName
func (x *LoaderMetric) RecordMountFailure(ctx context.Context, appName string) {
	x.mountFailureCount.Add(ctx, 1, metric.WithAttributes(attribute.String("extension.app", appName)))
}

// RecordUnmount records the teardown of appName. A failed unmount still
// releases the instance, so the live count drops either way.
func (x *LoaderMetric) RecordUnmount(ctx context.Context, appName string, failed bool) {
	attrs := metric.WithAttributes(attribute.String("extension.app", appName))
	x.unmountCount.Add(ctx, 1, attrs)
	x.liveInstances.Add(ctx, -1, attrs)
	if failed {
		x.unmountFailureCount.Add(ctx, 1, attrs)
	}
}

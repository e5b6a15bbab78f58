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

// Package errors defines the sentinel errors reported by the extension runtime.
//
// Load and Unload never return these to their callers; they are attached to
// log entries and lifecycle events so hosts can inspect what went wrong with
// errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingContainer is reported when Load is called without a rendering container.
	ErrMissingContainer = errors.New("no container to mount the extension in")

	// ErrMountFailure is reported when attaching the container or mounting the module fails.
	ErrMountFailure = errors.New("extension mount failed")

	// ErrUnmountFailure is reported when the mounting capability fails to unmount a parcel.
	ErrUnmountFailure = errors.New("extension unmount failed")

	// ErrInvalidDescriptor is returned when a descriptor lacks its app name or slot.
	ErrInvalidDescriptor = errors.New("invalid extension descriptor")

	// ErrNoModuleFactory is returned when an extension has no module factory to load from.
	ErrNoModuleFactory = errors.New("extension has no module factory")

	// ErrFactoryNotFound is returned when a manifest references a factory the catalog does not know.
	ErrFactoryNotFound = errors.New("module factory not found")

	// ErrNilModule is returned when a module factory resolves to nil.
	ErrNilModule = errors.New("module factory returned no module")

	// ErrAdapterNotFound is returned when no mounter handles the requested ui library.
	ErrAdapterNotFound = errors.New("no mounting adapter for ui library")

	// ErrParcelUnmounted is returned when a parcel that was already unmounted is unmounted again.
	ErrParcelUnmounted = errors.New("parcel is already unmounted")

	// ErrInvalidManifest is returned when an app manifest cannot be decoded or is incomplete.
	ErrInvalidManifest = errors.New("invalid app manifest")
)

// NewErrMountFailure wraps the cause of a failed mount with ErrMountFailure
func NewErrMountFailure(err error) error {
	return errors.Join(ErrMountFailure, err)
}

// NewErrUnmountFailure wraps the cause of a failed unmount with ErrUnmountFailure
func NewErrUnmountFailure(err error) error {
	return errors.Join(ErrUnmountFailure, err)
}

// NewErrInvalidDescriptor wraps a validation violation with ErrInvalidDescriptor
func NewErrInvalidDescriptor(err error) error {
	return errors.Join(ErrInvalidDescriptor, err)
}

// NewErrFactoryNotFound formats an ErrFactoryNotFound with the given factory key.
func NewErrFactoryNotFound(key string) error {
	return fmt.Errorf("factory=(%s) %w", key, ErrFactoryNotFound)
}

// NewErrAdapterNotFound formats an ErrAdapterNotFound with the given ui library tag.
func NewErrAdapterNotFound(uiLib string) error {
	return fmt.Errorf("uiLib=(%s) %w", uiLib, ErrAdapterNotFound)
}

// NewErrInvalidManifest wraps a decoding or validation error with ErrInvalidManifest
func NewErrInvalidManifest(err error) error {
	return errors.Join(ErrInvalidManifest, err)
}

// PanicError wraps a value recovered from a panic in extension code.
type PanicError struct {
	value any
}

var _ error = (*PanicError)(nil)

// NewPanicError returns an instance of PanicError
func NewPanicError(value any) *PanicError {
	return &PanicError{value: value}
}

// Error implements the standard error interface
func (p *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.value)
}

// Unwrap returns the recovered value when it is an error.
func (p *PanicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

// Value returns the recovered panic value
func (p *PanicError) Value() any {
	return p.value
}

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

// Package extension holds the data model shared by the registry, the loader
// and the hosts driving them: extension descriptors, activity predicates,
// locations, loadable modules and instance identities.
package extension

import (
	"errors"
	"maps"
	"regexp"
	"strings"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/internal/validation"
)

// maxNameLength caps app and slot names.
const maxNameLength = 255

var noSeparator = regexp.MustCompile("^[^" + regexp.QuoteMeta(keySeparator) + "]*$")

// Descriptor declares one extension: which app owns it, which slot it
// renders into, when it is active and how to load its module.
//
// Within one slot the AppName is the identity of the descriptor.
type Descriptor struct {
	// AppName identifies the owning module.
	AppName string
	// MountsIn names the target slot.
	MountsIn string
	// ActiveWhen decides whether the descriptor applies to a location.
	// A nil predicate is treated as Always.
	ActiveWhen ActivityFn
	// Load resolves the module to mount. It is invoked lazily, on mount only.
	Load ModuleFactory
	// UILib optionally tags the rendering capability the module expects.
	UILib string
	// Meta carries free-form metadata such as the owning team.
	Meta map[string]string
}

// ID returns the identity of the descriptor within the registry.
func (d Descriptor) ID() ID {
	return ID{Slot: d.MountsIn, AppName: d.AppName}
}

// IsActive evaluates the activity predicate against loc.
func (d Descriptor) IsActive(loc Location) bool {
	if d.ActiveWhen == nil {
		return true
	}
	return d.ActiveWhen(loc)
}

// Clone returns a copy of the descriptor that does not share its Meta map.
func (d Descriptor) Clone() Descriptor {
	out := d
	if d.Meta != nil {
		out.Meta = maps.Clone(d.Meta)
	}
	return out
}

// Validate implements validation.Validator.
func (d Descriptor) Validate() error {
	err := validation.
		New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("appName", d.AppName)).
		AddValidator(validation.NewEmptyStringValidator("mountsIn", d.MountsIn)).
		AddValidator(validation.NewMaxLengthValidator("appName", d.AppName, maxNameLength)).
		AddValidator(validation.NewMaxLengthValidator("mountsIn", d.MountsIn, maxNameLength)).
		AddValidator(validation.NewPatternValidator(noSeparator, strings.TrimSpace(d.AppName),
			errors.New("the [appName] must not contain '"+keySeparator+"'"))).
		Validate()
	if err != nil {
		return gerrors.NewErrInvalidDescriptor(err)
	}
	return nil
}

// ID identifies a descriptor inside the registry.
type ID struct {
	Slot    string
	AppName string
}

// String returns "slot/appName"
func (id ID) String() string {
	return id.Slot + "/" + id.AppName
}

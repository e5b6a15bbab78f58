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

// Package manifest reads app manifests: YAML documents in which an app
// declares the extensions it contributes to the host slots.
//
//	app: patient-chart
//	extensions:
//	  - name: vitals-widget
//	    slot: patient-chart-dashboard
//	    activeWhen: ["/patient/:uuid/chart"]
//	    uiLib: react
//	    factory: vitals
//	    meta: {team: clinical}
//
// Factories are Go code, so a manifest names them by key and a Catalog binds
// the keys to module factories.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/internal/validation"
	"github.com/tochemey/goslot/registry"
)

// Manifest is the set of extensions an app declares
type Manifest struct {
	App        string      `yaml:"app"`
	Extensions []Extension `yaml:"extensions"`
}

// Extension declares one extension point of the app
type Extension struct {
	// Name is the app name the extension mounts under
	Name string `yaml:"name"`
	// Slot is the slot the extension mounts in
	Slot string `yaml:"slot"`
	// ActiveWhen lists route patterns; the extension is active when any
	// matches. Empty means always active.
	ActiveWhen []string `yaml:"activeWhen,omitempty"`
	// Disabled turns the extension off whatever the location
	Disabled bool `yaml:"disabled,omitempty"`
	// UILib is the rendering capability tag
	UILib string `yaml:"uiLib,omitempty"`
	// Factory is the Catalog key of the module factory, defaults to Name
	Factory string `yaml:"factory,omitempty"`
	// Meta is copied into the descriptor untouched
	Meta map[string]string `yaml:"meta,omitempty"`
}

// Catalog maps factory keys to module factories
type Catalog map[string]extension.ModuleFactory

// Parse decodes and validates a manifest
func Parse(data []byte) (*Manifest, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a manifest from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	m := new(Manifest)
	if err := decoder.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, gerrors.NewErrInvalidManifest(errors.New("the manifest is empty"))
		}
		return nil, gerrors.NewErrInvalidManifest(err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the manifest file at path
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest (%s): %w", path, err)
	}
	defer file.Close()

	m, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("manifest (%s): %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest, reporting every violation at once
func (m *Manifest) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("app", m.App))

	seen := make(map[extension.ID]bool, len(m.Extensions))
	for i, ext := range m.Extensions {
		chain.
			AddValidator(validation.NewEmptyStringValidator(fmt.Sprintf("extensions[%d].name", i), ext.Name)).
			AddValidator(validation.NewEmptyStringValidator(fmt.Sprintf("extensions[%d].slot", i), ext.Slot))

		id := extension.ID{Slot: ext.Slot, AppName: ext.Name}
		chain.AddAssertion(!seen[id], fmt.Sprintf("extension (%s) is declared twice", id.String()))
		seen[id] = true
	}

	if err := chain.Validate(); err != nil {
		return gerrors.NewErrInvalidManifest(err)
	}
	return nil
}

// Descriptors converts the manifest into extension descriptors, in
// declaration order. A factory key missing from catalog yields a descriptor
// whose module fails to load with ErrFactoryNotFound.
func (m *Manifest) Descriptors(catalog Catalog) []extension.Descriptor {
	descriptors := make([]extension.Descriptor, 0, len(m.Extensions))
	for _, ext := range m.Extensions {
		descriptors = append(descriptors, ext.descriptor(m.App, catalog))
	}
	return descriptors
}

// Register registers the descriptors of m into reg
func Register(reg registry.Registry, m *Manifest, catalog Catalog) {
	reg.RegisterExtensionPoints(m.Descriptors(catalog))
}

func (e Extension) descriptor(app string, catalog Catalog) extension.Descriptor {
	meta := make(map[string]string, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta[MetaApp] = app

	return extension.Descriptor{
		AppName:    e.Name,
		MountsIn:   e.Slot,
		ActiveWhen: e.activity(),
		Load:       e.factory(catalog),
		UILib:      e.UILib,
		Meta:       meta,
	}
}

// MetaApp is the descriptor metadata key holding the declaring app
const MetaApp = "app"

func (e Extension) activity() extension.ActivityFn {
	if e.Disabled {
		return extension.Never()
	}
	if len(e.ActiveWhen) == 0 {
		return extension.Always()
	}

	patterns := make([]extension.ActivityFn, 0, len(e.ActiveWhen))
	for _, pattern := range e.ActiveWhen {
		patterns = append(patterns, extension.PathPattern(pattern))
	}
	return extension.AnyOf(patterns...)
}

func (e Extension) factory(catalog Catalog) extension.ModuleFactory {
	key := e.Factory
	if key == "" {
		key = e.Name
	}

	if factory, ok := catalog[key]; ok && factory != nil {
		return factory
	}

	return func(context.Context) (extension.Module, error) {
		return nil, gerrors.NewErrFactoryNotFound(key)
	}
}

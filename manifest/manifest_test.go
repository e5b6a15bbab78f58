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

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/log"
	"github.com/tochemey/goslot/registry"
)

const chartManifest = `
app: patient-chart
extensions:
  - name: vitals-widget
    slot: patient-chart-dashboard
    activeWhen: ["/patient/:uuid/chart"]
    uiLib: react
    factory: vitals
    meta: {team: clinical}
  - name: chart-search
    slot: topbar-slot
  - name: legacy-banner
    slot: topbar-slot
    disabled: true
  - name: orphan
    slot: topbar-slot
    factory: missing
`

type noopModule struct{}

func (noopModule) Mount(context.Context, extension.MountProps) error   { return nil }
func (noopModule) Unmount(context.Context, extension.MountProps) error { return nil }

func catalog() Catalog {
	return Catalog{
		"vitals":       extension.StaticFactory(noopModule{}),
		"chart-search": extension.StaticFactory(noopModule{}),
	}
}

func location(t *testing.T, raw string) extension.Location {
	loc, err := extension.ParseLocation(raw)
	require.NoError(t, err)
	return loc
}

func TestParse(t *testing.T) {
	t.Run("With valid manifest", func(t *testing.T) {
		m, err := Parse([]byte(chartManifest))
		require.NoError(t, err)
		assert.Equal(t, "patient-chart", m.App)
		require.Len(t, m.Extensions, 4)

		vitals := m.Extensions[0]
		assert.Equal(t, "vitals-widget", vitals.Name)
		assert.Equal(t, "patient-chart-dashboard", vitals.Slot)
		assert.Equal(t, []string{"/patient/:uuid/chart"}, vitals.ActiveWhen)
		assert.Equal(t, "react", vitals.UILib)
		assert.Equal(t, "vitals", vitals.Factory)
		assert.Equal(t, map[string]string{"team": "clinical"}, vitals.Meta)
		assert.True(t, m.Extensions[2].Disabled)
	})
	t.Run("With empty document", func(t *testing.T) {
		_, err := Parse(nil)
		assert.ErrorIs(t, err, gerrors.ErrInvalidManifest)
	})
	t.Run("With malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("app: [unterminated"))
		assert.ErrorIs(t, err, gerrors.ErrInvalidManifest)
	})
	t.Run("With unknown field", func(t *testing.T) {
		_, err := Parse([]byte("app: a\nextensions:\n  - name: x\n    slot: s\n    mountsIn: s\n"))
		assert.ErrorIs(t, err, gerrors.ErrInvalidManifest)
	})
	t.Run("With every violation reported", func(t *testing.T) {
		_, err := Parse([]byte("extensions:\n  - name: x\n  - slot: s\n"))
		require.ErrorIs(t, err, gerrors.ErrInvalidManifest)
		assert.Contains(t, err.Error(), "the [app] is required")
		assert.Contains(t, err.Error(), "the [extensions[0].slot] is required")
		assert.Contains(t, err.Error(), "the [extensions[1].name] is required")
	})
	t.Run("With duplicate extension", func(t *testing.T) {
		_, err := Parse([]byte("app: a\nextensions:\n  - {name: x, slot: s}\n  - {name: x, slot: s}\n"))
		require.ErrorIs(t, err, gerrors.ErrInvalidManifest)
		assert.Contains(t, err.Error(), "s/x")
	})
}

func TestLoad(t *testing.T) {
	t.Run("With manifest file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.yaml")
		require.NoError(t, os.WriteFile(path, []byte(chartManifest), 0o600))

		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "patient-chart", m.App)
	})
	t.Run("With missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("With invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("extensions: []\n"), 0o600))

		_, err := Load(path)
		assert.ErrorIs(t, err, gerrors.ErrInvalidManifest)
		assert.Contains(t, err.Error(), path)
	})
}

func TestDescriptors(t *testing.T) {
	ctx := context.Background()
	m, err := Parse([]byte(chartManifest))
	require.NoError(t, err)

	descriptors := m.Descriptors(catalog())
	require.Len(t, descriptors, 4)

	vitals := descriptors[0]
	assert.Equal(t, "vitals-widget", vitals.AppName)
	assert.Equal(t, "patient-chart-dashboard", vitals.MountsIn)
	assert.Equal(t, "react", vitals.UILib)
	assert.Equal(t, "clinical", vitals.Meta["team"])
	assert.Equal(t, "patient-chart", vitals.Meta[MetaApp])
	assert.True(t, vitals.IsActive(location(t, "/patient/42/chart")))
	assert.True(t, vitals.IsActive(location(t, "/patient/42/chart/vitals")))
	assert.False(t, vitals.IsActive(location(t, "/patient/42")))

	module, err := vitals.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, module)

	search := descriptors[1]
	assert.True(t, search.IsActive(location(t, "/anywhere")))
	_, err = search.Load(ctx)
	require.NoError(t, err)

	assert.False(t, descriptors[2].IsActive(location(t, "/home")))

	orphan := descriptors[3]
	_, err = orphan.Load(ctx)
	require.ErrorIs(t, err, gerrors.ErrFactoryNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegister(t *testing.T) {
	m, err := Parse([]byte(chartManifest))
	require.NoError(t, err)

	reg := registry.New(registry.WithLogger(log.DiscardLogger))
	Register(reg, m, catalog())

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, []string{"patient-chart-dashboard", "topbar-slot"}, reg.Slots())

	matches := reg.GetMatchingExtensions("topbar-slot", location(t, "/home"))
	names := make([]string, 0, len(matches))
	for _, d := range matches {
		names = append(names, d.AppName)
	}
	assert.Equal(t, []string{"chart-search", "orphan"}, names)
}

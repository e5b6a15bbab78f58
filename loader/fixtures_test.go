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
	"errors"
	"sync"
	"testing"

	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/surface"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errMountBoom = errors.New("mount boom")

type testParcel struct {
	name string
}

func (p *testParcel) Name() string { return p.name }

// testMounter records mount and unmount calls. Behaviour per app name is
// driven by the failMount, failUnmount and block sets.
type testMounter struct {
	mu          sync.Mutex
	mounts      map[string]int
	unmounts    map[string]int
	failMount   map[string]error
	failUnmount map[string]error
	panicMount  map[string]bool
	// block holds mounts of the app until the channel is closed or the
	// mount context is done, depending on honorContext
	block        map[string]chan struct{}
	honorContext bool
	started      chan string
	inflight     atomic.Int32
	maxInflight  atomic.Int32
}

func newTestMounter() *testMounter {
	return &testMounter{
		mounts:      make(map[string]int),
		unmounts:    make(map[string]int),
		failMount:   make(map[string]error),
		failUnmount: make(map[string]error),
		panicMount:  make(map[string]bool),
		block:       make(map[string]chan struct{}),
		started:     make(chan string, 16),
	}
}

func (m *testMounter) Mount(ctx context.Context, factory extension.ModuleFactory, props extension.MountProps) (Parcel, error) {
	current := m.inflight.Inc()
	defer m.inflight.Dec()
	if current > m.maxInflight.Load() {
		m.maxInflight.Store(current)
	}

	m.mu.Lock()
	m.mounts[props.Name]++
	failure := m.failMount[props.Name]
	shouldPanic := m.panicMount[props.Name]
	block := m.block[props.Name]
	honor := m.honorContext
	m.mu.Unlock()

	select {
	case m.started <- props.Name:
	default:
	}

	if block != nil {
		if honor {
			select {
			case <-block:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-block
		}
	}

	if shouldPanic {
		panic("mounter exploded")
	}
	if failure != nil {
		return nil, failure
	}
	if _, err := factory(ctx); err != nil {
		return nil, err
	}
	return &testParcel{name: props.Name}, nil
}

func (m *testMounter) Unmount(_ context.Context, parcel Parcel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmounts[parcel.Name()]++
	return m.failUnmount[parcel.Name()]
}

func (m *testMounter) mountCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounts[name]
}

func (m *testMounter) unmountCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unmounts[name]
}

type noopModule struct{}

func (noopModule) Mount(context.Context, extension.MountProps) error   { return nil }
func (noopModule) Unmount(context.Context, extension.MountProps) error { return nil }

func okFactory() extension.ModuleFactory {
	return extension.StaticFactory(noopModule{})
}

// panicContainer is a host surface node failing on the configured calls
type panicContainer struct {
	id            string
	panicChildren bool
	panicAppend   bool
}

func (c *panicContainer) ID() string { return c.id }

func (c *panicContainer) Children() []surface.Container {
	if c.panicChildren {
		panic("host container exploded")
	}
	return nil
}

func (c *panicContainer) AppendChild(surface.Container) error {
	if c.panicAppend {
		panic("host container exploded")
	}
	return nil
}

func (c *panicContainer) RemoveChild(surface.Container) error { return nil }

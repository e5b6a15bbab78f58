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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/goslot/errors"
	"github.com/tochemey/goslot/extension"
	"github.com/tochemey/goslot/log"
	"github.com/tochemey/goslot/surface"
)

type recordingModule struct {
	mounts      atomic.Int32
	unmounts    atomic.Int32
	mountErr    error
	mountPanic  any
	unmountErr  error
	lastMounted extension.MountProps
}

func (m *recordingModule) Mount(_ context.Context, props extension.MountProps) error {
	m.mounts.Inc()
	m.lastMounted = props
	if m.mountPanic != nil {
		panic(m.mountPanic)
	}
	return m.mountErr
}

func (m *recordingModule) Unmount(context.Context, extension.MountProps) error {
	m.unmounts.Inc()
	return m.unmountErr
}

func mountProps(name string) extension.MountProps {
	key := extension.NewInstanceKey(name, "topbar")
	return extension.MountProps{
		Name:      name,
		Key:       key,
		Container: surface.NewElement(key.String()),
		UILib:     "react",
	}
}

type runtimeSuite struct {
	suite.Suite
	runtime *Runtime
}

func (s *runtimeSuite) SetupTest() {
	s.runtime = New(
		WithLogger(log.DiscardLogger),
		WithFactoryRetries(2),
		WithRetryBackoff(time.Millisecond, 5*time.Millisecond),
	)
}

func (s *runtimeSuite) TestMountAndUnmount() {
	ctx := context.Background()
	module := new(recordingModule)
	props := mountProps("app-a")

	parcel, err := s.runtime.Mount(ctx, extension.StaticFactory(module), props)
	s.Require().NoError(err)
	s.Require().NotNil(parcel)
	s.Assert().Equal("app-a", parcel.Name())
	s.Assert().EqualValues(1, module.mounts.Load())
	s.Assert().Equal(props.Container, module.lastMounted.Container)

	p := parcel.(*Parcel)
	s.Assert().True(p.IsMounted())
	s.Assert().Equal(props.Key, p.Key())
	s.Assert().Equal(module, p.Module())
	s.Assert().False(p.MountedAt().IsZero())

	s.Require().NoError(s.runtime.Unmount(ctx, parcel))
	s.Assert().False(p.IsMounted())
	s.Assert().EqualValues(1, module.unmounts.Load())

	// unmounting twice is a no-op
	s.Require().NoError(s.runtime.Unmount(ctx, parcel))
	s.Assert().EqualValues(1, module.unmounts.Load())
	s.Assert().ErrorIs(p.Unmount(ctx), gerrors.ErrParcelUnmounted)
}

func (s *runtimeSuite) TestMountWithoutFactory() {
	parcel, err := s.runtime.Mount(context.Background(), nil, mountProps("app-a"))
	s.Assert().Nil(parcel)
	s.Assert().ErrorIs(err, gerrors.ErrNoModuleFactory)
}

func (s *runtimeSuite) TestFactoryRetried() {
	module := new(recordingModule)
	calls := atomic.NewInt32(0)
	factory := func(context.Context) (extension.Module, error) {
		if calls.Inc() < 3 {
			return nil, errors.New("chunk load error")
		}
		return module, nil
	}

	parcel, err := s.runtime.Mount(context.Background(), factory, mountProps("app-a"))
	s.Require().NoError(err)
	s.Assert().NotNil(parcel)
	s.Assert().EqualValues(3, calls.Load())
}

func (s *runtimeSuite) TestFactoryGivesUp() {
	calls := atomic.NewInt32(0)
	factoryErr := errors.New("chunk load error")
	factory := func(context.Context) (extension.Module, error) {
		calls.Inc()
		return nil, factoryErr
	}

	parcel, err := s.runtime.Mount(context.Background(), factory, mountProps("app-a"))
	s.Assert().Nil(parcel)
	s.Assert().ErrorIs(err, factoryErr)
	s.Assert().EqualValues(3, calls.Load())
}

func (s *runtimeSuite) TestFactoryWithoutRetries() {
	runtime := New(WithLogger(log.DiscardLogger), WithFactoryRetries(0))
	calls := atomic.NewInt32(0)
	factory := func(context.Context) (extension.Module, error) {
		calls.Inc()
		return nil, errors.New("chunk load error")
	}

	_, err := runtime.Mount(context.Background(), factory, mountProps("app-a"))
	s.Assert().Error(err)
	s.Assert().EqualValues(1, calls.Load())
}

func (s *runtimeSuite) TestFactoryReturningNil() {
	factory := func(context.Context) (extension.Module, error) { return nil, nil }
	_, err := s.runtime.Mount(context.Background(), factory, mountProps("app-a"))
	s.Assert().ErrorIs(err, gerrors.ErrNilModule)
}

func (s *runtimeSuite) TestPanickingFactory() {
	factory := func(context.Context) (extension.Module, error) { panic("factory exploded") }
	var err error
	s.Require().NotPanics(func() {
		_, err = s.runtime.Mount(context.Background(), factory, mountProps("app-a"))
	})
	var panicErr *gerrors.PanicError
	s.Require().ErrorAs(err, &panicErr)
	s.Assert().Equal("factory exploded", panicErr.Value())
}

func (s *runtimeSuite) TestModuleMountFailureNotRetried() {
	module := &recordingModule{mountErr: errors.New("render failed")}
	_, err := s.runtime.Mount(context.Background(), extension.StaticFactory(module), mountProps("app-a"))
	s.Assert().ErrorIs(err, module.mountErr)
	s.Assert().EqualValues(1, module.mounts.Load())
}

func (s *runtimeSuite) TestPanickingModule() {
	module := &recordingModule{mountPanic: errors.New("render exploded")}
	var err error
	s.Require().NotPanics(func() {
		_, err = s.runtime.Mount(context.Background(), extension.StaticFactory(module), mountProps("app-a"))
	})
	s.Assert().ErrorIs(err, module.mountPanic.(error))
}

func (s *runtimeSuite) TestUnmountFailure() {
	ctx := context.Background()
	module := &recordingModule{unmountErr: errors.New("cleanup failed")}
	parcel, err := s.runtime.Mount(ctx, extension.StaticFactory(module), mountProps("app-a"))
	s.Require().NoError(err)

	s.Assert().ErrorIs(s.runtime.Unmount(ctx, parcel), module.unmountErr)
	s.Assert().False(parcel.(*Parcel).IsMounted())
}

func (s *runtimeSuite) TestUnmountForeignParcel() {
	err := s.runtime.Unmount(context.Background(), &adapted{})
	s.Assert().Error(err)
}

func (s *runtimeSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	factory := func(ctx context.Context) (extension.Module, error) { return nil, ctx.Err() }

	_, err := s.runtime.Mount(ctx, factory, mountProps("app-a"))
	s.Assert().ErrorIs(err, context.Canceled)
}

func TestRuntime(t *testing.T) {
	suite.Run(t, new(runtimeSuite))
}

func TestAdapters(t *testing.T) {
	ctx := context.Background()

	t.Run("With registered ui library", func(t *testing.T) {
		react := New(WithLogger(log.DiscardLogger))
		adapters := NewAdapters(nil)
		adapters.Register("react", react)
		assert.Equal(t, []string{"react"}, adapters.Libraries())

		module := new(recordingModule)
		parcel, err := adapters.Mount(ctx, extension.StaticFactory(module), mountProps("app-a"))
		require.NoError(t, err)
		assert.Equal(t, "app-a", parcel.Name())

		require.NoError(t, adapters.Unmount(ctx, parcel))
		assert.EqualValues(t, 1, module.unmounts.Load())
	})
	t.Run("With fallback", func(t *testing.T) {
		adapters := NewAdapters(New(WithLogger(log.DiscardLogger)))
		props := mountProps("app-a")
		props.UILib = "vue"

		module := new(recordingModule)
		parcel, err := adapters.Mount(ctx, extension.StaticFactory(module), props)
		require.NoError(t, err)
		require.NoError(t, adapters.Unmount(ctx, parcel))
		assert.EqualValues(t, 1, module.unmounts.Load())
	})
	t.Run("With unknown ui library", func(t *testing.T) {
		adapters := NewAdapters(nil)
		props := mountProps("app-a")
		props.UILib = "svelte"

		parcel, err := adapters.Mount(ctx, extension.StaticFactory(new(recordingModule)), props)
		assert.Nil(t, parcel)
		assert.ErrorIs(t, err, gerrors.ErrAdapterNotFound)
		assert.Contains(t, err.Error(), "svelte")
	})
	t.Run("With mount failure", func(t *testing.T) {
		adapters := NewAdapters(New(WithLogger(log.DiscardLogger)))
		module := &recordingModule{mountErr: errors.New("render failed")}
		parcel, err := adapters.Mount(ctx, extension.StaticFactory(module), mountProps("app-a"))
		assert.Nil(t, parcel)
		assert.ErrorIs(t, err, module.mountErr)
	})
	t.Run("With foreign parcel", func(t *testing.T) {
		adapters := NewAdapters(nil)
		assert.Error(t, adapters.Unmount(ctx, &Parcel{}))
	})
}

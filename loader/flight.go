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
	"sync"

	"github.com/tochemey/goslot/extension"
)

// flights tracks, per instance key, a generation bumped by every unload and
// the cancel funcs of the loads in flight. A load belongs to the generation
// it started in, so a load issued after an unload never joins an older flight.
type flights struct {
	mu          sync.Mutex
	generations map[extension.InstanceKey]uint64
	cancels     map[extension.InstanceKey]map[uint64]context.CancelFunc
}

func newFlights() *flights {
	return &flights{
		generations: make(map[extension.InstanceKey]uint64),
		cancels:     make(map[extension.InstanceKey]map[uint64]context.CancelFunc),
	}
}

// generation returns the current generation of key
func (f *flights) generation(key extension.InstanceKey) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generations[key]
}

// start records the cancel func of the load of key in generation gen
func (f *flights) start(key extension.InstanceKey, gen uint64, cancel context.CancelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byGen, ok := f.cancels[key]
	if !ok {
		byGen = make(map[uint64]context.CancelFunc)
		f.cancels[key] = byGen
	}
	byGen[gen] = cancel
}

// finish forgets the load of key in generation gen
func (f *flights) finish(key extension.InstanceKey, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if byGen, ok := f.cancels[key]; ok {
		delete(byGen, gen)
		if len(byGen) == 0 {
			delete(f.cancels, key)
		}
	}
}

// supersede starts a new generation for key and cancels every load of the
// previous ones.
func (f *flights) supersede(key extension.InstanceKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generations[key]++
	for _, cancel := range f.cancels[key] {
		cancel()
	}
	delete(f.cancels, key)
}

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

// Package keylock serialises work per key.
package keylock

import "sync"

// entry queues the goroutines holding or waiting for one key. The head of
// waiters holds the lock.
type entry struct {
	waiters []chan struct{}
}

// Locker hands out one lock per key. Waiters acquire a key in the order they
// called Lock. Entries are dropped once no goroutine holds or waits for them,
// so the table only grows with in-flight keys.
type Locker[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

// New creates a Locker
func New[K comparable]() *Locker[K] {
	return &Locker[K]{entries: make(map[K]*entry)}
}

// Lock blocks until the lock for key is acquired and returns its release func.
func (l *Locker[K]) Lock(key K) (unlock func()) {
	ready := make(chan struct{})

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = new(entry)
		l.entries[key] = e
	}
	e.waiters = append(e.waiters, ready)
	if len(e.waiters) == 1 {
		close(ready)
	}
	l.mu.Unlock()

	<-ready

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			e.waiters = e.waiters[1:]
			if len(e.waiters) == 0 {
				delete(l.entries, key)
				return
			}
			close(e.waiters[0])
		})
	}
}

// Waiters returns the number of goroutines holding or waiting for key.
func (l *Locker[K]) Waiters(key K) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[key]; ok {
		return len(e.waiters)
	}
	return 0
}

// Len returns the number of keys currently locked or waited for.
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

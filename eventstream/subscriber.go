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

package eventstream

import (
	"slices"
	"sync"

	gods "github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Subscriber buffers the messages published on its topics until drained.
type Subscriber interface {
	// ID returns the subscriber id
	ID() string
	// Active reports whether the subscriber still receives messages
	Active() bool
	// Topics returns the subscribed topics, sorted
	Topics() []string
	// Pending returns the number of buffered messages
	Pending() int
	// Iterator drains the buffered messages in publication order.
	Iterator() chan *Message
	// Shutdown stops the subscriber and drops its buffered messages
	Shutdown()
}

type subscriber struct {
	id       string
	mu       sync.Mutex
	messages *gods.Queue
	topics   map[string]struct{}
	active   *atomic.Bool
}

var _ Subscriber = (*subscriber)(nil)

func newSubscriber() *subscriber {
	return &subscriber{
		id:       uuid.NewString(),
		messages: gods.New(16),
		topics:   make(map[string]struct{}),
		active:   atomic.NewBool(true),
	}
}

func (x *subscriber) ID() string {
	return x.id
}

func (x *subscriber) Active() bool {
	return x.active.Load()
}

func (x *subscriber) Topics() []string {
	x.mu.Lock()
	topics := make([]string, 0, len(x.topics))
	for topic := range x.topics {
		topics = append(topics, topic)
	}
	x.mu.Unlock()
	slices.Sort(topics)
	return topics
}

func (x *subscriber) Pending() int {
	if !x.active.Load() {
		return 0
	}
	return int(x.messages.Len())
}

func (x *subscriber) Iterator() chan *Message {
	size := x.messages.Len()
	out := make(chan *Message, size)
	for i := int64(0); i < size && x.active.Load(); i++ {
		items, err := x.messages.Get(1)
		if err != nil || len(items) == 0 {
			break
		}
		if msg, ok := items[0].(*Message); ok {
			out <- msg
		}
	}
	close(out)
	return out
}

func (x *subscriber) Shutdown() {
	if x.active.CompareAndSwap(true, false) {
		x.messages.Dispose()
	}
}

func (x *subscriber) signal(message *Message) {
	if x.active.Load() {
		_ = x.messages.Put(message)
	}
}

func (x *subscriber) subscribe(topic string) {
	x.mu.Lock()
	x.topics[topic] = struct{}{}
	x.mu.Unlock()
}

func (x *subscriber) unsubscribe(topic string) {
	x.mu.Lock()
	delete(x.topics, topic)
	x.mu.Unlock()
}

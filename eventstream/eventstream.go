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

// Package eventstream is an in-process topic broker. The loader publishes
// lifecycle events on it and hosts hand it to extensions as their event bus.
//
// Publication is synchronous: once Publish returns, every subscriber of the
// topic has the message queued, in publication order.
package eventstream

import (
	"sync"
	"time"
)

// Stream routes published messages to the subscribers of their topic.
// It is safe for concurrent use.
type Stream struct {
	mu     sync.RWMutex
	topics map[string]map[string]*subscriber
	subs   map[string]*subscriber
	closed bool
}

// New creates a Stream
func New() *Stream {
	return &Stream{
		topics: make(map[string]map[string]*subscriber),
		subs:   make(map[string]*subscriber),
	}
}

// Subscribe creates a subscriber listening on the given topics. Subscribing
// to a closed stream returns an inactive subscriber.
func (s *Stream) Subscribe(topics ...string) Subscriber {
	sub := newSubscriber()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.Shutdown()
		return sub
	}

	s.subs[sub.ID()] = sub
	s.attach(sub, topics)
	return sub
}

// AddTopics subscribes an existing subscriber to more topics
func (s *Stream) AddTopics(sub Subscriber, topics ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x, ok := s.subs[sub.ID()]; ok && x.Active() {
		s.attach(x, topics)
	}
}

// Unsubscribe detaches sub from the given topics. Without topics the
// subscriber is detached from all of them and shut down.
func (s *Stream) Unsubscribe(sub Subscriber, topics ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, ok := s.subs[sub.ID()]
	if !ok {
		return
	}

	if len(topics) == 0 {
		topics = x.Topics()
		delete(s.subs, x.ID())
		defer x.Shutdown()
	}

	for _, topic := range topics {
		x.unsubscribe(topic)
		if members, ok := s.topics[topic]; ok {
			delete(members, x.ID())
			if len(members) == 0 {
				delete(s.topics, topic)
			}
		}
	}
}

// SubscribersCount returns the number of subscribers of topic
func (s *Stream) SubscribersCount(topic string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.topics[topic])
}

// Publish queues msg for every subscriber of topic
func (s *Stream) Publish(topic string, msg any) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := s.topics[topic]
	if len(members) == 0 {
		return
	}

	message := &Message{topic: topic, payload: msg, publishedAt: time.Now()}
	for _, sub := range members {
		sub.signal(message)
	}
}

// Close shuts every subscriber down. Messages published afterwards are dropped.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		sub.Shutdown()
	}
	s.subs = make(map[string]*subscriber)
	s.topics = make(map[string]map[string]*subscriber)
	s.closed = true
}

// attach must be called with the write lock held
func (s *Stream) attach(sub *subscriber, topics []string) {
	for _, topic := range topics {
		sub.subscribe(topic)
		members, ok := s.topics[topic]
		if !ok {
			members = make(map[string]*subscriber)
			s.topics[topic] = members
		}
		members[sub.ID()] = sub
	}
}

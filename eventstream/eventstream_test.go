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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func payloads(sub Subscriber) []any {
	var out []any
	for msg := range sub.Iterator() {
		out = append(out, msg.Payload())
	}
	return out
}

type streamSuite struct {
	suite.Suite
	stream *Stream
}

func (s *streamSuite) SetupTest() {
	s.stream = New()
}

func (s *streamSuite) TearDownTest() {
	s.stream.Close()
}

func (s *streamSuite) TestSubscribe() {
	sub := s.stream.Subscribe("t2", "t1")
	s.Require().NotEmpty(sub.ID())
	s.Assert().True(sub.Active())
	s.Assert().Equal([]string{"t1", "t2"}, sub.Topics())
	s.Assert().Equal(1, s.stream.SubscribersCount("t1"))
	s.Assert().Equal(1, s.stream.SubscribersCount("t2"))

	s.stream.AddTopics(sub, "t3")
	s.Assert().Equal([]string{"t1", "t2", "t3"}, sub.Topics())
	s.Assert().Equal(1, s.stream.SubscribersCount("t3"))

	for range sub.Iterator() {
		s.Fail("a new subscriber has no messages")
	}
}

func (s *streamSuite) TestPublish() {
	sub := s.stream.Subscribe("t1", "t2")
	other := s.stream.Subscribe("t2")

	s.stream.Publish("t1", "first")
	s.stream.Publish("t2", "second")
	s.stream.Publish("unknown", "dropped")

	s.Assert().Equal(2, sub.Pending())
	var topics []string
	for msg := range sub.Iterator() {
		topics = append(topics, msg.Topic())
		s.Assert().False(msg.PublishedAt().IsZero())
	}
	s.Assert().Equal([]string{"t1", "t2"}, topics)
	s.Assert().Zero(sub.Pending())
	s.Assert().Equal([]any{"second"}, payloads(other))
}

func (s *streamSuite) TestUnsubscribe() {
	sub := s.stream.Subscribe("t1", "t2")

	s.stream.Unsubscribe(sub, "t1")
	s.Assert().Equal([]string{"t2"}, sub.Topics())
	s.Assert().Zero(s.stream.SubscribersCount("t1"))
	s.Assert().True(sub.Active())

	s.stream.Publish("t1", "ignored")
	s.stream.Publish("t2", "kept")
	s.Assert().Equal([]any{"kept"}, payloads(sub))

	s.stream.Unsubscribe(sub)
	s.Assert().False(sub.Active())
	s.Assert().Zero(s.stream.SubscribersCount("t2"))

	// an unknown subscriber is ignored
	s.stream.Unsubscribe(sub)
	s.stream.AddTopics(sub, "t3")
	s.Assert().Zero(s.stream.SubscribersCount("t3"))
}

func (s *streamSuite) TestClose() {
	sub := s.stream.Subscribe("t1")
	s.stream.Publish("t1", "pending")
	s.stream.Close()

	s.Assert().False(sub.Active())
	s.Assert().Zero(sub.Pending())
	s.Assert().Empty(payloads(sub))
	s.Assert().Zero(s.stream.SubscribersCount("t1"))

	late := s.stream.Subscribe("t1")
	s.Assert().False(late.Active())
	s.stream.Publish("t1", "dropped")
	s.Assert().Empty(payloads(late))

	// shutting down twice is harmless
	sub.Shutdown()
}

func (s *streamSuite) TestConcurrentPublishers() {
	sub := s.stream.Subscribe("t1")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.stream.Publish("t1", i*10+j)
			}
		}(i)
	}
	wg.Wait()

	s.Assert().Len(payloads(sub), 100)
}

func TestStream(t *testing.T) {
	suite.Run(t, new(streamSuite))
}

func TestSubscriberOrder(t *testing.T) {
	stream := New()
	defer stream.Close()

	sub := stream.Subscribe("t1")
	for i := 0; i < 50; i++ {
		stream.Publish("t1", i)
	}

	got := payloads(sub)
	require.Len(t, got, 50)
	for i, payload := range got {
		assert.Equal(t, i, payload)
	}
}

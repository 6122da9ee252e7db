// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package requestlog_test

import (
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/requestlog/mocks"
)

type BroadcasterPublicTestSuite struct {
	suite.Suite

	mockCtrl *gomock.Controller
	sut      *requestlog.Broadcaster
}

func (s *BroadcasterPublicTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.sut = requestlog.NewBroadcaster(slog.Default())
}

func (s *BroadcasterPublicTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *BroadcasterPublicTestSuite) newSubscriber(
	id string,
) *mocks.MockSubscriber {
	sub := mocks.NewMockSubscriber(s.mockCtrl)
	sub.EXPECT().ID().Return(id).AnyTimes()

	return sub
}

func (s *BroadcasterPublicTestSuite) TestRegister() {
	a := s.newSubscriber("a")
	b := s.newSubscriber("b")

	s.sut.Register(a)
	s.sut.Register(b)
	s.sut.Register(a)

	s.Equal(2, s.sut.Len())
}

func (s *BroadcasterPublicTestSuite) TestUnregister() {
	a := s.newSubscriber("a")
	unknown := s.newSubscriber("unknown")

	s.sut.Register(a)
	s.sut.Unregister(unknown)
	s.Equal(1, s.sut.Len())

	s.sut.Unregister(a)
	s.sut.Unregister(a)
	s.Equal(0, s.sut.Len())
}

func (s *BroadcasterPublicTestSuite) TestPublish() {
	payload := []byte(`{"id":1}`)

	tests := []struct {
		name        string
		setup           func() []*mocks.MockSubscriber
		expectDelivered int
		expectCount     int
	}{
		{
			name: "when no subscribers",
			setup: func() []*mocks.MockSubscriber {
				return nil
			},
			expectDelivered: 0,
			expectCount:     0,
		},
		{
			name: "when all subscribers healthy",
			setup: func() []*mocks.MockSubscriber {
				a := s.newSubscriber("a")
				a.EXPECT().Closed().Return(false)
				a.EXPECT().Send(payload).Return(nil)

				b := s.newSubscriber("b")
				b.EXPECT().Closed().Return(false)
				b.EXPECT().Send(payload).Return(nil)

				return []*mocks.MockSubscriber{a, b}
			},
			expectDelivered: 2,
			expectCount:     2,
		},
		{
			name: "when one subscriber fails to send",
			setup: func() []*mocks.MockSubscriber {
				failing := s.newSubscriber("failing")
				failing.EXPECT().Closed().Return(false)
				failing.EXPECT().Send(payload).Return(requestlog.ErrQueueFull)
				failing.EXPECT().Close()

				healthy := s.newSubscriber("healthy")
				healthy.EXPECT().Closed().Return(false)
				healthy.EXPECT().Send(payload).Return(nil)

				return []*mocks.MockSubscriber{failing, healthy}
			},
			expectDelivered: 1,
			expectCount:     1,
		},
		{
			name: "when one subscriber already closed",
			setup: func() []*mocks.MockSubscriber {
				closed := s.newSubscriber("closed")
				closed.EXPECT().Closed().Return(true)

				healthy := s.newSubscriber("healthy")
				healthy.EXPECT().Closed().Return(false)
				healthy.EXPECT().Send(payload).Return(nil)

				return []*mocks.MockSubscriber{closed, healthy}
			},
			expectDelivered: 1,
			expectCount:     1,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			for _, sub := range tt.setup() {
				s.sut.Register(sub)
			}

			delivered := s.sut.Publish(payload)

			s.Equal(tt.expectDelivered, delivered)
			s.Equal(tt.expectCount, s.sut.Len())
		})
	}
}

func (s *BroadcasterPublicTestSuite) TestCloseAll() {
	a := s.newSubscriber("a")
	a.EXPECT().Close()
	b := s.newSubscriber("b")
	b.EXPECT().Close()

	s.sut.Register(a)
	s.sut.Register(b)
	s.sut.CloseAll()

	s.Equal(0, s.sut.Len())
}

func TestBroadcasterPublicTestSuite(t *testing.T) {
	suite.Run(t, new(BroadcasterPublicTestSuite))
}

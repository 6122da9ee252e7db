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

package stream_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/stream"
)

const signingKey = "stream-test-secret"

type GatewayPublicTestSuite struct {
	suite.Suite

	authority   *authtoken.Authority
	broadcaster *requestlog.Broadcaster
	gateway     *stream.Gateway
	server      *httptest.Server
}

func (s *GatewayPublicTestSuite) SetupTest() {
	s.authority = authtoken.NewAuthority(
		slog.Default(),
		authtoken.New(slog.Default()),
		signingKey,
		nil,
	)
	s.broadcaster = requestlog.NewBroadcaster(slog.Default())
	s.gateway = stream.NewGateway(
		slog.Default(),
		s.authority,
		s.broadcaster,
		stream.Config{
			QueueSize:      4,
			WriteTimeout:   time.Second,
			PingInterval:   time.Second,
			AllowedOrigins: []string{"http://allowed.example"},
		},
	)
	s.server = httptest.NewServer(s.gateway)
}

func (s *GatewayPublicTestSuite) TearDownTest() {
	s.gateway.Shutdown()
	s.server.Close()
}

func (s *GatewayPublicTestSuite) dial(
	query string,
) (*websocket.Conn, *http.Response, error) {
	url := strings.Replace(s.server.URL, "http", "ws", 1) + "/ws/requests" + query
	return websocket.DefaultDialer.Dial(url, nil)
}

func (s *GatewayPublicTestSuite) issue(
	roles ...authtoken.Role,
) string {
	token, err := s.authority.Issue("alice@example.com", roles)
	s.Require().NoError(err)

	return token
}

func (s *GatewayPublicTestSuite) TestRejectsUnauthenticated() {
	tests := []struct {
		name  string
		query func() string
	}{
		{
			name:  "when token missing",
			query: func() string { return "" },
		},
		{
			name:  "when token empty",
			query: func() string { return "?token=" },
		},
		{
			name:  "when token malformed",
			query: func() string { return "?token=not-a-jwt" },
		},
		{
			name: "when token signed with another key",
			query: func() string {
				other := authtoken.New(slog.Default())
				t, err := other.Generate("other-key", []authtoken.Role{authtoken.RoleUser}, "alice")
				s.Require().NoError(err)
				return "?token=" + t
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ws, _, err := s.dial(tt.query())
			s.Require().NoError(err)
			defer func() { _ = ws.Close() }()

			s.broadcaster.Publish([]byte(`{"id":1}`))

			_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, _, err = ws.ReadMessage()

			var closeErr *websocket.CloseError
			s.Require().True(errors.As(err, &closeErr), "unexpected error: %v", err)
			s.Equal(websocket.ClosePolicyViolation, closeErr.Code)
			s.Equal(stream.CloseReasonAuth, closeErr.Text)
			s.Equal(0, s.broadcaster.Len())
			s.Equal(0, s.gateway.Len())
		})
	}
}

func (s *GatewayPublicTestSuite) TestStreamsPublishedEntries() {
	ws, _, err := s.dial("?token=" + s.issue(authtoken.RoleUser))
	s.Require().NoError(err)
	defer func() { _ = ws.Close() }()

	s.Require().Eventually(func() bool {
		return s.broadcaster.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	s.Equal(1, s.gateway.Len())

	payloads := []string{`{"id":1}`, `{"id":2}`, `{"id":3}`}
	for _, p := range payloads {
		s.Equal(1, s.broadcaster.Publish([]byte(p)))
	}

	for _, want := range payloads {
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		msgType, got, err := ws.ReadMessage()
		s.Require().NoError(err)
		s.Equal(websocket.TextMessage, msgType)
		s.JSONEq(want, string(got))
	}
}

func (s *GatewayPublicTestSuite) TestPeerCloseUnregisters() {
	ws, _, err := s.dial("?token=" + s.issue(authtoken.RoleAdmin))
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		return s.broadcaster.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	_ = ws.Close()

	s.Eventually(func() bool {
		return s.broadcaster.Len() == 0 && s.gateway.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *GatewayPublicTestSuite) TestShutdownClosesSessions() {
	ws, _, err := s.dial("?token=" + s.issue(authtoken.RoleUser))
	s.Require().NoError(err)
	defer func() { _ = ws.Close() }()

	s.Require().Eventually(func() bool {
		return s.gateway.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.gateway.Shutdown()

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = ws.ReadMessage()
	s.Error(err)

	s.Eventually(func() bool {
		return s.broadcaster.Len() == 0 && s.gateway.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *GatewayPublicTestSuite) TestStalledSubscriberEvicted() {
	broadcaster := requestlog.NewBroadcaster(slog.Default())
	gateway := stream.NewGateway(
		slog.Default(),
		s.authority,
		broadcaster,
		stream.Config{
			QueueSize:    8,
			WriteTimeout: 3 * time.Second,
			PingInterval: time.Minute,
		},
	)
	server := httptest.NewServer(gateway)
	defer func() {
		gateway.Shutdown()
		server.Close()
	}()

	url := strings.Replace(server.URL, "http", "ws", 1) + "/ws/requests?token=" +
		s.issue(authtoken.RoleUser)

	// stalled never reads, so its socket buffers fill and its write loop blocks.
	stalled, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer func() { _ = stalled.Close() }()

	healthy, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer func() { _ = healthy.Close() }()

	s.Require().Eventually(func() bool {
		return broadcaster.Len() == 2
	}, 2*time.Second, 10*time.Millisecond)

	const publishes = 40
	payload := []byte(`"` + strings.Repeat("x", 1<<20) + `"`)

	received := make(chan int, 1)
	go func() {
		n := 0
		for n < publishes {
			_ = healthy.SetReadDeadline(time.Now().Add(5 * time.Second))
			if _, _, err := healthy.ReadMessage(); err != nil {
				break
			}
			n++
		}
		received <- n
	}()

	var slowest time.Duration
	for range publishes {
		start := time.Now()
		broadcaster.Publish(payload)
		slowest = max(slowest, time.Since(start))
		time.Sleep(20 * time.Millisecond)
	}

	s.Less(slowest, 500*time.Millisecond)
	s.Eventually(func() bool {
		return broadcaster.Len() == 1 && gateway.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
	s.Equal(publishes, <-received)
}

func (s *GatewayPublicTestSuite) TestCheckOrigin() {
	url := strings.Replace(s.server.URL, "http", "ws", 1) + "/ws/requests"

	tests := []struct {
		name        string
		origin      string
		expectError bool
	}{
		{
			name:   "when origin allowed",
			origin: "http://allowed.example",
		},
		{
			name:        "when origin not allowed",
			origin:      "http://evil.example",
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			header := http.Header{}
			header.Set("Origin", tt.origin)

			ws, resp, err := websocket.DefaultDialer.Dial(url, header)
			if tt.expectError {
				s.Error(err)
				s.Require().NotNil(resp)
				s.Equal(http.StatusForbidden, resp.StatusCode)
				return
			}

			s.NoError(err)
			_ = ws.Close()
		})
	}
}

func TestGatewayPublicTestSuite(t *testing.T) {
	suite.Run(t, new(GatewayPublicTestSuite))
}

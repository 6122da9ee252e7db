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

// Package stream upgrades authenticated clients to WebSocket sessions that
// receive every new request log entry as it is recorded.
package stream

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/requestlog"
)

const (
	// DefaultQueueSize is the per-connection outbound queue length.
	DefaultQueueSize = 64
	// DefaultWriteTimeout bounds a single frame write.
	DefaultWriteTimeout = 5 * time.Second
	// DefaultPingInterval is how often keepalive pings are sent.
	DefaultPingInterval = 30 * time.Second

	// CloseReasonAuth is sent with the policy-violation close frame.
	CloseReasonAuth = "authentication failed"

	maxMessageSize = 512
)

// State is the lifecycle position of a streaming connection.
type State int32

const (
	// StateConnecting is the state before the upgrade completes.
	StateConnecting State = iota
	// StateAuthenticating is the state while the token is checked.
	StateAuthenticating
	// StateOpen means the connection is registered and receiving entries.
	StateOpen
	// StateClosed is terminal.
	StateClosed
)

// Verifier checks a session token.
type Verifier interface {
	Verify(tokenString string) (*authtoken.CustomClaims, error)
}

// Registry tracks connections that should receive published entries.
type Registry interface {
	Register(sub requestlog.Subscriber)
	Unregister(sub requestlog.Subscriber)
}

// Config tunes the gateway.
type Config struct {
	QueueSize      int
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	AllowedOrigins []string
}

// Gateway accepts streaming connections.
type Gateway struct {
	logger   *slog.Logger
	verifier Verifier
	registry Registry
	upgrader websocket.Upgrader
	config   Config

	mu    sync.Mutex
	conns map[string]*Conn
}

// Conn is one streaming session. It implements requestlog.Subscriber.
type Conn struct {
	id      string
	subject string
	ws      *websocket.Conn
	logger  *slog.Logger
	config  Config

	send  chan []byte
	done  chan struct{}
	state atomic.Int32

	closeOnce sync.Once
	onClose   func(*Conn)
}

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

package stream

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/telemetry"
)

// NewGateway creates a Gateway. Zero values in config fall back to the
// package defaults.
func NewGateway(
	logger *slog.Logger,
	verifier Verifier,
	registry Registry,
	config Config,
) *Gateway {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}
	if config.PingInterval <= 0 {
		config.PingInterval = DefaultPingInterval
	}

	return &Gateway{
		logger:   logger,
		verifier: verifier,
		registry: registry,
		config:   config,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(config.AllowedOrigins),
		},
		conns: make(map[string]*Conn),
	}
}

// ServeHTTP upgrades the request, authenticates the token query parameter
// and, on success, streams entries until either side closes. It blocks for
// the lifetime of the session.
func (g *Gateway) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Debug("stream upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newConn(uuid.NewString(), "", ws, g.logger, g.config, g.release)

	claims, ok := g.authenticate(r.URL.Query().Get("token"))
	if !ok {
		g.reject(conn)
		return
	}
	conn.subject = claims.Subject

	g.track(conn)
	if !conn.open() {
		return
	}

	g.registry.Register(conn)
	if conn.Closed() {
		g.registry.Unregister(conn)
		return
	}

	g.logger.DebugContext(
		telemetry.WithSubject(r.Context(), conn.Subject()),
		"stream opened",
		slog.String("subscriber", conn.ID()),
	)

	go conn.writeLoop()
	conn.readLoop()
}

// Len returns the number of open sessions.
func (g *Gateway) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.conns)
}

// Shutdown sends a normal-closure frame to every open session and closes
// it. Sessions are closed concurrently, so a stalled peer costs at most one
// WriteTimeout in total.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	conns := make([]*Conn, 0, len(g.conns))
	for _, c := range g.conns {
		conns = append(conns, c)
	}
	g.mu.Unlock()

	var wg sync.WaitGroup
	for _, c := range conns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.closeNormal()
		}()
	}
	wg.Wait()
}

func (g *Gateway) authenticate(
	token string,
) (*authtoken.CustomClaims, bool) {
	if token == "" {
		return nil, false
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, false
	}

	perms := authtoken.ResolvePermissions(claims.Roles)
	if !authtoken.HasPermission(perms, authtoken.PermRequestsStream) {
		return nil, false
	}

	return claims, true
}

// reject sends a policy-violation close frame. The connection is never
// registered, so no entry can reach it.
func (g *Gateway) reject(
	conn *Conn,
) {
	conn.closeOnce.Do(func() {
		conn.state.Store(int32(StateClosed))
		close(conn.done)

		_ = conn.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, CloseReasonAuth),
			time.Now().Add(g.config.WriteTimeout),
		)
		_ = conn.ws.Close()
	})

	g.logger.Debug("stream rejected", slog.String("subscriber", conn.ID()))
}

func (g *Gateway) track(
	conn *Conn,
) {
	g.mu.Lock()
	g.conns[conn.ID()] = conn
	g.mu.Unlock()
}

func (g *Gateway) release(
	conn *Conn,
) {
	g.registry.Unregister(conn)

	g.mu.Lock()
	delete(g.conns, conn.ID())
	g.mu.Unlock()
}

// checkOrigin returns nil for an empty list, which keeps the upgrader's
// same-origin default.
func checkOrigin(
	allowed []string,
) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}

	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		return slices.Contains(allowed, origin)
	}
}

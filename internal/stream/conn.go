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
	"time"

	"github.com/gorilla/websocket"

	"github.com/retr0h/reqwatch/internal/requestlog"
)

func newConn(
	id string,
	subject string,
	ws *websocket.Conn,
	logger *slog.Logger,
	config Config,
	onClose func(*Conn),
) *Conn {
	c := &Conn{
		id:      id,
		subject: subject,
		ws:      ws,
		logger:  logger.With(slog.String("subscriber", id)),
		config:  config,
		send:    make(chan []byte, config.QueueSize),
		done:    make(chan struct{}),
		onClose: onClose,
	}
	c.state.Store(int32(StateAuthenticating))

	return c
}

// ID returns the connection identifier.
func (c *Conn) ID() string {
	return c.id
}

// Subject returns the authenticated identity.
func (c *Conn) Subject() string {
	return c.subject
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	return State(c.state.Load())
}

// Send queues payload without blocking.
func (c *Conn) Send(
	payload []byte,
) error {
	if c.Closed() {
		return requestlog.ErrSubscriberClosed
	}

	select {
	case <-c.done:
		return requestlog.ErrSubscriberClosed
	case c.send <- payload:
		return nil
	default:
		return requestlog.ErrQueueFull
	}
}

// Closed reports whether the connection reached StateClosed.
func (c *Conn) Closed() bool {
	return c.State() == StateClosed
}

// Close terminates the session. It never waits on the peer: closing the
// socket unblocks a write loop stuck on a slow reader, so Close is safe to
// call from Publish. Only the first call has any effect.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.done)
		_ = c.ws.Close()

		if c.onClose != nil {
			c.onClose(c)
		}

		c.logger.Debug("stream closed")
	})
}

// closeNormal sends a normal-closure frame, waiting at most WriteTimeout,
// then closes the session.
func (c *Conn) closeNormal() {
	if !c.Closed() {
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.config.WriteTimeout),
		)
	}

	c.Close()
}

// open moves an authenticating connection to StateOpen. It reports false
// when the connection was closed first.
func (c *Conn) open() bool {
	return c.state.CompareAndSwap(int32(StateAuthenticating), int32(StateOpen))
}

// writeLoop is the only goroutine that writes data frames.
func (c *Conn) writeLoop() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("stream ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// readLoop discards client frames; it exists to process control frames and
// to notice the peer going away.
func (c *Conn) readLoop() {
	defer c.Close()

	pongWait := 2 * c.config.PingInterval

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
			) {
				c.logger.Debug("stream read failed", slog.String("error", err.Error()))
			}
			return
		}
	}
}

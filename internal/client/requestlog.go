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

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/telemetry"
)

// ListRequests returns up to limit entries, newest first.
func (c *Client) ListRequests(
	ctx context.Context,
	limit int,
) ([]requestlog.Entry, error) {
	query := url.Values{}
	if limit >= 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out []requestlog.Entry
	if err := c.do(ctx, http.MethodGet, "/api/metrics/requests", query, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// TailRequests follows the request stream. A normal close by the server or
// a cancelled ctx ends it without error.
func (c *Client) TailRequests(
	ctx context.Context,
	handle func(entry requestlog.Entry) error,
) error {
	header := http.Header{}
	telemetry.InjectTraceContext(ctx, header)

	ws, resp, err := c.dialer.DialContext(ctx, c.streamURL(), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	defer func() { _ = ws.Close() }()

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			_ = ws.Close()
		case <-stop:
		}
	}()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return c.streamError(ctx, err)
		}

		var entry requestlog.Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			c.logger.Warn(
				"skipping malformed stream message",
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := handle(entry); err != nil {
			return err
		}
	}
}

func (c *Client) streamURL() string {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws/requests"

	query := url.Values{}
	query.Set("token", c.token)
	u.RawQuery = query.Encode()

	return u.String()
}

func (c *Client) streamError(
	ctx context.Context,
	err error,
) error {
	if ctx.Err() != nil {
		return nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			return nil
		case websocket.ClosePolicyViolation:
			return fmt.Errorf("%w: %s", ErrStreamRejected, closeErr.Text)
		}
	}

	return fmt.Errorf("read stream: %w", err)
}

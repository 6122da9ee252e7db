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

// Package client talks to the reqwatch API over HTTP and WebSocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/retr0h/reqwatch/internal/api/auth"
	"github.com/retr0h/reqwatch/internal/api/health"
	"github.com/retr0h/reqwatch/internal/requestlog"
)

// ErrStreamRejected is returned by TailRequests when the server closes the
// stream with a policy violation.
var ErrStreamRejected = errors.New("stream rejected")

// ResponseError is a non-2xx API response.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// AuthHandler covers the session endpoints.
type AuthHandler interface {
	// Register creates an identity and returns its first token.
	Register(
		ctx context.Context,
		req auth.RegisterRequest,
	) (*auth.AuthResponse, error)
	// Login exchanges credentials for a token.
	Login(
		ctx context.Context,
		email string,
		password string,
	) (*auth.AuthResponse, error)
	// Me describes the caller.
	Me(
		ctx context.Context,
	) (*auth.UserInfo, error)
	// ListIdentities lists every identity. Requires ADMIN.
	ListIdentities(
		ctx context.Context,
	) ([]auth.UserInfo, error)
	// GetIdentity returns one identity by ID. Requires ADMIN.
	GetIdentity(
		ctx context.Context,
		id string,
	) (*auth.UserInfo, error)
	// DeleteIdentity removes an identity by ID. Requires ADMIN.
	DeleteIdentity(
		ctx context.Context,
		id string,
	) error
}

// RequestLogHandler covers request history and the live stream.
type RequestLogHandler interface {
	// ListRequests returns up to limit entries, newest first. A negative
	// limit omits the parameter and returns everything retained.
	ListRequests(
		ctx context.Context,
		limit int,
	) ([]requestlog.Entry, error)
	// TailRequests calls handle for every streamed entry until ctx is done,
	// the server closes the stream or handle returns an error.
	TailRequests(
		ctx context.Context,
		handle func(entry requestlog.Entry) error,
	) error
}

// HealthHandler covers the status endpoint.
type HealthHandler interface {
	// HealthStatus returns the authenticated status report.
	HealthStatus(
		ctx context.Context,
	) (*health.StatusResponse, error)
}

// CombinedHandler is a superset of all smaller handler interfaces.
type CombinedHandler interface {
	AuthHandler
	RequestLogHandler
	HealthHandler
}

// Client implements CombinedHandler.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
}

type authTransport struct {
	base   http.RoundTripper
	token  string
	logger *slog.Logger
}

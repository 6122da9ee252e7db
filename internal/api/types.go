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

package api

import (
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/health"
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/config"
	"github.com/retr0h/reqwatch/internal/identity"
	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/stream"
)

// Server implementation of the Server's API operations.
type Server struct {
	// Echo the HTTP framework instance.
	Echo *echo.Echo

	logger    *slog.Logger
	appConfig config.Config
	clock     clock.Clock

	recorder      *requestlog.Recorder
	authority     *authtoken.Authority
	directory     *identity.Directory
	gateway       *stream.Gateway
	healthHandler *health.Health
}

// Option configures optional Server dependencies.
type Option func(*Server)

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(tokenString string) (*authtoken.CustomClaims, error)
}

// WithRecorder enables request capture into recorder.
func WithRecorder(
	recorder *requestlog.Recorder,
) Option {
	return func(s *Server) {
		s.recorder = recorder
	}
}

// WithAuthority sets the token authority used to verify bearer tokens and
// to issue tokens on login.
func WithAuthority(
	authority *authtoken.Authority,
) Option {
	return func(s *Server) {
		s.authority = authority
	}
}

// WithIdentityDirectory sets the identity directory for the auth handlers.
func WithIdentityDirectory(
	directory *identity.Directory,
) Option {
	return func(s *Server) {
		s.directory = directory
	}
}

// WithGateway sets the streaming gateway.
func WithGateway(
	gateway *stream.Gateway,
) Option {
	return func(s *Server) {
		s.gateway = gateway
	}
}

// WithHealthHandler sets the health handler.
func WithHealthHandler(
	handler *health.Health,
) Option {
	return func(s *Server) {
		s.healthHandler = handler
	}
}

// WithClock replaces the clock used to time requests.
func WithClock(
	c clock.Clock,
) Option {
	return func(s *Server) {
		s.clock = c
	}
}

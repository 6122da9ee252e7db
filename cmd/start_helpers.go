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

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api"
	"github.com/retr0h/reqwatch/internal/api/health"
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/cli"
	"github.com/retr0h/reqwatch/internal/config"
	"github.com/retr0h/reqwatch/internal/identity"
	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/stream"
)

// ServerManager responsible for Server operations.
type ServerManager interface {
	cli.Lifecycle
	// CreateHandlers initializes handlers and returns a slice of functions to register them.
	CreateHandlers(
		metricsHandler http.Handler,
		metricsPath string,
	) []func(e *echo.Echo)
	// RegisterHandlers registers a list of handlers with the Echo instance.
	RegisterHandlers(handlers []func(e *echo.Echo))
}

// pipeline is the request capture chain shared by the middleware, the
// query endpoint and the stream gateway.
type pipeline struct {
	store       *requestlog.Store
	broadcaster *requestlog.Broadcaster
	recorder    *requestlog.Recorder
}

func newPipeline(
	log *slog.Logger,
	cfg config.RequestLog,
) *pipeline {
	store := requestlog.NewStore(cfg.Capacity)
	broadcaster := requestlog.NewBroadcaster(log)

	return &pipeline{
		store:       store,
		broadcaster: broadcaster,
		recorder:    requestlog.NewRecorder(log, store, broadcaster),
	}
}

// newDirectory creates the identity directory and registers the configured
// bootstrap ADMIN.
func newDirectory(
	log *slog.Logger,
	cfg config.Identity,
) (*identity.Directory, error) {
	directory := identity.New(log)

	b := cfg.Bootstrap
	if err := directory.Bootstrap(b.Email, b.DisplayName, b.Password); err != nil {
		return nil, err
	}

	return directory, nil
}

func newAuthority(
	log *slog.Logger,
	cfg config.ServerSecurity,
	directory *identity.Directory,
) *authtoken.Authority {
	token := authtoken.New(log, authtoken.WithTTL(cfg.TokenTTL))

	return authtoken.NewAuthority(log, token, cfg.SigningKey, directory)
}

func newGateway(
	log *slog.Logger,
	authority *authtoken.Authority,
	p *pipeline,
) *stream.Gateway {
	return stream.NewGateway(log, authority, p.broadcaster, stream.Config{
		QueueSize:      appConfig.Stream.QueueSize,
		WriteTimeout:   appConfig.Stream.WriteTimeout,
		PingInterval:   appConfig.Stream.PingInterval,
		AllowedOrigins: appConfig.API.Server.Security.CORS.AllowOrigins,
	})
}

// newHealthChecker reports the identity directory unready while no ADMIN
// exists, since nobody could then manage identities.
func newHealthChecker(
	directory *identity.Directory,
) *health.ComponentChecker {
	return &health.ComponentChecker{
		Checks: map[string]func() error{
			"identity": func() error {
				if !directory.HasRole(authtoken.RoleAdmin) {
					return errors.New("no ADMIN identity registered")
				}
				return nil
			},
		},
	}
}

func newMetricsProvider(
	p *pipeline,
	gateway *stream.Gateway,
) *health.ClosureMetricsProvider {
	return &health.ClosureMetricsProvider{
		RequestLogStatsFn: func(_ context.Context) (*health.RequestLogMetrics, error) {
			return &health.RequestLogMetrics{
				Size:     p.store.Len(),
				Capacity: p.store.Capacity(),
				LastID:   p.store.LastID(),
			}, nil
		},
		StreamStatsFn: func(_ context.Context) (*health.StreamMetrics, error) {
			return &health.StreamMetrics{
				Subscribers: gateway.Len(),
			}, nil
		},
	}
}

// setupAPIServer builds the full request pipeline and returns the server
// with every handler registered.
func setupAPIServer(
	log *slog.Logger,
	metricsHandler http.Handler,
	metricsPath string,
) (ServerManager, error) {
	p := newPipeline(log, appConfig.RequestLog)

	directory, err := newDirectory(log, appConfig.Identity)
	if err != nil {
		return nil, err
	}

	authority := newAuthority(log, appConfig.API.Server.Security, directory)
	gateway := newGateway(log, authority, p)

	healthHandler := health.New(
		log,
		newHealthChecker(directory),
		time.Now(),
		version,
		newMetricsProvider(p, gateway),
	)

	sm := api.New(
		appConfig,
		log,
		api.WithRecorder(p.recorder),
		api.WithAuthority(authority),
		api.WithIdentityDirectory(directory),
		api.WithGateway(gateway),
		api.WithHealthHandler(healthHandler),
	)
	sm.RegisterHandlers(sm.CreateHandlers(metricsHandler, metricsPath))

	return sm, nil
}

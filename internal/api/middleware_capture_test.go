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
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/requestlog"
)

type CaptureMiddlewareTestSuite struct {
	suite.Suite

	clock    *clock.Mock
	store    *requestlog.Store
	recorder *requestlog.Recorder
}

func (s *CaptureMiddlewareTestSuite) SetupTest() {
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC))
	s.store = requestlog.NewStore(requestlog.DefaultCapacity)
	s.recorder = requestlog.NewRecorder(
		slog.Default(),
		s.store,
		requestlog.NewBroadcaster(slog.Default()),
	)
}

func (s *CaptureMiddlewareTestSuite) newEcho() *echo.Echo {
	e := echo.New()
	e.Use(captureMiddleware(s.recorder, s.clock, excludedCapturePaths("")))
	e.Use(middleware.Recover())

	return e
}

func (s *CaptureMiddlewareTestSuite) TestCaptureMiddleware() {
	tests := []struct {
		name        string
		method      string
		path        string
		handler     echo.HandlerFunc
		setupReq    func(*http.Request)
		wantEntries int
		validate    func(requestlog.Entry)
	}{
		{
			name:   "records anonymous request",
			method: http.MethodGet,
			path:   "/api/todos?page=2",
			handler: func(c echo.Context) error {
				s.clock.Add(25 * time.Millisecond)
				return c.NoContent(http.StatusOK)
			},
			setupReq: func(r *http.Request) {
				r.RemoteAddr = "10.1.2.3:5555"
			},
			wantEntries: 1,
			validate: func(e requestlog.Entry) {
				s.Equal(int64(1), e.ID)
				s.Equal(http.MethodGet, e.Method)
				s.Equal("/api/todos", e.Path)
				s.Equal(http.StatusOK, e.Status)
				s.Equal(int64(25), e.DurationMs)
				s.Equal(requestlog.Anonymous, e.User)
				s.Equal("10.1.2.3", e.IP)
				s.Equal(s.clock.Now().UTC(), e.Timestamp)
			},
		},
		{
			name:   "records authenticated subject",
			method: http.MethodPost,
			path:   "/api/todos",
			handler: func(c echo.Context) error {
				c.Set(common.ContextKeySubject, "alice@example.com")
				return c.NoContent(http.StatusCreated)
			},
			wantEntries: 1,
			validate: func(e requestlog.Entry) {
				s.Equal("alice@example.com", e.User)
				s.Equal(http.StatusCreated, e.Status)
			},
		},
		{
			name:   "records status of returned error",
			method: http.MethodGet,
			path:   "/api/missing",
			handler: func(_ echo.Context) error {
				return echo.NewHTTPError(http.StatusNotFound, "nope")
			},
			wantEntries: 1,
			validate: func(e requestlog.Entry) {
				s.Equal(http.StatusNotFound, e.Status)
			},
		},
		{
			name:   "records plain error as 500",
			method: http.MethodGet,
			path:   "/api/broken",
			handler: func(_ echo.Context) error {
				return errors.New("database unavailable")
			},
			wantEntries: 1,
			validate: func(e requestlog.Entry) {
				s.Equal(http.StatusInternalServerError, e.Status)
			},
		},
		{
			name:   "records panic as 500",
			method: http.MethodGet,
			path:   "/api/panic",
			handler: func(_ echo.Context) error {
				panic("boom")
			},
			wantEntries: 1,
			validate: func(e requestlog.Entry) {
				s.Equal(http.StatusInternalServerError, e.Status)
			},
		},
		{
			name:   "uses forwarded address",
			method: http.MethodGet,
			path:   "/api/todos",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			},
			setupReq: func(r *http.Request) {
				r.Header.Set(echo.HeaderXForwardedFor, "203.0.113.9")
			},
			wantEntries: 1,
			validate: func(e requestlog.Entry) {
				s.Equal("203.0.113.9", e.IP)
			},
		},
		{
			name:        "skips health",
			method:      http.MethodGet,
			path:        "/health/ready",
			handler:     func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantEntries: 0,
		},
		{
			name:        "skips metrics",
			method:      http.MethodGet,
			path:        "/metrics",
			handler:     func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantEntries: 0,
		},
		{
			name:        "skips history endpoint",
			method:      http.MethodGet,
			path:        "/api/metrics/requests",
			handler:     func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantEntries: 0,
		},
		{
			name:        "skips websocket",
			method:      http.MethodGet,
			path:        "/ws/requests",
			handler:     func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantEntries: 0,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			e := s.newEcho()
			route, _, _ := strings.Cut(tt.path, "?")
			e.Add(tt.method, route, tt.handler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.setupReq != nil {
				tt.setupReq(req)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			entries := s.store.List(requestlog.NoLimit)
			s.Len(entries, tt.wantEntries)
			if tt.validate != nil && len(entries) == 1 {
				tt.validate(entries[0])
			}
		})
	}
}

func (s *CaptureMiddlewareTestSuite) TestCaptureCustomMetricsPath() {
	tests := []struct {
		name        string
		path        string
		wantEntries int
	}{
		{
			name:        "skips configured metrics path",
			path:        "/internal/prom",
			wantEntries: 0,
		},
		{
			name:        "records default metrics path when not configured",
			path:        "/metrics",
			wantEntries: 1,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			e := echo.New()
			e.Use(captureMiddleware(s.recorder, s.clock, excludedCapturePaths("/internal/prom")))
			e.GET(tt.path, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			e.ServeHTTP(httptest.NewRecorder(), req)

			s.Len(s.store.List(requestlog.NoLimit), tt.wantEntries)
		})
	}
}

func (s *CaptureMiddlewareTestSuite) TestCaptureUnmatchedRoute() {
	e := s.newEcho()

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	entries := s.store.List(requestlog.NoLimit)
	s.Require().Len(entries, 1)
	s.Equal(http.StatusNotFound, entries[0].Status)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *CaptureMiddlewareTestSuite) TestCaptureExactlyOncePerRequest() {
	e := s.newEcho()
	e.GET("/api/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	for range 301 {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := s.store.List(requestlog.NoLimit)
	s.Len(entries, requestlog.DefaultCapacity)
	s.Equal(int64(301), entries[0].ID)
	s.Equal(int64(2), entries[len(entries)-1].ID)
}

func TestCaptureMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(CaptureMiddlewareTestSuite))
}

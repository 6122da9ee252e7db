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

package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// Checker checks the health of a dependency.
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// MetricsProvider retrieves runtime metrics for the status endpoint.
type MetricsProvider interface {
	GetRequestLogStats(ctx context.Context) (*RequestLogMetrics, error)
	GetStreamStats(ctx context.Context) (*StreamMetrics, error)
}

// RequestLogMetrics holds request history statistics.
type RequestLogMetrics struct {
	Size     int
	Capacity int
	LastID   int64
}

// StreamMetrics holds live subscriber statistics.
type StreamMetrics struct {
	Subscribers int
}

// ClosureMetricsProvider implements MetricsProvider using function closures.
type ClosureMetricsProvider struct {
	RequestLogStatsFn func(ctx context.Context) (*RequestLogMetrics, error)
	StreamStatsFn     func(ctx context.Context) (*StreamMetrics, error)
}

// GetRequestLogStats delegates to the RequestLogStatsFn closure.
func (p *ClosureMetricsProvider) GetRequestLogStats(
	ctx context.Context,
) (*RequestLogMetrics, error) {
	return p.RequestLogStatsFn(ctx)
}

// GetStreamStats delegates to the StreamStatsFn closure.
func (p *ClosureMetricsProvider) GetStreamStats(
	ctx context.Context,
) (*StreamMetrics, error) {
	return p.StreamStatsFn(ctx)
}

// Response is returned by the liveness and readiness endpoints.
type Response struct {
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`
}

// ComponentHealth is the status of a single component.
type ComponentHealth struct {
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`
}

// RequestLogInfo is the request history section of StatusResponse.
type RequestLogInfo struct {
	Size     int   `json:"size"`
	Capacity int   `json:"capacity"`
	LastID   int64 `json:"lastId"`
}

// StreamInfo is the streaming section of StatusResponse.
type StreamInfo struct {
	Subscribers int `json:"subscribers"`
}

// StatusResponse is returned by the authenticated status endpoint.
type StatusResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	RequestLog *RequestLogInfo            `json:"requestLog,omitempty"`
	Stream     *StreamInfo                `json:"stream,omitempty"`
}

// Health implementation of the Health APIs operations.
type Health struct {
	// Checker performs dependency health checks.
	Checker Checker
	// StartTime records when the server started.
	StartTime time.Time
	// Version is the application version string.
	Version string
	// Metrics provides runtime metrics (optional, can be nil).
	Metrics MetricsProvider
	logger  *slog.Logger
	clock   clock.Clock
}

// Option configures a Health.
type Option func(*Health)

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

// Package health serves liveness, readiness and the authenticated status
// report for the request pipeline.
package health

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// WithClock sets the clock used to compute uptime.
func WithClock(
	c clock.Clock,
) Option {
	return func(h *Health) {
		h.clock = c
	}
}

// New creates the health handlers. A nil checker reports every check
// healthy; a nil metrics provider omits the status sections it feeds.
func New(
	logger *slog.Logger,
	checker Checker,
	startTime time.Time,
	version string,
	metrics MetricsProvider,
	opts ...Option,
) *Health {
	if checker == nil {
		checker = &ComponentChecker{}
	}

	h := &Health{
		Checker:   checker,
		StartTime: startTime,
		Version:   version,
		Metrics:   metrics,
		logger:    logger,
		clock:     clock.New(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Health) uptime() string {
	return h.clock.Since(h.StartTime).Round(time.Second).String()
}

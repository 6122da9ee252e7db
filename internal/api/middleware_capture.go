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
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/telemetry"
)

// excludedCapturePaths returns the path prefixes that never produce log
// entries. The history endpoint is excluded so polling it does not flood the
// log; streaming sessions live for minutes and are not request/response
// shaped. An empty metricsPath means telemetry.DefaultMetricsPath.
func excludedCapturePaths(
	metricsPath string,
) []string {
	if metricsPath == "" {
		metricsPath = telemetry.DefaultMetricsPath
	}

	return []string{
		"/health",
		metricsPath,
		"/api/metrics/requests",
		"/ws/",
		"/error",
	}
}

const unknownIP = "unknown"

// captureMiddleware records one entry per completed request. Handler errors
// are rendered here so the entry carries the final status code.
func captureMiddleware(
	recorder *requestlog.Recorder,
	clk clock.Clock,
	excluded []string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if hasAnyPrefix(path, excluded) {
				return next(c)
			}

			start := clk.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			user, _ := c.Get(common.ContextKeySubject).(string)
			if user == "" {
				user = requestlog.Anonymous
			}

			ip := c.RealIP()
			if ip == "" {
				ip = unknownIP
			}

			recorder.Record(requestlog.Entry{
				Timestamp:  clk.Now().UTC(),
				Method:     c.Request().Method,
				Path:       path,
				Status:     c.Response().Status,
				DurationMs: clk.Since(start).Milliseconds(),
				User:       user,
				IP:         ip,
			})

			return nil
		}
	}
}

func hasAnyPrefix(
	path string,
	prefixes []string,
) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

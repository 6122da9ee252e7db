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
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetHealthStatus returns per-component health status with runtime metrics
// (authenticated).
func (h *Health) GetHealthStatus(
	c echo.Context,
) error {
	var results map[string]error
	if checker, ok := h.Checker.(*ComponentChecker); ok {
		results = checker.CheckComponents()
	}

	code, resp := h.buildStatusResponse(c.Request().Context(), results)

	return c.JSON(code, resp)
}

// buildStatusResponse constructs the status response from component checks
// and metrics.
func (h *Health) buildStatusResponse(
	ctx context.Context,
	results map[string]error,
) (int, StatusResponse) {
	components := make(map[string]ComponentHealth, len(results))
	overall := "ok"

	for name, err := range results {
		if err != nil {
			errMsg := err.Error()
			components[name] = ComponentHealth{Status: "error", Error: &errMsg}
			overall = "degraded"
			continue
		}
		components[name] = ComponentHealth{Status: "ok"}
	}

	resp := StatusResponse{
		Status:     overall,
		Components: components,
		Version:    h.Version,
		Uptime:     h.uptime(),
	}

	if h.Metrics != nil {
		h.populateMetrics(ctx, &resp)
	}

	if overall != "ok" {
		return http.StatusServiceUnavailable, resp
	}

	return http.StatusOK, resp
}

// populateMetrics enriches the response with runtime metrics. Each call is
// independent; a failure is logged and that section skipped.
func (h *Health) populateMetrics(
	ctx context.Context,
	resp *StatusResponse,
) {
	if stats, err := h.Metrics.GetRequestLogStats(ctx); err != nil {
		h.logger.Warn("failed to get request log stats for status", "error", err)
	} else {
		resp.RequestLog = &RequestLogInfo{
			Size:     stats.Size,
			Capacity: stats.Capacity,
			LastID:   stats.LastID,
		}
	}

	if stats, err := h.Metrics.GetStreamStats(ctx); err != nil {
		h.logger.Warn("failed to get stream stats for status", "error", err)
	} else {
		resp.Stream = &StreamInfo{
			Subscribers: stats.Subscribers,
		}
	}
}

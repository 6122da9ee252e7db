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

package requestlog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/requestlog"
	"github.com/retr0h/reqwatch/internal/validation"
)

const limitError = "limit must be a non-negative integer"

// GetRequests returns the newest entries first. The optional limit query
// parameter caps the result.
func (r *RequestLog) GetRequests(
	c echo.Context,
) error {
	limit := requestlog.NoLimit

	if raw := c.QueryParam("limit"); raw != "" {
		if errMsg, ok := validation.Var(raw, "number"); !ok {
			r.logger.Debug("rejected limit", slog.String("limit", raw), slog.String("error", errMsg))
			return c.JSON(http.StatusBadRequest, common.NewErrorResponse(limitError))
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, common.NewErrorResponse(limitError))
		}
		limit = n
	}

	return c.JSON(http.StatusOK, r.store.List(limit))
}

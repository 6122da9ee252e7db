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

package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/identity"
	"github.com/retr0h/reqwatch/internal/validation"
)

// PostLogin exchanges credentials for a token.
func (a *Auth) PostLogin(
	c echo.Context,
) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid request body"))
	}

	if errMsg, ok := validation.Struct(req); !ok {
		return c.JSON(http.StatusBadRequest, common.NewErrorResponse(errMsg))
	}

	ident, err := a.directory.Authenticate(req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, common.NewErrorResponse("invalid email or password"))
	}
	if err != nil {
		a.logger.Error("login failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, common.NewErrorResponse("login failed"))
	}

	resp, err := a.respond(ident)
	if err != nil {
		a.logger.Error("token issue failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, common.NewErrorResponse("token issue failed"))
	}

	return c.JSON(http.StatusOK, resp)
}

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
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/identity"
	"github.com/retr0h/reqwatch/internal/validation"
)

// PostRegister creates an identity and returns a token for it.
func (a *Auth) PostRegister(
	c echo.Context,
) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid request body"))
	}

	if errMsg, ok := validation.Struct(req); !ok {
		return c.JSON(http.StatusBadRequest, common.NewErrorResponse(errMsg))
	}

	role := authtoken.RoleUser
	if req.Role != "" {
		parsed, err := authtoken.ParseRole(req.Role)
		if err != nil {
			return c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		}
		role = parsed
	}

	if role == authtoken.RoleAdmin && !callerCan(c, authtoken.PermIdentityWrite) {
		return c.JSON(
			http.StatusForbidden,
			common.NewErrorResponse("ADMIN role requires an ADMIN caller"),
		)
	}

	ident, err := a.directory.Register(identity.Registration{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        role,
	})
	switch {
	case errors.Is(err, identity.ErrIdentityExists):
		return c.JSON(http.StatusConflict, common.NewErrorResponse("email already registered"))
	case errors.Is(err, identity.ErrInvalidRegistration):
		return c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
	case err != nil:
		a.logger.Error("registration failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, common.NewErrorResponse("registration failed"))
	}

	resp, err := a.respond(ident)
	if err != nil {
		a.logger.Error("token issue failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, common.NewErrorResponse("token issue failed"))
	}

	return c.JSON(http.StatusCreated, resp)
}

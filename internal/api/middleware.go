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
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/telemetry"
)

const bearerPrefix = "Bearer "

// authenticateMiddleware resolves the caller from the Authorization header.
// It never rejects: a missing or invalid token leaves the request anonymous
// and routes that need an identity enforce it with requirePermission.
func authenticateMiddleware(
	verifier TokenVerifier,
	logger *slog.Logger,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c.Request())
			if !ok || verifier == nil {
				return next(c)
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Debug(
					"bearer token rejected",
					slog.String("path", c.Request().URL.Path),
				)
				return next(c)
			}

			c.Set(common.ContextKeySubject, claims.Subject)
			c.Set(common.ContextKeyRoles, claims.Roles)

			req := c.Request()
			c.SetRequest(req.WithContext(telemetry.WithSubject(req.Context(), claims.Subject)))

			return next(c)
		}
	}
}

// requirePermission rejects callers that are anonymous (401) or whose roles
// do not grant perm (403).
func requirePermission(
	perm authtoken.Permission,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if subject, _ := c.Get(common.ContextKeySubject).(string); subject == "" {
				return unauthorized(c)
			}

			roles, _ := c.Get(common.ContextKeyRoles).([]authtoken.Role)
			resolved := authtoken.ResolvePermissions(roles)
			if !authtoken.HasPermission(resolved, perm) {
				errMsg := fmt.Sprintf("Insufficient permissions. Required: %s", perm)
				return c.JSON(http.StatusForbidden, common.NewErrorResponse(errMsg))
			}

			return next(c)
		}
	}
}

// requireAuthenticated rejects anonymous callers.
func requireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if subject, _ := c.Get(common.ContextKeySubject).(string); subject == "" {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}

func unauthorized(
	c echo.Context,
) error {
	errMsg := "Bearer token required"
	if _, ok := bearerToken(c.Request()); ok {
		errMsg = "Invalid token"
	}

	return c.JSON(http.StatusUnauthorized, common.NewErrorResponse(errMsg))
}

func bearerToken(
	r *http.Request,
) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	return token, token != ""
}

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

// Package auth provides registration, login and identity handlers.
package auth

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/identity"
)

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	directory Directory,
	issuer Issuer,
) *Auth {
	return &Auth{
		directory: directory,
		issuer:    issuer,
		logger:    logger,
	}
}

func newUserInfo(
	ident identity.Identity,
) UserInfo {
	return UserInfo{
		ID:          ident.ID,
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		Role:        ident.Role,
	}
}

func (a *Auth) respond(
	ident identity.Identity,
) (AuthResponse, error) {
	token, err := a.issuer.Issue(ident.Email, []authtoken.Role{ident.Role})
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		Token: token,
		Type:  TokenType,
		User:  newUserInfo(ident),
	}, nil
}

// callerCan reports whether the authenticated caller's roles grant perm.
func callerCan(
	c echo.Context,
	perm authtoken.Permission,
) bool {
	roles, _ := c.Get(common.ContextKeyRoles).([]authtoken.Role)

	return authtoken.HasPermission(authtoken.ResolvePermissions(roles), perm)
}

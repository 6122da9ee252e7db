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
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/reqwatch/internal/api/common"
)

// GetMe returns the identity behind the caller's token.
func (a *Auth) GetMe(
	c echo.Context,
) error {
	subject, _ := c.Get(common.ContextKeySubject).(string)
	if subject == "" {
		return c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Bearer token required"))
	}

	ident, ok := a.directory.Lookup(subject)
	if !ok {
		return c.JSON(http.StatusNotFound, common.NewErrorResponse("identity not found"))
	}

	return c.JSON(http.StatusOK, newUserInfo(ident))
}

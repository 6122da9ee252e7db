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
)

// DeleteIdentity removes an identity. Its outstanding tokens fail
// verification from then on.
func (a *Auth) DeleteIdentity(
	c echo.Context,
) error {
	ident, err := a.directory.Delete(c.Param("id"))
	if errors.Is(err, identity.ErrIdentityNotFound) {
		return c.JSON(http.StatusNotFound, common.NewErrorResponse("identity not found"))
	}
	if err != nil {
		return err
	}

	subject, _ := c.Get(common.ContextKeySubject).(string)
	a.logger.InfoContext(
		c.Request().Context(),
		"identity removed",
		slog.String("email", ident.Email),
		slog.String("by", subject),
	)

	return c.NoContent(http.StatusNoContent)
}

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

package auth_test

import (
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/retr0h/reqwatch/internal/api/auth"
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/identity"
)

const testSigningKey = "auth-test-secret"

type fixture struct {
	directory *identity.Directory
	authority *authtoken.Authority
	sut       *auth.Auth
}

func newFixture() *fixture {
	directory := identity.New(slog.Default(), identity.WithCost(bcrypt.MinCost))
	authority := authtoken.NewAuthority(
		slog.Default(),
		authtoken.New(slog.Default()),
		testSigningKey,
		directory,
	)

	return &fixture{
		directory: directory,
		authority: authority,
		sut:       auth.New(slog.Default(), directory, authority),
	}
}

func newJSONContext(
	method string,
	target string,
	body string,
) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func mustRegister(
	f *fixture,
	email string,
	role authtoken.Role,
) identity.Identity {
	ident, err := f.directory.Register(identity.Registration{
		Email:       email,
		DisplayName: "Test " + email,
		Password:    "password123",
		Role:        role,
	})
	if err != nil {
		panic(err)
	}

	return ident
}


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

package authtoken

import (
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v4"

	"github.com/retr0h/reqwatch/internal/validation"
)

// Validate parses and validates the JWT. Any failure is reported as
// ErrAuthenticationFailed.
func (t *Token) Validate(
	tokenString string,
	signingKey string,
) (*CustomClaims, error) {
	claims, err := t.parse(tokenString, signingKey)
	if err != nil {
		t.logger.Debug(
			"token rejected",
			slog.String("reason", err.Error()),
		)
		return nil, ErrAuthenticationFailed
	}

	return claims, nil
}

// parse returns the detailed rejection reason, which never leaves the package.
func (t *Token) parse(
	tokenString string,
	signingKey string,
) (*CustomClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("empty token")
	}

	// Time based claims are checked below against the injected clock.
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &CustomClaims{}
	_, err := parser.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(signingKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	now := t.clock.Now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("token expired")
	}

	if !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("token not yet valid")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("subject missing")
	}

	if err := validation.Instance().Struct(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

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
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v4"
)

// WithClock overrides the clock used for issuance and expiry checks.
func WithClock(
	c clock.Clock,
) Option {
	return func(t *Token) {
		t.clock = c
	}
}

// WithTTL sets the expiry horizon of generated tokens.
func WithTTL(
	ttl time.Duration,
) Option {
	return func(t *Token) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	opts ...Option,
) *Token {
	t := &Token{
		logger: logger,
		clock:  clock.New(),
		ttl:    DefaultTTL,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Generate creates a signed token for subject carrying roles.
func (t *Token) Generate(
	signingKey string,
	roles []Role,
	subject string,
) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject required")
	}

	now := t.clock.Now()
	claims := CustomClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// TTL returns the expiry horizon applied to generated tokens.
func (t *Token) TTL() time.Duration {
	return t.ttl
}

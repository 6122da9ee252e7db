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

// Package authtoken issues and verifies the signed session tokens used by the
// REST API and the request stream.
package authtoken

import (
	"errors"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v4"
)

// Issuer is the iss claim stamped on every token.
const Issuer = "reqwatch"

// DefaultTTL is the expiry horizon applied when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// ErrAuthenticationFailed is the only error callers see when a token is
// rejected. The concrete reason is logged at debug level.
var ErrAuthenticationFailed = errors.New("authentication failed")

// CustomClaims are the claims carried by a session token.
type CustomClaims struct {
	// Roles granted to the subject.
	Roles []Role `json:"roles" validate:"required,min=1,dive,oneof=USER ADMIN"`
	jwt.RegisteredClaims
}

// Token signs and parses session tokens.
type Token struct {
	logger *slog.Logger
	clock  clock.Clock
	ttl    time.Duration
}

// Option configures a Token.
type Option func(*Token)

// IdentityChecker reports whether a subject is a known identity.
type IdentityChecker interface {
	Exists(subject string) bool
}

// Authority binds a Token to a signing key and the identity directory.
type Authority struct {
	token      *Token
	signingKey string
	identities IdentityChecker
	logger     *slog.Logger
}

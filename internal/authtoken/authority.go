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
	"log/slog"
)

// NewAuthority binds token to signingKey. When identities is nil the known
// subject check is skipped.
func NewAuthority(
	logger *slog.Logger,
	token *Token,
	signingKey string,
	identities IdentityChecker,
) *Authority {
	return &Authority{
		token:      token,
		signingKey: signingKey,
		identities: identities,
		logger:     logger,
	}
}

// Issue signs a new token for subject.
func (a *Authority) Issue(
	subject string,
	roles []Role,
) (string, error) {
	return a.token.Generate(a.signingKey, roles, subject)
}

// Verify checks signature, expiry and that the subject is still known.
func (a *Authority) Verify(
	tokenString string,
) (*CustomClaims, error) {
	claims, err := a.token.Validate(tokenString, a.signingKey)
	if err != nil {
		return nil, err
	}

	if a.identities != nil && !a.identities.Exists(claims.Subject) {
		a.logger.Debug(
			"token rejected",
			slog.String("reason", "unknown subject"),
			slog.String("subject", claims.Subject),
		)
		return nil, ErrAuthenticationFailed
	}

	return claims, nil
}

// ValidateAgainstIdentity reports whether tokenString verifies and was issued
// to subject.
func (a *Authority) ValidateAgainstIdentity(
	tokenString string,
	subject string,
) bool {
	claims, err := a.Verify(tokenString)
	if err != nil {
		return false
	}

	return claims.Subject == subject
}

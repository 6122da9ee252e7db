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
	"log/slog"

	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/identity"
)

// TokenType is reported alongside every issued token.
const TokenType = "Bearer"

// Directory resolves and stores identities.
type Directory interface {
	Register(reg identity.Registration) (identity.Identity, error)
	Authenticate(email string, password string) (identity.Identity, error)
	Lookup(email string) (identity.Identity, bool)
	List() []identity.Identity
	Get(id string) (identity.Identity, error)
	Delete(id string) (identity.Identity, error)
}

// Issuer mints session tokens.
type Issuer interface {
	Issue(subject string, roles []authtoken.Role) (string, error)
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Password    string `json:"password"    validate:"required,min=8,max=72"`
	// Role defaults to USER. Matched case-insensitively. ADMIN is only
	// honoured when the caller already holds identity:write.
	Role string `json:"role,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo describes an identity without secrets.
type UserInfo struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	Role        authtoken.Role `json:"role"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token string   `json:"token"`
	Type  string   `json:"type"`
	User  UserInfo `json:"user"`
}

// Auth implementation of the authentication API operations.
type Auth struct {
	directory Directory
	issuer    Issuer
	logger    *slog.Logger
}

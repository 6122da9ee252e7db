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

// Package identity is the in-memory directory of accounts that can obtain
// session tokens.
package identity

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/retr0h/reqwatch/internal/authtoken"
)

var (
	// ErrIdentityExists is returned when registering a taken email.
	ErrIdentityExists = errors.New("identity already exists")
	// ErrInvalidRegistration wraps validation failures from Register.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIdentityNotFound is returned by Get and Delete for an unknown ID.
	ErrIdentityNotFound = errors.New("identity not found")
)

// Identity is a registered account.
type Identity struct {
	// ID is a stable UUID.
	ID string `json:"id"`
	// Email is the unique login name and the token subject.
	Email string `json:"email"`
	// DisplayName is shown in clients.
	DisplayName string `json:"displayName"`
	// Role drives the token's permissions.
	Role authtoken.Role `json:"role"`
	// CreatedAt is when the identity was registered.
	CreatedAt time.Time `json:"createdAt"`

	passwordHash []byte
}

// Registration is the input to Register.
type Registration struct {
	Email       string         `validate:"required,email"`
	DisplayName string         `validate:"required,max=100"`
	Password    string         `validate:"required,min=8,max=72"`
	Role        authtoken.Role `validate:"omitempty,oneof=USER ADMIN"`
}

// Directory holds identities keyed by normalized email.
type Directory struct {
	mu         sync.RWMutex
	identities map[string]Identity

	logger *slog.Logger
	clock  clock.Clock
	cost   int
}

// Option configures a Directory.
type Option func(*Directory)

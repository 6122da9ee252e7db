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

package identity

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/validation"
)

// WithClock sets the clock used for CreatedAt.
func WithClock(
	c clock.Clock,
) Option {
	return func(d *Directory) {
		d.clock = c
	}
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(
	cost int,
) Option {
	return func(d *Directory) {
		d.cost = cost
	}
}

// New creates an empty Directory.
func New(
	logger *slog.Logger,
	opts ...Option,
) *Directory {
	d := &Directory{
		identities: make(map[string]Identity),
		logger:     logger,
		clock:      clock.New(),
		cost:       bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Register validates reg, hashes its password and stores the identity. An
// empty role defaults to USER.
func (d *Directory) Register(
	reg Registration,
) (Identity, error) {
	reg.Email = normalize(reg.Email)
	reg.DisplayName = strings.TrimSpace(reg.DisplayName)
	if reg.Role == "" {
		reg.Role = authtoken.RoleUser
	}

	if errMsg, ok := validation.Struct(reg); !ok {
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidRegistration, errMsg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), d.cost)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.identities[reg.Email]; ok {
		return Identity{}, fmt.Errorf("register %s: %w", reg.Email, ErrIdentityExists)
	}

	ident := Identity{
		ID:           uuid.NewString(),
		Email:        reg.Email,
		DisplayName:  reg.DisplayName,
		Role:         reg.Role,
		CreatedAt:    d.clock.Now().UTC(),
		passwordHash: hash,
	}
	d.identities[reg.Email] = ident

	d.logger.Info(
		"identity registered",
		slog.String("email", ident.Email),
		slog.String("role", string(ident.Role)),
	)

	return ident, nil
}

// Authenticate returns the identity when password matches.
func (d *Directory) Authenticate(
	email string,
	password string,
) (Identity, error) {
	d.mu.RLock()
	ident, ok := d.identities[normalize(email)]
	d.mu.RUnlock()

	if !ok {
		return Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(ident.passwordHash, []byte(password)); err != nil {
		d.logger.Debug("password mismatch", slog.String("email", ident.Email))
		return Identity{}, ErrInvalidCredentials
	}

	return ident, nil
}

// Lookup returns the identity registered under email.
func (d *Directory) Lookup(
	email string,
) (Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ident, ok := d.identities[normalize(email)]

	return ident, ok
}

// Exists reports whether subject names a registered identity.
func (d *Directory) Exists(
	subject string,
) bool {
	_, ok := d.Lookup(subject)

	return ok
}

// Get returns the identity with the given ID.
func (d *Directory) Get(
	id string,
) (Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ident := range d.identities {
		if ident.ID == id {
			return ident, nil
		}
	}

	return Identity{}, fmt.Errorf("get %s: %w", id, ErrIdentityNotFound)
}

// Delete removes the identity with the given ID and returns it. Tokens
// issued to it stop verifying because their subject is no longer known.
func (d *Directory) Delete(
	id string,
) (Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for email, ident := range d.identities {
		if ident.ID != id {
			continue
		}

		delete(d.identities, email)
		d.logger.Info("identity deleted", slog.String("email", email))

		return ident, nil
	}

	return Identity{}, fmt.Errorf("delete %s: %w", id, ErrIdentityNotFound)
}

// HasRole reports whether any identity holds role.
func (d *Directory) HasRole(
	role authtoken.Role,
) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ident := range d.identities {
		if ident.Role == role {
			return true
		}
	}

	return false
}

// List returns every identity ordered by email.
func (d *Directory) List() []Identity {
	d.mu.RLock()
	out := make([]Identity, 0, len(d.identities))
	for _, ident := range d.identities {
		out = append(out, ident)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Email < out[j].Email
	})

	return out
}

// Len returns the number of identities.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.identities)
}

func normalize(
	email string,
) string {
	return strings.ToLower(strings.TrimSpace(email))
}

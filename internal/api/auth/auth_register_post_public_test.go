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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/api/auth"
	"github.com/retr0h/reqwatch/internal/api/common"
	"github.com/retr0h/reqwatch/internal/authtoken"
)

type AuthRegisterPostPublicTestSuite struct {
	suite.Suite

	f *fixture
}

func (s *AuthRegisterPostPublicTestSuite) SetupTest() {
	s.f = newFixture()
}

func (s *AuthRegisterPostPublicTestSuite) TestPostRegister() {
	tests := []struct {
		name          string
		setup         func()
		callerRoles   []authtoken.Role
		body          string
		wantCode      int
		wantRole      authtoken.Role
		errorContains string
	}{
		{
			name:     "when valid registration",
			body:     `{"email":"alice@example.com","displayName":"Alice","password":"password123"}`,
			wantCode: http.StatusCreated,
			wantRole: authtoken.RoleUser,
		},
		{
			name:        "when admin caller requests admin role in lower case",
			callerRoles: []authtoken.Role{authtoken.RoleAdmin},
			body:        `{"email":"root@example.com","displayName":"Root","password":"password123","role":"admin"}`,
			wantCode:    http.StatusCreated,
			wantRole:    authtoken.RoleAdmin,
		},
		{
			name:          "when anonymous caller requests admin role",
			body:          `{"email":"root@example.com","displayName":"Root","password":"password123","role":"ADMIN"}`,
			wantCode:      http.StatusForbidden,
			errorContains: "requires an ADMIN caller",
		},
		{
			name:          "when user caller requests admin role",
			callerRoles:   []authtoken.Role{authtoken.RoleUser},
			body:          `{"email":"root@example.com","displayName":"Root","password":"password123","role":"ADMIN"}`,
			wantCode:      http.StatusForbidden,
			errorContains: "requires an ADMIN caller",
		},
		{
			name: "when email already registered",
			setup: func() {
				mustRegister(s.f, "alice@example.com", authtoken.RoleUser)
			},
			body:          `{"email":"alice@example.com","displayName":"Alice","password":"password123"}`,
			wantCode:      http.StatusConflict,
			errorContains: "already registered",
		},
		{
			name:          "when password too short",
			body:          `{"email":"alice@example.com","displayName":"Alice","password":"short"}`,
			wantCode:      http.StatusBadRequest,
			errorContains: "Password",
		},
		{
			name:          "when email malformed",
			body:          `{"email":"alice","displayName":"Alice","password":"password123"}`,
			wantCode:      http.StatusBadRequest,
			errorContains: "Email",
		},
		{
			name:          "when role unsupported",
			body:          `{"email":"alice@example.com","displayName":"Alice","password":"password123","role":"root"}`,
			wantCode:      http.StatusBadRequest,
			errorContains: "unsupported role",
		},
		{
			name:          "when body malformed",
			body:          `{"email":`,
			wantCode:      http.StatusBadRequest,
			errorContains: "invalid request body",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			if tt.setup != nil {
				tt.setup()
			}

			c, rec := newJSONContext(http.MethodPost, "/api/auth/register", tt.body)
			if tt.callerRoles != nil {
				c.Set(common.ContextKeyRoles, tt.callerRoles)
			}
			s.NoError(s.f.sut.PostRegister(c))
			s.Equal(tt.wantCode, rec.Code)

			if tt.errorContains != "" {
				s.Contains(rec.Body.String(), tt.errorContains)
				return
			}

			var resp auth.AuthResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Equal(auth.TokenType, resp.Type)
			s.Equal(tt.wantRole, resp.User.Role)
			s.NotEmpty(resp.User.ID)

			claims, err := s.f.authority.Verify(resp.Token)
			s.Require().NoError(err)
			s.Equal(resp.User.Email, claims.Subject)
			s.Equal([]authtoken.Role{tt.wantRole}, claims.Roles)
		})
	}
}

func TestAuthRegisterPostPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuthRegisterPostPublicTestSuite))
}

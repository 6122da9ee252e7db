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

package authtoken_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/authtoken"
)

type RolesPublicTestSuite struct {
	suite.Suite
}

func (s *RolesPublicTestSuite) TestParseRole() {
	tests := []struct {
		name        string
		input       string
		want        authtoken.Role
		expectError bool
	}{
		{
			name:  "when upper case user",
			input: "USER",
			want:  authtoken.RoleUser,
		},
		{
			name:  "when lower case admin with spaces",
			input: " admin ",
			want:  authtoken.RoleAdmin,
		},
		{
			name:        "when unknown role",
			input:       "root",
			expectError: true,
		},
		{
			name:        "when empty",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := authtoken.ParseRole(tt.input)
			if tt.expectError {
				s.Error(err)
				s.Contains(err.Error(), "unsupported role")
				return
			}

			s.NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func (s *RolesPublicTestSuite) TestParseRoles() {
	roles, err := authtoken.ParseRoles([]string{"user", "ADMIN"})
	s.NoError(err)
	s.Equal([]authtoken.Role{authtoken.RoleUser, authtoken.RoleAdmin}, roles)

	_, err = authtoken.ParseRoles([]string{"user", "bogus"})
	s.Error(err)
}

func (s *RolesPublicTestSuite) TestRoleNames() {
	s.ElementsMatch([]string{"USER", "ADMIN"}, authtoken.RoleNames())
}

func (s *RolesPublicTestSuite) TestResolvePermissions() {
	tests := []struct {
		name          string
		roles         []authtoken.Role
		expectPerms   []authtoken.Permission
		expectMissing []authtoken.Permission
	}{
		{
			name:        "admin role gets all permissions",
			roles:       []authtoken.Role{authtoken.RoleAdmin},
			expectPerms: authtoken.AllPermissions,
		},
		{
			name:  "user role cannot read or change identities",
			roles: []authtoken.Role{authtoken.RoleUser},
			expectPerms: []authtoken.Permission{
				authtoken.PermRequestsRead,
				authtoken.PermRequestsStream,
				authtoken.PermHealthRead,
			},
			expectMissing: []authtoken.Permission{
				authtoken.PermIdentityRead,
				authtoken.PermIdentityWrite,
			},
		},
		{
			name:          "unknown role gets no permissions",
			roles:         []authtoken.Role{"ROOT"},
			expectMissing: authtoken.AllPermissions,
		},
		{
			name:          "nil roles gets no permissions",
			roles:         nil,
			expectMissing: authtoken.AllPermissions,
		},
		{
			name:        "multiple roles merge permissions",
			roles:       []authtoken.Role{authtoken.RoleUser, authtoken.RoleAdmin},
			expectPerms: authtoken.AllPermissions,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resolved := authtoken.ResolvePermissions(tt.roles)

			for _, p := range tt.expectPerms {
				s.True(authtoken.HasPermission(resolved, p), "expected permission %s", p)
			}
			for _, p := range tt.expectMissing {
				s.False(authtoken.HasPermission(resolved, p), "unexpected permission %s", p)
			}
		})
	}
}

func TestRolesPublicTestSuite(t *testing.T) {
	suite.Run(t, new(RolesPublicTestSuite))
}

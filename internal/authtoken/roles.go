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
	"strings"
)

// Permission represents a fine-grained resource:verb permission.
type Permission = string

// Permission constants using resource:verb format.
const (
	PermRequestsRead   Permission = "requests:read"
	PermRequestsStream Permission = "requests:stream"
	PermIdentityRead   Permission = "identity:read"
	PermIdentityWrite  Permission = "identity:write"
	PermHealthRead     Permission = "health:read"
)

// AllPermissions is the full set of known permissions.
var AllPermissions = []Permission{
	PermRequestsRead,
	PermRequestsStream,
	PermIdentityRead,
	PermIdentityWrite,
	PermHealthRead,
}

// Role is one of the closed set of role tags a token can carry.
type Role string

// Known roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AllRoles lists every known role.
var AllRoles = []Role{
	RoleUser,
	RoleAdmin,
}

// ParseRole converts a user supplied string into a Role.
func ParseRole(
	s string,
) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unsupported role: %q", s)
	}
}

// ParseRoles converts each string with ParseRole.
func ParseRoles(
	values []string,
) ([]Role, error) {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		r, err := ParseRole(v)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}

	return roles, nil
}

// RoleNames returns the string form of every known role.
func RoleNames() []string {
	names := make([]string, 0, len(AllRoles))
	for _, r := range AllRoles {
		names = append(names, string(r))
	}

	return names
}

// Permissions returns the permissions granted to the role.
func (r Role) Permissions() []Permission {
	switch r {
	case RoleAdmin:
		return []Permission{
			PermRequestsRead,
			PermRequestsStream,
			PermIdentityRead,
			PermIdentityWrite,
			PermHealthRead,
		}
	case RoleUser:
		return []Permission{
			PermRequestsRead,
			PermRequestsStream,
			PermHealthRead,
		}
	default:
		return nil
	}
}

// ResolvePermissions computes the effective permission set for a token.
func ResolvePermissions(
	roles []Role,
) map[Permission]bool {
	set := make(map[Permission]bool)
	for _, role := range roles {
		for _, p := range role.Permissions() {
			set[p] = true
		}
	}

	return set
}

// HasPermission checks whether the resolved set contains the required permission.
func HasPermission(
	resolved map[Permission]bool,
	required Permission,
) bool {
	return resolved[required]
}

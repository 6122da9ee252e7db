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

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/retr0h/reqwatch/internal/api/auth"
)

// Register creates an identity and returns its first token.
func (c *Client) Register(
	ctx context.Context,
	req auth.RegisterRequest,
) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(
	ctx context.Context,
	email string,
	password string,
) (*auth.AuthResponse, error) {
	req := auth.LoginRequest{
		Email:    email,
		Password: password,
	}

	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Me describes the caller.
func (c *Client) Me(
	ctx context.Context,
) (*auth.UserInfo, error) {
	var out auth.UserInfo
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ListIdentities lists every identity.
func (c *Client) ListIdentities(
	ctx context.Context,
) ([]auth.UserInfo, error) {
	var out []auth.UserInfo
	if err := c.do(ctx, http.MethodGet, "/api/identities", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetIdentity returns one identity by ID.
func (c *Client) GetIdentity(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	var out auth.UserInfo
	if err := c.do(ctx, http.MethodGet, identityPath(id), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteIdentity removes an identity by ID.
func (c *Client) DeleteIdentity(
	ctx context.Context,
	id string,
) error {
	return c.do(ctx, http.MethodDelete, identityPath(id), nil, nil, nil)
}

func identityPath(
	id string,
) string {
	return "/api/identities/" + url.PathEscape(id)
}

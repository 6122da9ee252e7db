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

package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/api/auth"
	"github.com/retr0h/reqwatch/internal/api/health"
	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/client"
	"github.com/retr0h/reqwatch/internal/config"
	"github.com/retr0h/reqwatch/internal/requestlog"
)

const testToken = "test-token"

type ClientPublicTestSuite struct {
	suite.Suite

	ctx      context.Context
	server   *httptest.Server
	mux      *http.ServeMux
	received *http.Request
}

func (s *ClientPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.received = r.Clone(context.Background())
		s.mux.ServeHTTP(w, r)
	}))
}

func (s *ClientPublicTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientPublicTestSuite) newClient(
	token string,
) *client.Client {
	c, err := client.New(slog.Default(), config.Config{
		API: config.API{
			Client: config.Client{
				URL: s.server.URL,
				Security: config.ClientSecurity{
					BearerToken: token,
				},
			},
		},
	})
	s.Require().NoError(err)

	return c
}

func writeJSON(
	w http.ResponseWriter,
	status int,
	body any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *ClientPublicTestSuite) TestNew() {
	tests := []struct {
		name        string
		url         string
		errContains string
	}{
		{
			name: "when url is valid",
			url:  "http://localhost:8080/",
		},
		{
			name:        "when url is empty",
			errContains: "api url required",
		},
		{
			name:        "when url is malformed",
			url:         "://bad",
			errContains: "parse api url",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			appConfig := config.Config{}
			appConfig.API.Client.URL = tc.url

			c, err := client.New(slog.Default(), appConfig)
			if tc.errContains != "" {
				s.Error(err)
				s.Contains(err.Error(), tc.errContains)
				s.Nil(c)
				return
			}

			s.NoError(err)
			s.NotNil(c)
		})
	}
}

func (s *ClientPublicTestSuite) TestLogin() {
	tests := []struct {
		name         string
		status       int
		body         any
		validateFunc func(*auth.AuthResponse, error)
	}{
		{
			name:   "when credentials are valid returns token",
			status: http.StatusOK,
			body: auth.AuthResponse{
				Token: "jwt",
				Type:  auth.TokenType,
				User: auth.UserInfo{
					Email: "alice@example.com",
					Role:  authtoken.RoleUser,
				},
			},
			validateFunc: func(resp *auth.AuthResponse, err error) {
				s.Require().NoError(err)
				s.Equal("jwt", resp.Token)
				s.Equal("alice@example.com", resp.User.Email)
			},
		},
		{
			name:   "when credentials are invalid returns response error",
			status: http.StatusUnauthorized,
			body:   map[string]string{"error": "invalid email or password"},
			validateFunc: func(resp *auth.AuthResponse, err error) {
				s.Nil(resp)

				var respErr *client.ResponseError
				s.Require().True(errors.As(err, &respErr))
				s.Equal(http.StatusUnauthorized, respErr.StatusCode)
				s.Equal("invalid email or password", respErr.Message)
			},
		},
		{
			name:   "when error body is empty uses status text",
			status: http.StatusInternalServerError,
			validateFunc: func(_ *auth.AuthResponse, err error) {
				var respErr *client.ResponseError
				s.Require().True(errors.As(err, &respErr))
				s.Equal(http.StatusText(http.StatusInternalServerError), respErr.Message)
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.mux = http.NewServeMux()
			s.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				var req auth.LoginRequest
				s.NoError(json.NewDecoder(r.Body).Decode(&req))
				s.Equal("alice@example.com", req.Email)

				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			})

			resp, err := s.newClient("").Login(s.ctx, "alice@example.com", "password123")

			tc.validateFunc(resp, err)
			s.Empty(s.received.Header.Get("Authorization"))
		})
	}
}

func (s *ClientPublicTestSuite) TestRegister() {
	s.mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, auth.AuthResponse{Token: "jwt", Type: auth.TokenType})
	})

	resp, err := s.newClient("").Register(s.ctx, auth.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "password123",
	})

	s.Require().NoError(err)
	s.Equal("jwt", resp.Token)
}

func (s *ClientPublicTestSuite) TestMe() {
	s.mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, auth.UserInfo{Email: "alice@example.com"})
	})

	user, err := s.newClient(testToken).Me(s.ctx)

	s.Require().NoError(err)
	s.Equal("alice@example.com", user.Email)
	s.Equal("Bearer "+testToken, s.received.Header.Get("Authorization"))
}

func (s *ClientPublicTestSuite) TestListIdentities() {
	s.mux.HandleFunc("GET /api/identities", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": "Insufficient permissions. Required: identity:read",
		})
	})

	users, err := s.newClient(testToken).ListIdentities(s.ctx)

	s.Nil(users)
	var respErr *client.ResponseError
	s.Require().True(errors.As(err, &respErr))
	s.Equal(http.StatusForbidden, respErr.StatusCode)
}

func (s *ClientPublicTestSuite) TestGetIdentity() {
	s.mux.HandleFunc("GET /api/identities/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "u-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "identity not found"})
			return
		}
		writeJSON(w, http.StatusOK, auth.UserInfo{ID: "u-1", Email: "alice@example.com"})
	})

	tests := []struct {
		name      string
		id        string
		wantEmail string
		wantCode  int
	}{
		{
			name:      "when identity exists",
			id:        "u-1",
			wantEmail: "alice@example.com",
		},
		{
			name:     "when identity unknown",
			id:       "u-2",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			user, err := s.newClient(testToken).GetIdentity(s.ctx, tt.id)
			if tt.wantCode != 0 {
				var respErr *client.ResponseError
				s.Require().True(errors.As(err, &respErr))
				s.Equal(tt.wantCode, respErr.StatusCode)
				s.Equal("identity not found", respErr.Message)
				return
			}

			s.Require().NoError(err)
			s.Equal(tt.wantEmail, user.Email)
		})
	}
}

func (s *ClientPublicTestSuite) TestDeleteIdentity() {
	s.mux.HandleFunc("DELETE /api/identities/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := s.newClient(testToken).DeleteIdentity(s.ctx, "u-1")

	s.NoError(err)
	s.Equal(http.MethodDelete, s.received.Method)
	s.Equal("/api/identities/u-1", s.received.URL.Path)
}

func (s *ClientPublicTestSuite) TestHealthStatus() {
	s.mux.HandleFunc("GET /health/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, health.StatusResponse{
			Status:     "ok",
			RequestLog: &health.RequestLogInfo{Size: 3, Capacity: 300, LastID: 3},
		})
	})

	status, err := s.newClient(testToken).HealthStatus(s.ctx)

	s.Require().NoError(err)
	s.Equal("ok", status.Status)
	s.Equal(300, status.RequestLog.Capacity)
}

func (s *ClientPublicTestSuite) TestListRequests() {
	tests := []struct {
		name          string
		limit         int
		expectedQuery string
	}{
		{
			name:          "when limit is set sends it",
			limit:         2,
			expectedQuery: "limit=2",
		},
		{
			name:          "when limit is zero sends it",
			limit:         0,
			expectedQuery: "limit=0",
		},
		{
			name:          "when limit is negative omits it",
			limit:         requestlog.NoLimit,
			expectedQuery: "",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.mux = http.NewServeMux()
			s.mux.HandleFunc("GET /api/metrics/requests", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, []requestlog.Entry{
					{ID: 2, Method: http.MethodGet, Path: "/b", Status: 200},
					{ID: 1, Method: http.MethodPost, Path: "/a", Status: 201},
				})
			})

			entries, err := s.newClient(testToken).ListRequests(s.ctx, tc.limit)

			s.Require().NoError(err)
			s.Len(entries, 2)
			s.Equal(int64(2), entries[0].ID)
			s.Equal(tc.expectedQuery, s.received.URL.RawQuery)
			s.Equal("Bearer "+testToken, s.received.Header.Get("Authorization"))
		})
	}
}

func (s *ClientPublicTestSuite) TestTailRequests() {
	upgrader := websocket.Upgrader{}

	s.mux.HandleFunc("/ws/requests", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = ws.Close() }()

		deadline := time.Now().Add(time.Second)
		switch r.URL.Query().Get("token") {
		case testToken:
			for id := int64(1); id <= 2; id++ {
				payload, _ := json.Marshal(requestlog.Entry{ID: id, Path: "/x"})
				_ = ws.WriteMessage(websocket.TextMessage, payload)
			}
			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				deadline,
			)
		case "idle":
			_, _, _ = ws.ReadMessage()
		default:
			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
				deadline,
			)
		}
	})

	stopErr := errors.New("stop")

	tests := []struct {
		name         string
		token        string
		timeout      time.Duration
		handleErr    error
		wantIDs      []int64
		validateFunc func(error)
	}{
		{
			name:    "when authenticated receives entries until normal close",
			token:   testToken,
			wantIDs: []int64{1, 2},
			validateFunc: func(err error) {
				s.NoError(err)
			},
		},
		{
			name:      "when handler fails stops early",
			token:     testToken,
			handleErr: stopErr,
			wantIDs:   []int64{1},
			validateFunc: func(err error) {
				s.ErrorIs(err, stopErr)
			},
		},
		{
			name:  "when rejected returns stream rejected",
			token: "bad",
			validateFunc: func(err error) {
				s.ErrorIs(err, client.ErrStreamRejected)
				s.Contains(err.Error(), "authentication failed")
			},
		},
		{
			name:    "when context cancelled returns nil",
			token:   "idle",
			timeout: 100 * time.Millisecond,
			validateFunc: func(err error) {
				s.NoError(err)
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			ctx := s.ctx
			if tc.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(s.ctx, tc.timeout)
				defer cancel()
			}

			var got []int64
			err := s.newClient(tc.token).TailRequests(ctx, func(entry requestlog.Entry) error {
				got = append(got, entry.ID)
				return tc.handleErr
			})

			tc.validateFunc(err)
			s.Equal(tc.wantIDs, got)
			s.True(strings.HasPrefix(s.received.URL.Path, "/ws/requests"))
		})
	}
}

func TestClientPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ClientPublicTestSuite))
}

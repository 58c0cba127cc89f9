// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/access"
	"github.com/lesedi/thuto/internal/platform/middleware"
	"github.com/lesedi/thuto/internal/platform/sec"
)

// fakeVerifier maps bearer tokens to claims without real JWT parsing.
type fakeVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (v *fakeVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	claims, ok := v.claims[tokenStr]
	if !ok {
		return nil, errors.New("sec: invalid token")
	}
	return claims, nil
}

// fakeProfiles is a read-only profile store for the resolver.
type fakeProfiles struct {
	facts map[string]*access.RoleFact
	calls int
}

func (s *fakeProfiles) GetProfileByID(_ context.Context, identityID string) (*access.RoleFact, error) {
	s.calls++
	fact, ok := s.facts[identityID]
	if !ok {
		return nil, access.ErrProfileNotFound
	}
	return fact, nil
}

// okHandler marks that the protected handler was reached.
func okHandler(reached *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		*reached = true
		writer.WriteHeader(http.StatusOK)
	})
}

func newPolicy(store *fakeProfiles) *middleware.AccessPolicy {
	return middleware.NewAccessPolicy(access.NewResolver(store), nil)
}

/*
TestAuthenticate_AnonymousPassthrough lets requests without an Authorization
header proceed as anonymous.
*/
func TestAuthenticate_AnonymousPassthrough(t *testing.T) {
	var reached bool
	handler := middleware.Authenticate(&fakeVerifier{})(okHandler(&reached))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthenticate_InvalidToken rejects garbage bearer tokens with 401.
*/
func TestAuthenticate_InvalidToken(t *testing.T) {
	var reached bool
	handler := middleware.Authenticate(&fakeVerifier{})(okHandler(&reached))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRequireRole covers the HTTP decision outcomes end to end: the handler is
reached only for a verified caller whose freshly resolved role matches.
*/
func TestRequireRole(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*sec.AuthClaims{
		"tok-admin":      {UserID: "u1", Email: "u1@school.za", EmailVerified: true},
		"tok-parent":     {UserID: "u2", Email: "u2@school.za", EmailVerified: true},
		"tok-unverified": {UserID: "u3", Email: "u3@school.za", EmailVerified: false},
		"tok-ghost":      {UserID: "u4", Email: "u4@school.za", EmailVerified: true},
	}}

	tests := []struct {
		name       string
		token      string
		required   []sec.Role
		wantStatus int
		wantCode   string
		wantReach  bool
	}{
		{
			name:       "active_admin_allowed",
			token:      "tok-admin",
			required:   []sec.Role{sec.RoleAdmin},
			wantStatus: http.StatusOK,
			wantReach:  true,
		},
		{
			name:       "multi_role_gate_allows_member",
			token:      "tok-admin",
			required:   []sec.Role{sec.RoleEducator, sec.RoleAdmin},
			wantStatus: http.StatusOK,
			wantReach:  true,
		},
		{
			name:       "no_token_unauthenticated",
			token:      "",
			required:   []sec.Role{sec.RoleAdmin},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "unverified_email_denied_before_lookup",
			token:      "tok-unverified",
			required:   []sec.Role{sec.RoleLearner},
			wantStatus: http.StatusForbidden,
			wantCode:   "EMAIL_NOT_VERIFIED",
		},
		{
			name:       "pending_parent_account_not_active",
			token:      "tok-parent",
			required:   []sec.Role{sec.RoleParent},
			wantStatus: http.StatusForbidden,
			wantCode:   "ACCOUNT_NOT_ACTIVE",
		},
		{
			name:       "missing_profile_forbidden",
			token:      "tok-ghost",
			required:   []sec.Role{sec.RoleEducator},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "wrong_role_forbidden",
			token:      "tok-admin",
			required:   []sec.Role{sec.RolePrincipal},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeProfiles{facts: map[string]*access.RoleFact{
				"u1": {Role: sec.RoleAdmin, Status: sec.StatusActive},
				"u2": {Role: sec.RoleParent, Status: sec.StatusPending},
			}}
			policy := newPolicy(store)

			var reached bool
			handler := middleware.Authenticate(verifier)(
				policy.RequireRole(tt.required...)(okHandler(&reached)),
			)

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				request.Header.Set("Authorization", "Bearer "+tt.token)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantReach, reached)

			if tt.wantCode != "" {
				var body struct {
					Code     string `json:"code"`
					Redirect string `json:"redirect"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
				assert.Equal(t, "/login", body.Redirect, "every denial redirects to sign-in")
			}
		})
	}
}

/*
TestRequireRole_NoLookupWithoutSession checks the ordering guarantee at the
HTTP layer: anonymous and unverified callers never trigger a profile read.
*/
func TestRequireRole_NoLookupWithoutSession(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*sec.AuthClaims{
		"tok-unverified": {UserID: "u3", EmailVerified: false},
	}}
	store := &fakeProfiles{facts: map[string]*access.RoleFact{}}
	policy := newPolicy(store)

	var reached bool
	handler := middleware.Authenticate(verifier)(
		policy.RequireRole(sec.RoleLearner)(okHandler(&reached)),
	)

	// Anonymous
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Unverified
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer tok-unverified")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	assert.Zero(t, store.calls, "resolver must not run for anonymous or unverified callers")
	assert.False(t, reached)
}

/*
TestRequireAuth admits any authenticated, authorized role without a role gate.
*/
func TestRequireAuth(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*sec.AuthClaims{
		"tok-learner": {UserID: "u5", Email: "u5@school.za", EmailVerified: true},
	}}
	store := &fakeProfiles{facts: map[string]*access.RoleFact{
		// Learners are exempt from activation gating.
		"u5": {Role: sec.RoleLearner, Status: sec.StatusPending},
	}}
	policy := newPolicy(store)

	var reached bool
	handler := middleware.Authenticate(verifier)(policy.RequireAuth(okHandler(&reached)))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer tok-learner")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

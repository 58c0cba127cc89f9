// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/mailer"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/users/auth"
)

// # In-Memory Fakes

type fakeProfileRepo struct {
	profiles map[string]*auth.Profile // keyed by ID
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*auth.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *auth.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id string) (*auth.Profile, error) {
	if profile, ok := r.profiles[id]; ok {
		return profile, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (r *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*auth.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *auth.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if profile, ok := r.profiles[userID]; ok {
		profile.PasswordHash = newHash
	}
	return nil
}

func (r *fakeProfileRepo) MarkVerified(_ context.Context, userID string) error {
	if profile, ok := r.profiles[userID]; ok {
		profile.EmailVerified = true
		if profile.Status == sec.StatusPending {
			profile.Status = sec.StatusActive
		}
	}
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range r.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session not found or expired")
}

func (r *fakeSessionRepo) ListActive(_ context.Context, userID string) ([]auth.Session, error) {
	var active []auth.Session
	for _, session := range r.sessions {
		if session.UserID == userID && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			active = append(active, *session)
		}
	}
	return active, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range r.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error {
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			delete(r.sessions, id)
		}
	}
	return nil
}

// fakeTokenStore serves as both reset and verification token repository.
type fakeTokenStore struct {
	tokens map[string]string // token -> userID
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string)}
}

func (s *fakeTokenStore) Set(_ context.Context, token, userID string, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) Get(_ context.Context, token string) (string, error) {
	if userID, ok := s.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Token is invalid or expired")
}

func (s *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, _ bool, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

type fakeMailer struct {
	sent []*mailer.Message
}

func (m *fakeMailer) Send(_ context.Context, message *mailer.Message) error {
	m.sent = append(m.sent, message)
	return nil
}

// # Harness

type harness struct {
	service  *auth.Service
	profiles *fakeProfileRepo
	sessions *fakeSessionRepo
	resets   *fakeTokenStore
	verifies *fakeTokenStore
	mail     *fakeMailer
}

func newHarness() *harness {
	h := &harness{
		profiles: newFakeProfileRepo(),
		sessions: newFakeSessionRepo(),
		resets:   newFakeTokenStore(),
		verifies: newFakeTokenStore(),
		mail:     &fakeMailer{},
	}
	h.service = auth.NewService(
		h.profiles,
		h.sessions,
		h.resets,
		h.verifies,
		fakeTokenProvider{},
		h.mail,
		nil,
		"https://app.thuto.school",
	)
	return h
}

// registerProfile seeds a profile with a known password through the service.
func (h *harness) registerProfile(t *testing.T, email string, role sec.Role) *auth.Profile {
	t.Helper()
	profile, err := h.service.Register(context.Background(), auth.RegisterInput{
		FullName: "Naledi Dlamini",
		Email:    email,
		Password: "correct horse battery",
		Role:     role,
	})
	require.NoError(t, err)
	return profile
}

// # Registration

/*
TestService_Register_LearnerAutoActivated verifies that learner accounts go
live immediately, with no verification email.
*/
func TestService_Register_LearnerAutoActivated(t *testing.T) {
	h := newHarness()

	profile := h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	assert.Equal(t, sec.StatusActive, profile.Status)
	assert.True(t, profile.EmailVerified)
	assert.Empty(t, h.mail.sent)
	assert.Empty(t, h.verifies.tokens)
}

/*
TestService_Register_EducatorStartsPending verifies that staff enrollment
leaves the account pending and dispatches a verification email.
*/
func TestService_Register_EducatorStartsPending(t *testing.T) {
	h := newHarness()

	profile := h.registerProfile(t, "sipho@school.za", sec.RoleEducator)

	assert.Equal(t, sec.StatusPending, profile.Status)
	assert.False(t, profile.EmailVerified)

	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, "sipho@school.za", h.mail.sent[0].ToAddress)

	// The link token in the mail must resolve back to this profile.
	require.Len(t, h.verifies.tokens, 1)
	for _, userID := range h.verifies.tokens {
		assert.Equal(t, profile.ID, userID)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	h := newHarness()
	h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	_, err := h.service.Register(context.Background(), auth.RegisterInput{
		FullName: "Impostor",
		Email:    "naledi@school.za",
		Password: "another password",
		Role:     sec.RoleParent,
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestService_Register_ReservedRoleRejected(t *testing.T) {
	h := newHarness()

	for _, role := range []sec.Role{sec.RoleAdmin, sec.RolePrincipal} {
		_, err := h.service.Register(context.Background(), auth.RegisterInput{
			FullName: "Self Promoter",
			Email:    "boss@school.za",
			Password: "correct horse battery",
			Role:     role,
		})

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
	}
}

// # Login

func TestService_Login_Success(t *testing.T) {
	h := newHarness()
	profile := h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-for-"+profile.ID, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	// Refresh session must be tracked server-side.
	active, err := h.sessions.ListActive(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestService_Login_WrongPassword(t *testing.T) {
	h := newHarness()
	h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "wrong password",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	h := newHarness()

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "ghost@school.za",
		Password: "whatever",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	// Same generic code as a wrong password, so callers cannot probe for accounts.
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_Login_SuspendedAccount(t *testing.T) {
	h := newHarness()
	profile := h.registerProfile(t, "naledi@school.za", sec.RoleLearner)
	profile.Status = sec.StatusSuspended

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "ACCOUNT_NOT_ACTIVE", ae.Code)
}

// # Session Lifecycle

func TestService_RefreshSession_Rotation(t *testing.T) {
	h := newHarness()
	profile := h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	first, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	second, err := h.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token must be dead: a replay attempt is rejected.
	_, err = h.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	active, err := h.sessions.ListActive(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestService_Logout_Idempotent(t *testing.T) {
	h := newHarness()
	h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
	// Second logout with the same token is a no-op, not an error.
	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
	// So is a logout with garbage.
	require.NoError(t, h.service.Logout(context.Background(), "never-issued"))
}

// # Email Verification

/*
TestService_VerifyEmail_ActivatesPendingAccount verifies that confirming the
email both records ownership and flips a pending profile to active.
*/
func TestService_VerifyEmail_ActivatesPendingAccount(t *testing.T) {
	h := newHarness()
	profile := h.registerProfile(t, "mama@school.za", sec.RoleParent)
	require.Equal(t, sec.StatusPending, profile.Status)

	var token string
	for issued := range h.verifies.tokens {
		token = issued
	}
	require.NotEmpty(t, token)

	require.NoError(t, h.service.VerifyEmail(context.Background(), token))

	assert.True(t, profile.EmailVerified)
	assert.Equal(t, sec.StatusActive, profile.Status)
	// Single use: the token must be gone.
	assert.Empty(t, h.verifies.tokens)
}

func TestService_VerifyEmail_UnknownToken(t *testing.T) {
	h := newHarness()

	err := h.service.VerifyEmail(context.Background(), "never-issued")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

// # Password Recovery

func TestService_RequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.service.RequestPasswordReset(context.Background(), "ghost@school.za"))

	assert.Empty(t, h.resets.tokens)
	assert.Empty(t, h.mail.sent)
}

func TestService_ResetPassword_RevokesAllSessions(t *testing.T) {
	h := newHarness()
	profile := h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	for range 2 {
		_, err := h.service.Login(context.Background(), auth.LoginInput{
			Email:    "naledi@school.za",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
	}

	require.NoError(t, h.service.RequestPasswordReset(context.Background(), "naledi@school.za"))
	require.Len(t, h.mail.sent, 1)

	var token string
	for issued := range h.resets.tokens {
		token = issued
	}
	require.NotEmpty(t, token)

	require.NoError(t, h.service.ResetPassword(context.Background(), token, "a brand new password"))

	// Old credential no longer works, new one does.
	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})
	require.Error(t, err)

	_, err = h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "a brand new password",
	})
	require.NoError(t, err)

	// Sessions created before the reset are dead; only the fresh login survives.
	active, err := h.sessions.ListActive(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestService_ChangePassword(t *testing.T) {
	h := newHarness()
	profile := h.registerProfile(t, "naledi@school.za", sec.RoleLearner)

	current, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	other, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "naledi@school.za",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	t.Run("wrong_current_password", func(t *testing.T) {
		err := h.service.ChangePassword(context.Background(), profile.ID,
			"not my password", "a brand new password", current.RefreshToken)

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("revokes_other_devices", func(t *testing.T) {
		err := h.service.ChangePassword(context.Background(), profile.ID,
			"correct horse battery", "a brand new password", current.RefreshToken)
		require.NoError(t, err)

		// The requesting device keeps its session, the other one is out.
		_, err = h.sessions.FindByTokenHash(context.Background(), sec.HashToken(current.RefreshToken))
		require.NoError(t, err)
		_, err = h.sessions.FindByTokenHash(context.Background(), sec.HashToken(other.RefreshToken))
		require.Error(t, err)
	})
}

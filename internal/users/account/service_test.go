// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package account_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/users/account"
	"github.com/lesedi/thuto/internal/users/auth"
)

// # In-Memory Fakes

type fakeAccounts struct {
	profiles map[string]*auth.Profile
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (*auth.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeAccounts) Update(_ context.Context, profile *auth.Profile) error {
	if _, ok := f.profiles[profile.ID]; !ok {
		return apperr.NotFound("User not found")
	}
	copied := *profile
	f.profiles[profile.ID] = &copied
	return nil
}

type storedSession struct {
	info      account.SessionInfo
	userID    string
	tokenHash string
	revoked   bool
}

type fakeSessions struct {
	sessions []*storedSession
}

func (f *fakeSessions) FindActiveByUserID(_ context.Context, userID, currentTokenHash string) ([]account.SessionInfo, error) {
	var active []account.SessionInfo
	for _, session := range f.sessions {
		if session.userID != userID || session.revoked {
			continue
		}
		info := session.info
		info.IsCurrent = currentTokenHash != "" && session.tokenHash == currentTokenHash
		active = append(active, info)
	}
	return active, nil
}

func (f *fakeSessions) Revoke(_ context.Context, userID, sessionID string) error {
	for _, session := range f.sessions {
		if session.userID == userID && session.info.ID == sessionID && !session.revoked {
			session.revoked = true
			return nil
		}
	}
	return apperr.NotFound("Session not found")
}

func (f *fakeSessions) RevokeOthers(_ context.Context, userID, currentTokenHash string) error {
	for _, session := range f.sessions {
		if session.userID == userID && session.tokenHash != currentTokenHash {
			session.revoked = true
		}
	}
	return nil
}

func (f *fakeSessions) RevokeAll(_ context.Context, userID string) error {
	for _, session := range f.sessions {
		if session.userID == userID {
			session.revoked = true
		}
	}
	return nil
}

type harness struct {
	service  *account.Service
	accounts *fakeAccounts
	sessions *fakeSessions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		accounts: &fakeAccounts{profiles: make(map[string]*auth.Profile)},
		sessions: &fakeSessions{},
	}
	h.service = account.NewService(h.accounts, h.sessions, slog.Default())
	return h
}

func (h *harness) seedProfile(id, fullName string) *auth.Profile {
	profile := &auth.Profile{
		ID:       id,
		FullName: fullName,
		Email:    id + "@school.za",
		Role:     sec.RoleLearner,
		Status:   sec.StatusActive,
	}
	h.accounts.profiles[id] = profile
	return profile
}

func (h *harness) seedSession(userID, sessionID, tokenHash, device string) {
	h.sessions.sessions = append(h.sessions.sessions, &storedSession{
		info: account.SessionInfo{
			ID:         sessionID,
			DeviceName: device,
			CreatedAt:  time.Now(),
			ExpiresAt:  time.Now().Add(24 * time.Hour),
		},
		userID:    userID,
		tokenHash: tokenHash,
	})
}

// # Tests

func TestService_UpdateProfile_FullNameOnly(t *testing.T) {
	h := newHarness(t)
	h.seedProfile("learner-1", "Old Name")

	newName := "Lesedi Mokoena"
	updated, err := h.service.UpdateProfile(context.Background(), "learner-1", account.UpdateProfileInput{
		FullName: &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, "Lesedi Mokoena", updated.FullName)
	// Identity and standing stay immutable through this path.
	assert.Equal(t, "learner-1@school.za", updated.Email)
	assert.Equal(t, sec.RoleLearner, updated.Role)
	assert.Equal(t, sec.StatusActive, updated.Status)
}

func TestService_UpdateProfile_NilInputKeepsName(t *testing.T) {
	h := newHarness(t)
	h.seedProfile("learner-1", "Old Name")

	updated, err := h.service.UpdateProfile(context.Background(), "learner-1", account.UpdateProfileInput{})

	require.NoError(t, err)
	assert.Equal(t, "Old Name", updated.FullName)
}

func TestService_UpdateProfile_UnknownUser(t *testing.T) {
	h := newHarness(t)

	name := "Ghost"
	_, err := h.service.UpdateProfile(context.Background(), "missing", account.UpdateProfileInput{FullName: &name})
	require.Error(t, err)
}

func TestService_ListSessions_MarksCurrent(t *testing.T) {
	h := newHarness(t)
	h.seedSession("learner-1", "session-1", "hash-laptop", "Firefox on Linux")
	h.seedSession("learner-1", "session-2", "hash-phone", "Safari on iPhone")
	h.seedSession("learner-2", "session-3", "hash-other", "Chrome on Windows")

	sessions, err := h.service.ListSessions(context.Background(), "learner-1", "hash-phone")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byID := make(map[string]account.SessionInfo, len(sessions))
	for _, session := range sessions {
		byID[session.ID] = session
	}
	assert.False(t, byID["session-1"].IsCurrent)
	assert.True(t, byID["session-2"].IsCurrent)
}

func TestService_RevokeSession_OwnerScoped(t *testing.T) {
	h := newHarness(t)
	h.seedSession("learner-1", "session-1", "hash-laptop", "Firefox on Linux")
	h.seedSession("learner-2", "session-2", "hash-other", "Chrome on Windows")

	// Revoking someone else's session by ID fails the owner check.
	err := h.service.RevokeSession(context.Background(), "learner-1", "session-2")
	require.Error(t, err)

	require.NoError(t, h.service.RevokeSession(context.Background(), "learner-1", "session-1"))

	sessions, err := h.service.ListSessions(context.Background(), "learner-1", "")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestService_RevokeOtherSessions_KeepsCurrent(t *testing.T) {
	h := newHarness(t)
	h.seedSession("learner-1", "session-1", "hash-laptop", "Firefox on Linux")
	h.seedSession("learner-1", "session-2", "hash-phone", "Safari on iPhone")
	h.seedSession("learner-1", "session-3", "hash-tablet", "Chrome on Android")

	require.NoError(t, h.service.RevokeOtherSessions(context.Background(), "learner-1", "hash-phone"))

	sessions, err := h.service.ListSessions(context.Background(), "learner-1", "hash-phone")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-2", sessions[0].ID)
	assert.True(t, sessions[0].IsCurrent)
}

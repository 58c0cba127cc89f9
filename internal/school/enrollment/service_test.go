// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package enrollment_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/internal/school/enrollment"
	"github.com/lesedi/thuto/internal/users/auth"
	"github.com/lesedi/thuto/pkg/uuid"
)

type fakeRepo struct {
	active map[string]enrollment.Enrollment // classID|learnerID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{active: make(map[string]enrollment.Enrollment)}
}

func key(classID, learnerID string) string { return classID + "|" + learnerID }

func (f *fakeRepo) Enroll(_ context.Context, membership *enrollment.Enrollment) error {
	k := key(membership.ClassID, membership.LearnerID)
	if _, ok := f.active[k]; ok {
		return enrollment.ErrAlreadyEnrolled
	}
	f.active[k] = *membership
	return nil
}

func (f *fakeRepo) Withdraw(_ context.Context, classID, learnerID string) error {
	delete(f.active, key(classID, learnerID))
	return nil
}

func (f *fakeRepo) Roster(_ context.Context, classID string) ([]enrollment.RosterEntry, error) {
	var roster []enrollment.RosterEntry
	for _, membership := range f.active {
		if membership.ClassID == classID {
			roster = append(roster, enrollment.RosterEntry{LearnerID: membership.LearnerID})
		}
	}
	return roster, nil
}

func (f *fakeRepo) CountActive(_ context.Context, classID string) (int, error) {
	count := 0
	for _, membership := range f.active {
		if membership.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ListByLearner(_ context.Context, learnerID string) ([]enrollment.Enrollment, error) {
	var memberships []enrollment.Enrollment
	for _, membership := range f.active {
		if membership.LearnerID == learnerID {
			memberships = append(memberships, membership)
		}
	}
	return memberships, nil
}

type fakeClasses struct {
	classes map[string]*class.Class
}

func (f *fakeClasses) FindByID(_ context.Context, id string) (*class.Class, error) {
	found, ok := f.classes[id]
	if !ok {
		return nil, apperr.NotFound("Class")
	}
	return found, nil
}

type fakeProfiles struct {
	profiles map[string]*auth.Profile
}

func (f *fakeProfiles) FindByID(_ context.Context, id string) (*auth.Profile, error) {
	found, ok := f.profiles[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return found, nil
}

func (f *fakeProfiles) FindByEmail(_ context.Context, email string) (*auth.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type harness struct {
	service  *enrollment.Service
	repo     *fakeRepo
	classes  *fakeClasses
	profiles *fakeProfiles
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:     newFakeRepo(),
		classes:  &fakeClasses{classes: make(map[string]*class.Class)},
		profiles: &fakeProfiles{profiles: make(map[string]*auth.Profile)},
	}
	h.service = enrollment.NewService(h.repo, h.classes, h.profiles, slog.Default())
	return h
}

func (h *harness) addClass(capacity int) *class.Class {
	created := &class.Class{
		ID:         uuid.New(),
		Name:       "Mathematics",
		Subject:    "Mathematics",
		GradeLevel: 8,
		Capacity:   capacity,
	}
	h.classes.classes[created.ID] = created
	return created
}

func (h *harness) addProfile(role sec.Role, email string) *auth.Profile {
	profile := &auth.Profile{
		ID:     uuid.New(),
		Email:  email,
		Role:   role,
		Status: sec.StatusActive,
	}
	h.profiles.profiles[profile.ID] = profile
	return profile
}

func TestEnroll_Success(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)
	learner := h.addProfile(sec.RoleLearner, "sipho@example.com")

	membership, err := h.service.Enroll(context.Background(), mathematics.ID, learner.ID)

	require.NoError(t, err)
	assert.Equal(t, mathematics.ID, membership.ClassID)
	assert.Equal(t, learner.ID, membership.LearnerID)
	assert.NotEmpty(t, membership.ID)
}

func TestEnroll_NonLearnerRejected(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)
	educator := h.addProfile(sec.RoleEducator, "teacher@example.com")

	_, err := h.service.Enroll(context.Background(), mathematics.ID, educator.ID)

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestEnroll_CapacityReached(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(1)
	first := h.addProfile(sec.RoleLearner, "first@example.com")
	second := h.addProfile(sec.RoleLearner, "second@example.com")

	_, err := h.service.Enroll(context.Background(), mathematics.ID, first.ID)
	require.NoError(t, err)

	_, err = h.service.Enroll(context.Background(), mathematics.ID, second.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestEnroll_DuplicateRejected(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)
	learner := h.addProfile(sec.RoleLearner, "sipho@example.com")

	_, err := h.service.Enroll(context.Background(), mathematics.ID, learner.ID)
	require.NoError(t, err)

	_, err = h.service.Enroll(context.Background(), mathematics.ID, learner.ID)
	assert.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)
}

func TestWithdraw_Idempotent(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)
	learner := h.addProfile(sec.RoleLearner, "sipho@example.com")

	_, err := h.service.Enroll(context.Background(), mathematics.ID, learner.ID)
	require.NoError(t, err)

	require.NoError(t, h.service.Withdraw(context.Background(), mathematics.ID, learner.ID))
	require.NoError(t, h.service.Withdraw(context.Background(), mathematics.ID, learner.ID))

	count, err := h.repo.CountActive(context.Background(), mathematics.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBulkEnroll_MixedRows(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)
	enrolled := h.addProfile(sec.RoleLearner, "enrolled@example.com")
	fresh := h.addProfile(sec.RoleLearner, "fresh@example.com")

	_, err := h.service.Enroll(context.Background(), mathematics.ID, enrolled.ID)
	require.NoError(t, err)

	file := strings.Join([]string{
		"learner_id,full_name,email",
		fresh.ID + ",Fresh Learner,fresh@example.com",
		enrolled.ID + ",Enrolled Learner,enrolled@example.com",
		uuid.New() + ",Unknown Learner,unknown@example.com",
		fresh.ID + ",Bad Email,not-an-email",
	}, "\n")

	result, err := h.service.BulkEnroll(context.Background(), mathematics.ID, strings.NewReader(file))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Enrolled)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Message, "email")
}

func TestBulkEnroll_MissingHeaderFails(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)

	file := "name,email\nSipho,sipho@example.com"

	_, err := h.service.BulkEnroll(context.Background(), mathematics.ID, strings.NewReader(file))

	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Message, "learner_id")
}

func TestBulkEnroll_EmailMismatchIsRowError(t *testing.T) {
	h := newHarness(t)
	mathematics := h.addClass(0)
	learner := h.addProfile(sec.RoleLearner, "real@example.com")

	file := "learner_id,full_name,email\n" + learner.ID + ",Sipho,other@example.com"

	result, err := h.service.BulkEnroll(context.Background(), mathematics.ID, strings.NewReader(file))

	require.NoError(t, err)
	assert.Zero(t, result.Enrolled)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "does not match")
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package activity_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/users/activity"
)

type fakeRepo struct {
	entries []*activity.Entry
	fail    error
}

func (f *fakeRepo) Append(_ context.Context, entry *activity.Entry) error {
	if f.fail != nil {
		return f.fail
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) List(_ context.Context, filter activity.Filter, limit, offset int) ([]*activity.Entry, int, error) {
	var matched []*activity.Entry
	for _, entry := range f.entries {
		if filter.ActorID != "" && entry.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		matched = append(matched, entry)
	}
	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepo{}
	service := activity.NewService(repo, slog.Default())

	service.Record(context.Background(), "admin-1", "user_created", "learner-1", "role=learner")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "admin-1", entry.ActorID)
	assert.Equal(t, "user_created", entry.Action)
	assert.Equal(t, "learner-1", entry.TargetID)
	assert.Equal(t, "role=learner", entry.Detail)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestService_Record_SwallowsAppendFailure(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("audit store unavailable")}
	service := activity.NewService(repo, slog.Default())

	// Must not panic or surface the error to the caller.
	service.Record(context.Background(), "admin-1", "user_deleted", "learner-1", "")

	assert.Empty(t, repo.entries)
}

func TestService_List_Filtering(t *testing.T) {
	repo := &fakeRepo{}
	service := activity.NewService(repo, slog.Default())

	service.Record(context.Background(), "admin-1", "user_created", "learner-1", "")
	service.Record(context.Background(), "admin-1", "user_updated", "learner-1", "")
	service.Record(context.Background(), "principal-1", "class_deleted", "class-1", "")

	entries, total, err := service.List(context.Background(), activity.Filter{ActorID: "admin-1"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, entries, 2)

	entries, total, err = service.List(context.Background(), activity.Filter{Action: "class_deleted"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "principal-1", entries[0].ActorID)
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/access"
	"github.com/lesedi/thuto/internal/platform/sec"
)

// flakyStore returns a raw transport error, not yet wrapped in the closed
// taxonomy, to exercise the resolver's boundary translation.
type flakyStore struct{ raw error }

func (s *flakyStore) GetProfileByID(context.Context, string) (*access.RoleFact, error) {
	return nil, s.raw
}

/*
TestResolver_Resolve covers the tagged outcomes of a role lookup.
*/
func TestResolver_Resolve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &fakeStore{facts: map[string]*access.RoleFact{
			"u1": {Role: sec.RoleEducator, Status: sec.StatusActive},
		}}
		resolver := access.NewResolver(store)

		fact, err := resolver.Resolve(context.Background(), verifiedSession("u1"))
		require.NoError(t, err)
		assert.Equal(t, sec.RoleEducator, fact.Role)
		assert.Equal(t, sec.StatusActive, fact.Status)
	})

	t.Run("nil_session_rejected", func(t *testing.T) {
		resolver := access.NewResolver(&fakeStore{})

		_, err := resolver.Resolve(context.Background(), nil)
		assert.ErrorIs(t, err, access.ErrNoSession)
	})

	t.Run("absence_is_not_found", func(t *testing.T) {
		resolver := access.NewResolver(&fakeStore{facts: map[string]*access.RoleFact{}})

		_, err := resolver.Resolve(context.Background(), verifiedSession("ghost"))
		assert.ErrorIs(t, err, access.ErrProfileNotFound)
	})

	t.Run("raw_transport_error_becomes_lookup_error", func(t *testing.T) {
		resolver := access.NewResolver(&flakyStore{raw: errors.New("dial tcp: i/o timeout")})

		_, err := resolver.Resolve(context.Background(), verifiedSession("u1"))

		var lookupErr *access.LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.NotErrorIs(t, err, access.ErrProfileNotFound)
	})
}

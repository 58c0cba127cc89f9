// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package access

import (
	"context"
	"errors"
)

// ErrNoSession reports a caller contract violation: Resolve was invoked
// without a session. The guard's decision order makes this unreachable in
// normal operation.
var ErrNoSession = errors.New("access: resolve requires a session")

// Resolver translates a session into an authorization fact, fetched fresh on
// every call.
//
// # No caching, no side effects
//
// Each Resolve performs exactly one profile read. Nothing is cached between
// calls, so an administrative role change is visible on the subject's very
// next check. The resolver never creates or mutates a profile: provisioning
// a record with a guessed role during an authorization check would let an
// interrupted sign-up escalate into an elevated role.
type Resolver struct {
	store ProfileStore
}

// NewResolver creates a Resolver backed by the given profile store.
func NewResolver(store ProfileStore) *Resolver {
	return &Resolver{store: store}
}

/*
Resolve looks up the single profile for the session's identity.

Parameters:
  - ctx: context.Context for cancellation of the store read
  - session: The session to resolve; must be non-nil

Returns:
  - *RoleFact: The declared role and activation status on success
  - error: ErrNoSession on a nil session, ErrProfileNotFound when no profile
    exists for the identity (a real absence, not retryable), or a
    *LookupError wrapping a transport failure (retryable)
*/
func (r *Resolver) Resolve(ctx context.Context, session *Session) (*RoleFact, error) {
	if session == nil {
		return nil, ErrNoSession
	}

	fact, err := r.store.GetProfileByID(ctx, session.IdentityID)
	if err != nil {
		// The store already speaks the closed taxonomy; anything else is
		// a transport fault and must stay distinguishable from absence.
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		var lookupErr *LookupError
		if errors.As(err, &lookupErr) {
			return nil, err
		}
		return nil, &LookupError{Cause: err}
	}

	return fact, nil
}

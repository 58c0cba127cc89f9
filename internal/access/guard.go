// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package access

import (
	"context"
	"errors"
	"time"

	"github.com/lesedi/thuto/internal/platform/constants"
	"github.com/lesedi/thuto/internal/platform/sec"
)

// Guard is the single authorization checkpoint for protected views.
//
// It orchestrates the [Observer] and [Resolver] into one [Decision] per
// evaluation. Evaluations are independent: nothing is carried over between
// checks, and the guard never mutates session or profile state.
type Guard struct {
	observer *Observer
	resolver *Resolver
}

// NewGuard creates a Guard over the given observer and resolver.
func NewGuard(observer *Observer, resolver *Resolver) *Guard {
	return &Guard{observer: observer, resolver: resolver}
}

/*
Evaluate runs one full guard evaluation for the required role.

# Decision order

 1. Subscription broken → subscription_broken (no decision can be trusted).
 2. Initial session resolution in progress → still_checking (prevents a
    flash-redirect to sign-in while the session is being established).
 3. No session → deny-unauthenticated.
 4. Email not verified → deny-unverified.
 5. Resolve the role fresh, retrying transient lookup failures with
    exponential backoff (at most [constants.RoleLookupMaxAttempts] attempts).
 6. Apply [Decide] to the lookup outcome.

# Stale-lookup discard

If the session changes while a lookup is in flight, the late result is
discarded and the evaluation restarts against the now-current session. A slow
lookup for a just-signed-out user must never authorize a view after a
different user signs in.

Parameters:
  - ctx: context.Context; cancellation abandons any pending lookup and
    surfaces as still_checking (the caller navigated away — no decision is
    applied)
  - required: Required role, empty for "any authenticated, authorized role"

Returns:
  - Decision: The evaluation outcome; [Decision.Err] carries the cause for
    still_checking with exhausted retries and for subscription_broken
*/
func (g *Guard) Evaluate(ctx context.Context, required sec.Role) Decision {
	for {
		session, resolving, err := g.observer.Snapshot()

		// 1. Subscription health
		if err != nil {
			return Decision{Outcome: OutcomeSubscriptionBroken, Err: err}
		}

		// 2. Initial resolution window
		if resolving {
			return Decision{Outcome: OutcomeStillChecking}
		}

		// 3–4. Session checks happen before any lookup: the resolver is
		// never invoked without a verified session.
		if session == nil {
			return deny(OutcomeDenyUnauthenticated)
		}
		if !session.EmailVerified {
			return deny(OutcomeDenyUnverified)
		}

		// 5. Fresh role lookup with bounded retries
		fact, lookupErr := g.resolveWithRetry(ctx, session)
		if ctx.Err() != nil {
			return Decision{Outcome: OutcomeStillChecking, Err: ctx.Err()}
		}

		// Identity-mismatch check: the lookup was issued for one session;
		// only apply its result if that session is still current.
		current, _, _ := g.observer.Snapshot()
		if current == nil || current.IdentityID != session.IdentityID {
			continue
		}

		// 6. Decide
		return Decide(session, fact, lookupErr, required)
	}
}

// resolveWithRetry resolves the session's role, retrying transient lookup
// failures with exponential backoff.
func (g *Guard) resolveWithRetry(ctx context.Context, session *Session) (*RoleFact, error) {
	return ResolveWithRetry(ctx, g.resolver, session)
}

// ResolveWithRetry resolves the session's role, retrying transient lookup
// failures with exponential backoff. Absence (ErrProfileNotFound) is final
// and returned immediately. Shared by the guard and the HTTP authorization
// middleware so both apply the same retry policy.
func ResolveWithRetry(ctx context.Context, resolver *Resolver, session *Session) (*RoleFact, error) {
	var lastErr error

	for attempt := 0; attempt < constants.RoleLookupMaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := constants.RoleLookupBackoffBase * time.Duration(1<<(attempt-1))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, &LookupError{Cause: ctx.Err()}
			case <-timer.C:
			}
		}

		fact, err := resolver.Resolve(ctx, session)
		if err == nil {
			return fact, nil
		}
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}

		// Transport failure: retry until attempts are exhausted.
		lastErr = err
		if ctx.Err() != nil {
			return nil, &LookupError{Cause: ctx.Err()}
		}
	}

	return nil, lastErr
}

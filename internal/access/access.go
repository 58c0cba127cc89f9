// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package access implements the role-gated access-control core.

Every protected surface in Thuto passes through this package: a live view of
"who is signed in" (Observer), a fresh role lookup per check (Resolver), and a
single decision algorithm (Guard) that turns both into an allow-or-redirect
outcome.

# Architecture

Data flows one way: Observer → Resolver → Guard → caller.

  - Observer subscribes to the Identity Provider's session stream and exposes
    the current session plus an initial-resolution flag.
  - Resolver translates a session into a role/status fact by reading exactly
    one profile record. It caches nothing and never writes — an authorization
    check must not create or mutate a profile.
  - Guard evaluates the decision order: still resolving, unauthenticated,
    unverified email, profile lookup, activation status, role match.

# Freshness over performance

The role is re-resolved on every evaluation. A role change made by an
administrator takes effect on the subject's next check, at the cost of one
profile read per check. The stale-lookup discard rule in [Guard.Evaluate]
keeps this safe when the session changes mid-lookup.
*/
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/lesedi/thuto/internal/platform/constants"
	"github.com/lesedi/thuto/internal/platform/sec"
)

// Session is a read-only reference to a currently authenticated identity.
//
// Sessions are owned by the Identity Provider; this package never creates,
// refreshes, or destroys one.
type Session struct {
	IdentityID    string
	Email         string
	EmailVerified bool
}

// RoleFact is the authorization fact extracted from a profile record.
type RoleFact struct {
	Role   sec.Role
	Status sec.Status
}

// IdentityProvider is the session event source consumed by [Observer].
//
// Subscribe registers callback to be invoked with the current session (or nil
// when signed out) immediately and on every subsequent sign-in, sign-out, or
// credential refresh. The returned function cancels the subscription. The
// stream supports multiple independent listeners.
type IdentityProvider interface {
	Subscribe(callback func(*Session)) (unsubscribe func(), err error)
}

// ProfileStore is the read-only profile lookup consumed by [Resolver].
//
// GetProfileByID fetches the single profile keyed by identityID and returns
// its role fact. Absence is reported as [ErrProfileNotFound]; transport
// failure as a [*LookupError]. Implementations must not write.
type ProfileStore interface {
	GetProfileByID(ctx context.Context, identityID string) (*RoleFact, error)
}

// ErrProfileNotFound reports a real absence: no profile record exists for the
// identity. This is a valid, non-retryable outcome, distinct from transport
// failure.
var ErrProfileNotFound = errors.New("access: profile not found")

// LookupError wraps a transport or connectivity failure reaching the profile
// store. Retryable by the caller, unlike [ErrProfileNotFound].
type LookupError struct {
	Cause error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("access: profile lookup failed: %v", e.Cause)
}

func (e *LookupError) Unwrap() error { return e.Cause }

// Outcome identifies the result of a guard evaluation.
//
// The string values double as log fields and metric labels.
type Outcome string

const (
	// OutcomeAllow renders the protected view.
	OutcomeAllow Outcome = "allow"
	// OutcomeDenyUnauthenticated means no session is present.
	OutcomeDenyUnauthenticated Outcome = "deny_unauthenticated"
	// OutcomeDenyUnverified means the session's email is not verified.
	// An unverified identity never reaches a protected view even when a
	// role-bearing profile exists, because the role could have been set
	// before ownership of the email was confirmed.
	OutcomeDenyUnverified Outcome = "deny_unverified"
	// OutcomeDenyWrongRole covers missing profile, non-active status, and
	// role mismatch alike: from the guard's perspective all three mean
	// "no authorized role for this view".
	OutcomeDenyWrongRole Outcome = "deny_wrong_role"
	// OutcomeStillChecking is a transient non-decision: the session is
	// still resolving or the profile store is temporarily unreachable.
	// Not a denial.
	OutcomeStillChecking Outcome = "still_checking"
	// OutcomeSubscriptionBroken means the session subscription could not
	// be established. No authorization decision can be trusted.
	OutcomeSubscriptionBroken Outcome = "subscription_broken"
)

// Decision is the ephemeral result of one guard evaluation. Never persisted;
// recomputed on every check.
type Decision struct {
	Outcome Outcome

	// Redirect is the navigation target for denials. Every denial kind
	// redirects to the sign-in view; only the message differs.
	Redirect string

	// Fact carries the resolved role on OutcomeAllow.
	Fact *RoleFact

	// Err carries the underlying failure for OutcomeStillChecking (retries
	// exhausted) and OutcomeSubscriptionBroken.
	Err error
}

// Allowed reports whether the decision permits rendering the protected view.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllow }

// Denied reports whether the decision is a terminal denial (as opposed to a
// transient still-checking state).
func (d Decision) Denied() bool {
	switch d.Outcome {
	case OutcomeDenyUnauthenticated, OutcomeDenyUnverified, OutcomeDenyWrongRole:
		return true
	}
	return false
}

// deny builds a denial decision with the standard sign-in redirect.
func deny(outcome Outcome) Decision {
	return Decision{Outcome: outcome, Redirect: constants.SignInPath}
}

/*
Decide is the pure decision algorithm.

It evaluates the rules in order, first match wins:

 1. No session → deny-unauthenticated.
 2. Email not verified → deny-unverified, regardless of any profile state.
 3. Profile absent → deny-wrong-role. Lookup failed → still-checking
    (transient, never a hard deny).
 4. Status not authorized for the role (learner is exempt from activation
    gating) → deny-wrong-role.
 5. required set and not equal to the resolved role → deny-wrong-role.
 6. Otherwise → allow.

Parameters:
  - session: Current session, nil when signed out
  - fact: Resolved role fact, nil when factErr is set
  - factErr: ErrProfileNotFound, *LookupError, or nil
  - required: Required role, empty string for "any authenticated role"

Returns:
  - Decision: Pure function of the inputs; no side effects
*/
func Decide(session *Session, fact *RoleFact, factErr error, required sec.Role) Decision {

	// 1. Authentication
	if session == nil {
		return deny(OutcomeDenyUnauthenticated)
	}

	// 2. Email ownership
	if !session.EmailVerified {
		return deny(OutcomeDenyUnverified)
	}

	// 3. Profile lookup outcome
	if factErr != nil {
		if errors.Is(factErr, ErrProfileNotFound) {
			return deny(OutcomeDenyWrongRole)
		}
		return Decision{Outcome: OutcomeStillChecking, Err: factErr}
	}
	if fact == nil {
		return Decision{Outcome: OutcomeStillChecking}
	}

	// 4. Activation status
	if !fact.Status.Authorized(fact.Role) {
		return deny(OutcomeDenyWrongRole)
	}

	// 5. Role match
	if required != "" && fact.Role != required {
		return deny(OutcomeDenyWrongRole)
	}

	// 6. Authorized
	return Decision{Outcome: OutcomeAllow, Fact: fact}
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lesedi/thuto/internal/access"
	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/constants"
	"github.com/lesedi/thuto/internal/platform/ctxkey"
	"github.com/lesedi/thuto/internal/platform/ctxutil"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// DecisionRecorder receives the outcome of every access check, for metrics.
type DecisionRecorder interface {
	AccessDecision(outcome string)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// # Parameters
//   - verifier: The TokenVerifier instance.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// AccessPolicy is the HTTP adaptation of the access-control core.
//
// # Role freshness
//
// Tokens deliberately carry no role claim. On every role-gated request the
// policy resolves the caller's role from the profile store via the
// [access.Resolver], so an administrative role or status change takes effect
// on the subject's next request, not at token expiry.
type AccessPolicy struct {
	resolver *access.Resolver
	recorder DecisionRecorder
}

// NewAccessPolicy creates the authorization policy for the router.
// recorder may be nil when metrics are disabled.
func NewAccessPolicy(resolver *access.Resolver, recorder DecisionRecorder) *AccessPolicy {
	return &AccessPolicy{resolver: resolver, recorder: recorder}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func (p *AccessPolicy) RequireAuth(next http.Handler) http.Handler {
	return p.require(next)
}

// RequireRole blocks requests unless the caller's freshly resolved role is in
// the allowed set.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [AccessPolicy.RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Build the session view from the verified claims (identity id, email,
//     verified flag).
//  2. Resolve the role from the profile store, retrying transient failures.
//  3. Apply the access decision order via [access.Decide].
//  4. On allow, inject the resolved role into the context; otherwise respond
//     with the denial and the sign-in redirect.
func (p *AccessPolicy) RequireRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return p.require(next, roles...)
	}
}

// require runs one access check for the request and the allowed role set.
func (p *AccessPolicy) require(next http.Handler, roles ...sec.Role) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// ── 1. Session from verified claims ───────────────────────────────
		var session *access.Session
		if claims := GetUser(request.Context()); claims != nil {
			session = &access.Session{
				IdentityID:    claims.UserID,
				Email:         claims.Email,
				EmailVerified: claims.EmailVerified,
			}
		}

		// ── 2. Fresh role lookup ──────────────────────────────────────────
		// Only after the cheap session checks would pass; the resolver is
		// never invoked for anonymous or unverified callers.
		var fact *access.RoleFact
		var factErr error
		if session != nil && session.EmailVerified {
			fact, factErr = access.ResolveWithRetry(request.Context(), p.resolver, session)
		}

		// ── 3. Decision ───────────────────────────────────────────────────
		decision := p.decide(session, fact, factErr, roles)
		if p.recorder != nil {
			p.recorder.AccessDecision(string(decision.Outcome))
		}

		// ── 4. Outcome ────────────────────────────────────────────────────
		if decision.Allowed() {
			ctx := ctxutil.WithRole(request.Context(), decision.Fact.Role)
			next.ServeHTTP(writer, request.WithContext(ctx))
			return
		}

		respond.Denied(writer, request, denialError(decision, fact), constants.SignInPath)
	})
}

// decide evaluates the decision order once per allowed role; the first allow
// wins. An empty role set means "any authenticated, authorized role".
func (p *AccessPolicy) decide(session *access.Session, fact *access.RoleFact, factErr error, roles []sec.Role) access.Decision {
	if len(roles) == 0 {
		return access.Decide(session, fact, factErr, "")
	}

	decision := access.Decide(session, fact, factErr, roles[0])
	for _, role := range roles[1:] {
		if decision.Allowed() {
			break
		}
		decision = access.Decide(session, fact, factErr, role)
	}
	return decision
}

// denialError maps a non-allow decision to its user-actionable error.
//
// Every denial redirects to the sign-in view; the kind only changes the
// message shown there.
func denialError(decision access.Decision, fact *access.RoleFact) error {
	switch decision.Outcome {
	case access.OutcomeDenyUnauthenticated:
		return apperr.Unauthorized("Authentication required")
	case access.OutcomeDenyUnverified:
		return apperr.EmailNotVerified()
	case access.OutcomeDenyWrongRole:
		if fact != nil && !fact.Status.Authorized(fact.Role) {
			return apperr.AccountNotActive()
		}
		return apperr.Forbidden("Insufficient permissions")
	default:
		// Transient lookup failure or broken subscription: explicitly not
		// an access denial.
		return apperr.AccessCheckUnavailable()
	}
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

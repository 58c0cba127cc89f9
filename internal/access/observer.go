// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package access

import "sync"

// Observer exposes a live view of the current session to the rest of the
// application.
//
// # Lifecycle
//
// Created once at application start via [NewObserver], started with [Start],
// torn down with [Close]. Consumers read state through [Observer.Snapshot];
// there is no other accessor, so tests can substitute a fake
// [IdentityProvider] without touching globals.
//
// # Concurrency
//
// The provider's callback may fire from any goroutine and may interleave with
// in-flight profile lookups. All state transitions happen under the mutex;
// Snapshot is safe for concurrent use by any number of guards.
type Observer struct {
	provider IdentityProvider

	mu          sync.RWMutex
	session     *Session
	resolving   bool
	err         error
	closed      bool
	unsubscribe func()
}

// NewObserver creates an Observer for the given provider. The observer
// reports resolving=true until [Start] succeeds and the first notification
// arrives.
func NewObserver(provider IdentityProvider) *Observer {
	return &Observer{
		provider:  provider,
		resolving: true,
	}
}

/*
Start subscribes to the provider's session-change stream.

The first notification ends the initial-resolution window; later notifications
(sign-out, sign-in again) are delivered as instantaneous session updates
without flipping resolving back to true.

Returns:
  - error: The subscription failure, if the stream could not be established.
    In that case the observer settles at session=nil, resolving=false, with
    the error exposed via Snapshot — no decision can be trusted until a
    restart succeeds.
*/
func (o *Observer) Start() error {
	unsubscribe, err := o.provider.Subscribe(o.onSessionChange)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.session = nil
		o.resolving = false
		o.err = err
		return err
	}

	o.err = nil
	o.unsubscribe = unsubscribe
	return nil
}

// onSessionChange is the provider callback. Notifications arriving after
// Close are dropped.
func (o *Observer) onSessionChange(session *Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}

	o.session = session
	o.resolving = false
}

// Snapshot returns the current session (nil when signed out), whether the
// initial resolution is still in progress, and any subscription error.
func (o *Observer) Snapshot() (session *Session, resolving bool, err error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.session, o.resolving, o.err
}

// Close cancels the subscription. Notifications already in flight are
// discarded; Snapshot keeps returning the last observed state.
func (o *Observer) Close() {
	o.mu.Lock()
	o.closed = true
	unsubscribe := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

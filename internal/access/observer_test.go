// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesedi/thuto/internal/access"
)

// pendingProvider subscribes successfully but delivers nothing until told to,
// modelling the window before the auth stream's first notification.
type pendingProvider struct {
	callback func(*access.Session)
}

func (p *pendingProvider) Subscribe(callback func(*access.Session)) (func(), error) {
	p.callback = callback
	return func() { p.callback = nil }, nil
}

/*
TestObserver_InitialResolution verifies resolving stays true until the first
notification and does not flip back on later updates.
*/
func TestObserver_InitialResolution(t *testing.T) {
	provider := &pendingProvider{}
	observer := access.NewObserver(provider)
	require.NoError(t, observer.Start())
	defer observer.Close()

	session, resolving, err := observer.Snapshot()
	assert.Nil(t, session)
	assert.True(t, resolving, "resolving until the first notification")
	assert.NoError(t, err)

	// First notification: signed out.
	provider.callback(nil)
	session, resolving, _ = observer.Snapshot()
	assert.Nil(t, session)
	assert.False(t, resolving)

	// Later sign-in is an instantaneous update, not a new resolution window.
	provider.callback(verifiedSession("u1"))
	session, resolving, _ = observer.Snapshot()
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.IdentityID)
	assert.False(t, resolving)
}

/*
TestObserver_SubscriptionFailure settles the observer at a terminal error
state: no session, not resolving, error exposed.
*/
func TestObserver_SubscriptionFailure(t *testing.T) {
	provider := &fakeProvider{subscribeErr: errors.New("stream unavailable")}
	observer := access.NewObserver(provider)

	err := observer.Start()
	require.Error(t, err)

	session, resolving, snapErr := observer.Snapshot()
	assert.Nil(t, session)
	assert.False(t, resolving)
	assert.Error(t, snapErr)
}

/*
TestObserver_CloseStopsDelivery drops notifications arriving after Close.
*/
func TestObserver_CloseStopsDelivery(t *testing.T) {
	provider := &fakeProvider{current: verifiedSession("u1")}
	observer := access.NewObserver(provider)
	require.NoError(t, observer.Start())

	observer.Close()
	provider.emit(verifiedSession("u2"))

	session, _, _ := observer.Snapshot()
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.IdentityID, "no state update after teardown")
}

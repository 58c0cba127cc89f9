// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// Package activity keeps an append-only audit log of privileged mutations.
package activity

import (
	"context"
	"time"
)

// Entry is one recorded privileged action.
type Entry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"` // e.g. "user_created", "class_deleted"
	TargetID  string    `json:"target_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows an activity listing.
type Filter struct {
	ActorID string
	Action  string
}

// Repository is the persistence contract for the audit log.
type Repository interface {
	// Append inserts one entry. The log is append-only; there is no update
	// or delete path.
	Append(context context.Context, entry *Entry) error

	// List returns entries newest first, with the total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error)
}

// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/lesedi/thuto/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an audit entry.
//
// Failures are logged and swallowed: an audit write must never roll back the
// privileged mutation it describes.
func (service *Service) Record(context context.Context, actorID, action, targetID, detail string) {
	entry := &Entry{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		TargetID:  targetID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := service.repo.Append(context, entry); err != nil {
		service.logger.Error("activity_append_failed",
			slog.String("action", action),
			slog.String("actor_id", actorID),
			slog.String("error", err.Error()),
		)
	}
}

// List returns recent entries, newest first.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

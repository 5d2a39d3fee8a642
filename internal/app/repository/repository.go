// Package repository defines persistence contracts for users and transcripts.
package repository

import (
	"context"
	"errors"

	"clipscribe/internal/app/model"
)

// ErrNotFound is returned when a row does not exist or is owned by another
// user; callers must not be able to tell the two apart.
var ErrNotFound = errors.New("record not found")

// UserRepository persists accounts. Emails are matched case-insensitively by
// storing them lowercased.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
}

// TranscriptRepository persists pipeline results. All reads are scoped to the
// owning user.
type TranscriptRepository interface {
	Create(ctx context.Context, t *model.Transcript) error
	GetByID(ctx context.Context, id, userID int64) (*model.Transcript, error)
	// ListByUser returns transcripts newest first; limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Transcript, error)
	MarkSent(ctx context.Context, id, userID int64, channel model.Channel) error
}

// Package users is the user directory: profile storage and the candidate
// queries the feed runs against it.
package users

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/server/models"
)

type Repository interface {
	// Create assigns an id when missing and fails with common.ErrorAlreadyExists
	// when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	// FindMany returns users matching filter ordered newest first, ties broken
	// by id descending so pages never overlap.
	FindMany(ctx context.Context, filter models.UserFilter, skip, limit int64) ([]models.UserMini, error)
	Count(ctx context.Context, filter models.UserFilter) (int64, error)
	// FindMiniByIDs returns the public projection of every id that exists.
	FindMiniByIDs(ctx context.Context, ids []string) (map[string]models.UserMini, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
	SetPhotoKey(ctx context.Context, id, key string) error
	// Delete removes the user, failing with common.ErrorNotFound when absent.
	Delete(ctx context.Context, id string) error
}

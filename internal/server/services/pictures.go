package services

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
)

// PictureStore hands out presigned URLs for profile pictures kept in object
// storage. A nil PictureStore disables uploads; stored profile_pic URLs are
// returned as they are.
type PictureStore interface {
	PictureKey(userID string) string
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// resolvePicture replaces the profile picture URL with a presigned download
// URL when the user has uploaded one. Failures keep the stored URL.
func resolvePicture(ctx context.Context, store PictureStore, log logging.Logger, m *models.UserMini) {
	if store == nil || m.PhotoKey == "" {
		return
	}
	url, err := store.PresignGet(ctx, m.PhotoKey)
	if err != nil {
		log.Warn(ctx, "presign picture failed", "user_id", m.ID, "error", err)
		return
	}
	m.ProfilePic = url
}

package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// ProfileInput is the editable part of a profile. Nil fields are kept.
type ProfileInput struct {
	FirstName  *string   `validate:"omitnil,min=3,max=20"`
	LastName   *string   `validate:"omitnil,min=3,max=20"`
	Password   *string   `validate:"omitnil,min=8,max=72,strongpassword"`
	ProfilePic *string   `validate:"omitnil,url"`
	About      *string   `validate:"omitnil,max=500"`
	Skills     *[]string `validate:"-"`
}

func (in ProfileInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Password == nil &&
		in.ProfilePic == nil && in.About == nil && in.Skills == nil
}

type ProfileService struct {
	repomanager repomanager.RepositoryManager
	pictures    PictureStore
	cost        int
	log         logging.Logger
}

func NewProfileService(m repomanager.RepositoryManager, pictures PictureStore, log logging.Logger) *ProfileService {
	return newProfileService(m, pictures, bcrypt.DefaultCost, log)
}

func newProfileService(m repomanager.RepositoryManager, pictures PictureStore, cost int, log logging.Logger) *ProfileService {
	return &ProfileService{
		repomanager: m,
		pictures:    pictures,
		cost:        cost,
		log:         log.With("module", "profile"),
	}
}

// View returns the public profile of userID.
func (s *ProfileService) View(ctx context.Context, userID string) (*models.UserMini, error) {
	u, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := u.Mini()
	resolvePicture(ctx, s.pictures, s.log, &m)
	return &m, nil
}

// Update applies in to the profile of targetID. Users may only edit their
// own profile.
func (s *ProfileService) Update(ctx context.Context, actorID, targetID string, in ProfileInput) (*models.UserMini, error) {
	if actorID != targetID {
		return nil, common.ErrForbidden
	}
	if in.empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Skills != nil {
		if err := validateVar(*in.Skills, "max=5,dive,required,max=30"); err != nil {
			return nil, err
		}
	}

	upd := models.ProfileUpdate{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		ProfilePic: in.ProfilePic,
		About:      in.About,
		Skills:     in.Skills,
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = hash
	}

	u, err := s.repomanager.Users().UpdateProfile(ctx, targetID, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "profile updated", "user_id", targetID)

	m := u.Mini()
	resolvePicture(ctx, s.pictures, s.log, &m)
	return &m, nil
}

// PictureUploadURL reserves a new object key for the user's picture and
// returns a presigned URL to PUT the bytes to.
func (s *ProfileService) PictureUploadURL(ctx context.Context, userID string) (key, url string, err error) {
	if s.pictures == nil {
		return "", "", fmt.Errorf("%w: picture storage is not configured", common.ErrUnavailable)
	}

	key = s.pictures.PictureKey(userID)
	url, err = s.pictures.PresignPut(ctx, key)
	if err != nil {
		return "", "", err
	}
	if err := s.repomanager.Users().SetPhotoKey(ctx, userID, key); err != nil {
		return "", "", err
	}
	s.log.Info(ctx, "picture upload url issued", "user_id", userID, "key", key)
	return key, url, nil
}

// Delete removes the account of targetID together with every connection
// request it takes part in. Users may only delete their own account.
func (s *ProfileService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID != targetID {
		return common.ErrForbidden
	}
	if _, err := s.repomanager.Users().GetByID(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.repomanager.Connections().DeleteForUser(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users().Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "user_id", targetID, "requests_removed", removed)
	return nil
}

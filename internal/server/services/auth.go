// Package services contains server-side business logic: identity, the
// connection request workflow, the discovery feed and profile management.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/auth"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FirstName  string   `validate:"required,min=3,max=20"`
	LastName   string   `validate:"required,min=3,max=20"`
	Email      string   `validate:"required,email,max=254"`
	Password   string   `validate:"required,min=8,max=72,strongpassword"`
	Gender     string   `validate:"required,oneof=male female other"`
	About      string   `validate:"max=500"`
	Skills     []string `validate:"max=5,dive,required,max=30"`
	ProfilePic string   `validate:"omitempty,url"`
}

// AuthService is the identity provider: registration, login and token
// verification.
type AuthService struct {
	repomanager repomanager.RepositoryManager
	secret      []byte
	ttl         time.Duration
	cost        int
	dummyHash   []byte
	log         logging.Logger
}

func NewAuthService(m repomanager.RepositoryManager, secret []byte, ttl time.Duration, log logging.Logger) *AuthService {
	return newAuthService(m, secret, ttl, bcrypt.DefaultCost, log)
}

func newAuthService(m repomanager.RepositoryManager, secret []byte, ttl time.Duration, cost int, log logging.Logger) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("devmatch-timing-equalizer"), cost)
	return &AuthService{
		repomanager: m,
		secret:      secret,
		ttl:         ttl,
		cost:        cost,
		dummyHash:   dummy,
		log:         log.With("module", "auth"),
	}
}

// Register validates in, hashes the password and stores the user.
// A taken email yields common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       in.Gender,
		About:        in.About,
		Skills:       in.Skills,
		ProfilePic:   in.ProfilePic,
	}
	if user.About == "" {
		user.About = models.DefaultAbout
	}
	if user.ProfilePic == "" {
		user.ProfilePic = models.DefaultProfilePic
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}

	created, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Login checks the credentials and returns a signed access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same time as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, common.ErrorUnauthenticated
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, common.ErrorUnauthenticated
	}

	token, err := auth.GenerateToken(user.ID, s.secret, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves an access token to the id of an existing user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthenticated
	}
	userID, err := auth.GetUserIDFromToken(token, s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthenticated, err)
	}

	ok, err := s.repomanager.Users().Exists(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: user no longer exists", common.ErrorUnauthenticated)
	}
	return userID, nil
}

// HashPassword hashes a new password with the service's cost.
func (s *AuthService) HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.cost)
}

package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Sup3r$ecret"

var testSecret = []byte("test-secret")

type fixture struct {
	m           *repomanager.MemoryRepositoryManager
	auth        *AuthService
	connections *ConnectionService
	feed        *FeedService
	profile     *ProfileService
}

func newFixture(t *testing.T, pictures PictureStore) *fixture {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	log := logging.Nop{}
	return &fixture{
		m:           m,
		auth:        newAuthService(m, testSecret, time.Hour, bcrypt.MinCost, log),
		connections: NewConnectionService(m, pictures, log),
		feed:        NewFeedService(m, pictures, log),
		profile:     newProfileService(m, pictures, bcrypt.MinCost, log),
	}
}

func (f *fixture) register(t *testing.T, name, gender string, skills ...string) *models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		FirstName: name,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  testPassword,
		Gender:    gender,
		Skills:    skills,
	})
	require.NoError(t, err)
	return u
}

func page(t *testing.T, p, l string) pagination.Page {
	t.Helper()
	pg, err := pagination.Normalize(p, l)
	require.NoError(t, err)
	return pg
}

type fakePictures struct {
	putErr error
	getErr error
	keys   int
}

func (f *fakePictures) PictureKey(userID string) string {
	f.keys++
	return fmt.Sprintf("avatars/%s/%d", userID, f.keys)
}

func (f *fakePictures) PresignPut(_ context.Context, key string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return "https://s3.local/put/" + key, nil
}

func (f *fakePictures) PresignGet(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://s3.local/get/" + key, nil
}

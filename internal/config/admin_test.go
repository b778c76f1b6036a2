package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuronclub/neuron-backend/internal/models"
)

type fakeAdminRepo struct {
	admins map[string]*models.Admin
	saves  int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*models.Admin{}}
}

func (r *fakeAdminRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeAdminRepo) SaveAdmin(admin *models.Admin) error {
	r.admins[admin.Username] = admin
	r.saves++
	return nil
}

func (r *fakeAdminRepo) GetAdminByUsername(username string) (*models.Admin, error) {
	return r.admins[username], nil
}

func TestEnsureAdminUserSeedsOnce(t *testing.T) {
	repo := newFakeAdminRepo()
	logger := zap.NewNop().Sugar()

	require.NoError(t, EnsureAdminUser(repo, "InitialPass@2025", logger))
	require.Equal(t, 1, repo.saves)

	admin := repo.admins["admin"]
	require.NotNil(t, admin)
	assert.NotEmpty(t, admin.ID)
	assert.NotEqual(t, "InitialPass@2025", admin.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte("InitialPass@2025")))

	// Second startup finds the existing admin and does not reseed.
	require.NoError(t, EnsureAdminUser(repo, "InitialPass@2025", logger))
	assert.Equal(t, 1, repo.saves)
}

package config

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuronclub/neuron-backend/internal/models"
	"github.com/neuronclub/neuron-backend/internal/repository"
)

const defaultAdminUsername = "admin"

// EnsureAdminUser seeds the default admin account on first startup.
func EnsureAdminUser(adminRepo repository.AdminRepository, password string, logger *zap.SugaredLogger) error {
	admin, err := adminRepo.GetAdminByUsername(defaultAdminUsername)
	if err != nil {
		return err
	}
	if admin != nil {
		logger.Info("Admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seed := &models.Admin{
		ID:             uuid.NewString(),
		Username:       defaultAdminUsername,
		HashedPassword: string(hashedPassword),
		CreatedAt:      time.Now().UTC(),
	}

	if err := adminRepo.SaveAdmin(seed); err != nil {
		return err
	}

	logger.Infow("Default admin user created", "username", defaultAdminUsername)
	return nil
}

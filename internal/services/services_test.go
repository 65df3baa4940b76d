package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GabyPng/Happ/internal/auth"
	"github.com/GabyPng/Happ/internal/database"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/repository"
)

type serviceTestEnv struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	gardenRepo repository.GardenRepository
	memoryRepo repository.MemoryRepository
	auth       *AuthService
	gardens    *GardenService
	memories   *MemoryService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	gardenRepo := repository.NewGardenRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)

	return serviceTestEnv{
		db:         db,
		userRepo:   userRepo,
		gardenRepo: gardenRepo,
		memoryRepo: memoryRepo,
		auth: NewAuthService(
			userRepo,
			auth.NewPasswordHasher(bcrypt.MinCost),
			auth.NewTokenManager("test-secret", time.Hour),
		),
		gardens:  NewGardenService(gardenRepo, memoryRepo, DefaultAccessCodeAttempts),
		memories: NewMemoryService(memoryRepo, gardenRepo),
	}
}

func (env serviceTestEnv) register(t *testing.T, email string) *models.User {
	t.Helper()
	result, err := env.auth.Register(context.Background(), RegisterInput{
		Email:       email,
		Password:    "secreto123",
		DisplayName: "Usuario",
	})
	require.NoError(t, err)
	return result.User
}

func (env serviceTestEnv) createGarden(t *testing.T, ownerID uint64) *models.Garden {
	t.Helper()
	garden, err := env.gardens.CreateGarden(context.Background(), CreateGardenInput{
		OwnerID: ownerID,
		Name:    "Nuestro jardin",
	})
	require.NoError(t, err)
	return garden
}

func (env serviceTestEnv) reloadUser(t *testing.T, id uint64) *models.User {
	t.Helper()
	user, err := env.userRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func (env serviceTestEnv) reloadGarden(t *testing.T, id uint64) *models.Garden {
	t.Helper()
	garden, err := env.gardenRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return garden
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GabyPng/Happ/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when an insert violates a unique index (email, access code, membership).
	ErrDuplicate = errors.New("repository: duplicate key")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	// TouchLastLogin records the time of a successful login
	TouchLastLogin(ctx context.Context, id uint64, at time.Time) error
}

// GardenRepository defines the interface for garden and membership data access
type GardenRepository interface {
	// Create creates a garden and bumps the owner's garden counter
	Create(ctx context.Context, garden *models.Garden) error

	// FindByID finds a garden by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Garden, error)

	// FindByAccessCode finds a garden by its normalized access code, with its owner
	FindByAccessCode(ctx context.Context, code string) (*models.Garden, error)

	// AccessCodeExists reports whether a garden already uses code
	AccessCodeExists(ctx context.Context, code string) (bool, error)

	// ListOwnedBy lists the gardens owned by a user
	ListOwnedBy(ctx context.Context, userID uint64) ([]models.Garden, error)

	// ListSharedWith lists the gardens a user joined as member
	ListSharedWith(ctx context.Context, userID uint64) ([]models.Garden, error)

	// Update updates the editable fields of a garden
	Update(ctx context.Context, garden *models.Garden) error

	// Delete deletes a garden, its memories and memberships
	Delete(ctx context.Context, id uint64) error

	// AddMember adds a member to a garden
	AddMember(ctx context.Context, member *models.GardenMember) error

	// RemoveMember removes a member from a garden
	RemoveMember(ctx context.Context, gardenID, userID uint64) error

	// FindMember finds a specific garden member
	FindMember(ctx context.Context, gardenID, userID uint64) (*models.GardenMember, error)

	// ListMembers lists all members of a garden
	ListMembers(ctx context.Context, gardenID uint64) ([]models.GardenMember, error)

	// RecordAccess stores recomputed stats and bumps the view counter
	RecordAccess(ctx context.Context, gardenID uint64, memoryCount int64, at time.Time) error
}

// MemoryRepository defines the interface for memory data access
type MemoryRepository interface {
	// Create creates a memory and bumps the garden and owner counters
	Create(ctx context.Context, memory *models.Memory) error

	// FindByID finds a memory by ID, active or not
	FindByID(ctx context.Context, id uint64) (*models.Memory, error)

	// List retrieves memories with filtering and pagination
	List(ctx context.Context, filter MemoryFilter) ([]models.Memory, int64, error)

	// CountActive counts the active memories of a garden
	CountActive(ctx context.Context, gardenID uint64) (int64, error)

	// Update updates the editable fields of a memory
	Update(ctx context.Context, memory *models.Memory) error

	// UpdatePosition moves a memory in the garden view
	UpdatePosition(ctx context.Context, id uint64, position models.Position) error

	// SoftDelete marks a memory inactive and decrements the counters once
	SoftDelete(ctx context.Context, id uint64) error
}

// MemoryFilter holds filtering options for listing memories
type MemoryFilter struct {
	GardenID   uint64
	ActiveOnly bool
	Type       *models.MemoryType
	Page       int
	PageSize   int
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// decrementExpr lowers a counter column by n without going below zero.
func decrementExpr(column string, n int64) clause.Expr {
	return gorm.Expr("CASE WHEN "+column+" > ? THEN "+column+" - ? ELSE 0 END", n, n)
}

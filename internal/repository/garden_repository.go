package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/GabyPng/Happ/internal/models"
)

// GormGardenRepository is a GORM implementation of GardenRepository
type GormGardenRepository struct {
	db *gorm.DB
}

// NewGardenRepository creates a new GardenRepository
func NewGardenRepository(db *gorm.DB) GardenRepository {
	return &GormGardenRepository{db: db}
}

// Create creates a garden and bumps the owner's garden counter in one transaction
func (r *GormGardenRepository) Create(ctx context.Context, garden *models.Garden) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner", "Members").Create(garden).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", garden.OwnerID).
			UpdateColumn("total_gardens", gorm.Expr("total_gardens + ?", 1)).Error
	})
	return translateError(err)
}

// FindByID finds a garden by ID with optional preloading
func (r *GormGardenRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Garden, error) {
	var garden models.Garden
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&garden, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &garden, nil
}

// FindByAccessCode finds a garden by access code
func (r *GormGardenRepository) FindByAccessCode(ctx context.Context, code string) (*models.Garden, error) {
	var garden models.Garden
	if err := r.db.WithContext(ctx).Preload("Owner").
		Where("access_code = ?", code).
		First(&garden).Error; err != nil {
		return nil, translateError(err)
	}
	return &garden, nil
}

// AccessCodeExists reports whether a garden already uses code
func (r *GormGardenRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Garden{}).
		Where("access_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListOwnedBy lists the gardens owned by a user, most recently accessed first
func (r *GormGardenRepository) ListOwnedBy(ctx context.Context, userID uint64) ([]models.Garden, error) {
	var gardens []models.Garden
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&gardens).Error; err != nil {
		return nil, err
	}
	return gardens, nil
}

// ListSharedWith lists the gardens a user joined as member
func (r *GormGardenRepository) ListSharedWith(ctx context.Context, userID uint64) ([]models.Garden, error) {
	var gardens []models.Garden
	if err := r.db.WithContext(ctx).Preload("Owner").
		Joins("JOIN garden_members ON garden_members.garden_id = gardens.id").
		Where("garden_members.user_id = ?", userID).
		Order("gardens.last_accessed_at DESC").
		Find(&gardens).Error; err != nil {
		return nil, err
	}
	return gardens, nil
}

// Update updates the editable fields of a garden, leaving counters untouched
func (r *GormGardenRepository) Update(ctx context.Context, garden *models.Garden) error {
	result := r.db.WithContext(ctx).Model(garden).
		Select("name", "description", "theme_name", "theme_primary_color", "theme_secondary_color", "theme_music_url", "is_private").
		Updates(garden)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a garden and all related data in a transaction
func (r *GormGardenRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var garden models.Garden
		if err := tx.First(&garden, id).Error; err != nil {
			return err
		}

		// Memories go with their garden, active or not
		if err := tx.Where("garden_id = ?", id).Delete(&models.Memory{}).Error; err != nil {
			return err
		}

		if err := tx.Where("garden_id = ?", id).Delete(&models.GardenMember{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Garden{}, id).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", garden.OwnerID).
			UpdateColumns(map[string]interface{}{
				"total_gardens":  decrementExpr("total_gardens", 1),
				"total_memories": decrementExpr("total_memories", garden.MemoryCount),
			}).Error
	})
	return translateError(err)
}

// AddMember adds a member to a garden
func (r *GormGardenRepository) AddMember(ctx context.Context, member *models.GardenMember) error {
	return translateError(r.db.WithContext(ctx).Omit("Garden", "User").Create(member).Error)
}

// RemoveMember removes a member from a garden
func (r *GormGardenRepository) RemoveMember(ctx context.Context, gardenID, userID uint64) error {
	result := r.db.WithContext(ctx).
		Where("garden_id = ? AND user_id = ?", gardenID, userID).
		Delete(&models.GardenMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindMember finds a specific garden member
func (r *GormGardenRepository) FindMember(ctx context.Context, gardenID, userID uint64) (*models.GardenMember, error) {
	var member models.GardenMember
	if err := r.db.WithContext(ctx).
		Where("garden_id = ? AND user_id = ?", gardenID, userID).
		First(&member).Error; err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

// ListMembers lists all members of a garden
func (r *GormGardenRepository) ListMembers(ctx context.Context, gardenID uint64) ([]models.GardenMember, error) {
	var members []models.GardenMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("garden_id = ?", gardenID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RecordAccess stores the recomputed memory count, the access time and one more view
func (r *GormGardenRepository) RecordAccess(ctx context.Context, gardenID uint64, memoryCount int64, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Garden{}).
		Where("id = ?", gardenID).
		UpdateColumns(map[string]interface{}{
			"memory_count":     memoryCount,
			"last_accessed_at": at,
			"view_count":       gorm.Expr("view_count + ?", 1),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

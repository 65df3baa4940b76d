package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/GabyPng/Happ/internal/database"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/utils"
)

// GormMemoryRepository is a GORM implementation of MemoryRepository
type GormMemoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository creates a new MemoryRepository
func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &GormMemoryRepository{db: db}
}

// Create creates a memory and bumps the garden memory count and the owner's memory total
func (r *GormMemoryRepository) Create(ctx context.Context, memory *models.Memory) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var garden models.Garden
		if err := tx.Select("id", "owner_id").First(&garden, memory.GardenID).Error; err != nil {
			return err
		}

		if err := tx.Omit("Garden").Create(memory).Error; err != nil {
			return err
		}

		return adjustCounters(tx, garden, 1)
	})
	return translateError(err)
}

// FindByID finds a memory by ID, active or not
func (r *GormMemoryRepository) FindByID(ctx context.Context, id uint64) (*models.Memory, error) {
	var memory models.Memory
	if err := r.db.WithContext(ctx).First(&memory, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &memory, nil
}

// List retrieves memories newest event first, with optional pagination
func (r *GormMemoryRepository) List(ctx context.Context, filter MemoryFilter) ([]models.Memory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Memory{}).Where("garden_id = ?", filter.GardenID)

	if filter.ActiveOnly {
		query = query.Scopes(database.ActiveMemories)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Scopes(database.ByEventDateDesc)
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	memories := []models.Memory{}
	if err := listQuery.Find(&memories).Error; err != nil {
		return nil, 0, err
	}

	return memories, total, nil
}

// CountActive counts the active memories of a garden
func (r *GormMemoryRepository) CountActive(ctx context.Context, gardenID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Memory{}).
		Where("garden_id = ? AND is_active = ?", gardenID, true).
		Count(&count).Error
	return count, err
}

// Update updates the editable fields of a memory
func (r *GormMemoryRepository) Update(ctx context.Context, memory *models.Memory) error {
	result := r.db.WithContext(ctx).Model(memory).
		Select("title", "description", "event_date", "tags", "payload",
			"position_x", "position_y", "position_z_index").
		Updates(memory)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePosition moves a memory in the garden view
func (r *GormMemoryRepository) UpdatePosition(ctx context.Context, id uint64, position models.Position) error {
	result := r.db.WithContext(ctx).Model(&models.Memory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"position_x":       position.X,
			"position_y":       position.Y,
			"position_z_index": position.ZIndex,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a memory inactive. Counters drop only on the active -> inactive transition.
func (r *GormMemoryRepository) SoftDelete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memory models.Memory
		if err := tx.Select("id", "garden_id", "is_active").First(&memory, id).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Memory{}).
			Where("id = ? AND is_active = ?", id, true).
			Update("is_active", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var garden models.Garden
		if err := tx.Select("id", "owner_id").First(&garden, memory.GardenID).Error; err != nil {
			return err
		}
		return adjustCounters(tx, garden, -1)
	})
	return translateError(err)
}

// adjustCounters moves the garden memory count and the owner's memory total by delta.
func adjustCounters(tx *gorm.DB, garden models.Garden, delta int64) error {
	gardenExpr := gorm.Expr("memory_count + ?", delta)
	ownerExpr := gorm.Expr("total_memories + ?", delta)
	if delta < 0 {
		gardenExpr = decrementExpr("memory_count", -delta)
		ownerExpr = decrementExpr("total_memories", -delta)
	}

	if err := tx.Model(&models.Garden{}).
		Where("id = ?", garden.ID).
		UpdateColumn("memory_count", gardenExpr).Error; err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", garden.OwnerID).
		UpdateColumn("total_memories", ownerExpr).Error
}

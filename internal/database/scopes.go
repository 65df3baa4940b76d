package database

import (
	"gorm.io/gorm"

	"github.com/GabyPng/Happ/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveMemories restricts a memories query to records that were not soft deleted
func ActiveMemories(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByEventDateDesc orders memories newest event first
func ByEventDateDesc(db *gorm.DB) *gorm.DB {
	return db.Order("event_date DESC").Order("id DESC")
}

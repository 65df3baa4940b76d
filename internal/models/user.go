package models

import (
	"time"
)

type User struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string  `gorm:"type:varchar(50);not null" json:"displayName"`
	Avatar       *string `gorm:"type:varchar(500)" json:"avatar,omitempty"`

	// Preferences
	ThemePreference      ThemeName `gorm:"type:varchar(20);not null" json:"themePreference"`
	NotificationsEnabled bool      `gorm:"not null" json:"notificationsEnabled"`

	// Usage counters
	TotalGardens  int64 `gorm:"not null;default:0" json:"totalGardens"`
	TotalMemories int64 `gorm:"not null;default:0" json:"totalMemories"`

	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations
	OwnedGardens []Garden       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships  []GardenMember `gorm:"foreignKey:UserID" json:"-"`
}

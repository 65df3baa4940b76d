package dto

import (
	"time"

	"github.com/GabyPng/Happ/internal/models"
)

// UserDTO represents user information in API responses
type UserDTO struct {
	ID          uint64             `json:"id"`
	Email       string             `json:"email"`
	DisplayName string             `json:"displayName"`
	Avatar      *string            `json:"avatar,omitempty"`
	Preferences UserPreferencesDTO `json:"preferences"`
	Stats       UserStatsDTO       `json:"stats"`
	LastLogin   *time.Time         `json:"lastLogin,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type UserPreferencesDTO struct {
	Theme         models.ThemeName `json:"theme"`
	Notifications bool             `json:"notifications"`
}

type UserStatsDTO struct {
	TotalGardens  int64 `json:"totalGardens"`
	TotalMemories int64 `json:"totalMemories"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
		Preferences: UserPreferencesDTO{
			Theme:         user.ThemePreference,
			Notifications: user.NotificationsEnabled,
		},
		Stats: UserStatsDTO{
			TotalGardens:  user.TotalGardens,
			TotalMemories: user.TotalMemories,
		},
		LastLogin: user.LastLoginAt,
		CreatedAt: user.CreatedAt,
	}
}

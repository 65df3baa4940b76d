package dto

import (
	"time"

	"github.com/GabyPng/Happ/internal/models"
)

// GardenDTO represents a garden in API responses
type GardenDTO struct {
	ID             uint64             `json:"id"`
	OwnerID        uint64             `json:"ownerId"`
	OwnerName      string             `json:"ownerName,omitempty"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	AccessCode     string             `json:"accessCode"`
	Theme          models.GardenTheme `json:"theme"`
	IsPrivate      bool               `json:"isPrivate"`
	MemoryCount    int64              `json:"memoryCount"`
	ViewCount      int64              `json:"viewCount"`
	LastAccessedAt time.Time          `json:"lastAccessedAt"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// GardenMemberDTO represents a member of a shared garden
type GardenMemberDTO struct {
	UserID      uint64    `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// GardenDetailDTO represents a garden with its members
type GardenDetailDTO struct {
	GardenDTO
	Members []GardenMemberDTO `json:"members"`
}

// UserGardensDTO splits a user's gardens by ownership
type UserGardensDTO struct {
	Owned  []GardenDTO `json:"owned"`
	Shared []GardenDTO `json:"shared"`
}

// ToGardenDTO converts a garden to DTO. The owner name is filled when Owner is loaded.
func ToGardenDTO(garden models.Garden) GardenDTO {
	dto := GardenDTO{
		ID:             garden.ID,
		OwnerID:        garden.OwnerID,
		Name:           garden.Name,
		Description:    garden.Description,
		AccessCode:     garden.AccessCode,
		Theme:          garden.Theme,
		IsPrivate:      garden.IsPrivate,
		MemoryCount:    garden.MemoryCount,
		ViewCount:      garden.ViewCount,
		LastAccessedAt: garden.LastAccessedAt,
		CreatedAt:      garden.CreatedAt,
		UpdatedAt:      garden.UpdatedAt,
	}

	if garden.Owner != nil {
		dto.OwnerName = garden.Owner.DisplayName
	}

	return dto
}

// ToGardenDTOs converts a list of gardens, never returning nil
func ToGardenDTOs(gardens []models.Garden) []GardenDTO {
	dtos := make([]GardenDTO, len(gardens))
	for i, garden := range gardens {
		dtos[i] = ToGardenDTO(garden)
	}
	return dtos
}

// ToGardenDetailDTO converts a garden with members to a detailed DTO
func ToGardenDetailDTO(garden models.Garden, members []models.GardenMember) GardenDetailDTO {
	memberDTOs := make([]GardenMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = GardenMemberDTO{
			UserID:   member.UserID,
			JoinedAt: member.JoinedAt,
		}
		if member.User != nil {
			memberDTOs[i].DisplayName = member.User.DisplayName
		}
	}

	return GardenDetailDTO{
		GardenDTO: ToGardenDTO(garden),
		Members:   memberDTOs,
	}
}

// ToUserGardensDTO converts owned and shared gardens
func ToUserGardensDTO(owned, shared []models.Garden) UserGardensDTO {
	return UserGardensDTO{
		Owned:  ToGardenDTOs(owned),
		Shared: ToGardenDTOs(shared),
	}
}

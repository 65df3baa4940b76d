package dto

import (
	"encoding/json"
	"time"

	"github.com/GabyPng/Happ/internal/models"
)

// MemoryDTO represents a memory in API responses. The type specific fields
// (content, filePath, coordinates, ...) are flattened into the memory object.
type MemoryDTO struct {
	ID          uint64            `json:"id"`
	GardenID    uint64            `json:"gardenId"`
	MemoryType  models.MemoryType `json:"memoryType"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	EventDate   time.Time         `json:"eventDate"`
	IsActive    bool              `json:"isActive"`
	Position    models.Position   `json:"position"`
	Tags        []string          `json:"tags"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`

	Payload json.RawMessage `json:"-"`
}

// MarshalJSON writes the common fields and the payload fields side by side.
func (m MemoryDTO) MarshalJSON() ([]byte, error) {
	type common MemoryDTO
	base, err := json.Marshal(common(m))
	if err != nil {
		return nil, err
	}
	if len(m.Payload) == 0 {
		return base, nil
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(m.Payload, &fields); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// ToMemoryDTO converts a memory to DTO
func ToMemoryDTO(memory models.Memory) MemoryDTO {
	tags := []string(memory.Tags)
	if tags == nil {
		tags = []string{}
	}

	return MemoryDTO{
		ID:          memory.ID,
		GardenID:    memory.GardenID,
		MemoryType:  memory.Type,
		Title:       memory.Title,
		Description: memory.Description,
		EventDate:   memory.EventDate,
		IsActive:    memory.IsActive,
		Position:    memory.Position,
		Tags:        tags,
		CreatedAt:   memory.CreatedAt,
		UpdatedAt:   memory.UpdatedAt,
		Payload:     json.RawMessage(memory.Payload),
	}
}

// ToMemoryDTOs converts a list of memories, never returning nil
func ToMemoryDTOs(memories []models.Memory) []MemoryDTO {
	dtos := make([]MemoryDTO, len(memories))
	for i, memory := range memories {
		dtos[i] = ToMemoryDTO(memory)
	}
	return dtos
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type MemoryType string

const (
	MemoryTypeText     MemoryType = "Text"
	MemoryTypeImage    MemoryType = "Image"
	MemoryTypeAudio    MemoryType = "Audio"
	MemoryTypeVideo    MemoryType = "Video"
	MemoryTypeLocation MemoryType = "Location"
)

// Valid reports whether the type belongs to the closed memory type enumeration.
func (t MemoryType) Valid() bool {
	switch t {
	case MemoryTypeText, MemoryTypeImage, MemoryTypeAudio, MemoryTypeVideo, MemoryTypeLocation:
		return true
	}
	return false
}

// IsMedia reports whether memories of this type reference an uploaded file.
func (t MemoryType) IsMedia() bool {
	return t == MemoryTypeImage || t == MemoryTypeAudio || t == MemoryTypeVideo
}

// MemoryTypes lists the accepted memory types.
func MemoryTypes() []MemoryType {
	return []MemoryType{MemoryTypeText, MemoryTypeImage, MemoryTypeAudio, MemoryTypeVideo, MemoryTypeLocation}
}

// DefaultZIndex is the layer assigned to memories created without a position.
const DefaultZIndex = 1

// Position places a memory in the visual garden view.
type Position struct {
	X      float64 `gorm:"not null;default:0" json:"x"`
	Y      float64 `gorm:"not null;default:0" json:"y"`
	ZIndex int     `gorm:"not null" json:"zIndex"`
}

type Memory struct {
	ID          uint64                      `gorm:"primarykey" json:"id"`
	GardenID    uint64                      `gorm:"not null;index" json:"gardenId"`
	Type        MemoryType                  `gorm:"type:varchar(20);not null;index" json:"memoryType"`
	Title       string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description string                      `gorm:"type:varchar(1000)" json:"description"`
	EventDate   time.Time                   `gorm:"not null;index" json:"eventDate"`
	IsActive    bool                        `gorm:"not null" json:"isActive"`
	Position    Position                    `gorm:"embedded;embeddedPrefix:position_" json:"position"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Payload     datatypes.JSON              `gorm:"not null" json:"payload"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`

	// Relations
	Garden *Garden `gorm:"foreignKey:GardenID" json:"-"`
}

// DecodedPayload returns the typed payload stored in the memory.
func (m *Memory) DecodedPayload() (Payload, error) {
	return DecodePayload(m.Type, m.Payload)
}

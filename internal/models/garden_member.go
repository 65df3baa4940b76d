package models

import "time"

// GardenMember links a non-owner user to a shared garden.
type GardenMember struct {
	GardenID uint64    `gorm:"primarykey" json:"gardenId"`
	UserID   uint64    `gorm:"primarykey;index" json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`

	// Relations
	Garden *Garden `gorm:"foreignKey:GardenID" json:"garden,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

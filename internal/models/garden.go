package models

import (
	"time"
)

type ThemeName string

const (
	ThemeRosado ThemeName = "rosado"
	ThemeAzul   ThemeName = "azul"
	ThemeVerde  ThemeName = "verde"
)

// DefaultThemeName is used for gardens and users that do not pick a theme.
const DefaultThemeName = ThemeRosado

var themePalette = map[ThemeName][2]string{
	ThemeRosado: {"#FF0080", "#FFB3DA"},
	ThemeAzul:   {"#0080FF", "#B3D4FF"},
	ThemeVerde:  {"#00FF80", "#B3FFD4"},
}

// Valid reports whether the theme belongs to the closed theme enumeration.
func (t ThemeName) Valid() bool {
	_, ok := themePalette[t]
	return ok
}

// ThemeNames lists the accepted theme names.
func ThemeNames() []ThemeName {
	return []ThemeName{ThemeRosado, ThemeAzul, ThemeVerde}
}

// GardenTheme is the visual descriptor of a garden.
type GardenTheme struct {
	Name           ThemeName `gorm:"type:varchar(20);not null" json:"name"`
	PrimaryColor   string    `gorm:"type:varchar(7);not null" json:"primaryColor"`
	SecondaryColor string    `gorm:"type:varchar(7);not null" json:"secondaryColor"`
	MusicURL       *string   `gorm:"type:varchar(500)" json:"musicUrl,omitempty"`
}

// NewGardenTheme returns the theme with its palette colors.
func NewGardenTheme(name ThemeName) GardenTheme {
	if !name.Valid() {
		name = DefaultThemeName
	}
	colors := themePalette[name]
	return GardenTheme{
		Name:           name,
		PrimaryColor:   colors[0],
		SecondaryColor: colors[1],
	}
}

type Garden struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	OwnerID     uint64      `gorm:"not null;index" json:"ownerId"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Description string      `gorm:"type:varchar(500)" json:"description"`
	AccessCode  string      `gorm:"type:varchar(8);uniqueIndex;not null" json:"accessCode"`
	Theme       GardenTheme `gorm:"embedded;embeddedPrefix:theme_" json:"theme"`
	IsPrivate   bool        `gorm:"not null" json:"isPrivate"`

	// Stats
	MemoryCount    int64     `gorm:"not null;default:0" json:"memoryCount"`
	ViewCount      int64     `gorm:"not null;default:0" json:"viewCount"`
	LastAccessedAt time.Time `gorm:"index" json:"lastAccessedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Owner   *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []GardenMember `gorm:"foreignKey:GardenID" json:"members,omitempty"`
}

// IsOwner reports whether userID owns the garden.
func (g *Garden) IsOwner(userID uint64) bool {
	return g.OwnerID == userID
}

package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
)

// ErrUnknownMemoryType is returned when a payload is decoded for a type outside the enumeration.
var ErrUnknownMemoryType = errors.New("unknown memory type")

// Payload is the type-specific part of a memory. Exactly one variant exists per MemoryType.
type Payload interface {
	MemoryType() MemoryType
}

type TextPayload struct {
	Content string `json:"content"`
	Emoji   string `json:"emoji,omitempty"`
}

type ImagePayload struct {
	FilePath string `json:"filePath"`
	AltText  string `json:"altText,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
	MimeType string `json:"mimeType"`
}

type AudioPayload struct {
	FilePath string  `json:"filePath"`
	Duration float64 `json:"duration,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	Album    string  `json:"album,omitempty"`
	FileSize int64   `json:"fileSize,omitempty"`
	MimeType string  `json:"mimeType"`
}

type VideoPayload struct {
	FilePath      string  `json:"filePath"`
	ThumbnailPath string  `json:"thumbnailPath,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
	FileSize      int64   `json:"fileSize,omitempty"`
	MimeType      string  `json:"mimeType"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LocationPayload struct {
	Coordinates  Coordinates `json:"coordinates"`
	LocationName string      `json:"locationName,omitempty"`
	Address      string      `json:"address,omitempty"`
	Country      string      `json:"country,omitempty"`
	City         string      `json:"city,omitempty"`
}

func (TextPayload) MemoryType() MemoryType     { return MemoryTypeText }
func (ImagePayload) MemoryType() MemoryType    { return MemoryTypeImage }
func (AudioPayload) MemoryType() MemoryType    { return MemoryTypeAudio }
func (VideoPayload) MemoryType() MemoryType    { return MemoryTypeVideo }
func (LocationPayload) MemoryType() MemoryType { return MemoryTypeLocation }

// EncodePayload serializes a payload for the memories.payload column.
func EncodePayload(p Payload) (datatypes.JSON, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.MemoryType(), err)
	}
	return datatypes.JSON(raw), nil
}

// DecodePayload parses raw JSON into the payload variant for t.
func DecodePayload(t MemoryType, raw []byte) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch t {
	case MemoryTypeText:
		var v TextPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case MemoryTypeImage:
		var v ImagePayload
		err = json.Unmarshal(raw, &v)
		p = v
	case MemoryTypeAudio:
		var v AudioPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case MemoryTypeVideo:
		var v VideoPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case MemoryTypeLocation:
		var v LocationPayload
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMemoryType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}

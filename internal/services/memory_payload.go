package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GabyPng/Happ/internal/constants"
	"github.com/GabyPng/Happ/internal/models"
)

// ErrUnknownMemoryType is returned for a memory type outside Text, Image, Audio, Video and Location.
var ErrUnknownMemoryType = models.ErrUnknownMemoryType

const (
	defaultImageMimeType = "image/jpeg"
	defaultAudioMimeType = "audio/mpeg"
	defaultVideoMimeType = "video/mp4"
)

// locationInput keeps coordinates as pointers so a missing lat/lng is told apart from 0.
type locationInput struct {
	Coordinates *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"coordinates"`
	LocationName string `json:"locationName"`
	Address      string `json:"address"`
	Country      string `json:"country"`
	City         string `json:"city"`
}

// BuildPayload decodes and validates the type-specific fields of a memory.
func BuildPayload(memoryType models.MemoryType, raw json.RawMessage) (models.Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}

	switch memoryType {
	case models.MemoryTypeText:
		var p models.TextPayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		content, err := requiredText("content", p.Content, constants.MaxTextContentLength)
		if err != nil {
			return nil, err
		}
		p.Content = content
		if err := maxText("emoji", p.Emoji, constants.MaxEmojiLength); err != nil {
			return nil, err
		}
		return p, nil

	case models.MemoryTypeImage:
		var p models.ImagePayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if err := validateMedia(&p.FilePath, p.FileSize, &p.MimeType, defaultImageMimeType); err != nil {
			return nil, err
		}
		if err := validateDimensions(p.Width, p.Height); err != nil {
			return nil, err
		}
		return p, nil

	case models.MemoryTypeAudio:
		var p models.AudioPayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if err := validateMedia(&p.FilePath, p.FileSize, &p.MimeType, defaultAudioMimeType); err != nil {
			return nil, err
		}
		if p.Duration < 0 {
			return nil, invalid("duration", "duration must not be negative")
		}
		return p, nil

	case models.MemoryTypeVideo:
		var p models.VideoPayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		if err := validateMedia(&p.FilePath, p.FileSize, &p.MimeType, defaultVideoMimeType); err != nil {
			return nil, err
		}
		if p.Duration < 0 {
			return nil, invalid("duration", "duration must not be negative")
		}
		if err := validateDimensions(p.Width, p.Height); err != nil {
			return nil, err
		}
		return p, nil

	case models.MemoryTypeLocation:
		var in locationInput
		if err := decodePayload(raw, &in); err != nil {
			return nil, err
		}
		if in.Coordinates == nil || in.Coordinates.Lat == nil || in.Coordinates.Lng == nil {
			return nil, invalid("coordinates", "coordinates.lat and coordinates.lng are required")
		}
		lat, lng := *in.Coordinates.Lat, *in.Coordinates.Lng
		if lat < -90 || lat > 90 {
			return nil, invalid("coordinates.lat", "coordinates.lat must be between -90 and 90")
		}
		if lng < -180 || lng > 180 {
			return nil, invalid("coordinates.lng", "coordinates.lng must be between -180 and 180")
		}
		return models.LocationPayload{
			Coordinates:  models.Coordinates{Lat: lat, Lng: lng},
			LocationName: strings.TrimSpace(in.LocationName),
			Address:      strings.TrimSpace(in.Address),
			Country:      strings.TrimSpace(in.Country),
			City:         strings.TrimSpace(in.City),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMemoryType, memoryType)
	}
}

func decodePayload(raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalid(typeErr.Field, "%s has the wrong type", typeErr.Field)
		}
		return invalid("content", "memory content is not valid JSON")
	}
	return nil
}

func validateMedia(filePath *string, fileSize int64, mimeType *string, defaultMime string) error {
	*filePath = strings.TrimSpace(*filePath)
	if *filePath == "" {
		return invalid("filePath", "filePath is required")
	}
	if fileSize < 0 {
		return invalid("fileSize", "fileSize must not be negative")
	}
	if strings.TrimSpace(*mimeType) == "" {
		*mimeType = defaultMime
	}
	return nil
}

func validateDimensions(width, height int) error {
	if width < 0 || height < 0 {
		return invalid("width", "width and height must not be negative")
	}
	return nil
}

// mergePayload overwrites the stored payload fields with the ones present in patch.
func mergePayload(current, patch json.RawMessage) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(current)) > 0 {
		if err := json.Unmarshal(current, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode stored payload: %w", err)
		}
	}

	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return nil, invalid("content", "memory content must be a JSON object")
	}
	for key, value := range changes {
		fields[key] = value
	}

	return json.Marshal(fields)
}

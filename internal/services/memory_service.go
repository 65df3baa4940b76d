package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GabyPng/Happ/internal/constants"
	"github.com/GabyPng/Happ/internal/logging"
	"github.com/GabyPng/Happ/internal/metrics"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/repository"
)

var (
	ErrMemoryNotFound = errors.New("memory not found")
	ErrMemoryDeleted  = errors.New("memory has been deleted")
)

// MemoryService provides business logic for memory operations.
type MemoryService struct {
	memoryRepo repository.MemoryRepository
	gardenRepo repository.GardenRepository
	now        func() time.Time
}

// NewMemoryService creates a new MemoryService.
func NewMemoryService(memoryRepo repository.MemoryRepository, gardenRepo repository.GardenRepository) *MemoryService {
	return &MemoryService{
		memoryRepo: memoryRepo,
		gardenRepo: gardenRepo,
		now:        time.Now,
	}
}

// CreateMemoryInput represents parameters to create a new memory.
type CreateMemoryInput struct {
	GardenID    uint64
	ActorID     uint64
	Type        models.MemoryType
	Title       string
	Description string
	EventDate   *time.Time
	Tags        []string
	Position    *models.Position
	Content     json.RawMessage
}

// CreateMemory validates the common fields and the typed payload, then stores the memory.
func (s *MemoryService) CreateMemory(ctx context.Context, input CreateMemoryInput) (*models.Memory, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMemoryType, input.Type)
	}

	if _, err := authorizeGardenAccess(ctx, s.gardenRepo, input.GardenID, input.ActorID); err != nil {
		return nil, err
	}

	title, err := requiredText("title", input.Title, constants.MaxMemoryTitleLength)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if err := maxText("description", description, constants.MaxMemoryDescriptionLength); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	payload, err := BuildPayload(input.Type, input.Content)
	if err != nil {
		return nil, err
	}
	encoded, err := models.EncodePayload(payload)
	if err != nil {
		return nil, err
	}

	eventDate := s.now()
	if input.EventDate != nil && !input.EventDate.IsZero() {
		eventDate = *input.EventDate
	}

	position := models.Position{ZIndex: models.DefaultZIndex}
	if input.Position != nil {
		position = *input.Position
	}

	memory := &models.Memory{
		GardenID:    input.GardenID,
		Type:        input.Type,
		Title:       title,
		Description: description,
		EventDate:   eventDate,
		IsActive:    true,
		Position:    position,
		Tags:        tags,
		Payload:     encoded,
	}

	if err := s.memoryRepo.Create(ctx, memory); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	metrics.RecordMemoryCreated(string(memory.Type))
	logging.Info().Uint64("memory_id", memory.ID).Uint64("garden_id", memory.GardenID).Str("type", string(memory.Type)).Msg("Memory created")
	return memory, nil
}

// ListMemoriesInput selects the active memories of a garden, optionally one page of them.
type ListMemoriesInput struct {
	GardenID uint64
	Page     int
	PageSize int
}

// ListActiveMemories returns the active memories of a garden, newest event first.
func (s *MemoryService) ListActiveMemories(ctx context.Context, input ListMemoriesInput) ([]models.Memory, int64, error) {
	if _, err := s.gardenRepo.FindByID(ctx, input.GardenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrGardenNotFound
		}
		return nil, 0, fmt.Errorf("failed to find garden: %w", err)
	}

	memories, total, err := s.memoryRepo.List(ctx, repository.MemoryFilter{
		GardenID:   input.GardenID,
		ActiveOnly: true,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list memories: %w", err)
	}
	return memories, total, nil
}

// GetMemory returns a memory by ID, including soft deleted ones.
func (s *MemoryService) GetMemory(ctx context.Context, memoryID uint64) (*models.Memory, error) {
	memory, err := s.memoryRepo.FindByID(ctx, memoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("failed to find memory: %w", err)
	}
	return memory, nil
}

// UpdateMemoryInput carries the fields to change; nil fields are left as they are.
// Content holds payload fields to overwrite; the memory type itself never changes.
type UpdateMemoryInput struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	Tags        *[]string
	Position    *UpdatePositionInput
	Content     json.RawMessage
}

// UpdateMemory edits an active memory on behalf of the garden owner or a member.
func (s *MemoryService) UpdateMemory(ctx context.Context, memoryID, actorID uint64, input UpdateMemoryInput) (*models.Memory, error) {
	memory, err := s.authorizeActiveMemory(ctx, memoryID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := requiredText("title", *input.Title, constants.MaxMemoryTitleLength)
		if err != nil {
			return nil, err
		}
		memory.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := maxText("description", description, constants.MaxMemoryDescriptionLength); err != nil {
			return nil, err
		}
		memory.Description = description
	}
	if input.EventDate != nil && !input.EventDate.IsZero() {
		memory.EventDate = *input.EventDate
	}
	if input.Tags != nil {
		tags, err := normalizeTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		memory.Tags = tags
	}
	if input.Position != nil {
		memory.Position = input.Position.apply(memory.Position)
	}
	if len(input.Content) > 0 {
		merged, err := mergePayload(json.RawMessage(memory.Payload), input.Content)
		if err != nil {
			return nil, err
		}
		payload, err := BuildPayload(memory.Type, merged)
		if err != nil {
			return nil, err
		}
		encoded, err := models.EncodePayload(payload)
		if err != nil {
			return nil, err
		}
		memory.Payload = encoded
	}

	if err := s.memoryRepo.Update(ctx, memory); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("failed to update memory: %w", err)
	}

	return memory, nil
}

// UpdatePositionInput moves a memory; a nil ZIndex keeps the current layer.
type UpdatePositionInput struct {
	X      float64
	Y      float64
	ZIndex *int
}

func (in UpdatePositionInput) apply(current models.Position) models.Position {
	position := models.Position{X: in.X, Y: in.Y, ZIndex: current.ZIndex}
	if in.ZIndex != nil {
		position.ZIndex = *in.ZIndex
	}
	return position
}

// UpdatePosition moves an active memory in the garden view.
func (s *MemoryService) UpdatePosition(ctx context.Context, memoryID, actorID uint64, input UpdatePositionInput) (*models.Memory, error) {
	memory, err := s.authorizeActiveMemory(ctx, memoryID, actorID)
	if err != nil {
		return nil, err
	}

	position := input.apply(memory.Position)

	if err := s.memoryRepo.UpdatePosition(ctx, memoryID, position); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("failed to update memory position: %w", err)
	}

	memory.Position = position
	return memory, nil
}

// DeleteMemory soft deletes a memory; it stays retrievable by ID with isActive=false.
func (s *MemoryService) DeleteMemory(ctx context.Context, memoryID, actorID uint64) error {
	if _, err := s.authorizeMemory(ctx, memoryID, actorID); err != nil {
		return err
	}

	if err := s.memoryRepo.SoftDelete(ctx, memoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemoryNotFound
		}
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	logging.Info().Uint64("memory_id", memoryID).Msg("Memory soft deleted")
	return nil
}

func (s *MemoryService) authorizeMemory(ctx context.Context, memoryID, actorID uint64) (*models.Memory, error) {
	memory, err := s.GetMemory(ctx, memoryID)
	if err != nil {
		return nil, err
	}

	if _, err := authorizeGardenAccess(ctx, s.gardenRepo, memory.GardenID, actorID); err != nil {
		return nil, err
	}
	return memory, nil
}

func (s *MemoryService) authorizeActiveMemory(ctx context.Context, memoryID, actorID uint64) (*models.Memory, error) {
	memory, err := s.authorizeMemory(ctx, memoryID, actorID)
	if err != nil {
		return nil, err
	}
	if !memory.IsActive {
		return nil, ErrMemoryDeleted
	}
	return memory, nil
}

func normalizeTags(tags []string) ([]string, error) {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if err := maxText("tags", tag, constants.MaxMemoryTagLength); err != nil {
			return nil, invalid("tags", "each tag must be at most %d characters", constants.MaxMemoryTagLength)
		}
		normalized = append(normalized, tag)
	}
	return normalized, nil
}

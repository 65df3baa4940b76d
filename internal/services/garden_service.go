package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GabyPng/Happ/internal/constants"
	"github.com/GabyPng/Happ/internal/logging"
	"github.com/GabyPng/Happ/internal/metrics"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/repository"
	"github.com/GabyPng/Happ/internal/utils"
	"github.com/GabyPng/Happ/internal/validation"
)

var (
	ErrGardenNotFound      = errors.New("garden not found")
	ErrNotGardenOwner      = errors.New("only the garden owner can do this")
	ErrGardenAccessDenied  = errors.New("user is not a member of this garden")
	ErrAlreadyMember       = errors.New("user is already a member of this garden")
	ErrMemberNotFound      = errors.New("garden member not found")
	ErrCannotRemoveOwner   = errors.New("the owner cannot be removed from the garden")
	ErrAccessCodeExhausted = errors.New("could not allocate a unique access code")
)

// DefaultAccessCodeAttempts bounds access code allocation when no limit is configured.
const DefaultAccessCodeAttempts = 10

// GardenService provides business logic for gardens, membership and access codes.
type GardenService struct {
	gardenRepo   repository.GardenRepository
	memoryRepo   repository.MemoryRepository
	maxAttempts  int
	generateCode func() (string, error)
	now          func() time.Time
}

// NewGardenService creates a new GardenService.
func NewGardenService(gardenRepo repository.GardenRepository, memoryRepo repository.MemoryRepository, maxAttempts int) *GardenService {
	if maxAttempts < 1 {
		maxAttempts = DefaultAccessCodeAttempts
	}
	return &GardenService{
		gardenRepo:   gardenRepo,
		memoryRepo:   memoryRepo,
		maxAttempts:  maxAttempts,
		generateCode: utils.GenerateAccessCode,
		now:          time.Now,
	}
}

// CreateGardenInput represents parameters to create a new garden.
type CreateGardenInput struct {
	OwnerID     uint64
	Name        string
	Description string
	Theme       models.ThemeName
	MusicURL    *string
	IsPrivate   *bool
}

// CreateGarden creates a garden with a freshly allocated access code.
func (s *GardenService) CreateGarden(ctx context.Context, input CreateGardenInput) (*models.Garden, error) {
	name, err := requiredText("name", input.Name, constants.MaxGardenNameLength)
	if err != nil {
		return nil, err
	}
	if err := maxText("description", input.Description, constants.MaxGardenDescriptionLength); err != nil {
		return nil, err
	}
	if input.Theme != "" && !input.Theme.Valid() {
		return nil, invalid("theme", "theme must be one of: rosado, azul, verde")
	}

	theme := models.NewGardenTheme(input.Theme)
	theme.MusicURL = input.MusicURL

	isPrivate := true
	if input.IsPrivate != nil {
		isPrivate = *input.IsPrivate
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.nextFreeCode(ctx)
		if err != nil {
			return nil, err
		}
		if code == "" {
			continue
		}

		garden := &models.Garden{
			OwnerID:        input.OwnerID,
			Name:           name,
			Description:    input.Description,
			AccessCode:     code,
			Theme:          theme,
			IsPrivate:      isPrivate,
			LastAccessedAt: s.now(),
		}

		err = s.gardenRepo.Create(ctx, garden)
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race for the code between the check and the insert
			metrics.RecordAccessCodeCollision()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create garden: %w", err)
		}

		metrics.RecordGardenCreated()
		logging.Info().Uint64("garden_id", garden.ID).Uint64("owner_id", garden.OwnerID).Msg("Garden created")
		return garden, nil
	}

	logging.Warn().Int("attempts", s.maxAttempts).Msg("Access code allocation exhausted")
	return nil, ErrAccessCodeExhausted
}

// AllocateAccessCode returns an access code no garden uses yet, giving up after the configured attempts.
func (s *GardenService) AllocateAccessCode(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.nextFreeCode(ctx)
		if err != nil {
			return "", err
		}
		if code != "" {
			return code, nil
		}
	}
	return "", ErrAccessCodeExhausted
}

// nextFreeCode generates one candidate and returns "" when it is already taken.
func (s *GardenService) nextFreeCode(ctx context.Context) (string, error) {
	code, err := s.generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate access code: %w", err)
	}

	exists, err := s.gardenRepo.AccessCodeExists(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to check access code: %w", err)
	}
	if exists {
		metrics.RecordAccessCodeCollision()
		return "", nil
	}
	return code, nil
}

// GardenView is a garden opened by access code with its active memories.
type GardenView struct {
	Garden   *models.Garden
	Memories []models.Memory
}

// FetchByAccessCode opens a garden by code, refreshing its stats on the way.
// A code that cannot exist is reported as not found.
func (s *GardenService) FetchByAccessCode(ctx context.Context, code string) (*GardenView, error) {
	code = validation.NormalizeAccessCode(code)
	if !validation.IsAccessCode(code) {
		return nil, ErrGardenNotFound
	}

	garden, err := s.gardenRepo.FindByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to find garden by access code: %w", err)
	}

	refreshed, err := s.UpdateStats(ctx, garden.ID)
	if err != nil {
		return nil, err
	}
	garden.MemoryCount = refreshed.MemoryCount
	garden.ViewCount = refreshed.ViewCount
	garden.LastAccessedAt = refreshed.LastAccessedAt

	memories, _, err := s.memoryRepo.List(ctx, repository.MemoryFilter{GardenID: garden.ID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}

	return &GardenView{Garden: garden, Memories: memories}, nil
}

// UpdateStats recomputes the cached memory count from the live active memories
// and records the access.
func (s *GardenService) UpdateStats(ctx context.Context, gardenID uint64) (*models.Garden, error) {
	count, err := s.memoryRepo.CountActive(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to count memories: %w", err)
	}

	if err := s.gardenRepo.RecordAccess(ctx, gardenID, count, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to update garden stats: %w", err)
	}

	return s.findGarden(ctx, gardenID)
}

// UserGardens splits a user's gardens by ownership.
type UserGardens struct {
	Owned  []models.Garden
	Shared []models.Garden
}

// ListGardensForUser returns the gardens the user owns and the ones shared with them.
func (s *GardenService) ListGardensForUser(ctx context.Context, userID uint64) (*UserGardens, error) {
	owned, err := s.gardenRepo.ListOwnedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned gardens: %w", err)
	}

	shared, err := s.gardenRepo.ListSharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared gardens: %w", err)
	}

	return &UserGardens{Owned: owned, Shared: shared}, nil
}

// GetGardenWithMembers returns a garden and its members to its owner or a member.
func (s *GardenService) GetGardenWithMembers(ctx context.Context, gardenID, userID uint64) (*models.Garden, []models.GardenMember, error) {
	garden, err := s.AuthorizeAccess(ctx, gardenID, userID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.gardenRepo.ListMembers(ctx, gardenID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list garden members: %w", err)
	}

	return garden, members, nil
}

// AuthorizeAccess returns the garden when userID owns it or is a member.
func (s *GardenService) AuthorizeAccess(ctx context.Context, gardenID, userID uint64) (*models.Garden, error) {
	return authorizeGardenAccess(ctx, s.gardenRepo, gardenID, userID)
}

func authorizeGardenAccess(ctx context.Context, gardenRepo repository.GardenRepository, gardenID, userID uint64) (*models.Garden, error) {
	garden, err := gardenRepo.FindByID(ctx, gardenID, "Owner")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to find garden: %w", err)
	}

	if garden.IsOwner(userID) {
		return garden, nil
	}

	if _, err := gardenRepo.FindMember(ctx, gardenID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenAccessDenied
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	return garden, nil
}

// AddMember adds userID to the garden. Owners and existing members are rejected.
func (s *GardenService) AddMember(ctx context.Context, gardenID, userID uint64) (*models.Garden, error) {
	garden, err := s.findGarden(ctx, gardenID)
	if err != nil {
		return nil, err
	}

	if garden.IsOwner(userID) {
		return nil, ErrAlreadyMember
	}

	member := &models.GardenMember{
		GardenID: gardenID,
		UserID:   userID,
		JoinedAt: s.now(),
	}

	if err := s.gardenRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member to garden: %w", err)
	}

	logging.Info().Uint64("garden_id", gardenID).Uint64("user_id", userID).Msg("Member joined garden")
	return garden, nil
}

// JoinByAccessCode adds userID to the garden behind code.
func (s *GardenService) JoinByAccessCode(ctx context.Context, userID uint64, code string) (*models.Garden, error) {
	code = validation.NormalizeAccessCode(code)
	if !validation.IsAccessCode(code) {
		return nil, invalid("accessCode", "accessCode must be 4 letters followed by 4 digits")
	}

	garden, err := s.gardenRepo.FindByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to find garden by access code: %w", err)
	}

	if _, err := s.AddMember(ctx, garden.ID, userID); err != nil {
		return nil, err
	}

	return garden, nil
}

// RemoveMember removes targetID from the garden. The actor must be the owner or the member leaving.
func (s *GardenService) RemoveMember(ctx context.Context, gardenID, actorID, targetID uint64) error {
	garden, err := s.findGarden(ctx, gardenID)
	if err != nil {
		return err
	}

	if !garden.IsOwner(actorID) && actorID != targetID {
		return ErrNotGardenOwner
	}
	if garden.IsOwner(targetID) {
		return ErrCannotRemoveOwner
	}

	if err := s.gardenRepo.RemoveMember(ctx, gardenID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// UpdateGardenInput carries the fields to change; nil fields are left as they are.
type UpdateGardenInput struct {
	Name        *string
	Description *string
	Theme       *models.ThemeName
	MusicURL    *string
	IsPrivate   *bool
}

// UpdateGarden edits a garden. Only the owner may do it.
func (s *GardenService) UpdateGarden(ctx context.Context, gardenID, actorID uint64, input UpdateGardenInput) (*models.Garden, error) {
	garden, err := s.findGarden(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	if !garden.IsOwner(actorID) {
		return nil, ErrNotGardenOwner
	}

	if input.Name != nil {
		name, err := requiredText("name", *input.Name, constants.MaxGardenNameLength)
		if err != nil {
			return nil, err
		}
		garden.Name = name
	}
	if input.Description != nil {
		if err := maxText("description", *input.Description, constants.MaxGardenDescriptionLength); err != nil {
			return nil, err
		}
		garden.Description = *input.Description
	}
	if input.Theme != nil {
		if !input.Theme.Valid() {
			return nil, invalid("theme", "theme must be one of: rosado, azul, verde")
		}
		musicURL := garden.Theme.MusicURL
		garden.Theme = models.NewGardenTheme(*input.Theme)
		garden.Theme.MusicURL = musicURL
	}
	if input.MusicURL != nil {
		garden.Theme.MusicURL = input.MusicURL
		if *input.MusicURL == "" {
			garden.Theme.MusicURL = nil
		}
	}
	if input.IsPrivate != nil {
		garden.IsPrivate = *input.IsPrivate
	}

	if err := s.gardenRepo.Update(ctx, garden); err != nil {
		return nil, fmt.Errorf("failed to update garden: %w", err)
	}

	return garden, nil
}

// DeleteGarden removes a garden with its memories and memberships. Only the owner may do it.
func (s *GardenService) DeleteGarden(ctx context.Context, gardenID, actorID uint64) error {
	garden, err := s.findGarden(ctx, gardenID)
	if err != nil {
		return err
	}
	if !garden.IsOwner(actorID) {
		return ErrNotGardenOwner
	}

	if err := s.gardenRepo.Delete(ctx, gardenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGardenNotFound
		}
		return fmt.Errorf("failed to delete garden: %w", err)
	}

	logging.Info().Uint64("garden_id", gardenID).Msg("Garden deleted")
	return nil
}

func (s *GardenService) findGarden(ctx context.Context, gardenID uint64) (*models.Garden, error) {
	garden, err := s.gardenRepo.FindByID(ctx, gardenID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, fmt.Errorf("failed to find garden: %w", err)
	}
	return garden, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GabyPng/Happ/internal/dto"
	"github.com/GabyPng/Happ/internal/middleware"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/services"
)

// GardenHandler handles gardens, access codes and membership.
type GardenHandler struct {
	gardenService *services.GardenService
}

// NewGardenHandler creates a new GardenHandler.
func NewGardenHandler(gardenService *services.GardenService) *GardenHandler {
	return &GardenHandler{gardenService: gardenService}
}

type createGardenRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Description string           `json:"description" binding:"max=500"`
	Theme       models.ThemeName `json:"theme" binding:"omitempty,gardentheme"`
	MusicURL    *string          `json:"musicUrl" binding:"omitempty,url"`
	IsPrivate   *bool            `json:"isPrivate"`
}

type updateGardenRequest struct {
	Name        *string           `json:"name" binding:"omitempty,max=100"`
	Description *string           `json:"description" binding:"omitempty,max=500"`
	Theme       *models.ThemeName `json:"theme" binding:"omitempty,gardentheme"`
	MusicURL    *string           `json:"musicUrl"`
	IsPrivate   *bool             `json:"isPrivate"`
}

type joinGardenRequest struct {
	AccessCode string `json:"accessCode" binding:"required,accesscode"`
}

// CreateGarden creates a garden owned by the current user
func (h *GardenHandler) CreateGarden(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createGardenRequest
	if !bindJSON(c, &req) {
		return
	}

	garden, err := h.gardenService.CreateGarden(c.Request.Context(), services.CreateGardenInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Theme:       req.Theme,
		MusicURL:    req.MusicURL,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "Garden created",
		"garden":  dto.ToGardenDTO(*garden),
	})
}

// ListGardens returns the gardens the current user owns and the ones shared with them
func (h *GardenHandler) ListGardens(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	gardens, err := h.gardenService.ListGardensForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"gardens": dto.ToUserGardensDTO(gardens.Owned, gardens.Shared)})
}

// GetGardenByCode opens a garden by access code, with its owner and active memories
func (h *GardenHandler) GetGardenByCode(c *gin.Context) {
	view, err := h.gardenService.FetchByAccessCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"garden":   dto.ToGardenDTO(*view.Garden),
		"memories": dto.ToMemoryDTOs(view.Memories),
	})
}

// GetGarden returns a garden with its members to its owner or a member
func (h *GardenHandler) GetGarden(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	garden, members, err := h.gardenService.GetGardenWithMembers(c.Request.Context(), middleware.GetIDParam(c, "id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"garden": dto.ToGardenDetailDTO(*garden, members)})
}

// JoinGarden adds the current user to the garden behind an access code
func (h *GardenHandler) JoinGarden(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req joinGardenRequest
	if !bindJSON(c, &req) {
		return
	}

	garden, err := h.gardenService.JoinByAccessCode(c.Request.Context(), userID, req.AccessCode)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Joined garden",
		"garden":  dto.ToGardenDTO(*garden),
	})
}

// UpdateGarden edits a garden (owner only)
func (h *GardenHandler) UpdateGarden(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateGardenRequest
	if !bindJSON(c, &req) {
		return
	}

	garden, err := h.gardenService.UpdateGarden(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, services.UpdateGardenInput{
		Name:        req.Name,
		Description: req.Description,
		Theme:       req.Theme,
		MusicURL:    req.MusicURL,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Garden updated",
		"garden":  dto.ToGardenDTO(*garden),
	})
}

// DeleteGarden deletes a garden with its memories (owner only)
func (h *GardenHandler) DeleteGarden(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.gardenService.DeleteGarden(c.Request.Context(), middleware.GetIDParam(c, "id"), userID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Garden deleted"})
}

// RemoveMember removes a member; the owner removes anyone, a member removes themself
func (h *GardenHandler) RemoveMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	gardenID := middleware.GetIDParam(c, "id")
	targetID := middleware.GetIDParam(c, "userId")
	if err := h.gardenService.RemoveMember(c.Request.Context(), gardenID, userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Member removed"})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GabyPng/Happ/internal/dto"
	apierrors "github.com/GabyPng/Happ/internal/errors"
	"github.com/GabyPng/Happ/internal/middleware"
	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/services"
	"github.com/GabyPng/Happ/internal/utils"
)

// MemoryHandler handles memories. Type specific fields travel flattened next to the common ones.
type MemoryHandler struct {
	memoryService *services.MemoryService
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(memoryService *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{memoryService: memoryService}
}

type positionRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	ZIndex *int    `json:"zIndex"`
}

func (p *positionRequest) toModel() *models.Position {
	if p == nil {
		return nil
	}
	position := models.Position{X: p.X, Y: p.Y, ZIndex: models.DefaultZIndex}
	if p.ZIndex != nil {
		position.ZIndex = *p.ZIndex
	}
	return &position
}

func (p *positionRequest) toUpdate() *services.UpdatePositionInput {
	if p == nil {
		return nil
	}
	return &services.UpdatePositionInput{X: p.X, Y: p.Y, ZIndex: p.ZIndex}
}

type createMemoryRequest struct {
	GardenID    uint64            `json:"gardenId"`
	Garden      uint64            `json:"garden"`
	MemoryType  models.MemoryType `json:"memoryType" binding:"required,memorytype"`
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description" binding:"max=1000"`
	EventDate   *time.Time        `json:"eventDate"`
	Tags        []string          `json:"tags" binding:"omitempty,dive,max=50"`
	Position    *positionRequest  `json:"position"`
}

type updateMemoryRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	EventDate   *time.Time       `json:"eventDate"`
	Tags        *[]string        `json:"tags"`
	Position    *positionRequest `json:"position"`
}

type updatePositionRequest struct {
	X      *float64 `json:"x" binding:"required"`
	Y      *float64 `json:"y" binding:"required"`
	ZIndex *int     `json:"zIndex"`
}

// commonMemoryFields are the body keys that are not part of the typed payload.
var commonMemoryFields = []string{
	"id", "gardenId", "garden", "memoryType", "title", "description",
	"eventDate", "tags", "position", "isActive", "createdAt", "updatedAt",
}

// payloadFields returns the typed payload part of a flattened memory body, or nil when there is none.
func payloadFields(c *gin.Context) (json.RawMessage, error) {
	body, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return nil, nil
	}
	raw, _ := body.([]byte)

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, key := range commonMemoryFields {
		delete(fields, key)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return json.Marshal(fields)
}

// CreateMemory adds a memory to a garden the current user owns or belongs to
func (h *MemoryHandler) CreateMemory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createMemoryRequest
	if !bindJSON(c, &req) {
		return
	}

	gardenID := req.GardenID
	if gardenID == 0 {
		gardenID = req.Garden
	}
	if gardenID == 0 {
		apierrors.BadRequestWithDetails(c, "gardenId is required", gin.H{"gardenId": "gardenId is required"})
		return
	}

	content, err := payloadFields(c)
	if err != nil {
		apierrors.MalformedJSON(c)
		return
	}

	memory, err := h.memoryService.CreateMemory(c.Request.Context(), services.CreateMemoryInput{
		GardenID:    gardenID,
		ActorID:     userID,
		Type:        req.MemoryType,
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Tags:        req.Tags,
		Position:    req.Position.toModel(),
		Content:     content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "Memory created",
		"memory":  dto.ToMemoryDTO(*memory),
	})
}

// ListGardenMemories returns the active memories of a garden, newest first.
// page and limit are optional; without them every active memory is returned.
func (h *MemoryHandler) ListGardenMemories(c *gin.Context) {
	input := services.ListMemoriesInput{GardenID: middleware.GetIDParam(c, "gardenId")}

	paginated := utils.HasPaginationQuery(c)
	var params utils.PaginationParams
	if paginated {
		params = utils.GetPaginationParams(c)
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	memories, total, err := h.memoryService.ListActiveMemories(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"memories": dto.ToMemoryDTOs(memories)}
	if paginated {
		body["pagination"] = utils.NewPaginationResponse(params, total)
	}
	respond(c, http.StatusOK, body)
}

// GetMemory returns a memory by ID, soft deleted ones included
func (h *MemoryHandler) GetMemory(c *gin.Context) {
	memory, err := h.memoryService.GetMemory(c.Request.Context(), middleware.GetIDParam(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"memory": dto.ToMemoryDTO(*memory)})
}

// UpdateMemory edits the common fields and any payload fields present in the body
func (h *MemoryHandler) UpdateMemory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateMemoryRequest
	if !bindJSON(c, &req) {
		return
	}

	content, err := payloadFields(c)
	if err != nil {
		apierrors.MalformedJSON(c)
		return
	}

	memory, err := h.memoryService.UpdateMemory(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, services.UpdateMemoryInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Tags:        req.Tags,
		Position:    req.Position.toUpdate(),
		Content:     content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Memory updated",
		"memory":  dto.ToMemoryDTO(*memory),
	})
}

// UpdatePosition moves a memory in the garden view
func (h *MemoryHandler) UpdatePosition(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updatePositionRequest
	if !bindJSON(c, &req) {
		return
	}

	memory, err := h.memoryService.UpdatePosition(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, services.UpdatePositionInput{
		X:      *req.X,
		Y:      *req.Y,
		ZIndex: req.ZIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Position updated",
		"memory":  dto.ToMemoryDTO(*memory),
	})
}

// DeleteMemory soft deletes a memory
func (h *MemoryHandler) DeleteMemory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.memoryService.DeleteMemory(c.Request.Context(), middleware.GetIDParam(c, "id"), userID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Memory deleted"})
}

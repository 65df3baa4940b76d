package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GabyPng/Happ/internal/models"
	"github.com/GabyPng/Happ/internal/services"
)

// MediaHandler hands out presigned object storage URLs for media memories.
type MediaHandler struct {
	mediaService *services.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type uploadURLRequest struct {
	MemoryType  models.MemoryType `json:"memoryType" binding:"required,memorytype"`
	ContentType string            `json:"contentType" binding:"required"`
}

// CreateUploadURL returns a presigned PUT URL and the key to store as the memory's filePath
func (h *MediaHandler) CreateUploadURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req uploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.mediaService.PresignUpload(c.Request.Context(), userID, req.MemoryType, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"uploadUrl": upload.URL,
		"fileKey":   upload.FileKey,
		"expiresAt": upload.ExpiresAt,
	})
}

// GetDownloadURL returns a presigned GET URL for ?key=
func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	download, err := h.mediaService.PresignDownload(c.Request.Context(), c.Query("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"url":       download.URL,
		"fileKey":   download.FileKey,
		"expiresAt": download.ExpiresAt,
	})
}

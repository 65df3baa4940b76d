package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/GabyPng/Happ/internal/errors"
	"github.com/GabyPng/Happ/internal/logging"
	"github.com/GabyPng/Happ/internal/middleware"
	"github.com/GabyPng/Happ/internal/services"
	"github.com/GabyPng/Happ/internal/validation"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// bindJSON binds the request body and answers 400 on failure. The raw body stays
// available under gin.BodyBytesKey.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &validationErrs):
		details, _ := validation.FieldErrors(err)
		apierrors.BadRequestWithDetails(c, validation.Message(err), details)
	case errors.As(err, &typeErr):
		apierrors.BadRequest(c, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		apierrors.MalformedJSON(c)
	default:
		apierrors.BadRequest(c, "Invalid request body")
	}
}

// respondError translates a service error into the matching HTTP status.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, validationErr.Message, gin.H{validationErr.Field: validationErr.Message})
	case errors.Is(err, services.ErrUnknownMemoryType):
		apierrors.BadRequest(c, "memoryType must be one of: Text, Image, Audio, Video, Location")
	case errors.Is(err, services.ErrInvalidMediaKey):
		apierrors.BadRequest(c, "Invalid media key")

	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, "Email is already registered")
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.AlreadyExists(c, "User is already a member of this garden")
	case errors.Is(err, services.ErrWrongCurrentPassword):
		apierrors.BadRequest(c, "Current password is incorrect")

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrTokenExpired), errors.Is(err, services.ErrTokenInvalid):
		apierrors.InvalidToken(c, "")

	case errors.Is(err, services.ErrNotGardenOwner):
		apierrors.Forbidden(c, "Only the garden owner can do this")
	case errors.Is(err, services.ErrGardenAccessDenied):
		apierrors.Forbidden(c, "You are not a member of this garden")
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.Forbidden(c, "The owner cannot be removed from the garden")

	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrGardenNotFound):
		apierrors.NotFound(c, "Garden not found")
	case errors.Is(err, services.ErrMemoryNotFound):
		apierrors.NotFound(c, "Memory not found")
	case errors.Is(err, services.ErrMemoryDeleted):
		apierrors.NotFound(c, "Memory has been deleted")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Member not found")

	case errors.Is(err, services.ErrAccessCodeExhausted):
		apierrors.ServiceUnavailable(c, "Could not allocate an access code, try again")
	case errors.Is(err, services.ErrMediaStorageDisabled):
		apierrors.ServiceUnavailable(c, "Media storage is not configured")

	default:
		logging.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled error")
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// requireUserID reads the user set by RequireAuth.
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

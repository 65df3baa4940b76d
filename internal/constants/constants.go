package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail is the gin context key holding the authenticated user email
	ContextKeyUserEmail = "user_email"
	// ContextKeyRequestID is the gin context key holding the request correlation ID
	ContextKeyRequestID = "request_id"

	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength    = 6
	// MaxPasswordBytes is the longest password bcrypt accepts
	MaxPasswordBytes     = 72
	MaxDisplayNameLength = 50

	MaxGardenNameLength        = 100
	MaxGardenDescriptionLength = 500

	MaxMemoryTitleLength       = 200
	MaxMemoryDescriptionLength = 1000
	MaxMemoryTagLength         = 50
	MaxTextContentLength       = 5000
	MaxEmojiLength             = 10

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

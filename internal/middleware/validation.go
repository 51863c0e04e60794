package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
)

// Field length limits matching database schema constraints.
const (
	MaxChannelIDLen    = 64  // YouTube channel ids are 24 chars; headroom for other platforms
	MaxOwnerIDLen      = 64  // identity provider subject
	MaxCategoryNameLen = 100 // categories.name
	MaxUserAgentLen    = 128 // sync_logs.user_agent
)

var (
	// channelIDRe matches external channel ids: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// ownerIDRe matches the opaque owner identifier the identity provider issues.
	ownerIDRe = regexp.MustCompile(`^[A-Za-z0-9_|.-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// StatusForCode maps a domain error code to its HTTP status. Every response
// path that renders a domain error goes through this one table.
func StatusForCode(code apperr.Code) int {
	switch code {
	case apperr.CodeDuplicateEntry, apperr.CodeInvalidTransition:
		return fiber.StatusConflict
	case apperr.CodeNotFound:
		return fiber.StatusNotFound
	case apperr.CodeOwnershipMismatch:
		return fiber.StatusForbidden
	case apperr.CodeInvalidValue:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// AppErrorResponse maps a domain error to its HTTP status and standard body.
func AppErrorResponse(c fiber.Ctx, err error) error {
	code := apperr.CodeOf(err)
	status := StatusForCode(code)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		code = apperr.CodeInternal
		message = "Internal error"
	}

	return ErrorResponse(c, status, string(code), message)
}

// ValidateChannelID checks that an external channel id is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 64 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateOwnerID checks the owner identifier supplied by the identity
// provider collaborator.
func ValidateOwnerID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "owner id is required"
	}
	if len(id) > MaxOwnerIDLen {
		return "", "owner id must be at most 64 characters"
	}
	if !ownerIDRe.MatchString(id) {
		return "", "owner id contains invalid characters"
	}
	return id, ""
}

// ValidateCategoryName trims and bounds a category name.
func ValidateCategoryName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "category name is required"
	}
	if len(name) > MaxCategoryNameLen {
		return "", "category name must be at most 100 characters"
	}
	return name, ""
}

// ValidateUserAgent trims and truncates user agent to DB limits.
func ValidateUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ua
}

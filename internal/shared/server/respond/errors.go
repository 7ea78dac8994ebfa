package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerkit-backend/internal/shared/telemetry"
)

// ErrorBody is the public error object. Type, RequiresAPIKey and the quota
// fields are present only for the error classes that define them.
type ErrorBody struct {
	Error          string `json:"error"`
	Type           string `json:"type,omitempty"`
	RequiresAPIKey bool   `json:"requiresApiKey,omitempty"`
	Details        string `json:"details,omitempty"`
	Documentation  string `json:"documentation,omitempty"`
}

// Error sends a plain error body, typically for validation failures.
func Error(c *gin.Context, status int, message string) {
	abort(c, status, ErrorBody{Error: message})
}

// TypedError sends an error body carrying a classification type.
func TypedError(c *gin.Context, status int, message, errType string) {
	abort(c, status, ErrorBody{Error: message, Type: errType})
}

// KeyRequired signals that no usable credential was found and the caller
// must obtain and submit one.
func KeyRequired(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, ErrorBody{Error: message, RequiresAPIKey: true})
}

// QuotaExceeded surfaces a provider rate-limit with a fixed 24-hour retry hint.
func QuotaExceeded(c *gin.Context, message, details, documentation string) {
	c.Header("Retry-After", "86400")
	abort(c, http.StatusTooManyRequests, ErrorBody{
		Error:         message,
		Type:          "QUOTA_EXCEEDED",
		Details:       details,
		Documentation: documentation,
	})
}

func abort(c *gin.Context, status int, body ErrorBody) {
	fields := map[string]any{
		"status":     status,
		"message":    body.Error,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if body.Type != "" {
		fields["type"] = body.Type
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, body)
}

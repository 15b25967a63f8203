package security

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hospital-management/models"
)

// ErrorResponse represents a standardized error response structure
type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Code    string        `json:"code"`
	Details interface{}   `json:"details,omitempty"`
	Notice  models.Notice `json:"notice"`
}

// Common error codes
const (
	// Authentication errors
	CodeMissingToken          = "MISSING_TOKEN"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeRevokedToken          = "REVOKED_TOKEN"
	CodeSessionInvalid        = "SESSION_INVALID"
	CodeAuthVerificationError = "AUTH_VERIFICATION_ERROR"
	CodeUserNotAuthenticated  = "USER_NOT_AUTHENTICATED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"

	// Authorization errors
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeNotAuthorized           = "NOT_AUTHORIZED"

	// Validation errors
	CodeValidationError   = "VALIDATION_ERROR"
	CodeDuplicateIdentity = "DUPLICATE_IDENTITY"
	CodeInvalidTransition = "INVALID_TRANSITION"

	// Resource errors
	CodeResourceNotFound = "RESOURCE_NOT_FOUND"

	// Server errors
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// SendError sends a standardized error response. The error text and the
// detailed message double as the destructive notice shown to the user.
func SendError(c *gin.Context, statusCode int, errorCode, errorMessage, detailedMessage string, details interface{}) {
	response := ErrorResponse{
		Error:   errorMessage,
		Message: detailedMessage,
		Code:    errorCode,
		Notice:  models.NewDestructiveNotice(errorMessage, detailedMessage),
	}

	if details != nil {
		response.Details = details
	}

	c.JSON(statusCode, response)
}

// SendValidationError sends a validation error response
func SendValidationError(c *gin.Context, message string, details interface{}) {
	SendError(c, http.StatusBadRequest, CodeValidationError, "Validation failed", message, details)
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c *gin.Context, resource string) {
	SendError(c, http.StatusNotFound, CodeResourceNotFound, "Resource not found",
		"The requested "+resource+" was not found", nil)
}

// SendStoreError sends a record store failure response
func SendStoreError(c *gin.Context, message string) {
	SendError(c, http.StatusServiceUnavailable, CodeStoreUnavailable, "Error", message, nil)
}

package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"hospital-management/security"
	"hospital-management/services"
)

// sendServiceError writes the response for an error returned by a service.
// resource names the record in not-found and forbidden messages; failure
// is the message shown when the record store is down.
func sendServiceError(c *gin.Context, err error, resource, failure string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		security.SendError(c, http.StatusUnauthorized, security.CodeInvalidCredentials, "Login Failed",
			"Invalid credentials", nil)
	case errors.Is(err, services.ErrDuplicateIdentity):
		security.SendError(c, http.StatusConflict, security.CodeDuplicateIdentity, "Registration Failed",
			"Username or email already exists", nil)
	case errors.Is(err, services.ErrNotAuthorized):
		security.SendError(c, http.StatusForbidden, security.CodeNotAuthorized, "Not authorized",
			"You do not have access to this "+resource, nil)
	case errors.Is(err, services.ErrNotFound):
		security.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrInvalidTransition):
		security.SendError(c, http.StatusConflict, security.CodeInvalidTransition, "Invalid status change",
			"The "+resource+" is not in a state that allows this action", nil)
	case errors.Is(err, services.ErrInvalidInput):
		security.SendValidationError(c, err.Error(), nil)
	case errors.Is(err, services.ErrStoreUnavailable):
		security.SendStoreError(c, failure)
	default:
		log.Printf("%s: %v", failure, err)
		security.SendError(c, http.StatusInternalServerError, security.CodeInternalError, "Error", failure, nil)
	}
}

// currentSession fetches the session set by security.AuthMiddleware and
// answers 401 itself when there is none.
func currentSession(c *gin.Context) (*security.Session, bool) {
	session, ok := security.CurrentSession(c)
	if !ok {
		security.SendError(c, http.StatusUnauthorized, security.CodeUserNotAuthenticated, "User not authenticated",
			"User authentication is required to access this resource", nil)
	}
	return session, ok
}

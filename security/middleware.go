package security

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// ErrSessionGone is returned by a SessionVerifier when the identity behind
// a token was removed or may no longer act in its role.
var ErrSessionGone = errors.New("session identity no longer valid")

// SessionVerifier confirms that the identity behind a valid token still
// exists and may act in its role.
type SessionVerifier interface {
	VerifySession(ctx context.Context, s *Session) error
}

// AuthMiddleware creates a Gin middleware for bearer-token authentication
func AuthMiddleware(tokens *TokenManager, revoker Revoker, verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if tokenStr == "" {
			SendError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required",
				"Please provide a valid authorization token in the request header", nil)
			c.Abort()
			return
		}
		tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")

		session, err := tokens.Parse(tokenStr)
		if err != nil {
			SendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token",
				"The provided token is invalid, expired, or malformed. Please login again", nil)
			c.Abort()
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), session.TokenID)
		if err != nil {
			log.Printf("token revocation check failed: %v", err)
			SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "Authentication verification failed",
				"Unable to verify session status. Please try again later", nil)
			c.Abort()
			return
		}
		if revoked {
			SendError(c, http.StatusUnauthorized, CodeRevokedToken, "Session ended",
				"This session has been logged out. Please login again", nil)
			c.Abort()
			return
		}

		if err := verifier.VerifySession(c.Request.Context(), session); err != nil {
			if errors.Is(err, ErrSessionGone) {
				SendError(c, http.StatusUnauthorized, CodeSessionInvalid, "Session no longer valid",
					"Your account is not found or not approved. Please contact the administrator", nil)
			} else {
				log.Printf("session verification failed: %v", err)
				SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "Authentication verification failed",
					"Unable to verify session status. Please try again later", nil)
			}
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// CurrentSession returns the session stored by AuthMiddleware.
func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}

// RequireRole creates a Gin middleware for role-based access control
func RequireRole(expectedRoles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			SendError(c, http.StatusUnauthorized, CodeUserNotAuthenticated, "User not authenticated",
				"User authentication is required to access this resource", nil)
			c.Abort()
			return
		}

		for _, role := range expectedRoles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		names := make([]string, len(expectedRoles))
		for i, r := range expectedRoles {
			names[i] = string(r)
		}
		SendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Insufficient permissions",
			"Access denied. This resource requires "+strings.Join(names, " or ")+" role",
			gin.H{
				"required_roles": names,
				"user_role":      session.Role,
			})
		c.Abort()
	}
}

// CORSMiddleware allows the listed origins with credentials, or any origin
// without credentials when the list is empty.
func CORSMiddleware(allowOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "Cache-Control"},
		MaxAge:       24 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = allowOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

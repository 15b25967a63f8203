package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, s *Session) error

func (f verifierFunc) VerifySession(ctx context.Context, s *Session) error { return f(ctx, s) }

var allowAll = verifierFunc(func(context.Context, *Session) error { return nil })

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *TokenManager, revoker Revoker, verifier SessionVerifier) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(tokens, revoker, verifier))
	r.GET("/me", func(c *gin.Context) {
		s, _ := CurrentSession(c)
		c.JSON(http.StatusOK, s)
	})
	r.GET("/admin", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "destructive", string(body.Notice.Variant))
	return body.Code
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := newRouter(NewTokenManager("s", time.Hour), NewMemoryRevoker(), allowAll)

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeMissingToken, errorCode(t, w))
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := newRouter(NewTokenManager("s", time.Hour), NewMemoryRevoker(), allowAll)

	w := do(r, "/me", "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeInvalidToken, errorCode(t, w))
}

func TestAuthMiddlewareStoresSession(t *testing.T) {
	tokens := NewTokenManager("s", time.Hour)
	r := newRouter(tokens, NewMemoryRevoker(), allowAll)
	token, _, err := tokens.Issue("doc-1", RoleDoctor, "Dr. X")
	require.NoError(t, err)

	w := do(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)

	var s Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "doc-1", s.UserID)
	assert.Equal(t, RoleDoctor, s.Role)
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	tokens := NewTokenManager("s", time.Hour)
	revoker := NewMemoryRevoker()
	r := newRouter(tokens, revoker, allowAll)
	token, session, err := tokens.Issue("doc-1", RoleDoctor, "Dr. X")
	require.NoError(t, err)
	require.NoError(t, revoker.Revoke(context.Background(), session.TokenID, session.ExpiresAt))

	w := do(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeRevokedToken, errorCode(t, w))
}

func TestAuthMiddlewareVerifierRejects(t *testing.T) {
	tokens := NewTokenManager("s", time.Hour)
	deny := verifierFunc(func(context.Context, *Session) error {
		return fmt.Errorf("doctor doc-1: %w", ErrSessionGone)
	})
	r := newRouter(tokens, NewMemoryRevoker(), deny)
	token, _, err := tokens.Issue("doc-1", RoleDoctor, "Dr. X")
	require.NoError(t, err)

	w := do(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeSessionInvalid, errorCode(t, w))
}

func TestAuthMiddlewareVerifierFails(t *testing.T) {
	tokens := NewTokenManager("s", time.Hour)
	broken := verifierFunc(func(context.Context, *Session) error { return errors.New("connection refused") })
	r := newRouter(tokens, NewMemoryRevoker(), broken)
	token, _, err := tokens.Issue("doc-1", RoleDoctor, "Dr. X")
	require.NoError(t, err)

	w := do(r, "/me", token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeAuthVerificationError, errorCode(t, w))
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenManager("s", time.Hour)
	r := newRouter(tokens, NewMemoryRevoker(), allowAll)

	doctorToken, _, err := tokens.Issue("doc-1", RoleDoctor, "Dr. X")
	require.NoError(t, err)
	adminToken, _, err := tokens.Issue("admin", RoleAdmin, "Administrator")
	require.NoError(t, err)

	w := do(r, "/admin", doctorToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeInsufficientPermissions, errorCode(t, w))

	w = do(r, "/admin", adminToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSMiddlewareAnyOriginWithoutCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://elsewhere.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService("test-secret", 1, 60)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	// Связка как на административных маршрутах (выгрузка лидерборда,
	// создание параграфов)
	router.GET("/admin", m.RequireAuth(), m.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwtService
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "/protected", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "/protected", "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	router, jwtService := newTestRouter(t)

	token, err := jwtService.GenerateToken(&entity.User{ID: 9, Username: "racer", Role: "user"})
	require.NoError(t, err)

	w := doRequest(router, "/protected", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":9`)
}

func TestAdminOnly_RejectsRegularUser(t *testing.T) {
	router, jwtService := newTestRouter(t)

	token, err := jwtService.GenerateToken(&entity.User{ID: 9, Username: "racer", Role: "user"})
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnly_RejectsAnonymous(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "/admin", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	router, jwtService := newTestRouter(t)

	token, err := jwtService.GenerateToken(&entity.User{ID: 1, Username: "root", Role: "admin"})
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)

	assert.Equal(t, http.StatusOK, w.Code)
}

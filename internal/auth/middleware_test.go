package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare/internal/auth"
)

func newProtectedRouter(manager *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", auth.AuthRequired(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": auth.GetUserID(c),
			"email":   auth.GetUserEmail(c),
		})
	})
	return r
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", 15*time.Minute)
	router := newProtectedRouter(manager)

	token, err := manager.GenerateAccessToken("user-123", "user@example.com")
	require.NoError(t, err)

	t.Run("Valid Token Passes Through", func(t *testing.T) {
		w := doRequest(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-123")
		assert.Contains(t, w.Body.String(), "user@example.com")
	})

	t.Run("Scheme Is Case Insensitive", func(t *testing.T) {
		w := doRequest(router, "bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing Header", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong Scheme", func(t *testing.T) {
		w := doRequest(router, "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token Without Scheme", func(t *testing.T) {
		w := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		w := doRequest(router, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token From Another Secret", func(t *testing.T) {
		other := auth.NewJWTManager("other-secret", 15*time.Minute)
		foreign, err := other.GenerateAccessToken("user-123", "user@example.com")
		require.NoError(t, err)

		w := doRequest(router, "Bearer "+foreign)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPasswordHasher(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasherWithCost(4)

	hash, err := hasher.Hash("secret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "secret-pass", hash)

	assert.NoError(t, hasher.Compare(hash, "secret-pass"))
	assert.Error(t, hasher.Compare(hash, "wrong-pass"))
}

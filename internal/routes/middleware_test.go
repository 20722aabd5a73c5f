package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-web/internal/handlers"
	"go-todo-web/internal/routes"
	"go-todo-web/internal/services"
	"go-todo-web/testutil"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *services.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := services.NewJWTService(testutil.TestJWTSecret)

	r := gin.New()
	r.Use(routes.CurrentUserMiddleware(jwtService))
	r.GET("/whoami", func(c *gin.Context) {
		actor := handlers.ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"authenticated": actor.IsAuthenticated(),
			"username":      actor.Username,
			"role":          actor.Role,
		})
	})
	return r, jwtService
}

func TestCurrentUserMiddleware_ValidSession(t *testing.T) {
	r, jwtService := setupAuthRouter(t)

	token, err := jwtService.GenerateToken(1, "alice", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: token})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"authenticated":true`)
	assert.Contains(t, resp.Body.String(), `"username":"alice"`)
	assert.Contains(t, resp.Body.String(), `"role":"admin"`)
}

func TestCurrentUserMiddleware_NoCookieIsAnonymous(t *testing.T) {
	r, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"authenticated":false`)
}

func TestCurrentUserMiddleware_InvalidTokenClearedAndAnonymous(t *testing.T) {
	r, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: "invalid.jwt.token"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"authenticated":false`)

	// 改竄されたCookieは破棄される
	var cleared *http.Cookie
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == handlers.SessionCookieName {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestCurrentUserMiddleware_WrongSecretRejected(t *testing.T) {
	r, _ := setupAuthRouter(t)

	forged, err := services.NewJWTService("attacker-secret").GenerateToken(1, "alice", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: forged})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"authenticated":false`)
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/GabyPng/Happ/internal/auth"
	apierrors "github.com/GabyPng/Happ/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(CORS())

	whoami := func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "userId": userID})
	}

	r.GET("/private", RequireAuth(tokenVerifier{tokens}), whoami)
	r.GET("/public", OptionalAuth(tokenVerifier{tokens}), whoami)
	r.GET("/gardens/:id/members/:userId", RequireIDParams("id", "userId"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetIDParam(c, "id"), "userId": GetIDParam(c, "userId")})
	})
	r.POST("/login", RateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

type tokenVerifier struct {
	tokens *auth.TokenManager
}

func (v tokenVerifier) VerifyToken(token string) (*auth.Claims, error) {
	return v.tokens.Verify(token)
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager("middleware-secret", time.Hour)
	r := newTestRouter(tokens)

	token, err := tokens.Issue(42, "ana@example.com")
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/private", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"authenticated":true,"userId":42}`, w.Body.String())

	w = serve(r, http.MethodGet, "/private", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.False(t, apiErr.Success)
	require.Equal(t, apierrors.ErrCodeUnauthorized, apiErr.Code)

	w = serve(r, http.MethodGet, "/private", "garbage")
	require.Equal(t, http.StatusForbidden, w.Code)

	other := auth.NewTokenManager("other-secret", time.Hour)
	foreign, err := other.Issue(42, "ana@example.com")
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/private", foreign)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewTokenManager("middleware-secret", time.Hour)
	r := newTestRouter(tokens)

	w := serve(r, http.MethodGet, "/public", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"authenticated":false,"userId":0}`, w.Body.String())

	w = serve(r, http.MethodGet, "/public", "garbage")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"authenticated":false,"userId":0}`, w.Body.String())

	token, err := tokens.Issue(7, "luis@example.com")
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/public", token)
	require.JSONEq(t, `{"authenticated":true,"userId":7}`, w.Body.String())
}

func TestRequireIDParams(t *testing.T) {
	r := newTestRouter(auth.NewTokenManager("s", time.Hour))

	w := serve(r, http.MethodGet, "/gardens/3/members/9", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":3,"userId":9}`, w.Body.String())

	for _, path := range []string{"/gardens/abc/members/9", "/gardens/3/members/0", "/gardens/-1/members/2"} {
		w = serve(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestCORS(t *testing.T) {
	r := newTestRouter(auth.NewTokenManager("s", time.Hour))

	req := httptest.NewRequest(http.MethodOptions, "/private", nil)
	req.Header.Set("Origin", "https://happiety.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Less(t, w.Code, 300)

	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Origin", "https://happiety.app")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(auth.NewTokenManager("s", time.Hour))

	require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
	require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)

	w := serve(r, http.MethodPost, "/login", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, apierrors.ErrCodeTooManyRequests, apiErr.Code)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/public", "").Code)
}

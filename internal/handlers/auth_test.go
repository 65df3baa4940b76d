package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupHandlerTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":       "Ana@Example.com",
		"password":    "secreto123",
		"displayName": "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.code)
	require.Equal(t, true, resp.body["success"])
	require.NotEmpty(t, resp.body["token"])

	user := resp.object(t, "user")
	require.Equal(t, "ana@example.com", user["email"])
	require.Equal(t, "Ana", user["displayName"])
	require.NotContains(t, user, "passwordHash")
	require.Equal(t, "rosado", user["preferences"].(map[string]interface{})["theme"])

	t.Run("duplicate email is a 400", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/newUsuario", "", gin.H{
			"email":       "ana@example.com",
			"password":    "otraclave",
			"displayName": "Otra Ana",
		})
		require.Equal(t, http.StatusBadRequest, resp.code)
		require.Equal(t, false, resp.body["success"])
		require.Equal(t, "ALREADY_EXISTS", resp.body["code"])
	})

	t.Run("validation failures name the field", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email":       "no-es-correo",
			"password":    "123",
			"displayName": "Ana",
		})
		require.Equal(t, http.StatusBadRequest, resp.code)
		details := resp.object(t, "details")
		require.Contains(t, details, "email")
		require.Contains(t, details, "password")
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", `{"email": "ana@`)
		require.Equal(t, http.StatusBadRequest, resp.code)
		require.Equal(t, "MALFORMED_JSON", resp.body["code"])

		resp = env.do(t, http.MethodPost, "/api/auth/register", "", nil)
		require.Equal(t, http.StatusBadRequest, resp.code)
		require.Equal(t, "MALFORMED_JSON", resp.body["code"])
	})
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, userID := env.register(t, "luis@example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "luis@example.com",
		"password": "secreto123",
	})
	require.Equal(t, http.StatusOK, resp.code)
	require.Equal(t, float64(userID), resp.object(t, "user")["id"])

	token := resp.body["token"].(string)
	claims, err := env.authService.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)

	wrong := env.do(t, http.MethodPost, "/api/loginUsuario", "", gin.H{
		"email":    "luis@example.com",
		"password": "incorrecta",
	})
	unknown := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nadie@example.com",
		"password": "secreto123",
	})
	require.Equal(t, http.StatusUnauthorized, wrong.code)
	require.Equal(t, wrong.code, unknown.code)
	require.Equal(t, wrong.body, unknown.body)
}

func TestAuthHandler_MeAndValidateToken(t *testing.T) {
	env := setupHandlerTestEnv(t)
	token, userID := env.register(t, "marta@example.com")

	resp := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.code)
	require.Equal(t, float64(userID), resp.object(t, "user")["id"])

	resp = env.do(t, http.MethodPost, "/api/validateToken", token, nil)
	require.Equal(t, http.StatusOK, resp.code)
	require.Equal(t, "marta@example.com", resp.object(t, "user")["email"])

	require.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", "", nil).code)
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/auth/me", "not.a.token", nil).code)

	resp = env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.code)
	require.Equal(t, true, resp.body["success"])
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupHandlerTestEnv(t)
	token, _ := env.register(t, "pablo@example.com")

	resp := env.do(t, http.MethodPut, "/api/auth/change-password", token, gin.H{
		"currentPassword": "incorrecta",
		"newPassword":     "nuevaclave",
	})
	require.Equal(t, http.StatusBadRequest, resp.code)

	resp = env.do(t, http.MethodPut, "/api/auth/change-password", token, gin.H{
		"currentPassword": "secreto123",
		"newPassword":     "nuevaclave",
	})
	require.Equal(t, http.StatusOK, resp.code)

	for password, status := range map[string]int{"secreto123": http.StatusUnauthorized, "nuevaclave": http.StatusOK} {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email":    "pablo@example.com",
			"password": password,
		})
		require.Equal(t, status, resp.code, fmt.Sprintf("login with %s", password))
	}
}

func TestAuthHandler_PasswordsOverBcryptLimit(t *testing.T) {
	env := setupHandlerTestEnv(t)
	token, _ := env.register(t, "rosa@example.com")

	// 80 ASCII bytes fail binding; 40 two-byte runes pass it and hit the byte check
	for _, password := range []string{strings.Repeat("a", 80), strings.Repeat("ñ", 40)} {
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email":       "larga@example.com",
			"password":    password,
			"displayName": "Larga",
		})
		require.Equal(t, http.StatusBadRequest, resp.code, resp.body)
		require.Equal(t, "INVALID_INPUT", resp.body["code"])

		resp = env.do(t, http.MethodPut, "/api/auth/change-password", token, gin.H{
			"currentPassword": "secreto123",
			"newPassword":     password,
		})
		require.Equal(t, http.StatusBadRequest, resp.code, resp.body)
		require.Equal(t, "INVALID_INPUT", resp.body["code"])

		resp = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email":    "rosa@example.com",
			"password": password,
		})
		require.Equal(t, http.StatusUnauthorized, resp.code, resp.body)
	}

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":       "limite@example.com",
		"password":    strings.Repeat("a", 72),
		"displayName": "Limite",
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.body)
}

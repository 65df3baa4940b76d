package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/GabyPng/Happ/internal/validation"
)

func TestGardenHandler_CreateAndList(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerToken, ownerID := env.register(t, "owner@example.com")
	friendToken, _ := env.register(t, "friend@example.com")

	resp := env.do(t, http.MethodPost, "/api/newJardin", ownerToken, gin.H{
		"name":      "Azul",
		"theme":     "azul",
		"isPrivate": false,
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.body)

	garden := resp.object(t, "garden")
	code := garden["accessCode"].(string)
	require.True(t, validation.IsAccessCode(code))
	require.Equal(t, float64(ownerID), garden["ownerId"])
	require.Equal(t, false, garden["isPrivate"])
	require.Equal(t, "#0080FF", garden["theme"].(map[string]interface{})["primaryColor"])

	resp = env.do(t, http.MethodPost, "/api/jardines", ownerToken, gin.H{"name": "Raro", "theme": "morado"})
	require.Equal(t, http.StatusBadRequest, resp.code)
	require.Contains(t, resp.object(t, "details"), "theme")

	resp = env.do(t, http.MethodPost, "/api/jardines", "", gin.H{"name": "Sin token"})
	require.Equal(t, http.StatusUnauthorized, resp.code)

	resp = env.do(t, http.MethodPost, "/api/jardines/join", friendToken, gin.H{"accessCode": strings.ToLower(code)})
	require.Equal(t, http.StatusOK, resp.code, resp.body)

	resp = env.do(t, http.MethodPost, "/api/jardines/join", friendToken, gin.H{"accessCode": code})
	require.Equal(t, http.StatusBadRequest, resp.code)
	require.Equal(t, "ALREADY_EXISTS", resp.body["code"])

	resp = env.do(t, http.MethodPost, "/api/jardines/join", friendToken, gin.H{"accessCode": "1234ABCD"})
	require.Equal(t, http.StatusBadRequest, resp.code)

	resp = env.do(t, http.MethodGet, "/api/getJardines", friendToken, nil)
	require.Equal(t, http.StatusOK, resp.code)
	gardens := resp.object(t, "gardens")
	require.Len(t, gardens["owned"], 0)
	require.Len(t, gardens["shared"], 1)

	resp = env.do(t, http.MethodGet, "/api/jardines", ownerToken, nil)
	gardens = resp.object(t, "gardens")
	require.Len(t, gardens["owned"], 1)
	require.Len(t, gardens["shared"], 0)
}

func TestGardenHandler_GetByCode(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerToken, _ := env.register(t, "owner@example.com")
	gardenID, code := env.createGarden(t, ownerToken)

	resp := env.do(t, http.MethodGet, "/api/jardines/codigo/"+strings.ToLower(code), "", nil)
	require.Equal(t, http.StatusOK, resp.code)
	garden := resp.object(t, "garden")
	require.Equal(t, float64(gardenID), garden["id"])
	require.Equal(t, "Usuario owner@example.com", garden["ownerName"])
	require.Equal(t, float64(1), garden["viewCount"])
	require.Empty(t, resp.list(t, "memories"))

	resp = env.do(t, http.MethodGet, "/api/getJardin/code/"+code, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.code)
	require.Equal(t, float64(2), resp.object(t, "garden")["viewCount"])

	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/jardines/codigo/NADA0000", "", nil).code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/jardines/codigo/abc", "", nil).code)
}

func TestGardenHandler_OwnerOnlyOperations(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerToken, _ := env.register(t, "owner@example.com")
	friendToken, friendID := env.register(t, "friend@example.com")
	strangerToken, _ := env.register(t, "stranger@example.com")
	gardenID, code := env.createGarden(t, ownerToken)

	resp := env.do(t, http.MethodPost, "/api/jardines/join", friendToken, gin.H{"accessCode": code})
	require.Equal(t, http.StatusOK, resp.code)

	path := fmt.Sprintf("/api/jardines/%d", gardenID)

	resp = env.do(t, http.MethodGet, path, friendToken, nil)
	require.Equal(t, http.StatusOK, resp.code)
	members := resp.object(t, "garden")["members"].([]interface{})
	require.Len(t, members, 1)
	require.Equal(t, float64(friendID), members[0].(map[string]interface{})["userId"])

	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, strangerToken, nil).code)
	require.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/jardines/abc", ownerToken, nil).code)

	for _, token := range []string{friendToken, strangerToken} {
		resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/updateJardin/%d", gardenID), token, gin.H{"name": "Mio"})
		require.Equal(t, http.StatusForbidden, resp.code)
		resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/deleteJardin/%d", gardenID), token, nil)
		require.Equal(t, http.StatusForbidden, resp.code)
	}

	resp = env.do(t, http.MethodPut, path, ownerToken, gin.H{"name": "Renombrado", "theme": "verde"})
	require.Equal(t, http.StatusOK, resp.code, resp.body)
	require.Equal(t, "Renombrado", resp.object(t, "garden")["name"])

	memberPath := fmt.Sprintf("/api/jardines/%d/members/%d", gardenID, friendID)
	require.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, memberPath, strangerToken, nil).code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, memberPath, friendToken, nil).code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, memberPath, ownerToken, nil).code)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, path, ownerToken, nil).code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, ownerToken, nil).code)
}

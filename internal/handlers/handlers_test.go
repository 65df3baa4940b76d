package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GabyPng/Happ/internal/auth"
	"github.com/GabyPng/Happ/internal/database"
	"github.com/GabyPng/Happ/internal/repository"
	"github.com/GabyPng/Happ/internal/services"
	"github.com/GabyPng/Happ/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	require.NoError(t, validation.RegisterWithGin())

	db, err := database.Open(sqlite.Open("file::memory:"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	gardenRepo := repository.NewGardenRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)

	authService := services.NewAuthService(
		userRepo,
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenManager("handler-secret", time.Hour),
	)

	router := NewRouter(RouterDeps{
		DB:            db,
		AuthService:   authService,
		GardenService: services.NewGardenService(gardenRepo, memoryRepo, services.DefaultAccessCodeAttempts),
		MemoryService: services.NewMemoryService(memoryRepo, gardenRepo),
		MediaService:  services.NewMediaService(services.MediaConfig{}),
	})

	return handlerTestEnv{db: db, router: router, authService: authService}
}

type apiResponse struct {
	code int
	body map[string]interface{}
}

func (r apiResponse) object(t *testing.T, key string) map[string]interface{} {
	t.Helper()
	value, ok := r.body[key].(map[string]interface{})
	require.True(t, ok, "expected %q to be an object in %v", key, r.body)
	return value
}

func (r apiResponse) list(t *testing.T, key string) []interface{} {
	t.Helper()
	value, ok := r.body[key].([]interface{})
	require.True(t, ok, "expected %q to be a list in %v", key, r.body)
	return value
}

func (env handlerTestEnv) do(t *testing.T, method, path, token string, payload interface{}) apiResponse {
	t.Helper()

	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	resp := apiResponse{code: w.Code, body: map[string]interface{}{}}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.body), w.Body.String())
	}
	return resp
}

// register signs a user up and returns the token and the user ID.
func (env handlerTestEnv) register(t *testing.T, email string) (string, uint64) {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":       email,
		"password":    "secreto123",
		"displayName": "Usuario " + email,
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.body)

	token, ok := resp.body["token"].(string)
	require.True(t, ok)
	id := resp.object(t, "user")["id"].(float64)
	return token, uint64(id)
}

// createGarden creates a garden and returns its ID and access code.
func (env handlerTestEnv) createGarden(t *testing.T, token string) (uint64, string) {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/jardines", token, gin.H{"name": "Nuestro jardin"})
	require.Equal(t, http.StatusCreated, resp.code, resp.body)

	garden := resp.object(t, "garden")
	return uint64(garden["id"].(float64)), garden["accessCode"].(string)
}

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apierrors "github.com/GabyPng/Happ/internal/errors"
	"github.com/GabyPng/Happ/internal/logging"
	"github.com/GabyPng/Happ/internal/metrics"
	"github.com/GabyPng/Happ/internal/middleware"
	"github.com/GabyPng/Happ/internal/services"
)

// RouterDeps carries what the HTTP layer needs.
type RouterDeps struct {
	DB                *gorm.DB
	AuthService       *services.AuthService
	GardenService     *services.GardenService
	MemoryService     *services.MemoryService
	MediaService      *services.MediaService
	AuthRatePerMinute int
}

// NewRouter builds the gin engine with every canonical route and its legacy alias.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(metrics.Middleware())

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	authHandler := NewAuthHandler(deps.AuthService)
	gardenHandler := NewGardenHandler(deps.GardenService)
	memoryHandler := NewMemoryHandler(deps.MemoryService)
	mediaHandler := NewMediaHandler(deps.MediaService)
	healthHandler := NewHealthHandler(deps.DB)

	requireAuth := middleware.RequireAuth(deps.AuthService)
	optionalAuth := middleware.OptionalAuth(deps.AuthService)
	authLimit := middleware.RateLimit(deps.AuthRatePerMinute, time.Minute)
	gardenID := middleware.RequireIDParams("id")
	memoryID := middleware.RequireIDParams("id")
	memoryGardenID := middleware.RequireIDParams("gardenId")

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimit, authHandler.Register)
			auth.POST("/login", authLimit, authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.PUT("/change-password", requireAuth, authHandler.ChangePassword)
		}
		api.POST("/validateToken", requireAuth, authHandler.ValidateToken)

		// Garden routes
		gardens := api.Group("/jardines")
		{
			gardens.POST("", requireAuth, gardenHandler.CreateGarden)
			gardens.GET("", requireAuth, gardenHandler.ListGardens)
			gardens.POST("/join", requireAuth, gardenHandler.JoinGarden)
			gardens.GET("/codigo/:code", optionalAuth, gardenHandler.GetGardenByCode)
			gardens.GET("/:id", requireAuth, gardenID, gardenHandler.GetGarden)
			gardens.PUT("/:id", requireAuth, gardenID, gardenHandler.UpdateGarden)
			gardens.DELETE("/:id", requireAuth, gardenID, gardenHandler.DeleteGarden)
			gardens.DELETE("/:id/members/:userId", requireAuth, middleware.RequireIDParams("id", "userId"), gardenHandler.RemoveMember)
		}

		// Memory routes
		memories := api.Group("/memorias")
		{
			memories.POST("", requireAuth, memoryHandler.CreateMemory)
			memories.GET("/jardin/:gardenId", memoryGardenID, memoryHandler.ListGardenMemories)
			memories.GET("/:id", memoryID, memoryHandler.GetMemory)
			memories.PUT("/:id", requireAuth, memoryID, memoryHandler.UpdateMemory)
			memories.PATCH("/:id/position", requireAuth, memoryID, memoryHandler.UpdatePosition)
			memories.DELETE("/:id", requireAuth, memoryID, memoryHandler.DeleteMemory)
		}

		// Media routes
		media := api.Group("/media")
		{
			media.POST("/upload-url", requireAuth, mediaHandler.CreateUploadURL)
			media.GET("/url", mediaHandler.GetDownloadURL)
		}

		// Legacy aliases used by older clients
		api.POST("/newUsuario", authLimit, authHandler.Register)
		api.POST("/loginUsuario", authLimit, authHandler.Login)
		api.POST("/newJardin", requireAuth, gardenHandler.CreateGarden)
		api.GET("/getJardines", requireAuth, gardenHandler.ListGardens)
		api.GET("/getJardin/code/:code", optionalAuth, gardenHandler.GetGardenByCode)
		api.GET("/getJardin/:id", requireAuth, gardenID, gardenHandler.GetGarden)
		api.PUT("/updateJardin/:id", requireAuth, gardenID, gardenHandler.UpdateGarden)
		api.DELETE("/deleteJardin/:id", requireAuth, gardenID, gardenHandler.DeleteGarden)
		api.POST("/newMemoria", requireAuth, memoryHandler.CreateMemory)
		api.GET("/getMemorias/:gardenId", memoryGardenID, memoryHandler.ListGardenMemories)
		api.PUT("/updateMemoria/:id", requireAuth, memoryID, memoryHandler.UpdateMemory)
		api.DELETE("/deleteMemoria/:id", requireAuth, memoryID, memoryHandler.DeleteMemory)
	}

	return r
}

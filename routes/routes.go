package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"guest-registration-backend/config"
	"guest-registration-backend/controllers"
	"guest-registration-backend/middleware"
)

func SetupRouter(
	cfg config.Config,
	rdb *redis.Client,
	rc *controllers.RegistrationController,
	ac *controllers.AdminController,
	auth *controllers.AuthController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Local-fallback documents are served from here.
	r.Static("/uploads", "./"+cfg.UploadDir)

	origins := cfg.CORSOrigins
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Public self-registration, rate limited, no session required.
		drafts := api.Group("/registrations/drafts")
		drafts.Use(middleware.RateLimit(cfg.RateLimit, rdb))
		{
			drafts.POST("", rc.CreateDraft)
			drafts.GET("/:token", rc.GetDraft)
			drafts.PUT("/:token/guest-count", rc.SetGuestCount)
			drafts.PUT("/:token/guests/:index", rc.UpdateAdditionalGuest)
			drafts.POST("/:token/documents", rc.UploadDocuments)
			drafts.DELETE("/:token/documents/:slot/:index", rc.RemoveDocument)
			drafts.POST("/:token/submit", rc.Submit)
			drafts.DELETE("/:token", rc.AbandonDraft)
		}

		api.POST("/auth/login", auth.Login)

		// Moderation surface, JWT gated.
		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			admin.GET("/guests", ac.ListGuests)

			// ต้องอยู่ก่อน /:id
			admin.GET("/guests/export", ac.ExportGuests)

			admin.GET("/guests/:id", ac.GetGuest)
			admin.PATCH("/guests/:id/status", ac.UpdateGuestStatus)
			admin.DELETE("/guests/:id", ac.DeleteGuest)
			admin.GET("/analytics", ac.AnalyticsSummary)
		}
	}

	return r
}

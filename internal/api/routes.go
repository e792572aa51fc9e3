package api

import (
	"net/http"
	"time"

	"ptrainer/backend/internal/service"
	"ptrainer/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the routes are served from. Signer may be nil when
// object storage is disabled; Metrics may be nil to skip /metrics.
type Services struct {
	Membership service.MembershipService
	Client     service.ClientService
	Plan       service.PlanService
	Nutrition  service.NutritionService
	Library    service.LibraryService
	Sweeper    SweepRunner
	Signer     storage.MediaSigner
	URLExpiry  time.Duration
	Metrics    http.Handler
}

// SetupRoutes configures the API routes for the application.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, services Services) {
	membershipHandler := NewMembershipHandler(services.Membership, services.Signer, services.URLExpiry, logger)
	clientHandler := NewClientHandler(services.Client)
	planHandler := NewPlanHandler(services.Plan)
	nutritionHandler := NewNutritionHandler(services.Nutrition)
	libraryHandler := NewLibraryHandler(services.Library)
	sweepHandler := NewSweepHandler(services.Sweeper)
	mediaHandler := NewMediaHandler(services.Signer, services.URLExpiry, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if services.Metrics != nil {
		router.GET("/metrics", gin.WrapH(services.Metrics))
	}

	apiV1 := router.Group("/api/v1")
	{
		// GET /api/v1/membership/{id} - the cached membership aggregate
		apiV1.GET("/membership/:id", membershipHandler.GetMembership)

		membershipGroup := apiV1.Group("/memberships")
		{
			membershipGroup.POST("", membershipHandler.CreateMembership)
			membershipGroup.POST("/:id/package", membershipHandler.ChangePackage)
		}

		apiV1.POST("/clients/:id", clientHandler.UpdateClient)
		apiV1.POST("/nutrition/totals", nutritionHandler.CalculateTotals)

		planGroup := apiV1.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.PUT("/:id", planHandler.UpdatePlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
		}

		exerciseGroup := apiV1.Group("/exercises")
		{
			exerciseGroup.POST("", libraryHandler.CreateExercise)
			exerciseGroup.GET("/:id", libraryHandler.GetExercise)
			exerciseGroup.PUT("/:id", libraryHandler.UpdateExercise)
		}

		foodGroup := apiV1.Group("/foods")
		{
			foodGroup.POST("", libraryHandler.CreateFood)
			foodGroup.GET("/:id", libraryHandler.GetFood)
			foodGroup.PUT("/:id", libraryHandler.UpdateFood)
		}

		apiV1.POST("/media/upload-url", mediaHandler.RequestUploadURL)
		apiV1.POST("/sweep", sweepHandler.RunSweep)
	}
}

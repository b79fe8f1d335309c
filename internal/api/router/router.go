package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nursenav/listings-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes.
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "listings-api-service",
		})
	})

	listingHandler := handler.NewListingHandler(deps)

	v1 := r.Group("/api/v1")
	{
		// GET /api/v1/taxonomy - canonical vocabularies for menu rendering
		v1.GET("/taxonomy", listingHandler.GetTaxonomy)

		// GET /api/v1/listings/*path - every listing-page combination:
		// geography, specialty, job type, shift, experience, employer,
		// sign-on bonus
		v1.GET("/listings/*path", listingHandler.GetListing)
	}

	return r
}

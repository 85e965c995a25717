package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP routes. allowedOrigins is the CORS allow-list
// for the SPA frontend.
func NewRouter(s *Server, log *zap.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.GET("/profile/:id", s.AuthRequired(), s.handleProfile)
	}

	router.GET("/recipes", s.handleListRecipes)
	router.GET("/recipes/:id", s.handleGetRecipe)
	router.GET("/recipes/search/:query", s.handleSearchRecipes)
	router.GET("/recipes/filter/tag/:tag", s.handleFilterRecipesByTag)

	protected := router.Group("/", s.AuthRequired())
	{
		protected.POST("recipes", s.handleCreateRecipe)
		protected.POST("recipes/import", s.handleImportRecipe)

		protected.GET("mealplan", s.handleGetMealPlan)
		protected.POST("mealplan/save", s.handleSaveMealPlan)
		protected.POST("mealplan/autogenerate", s.handleAutoGenerate)

		protected.GET("metrics", s.handleMetrics)

		protected.GET("grocery", s.handleGetGroceryList)
		protected.POST("grocery/toggle", s.handleToggleGroceryItem)
		protected.POST("grocery/clear", s.handleClearGroceryChecks)
		protected.GET("grocery/export", s.handleExportGroceryList)
	}

	return router
}

package api

import (
	"net/http"
	"strings"

	"plateplanner/internal/recipe"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Server) handleListRecipes(c *gin.Context) {
	recipes, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.log.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) handleGetRecipe(c *gin.Context) {
	rec, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.log.Error("failed to get recipe", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleSearchRecipes returns catalog entries whose title contains the
// query, case-insensitively.
func (s *Server) handleSearchRecipes(c *gin.Context) {
	recipes, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.log.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Param("query")))
	matches := []recipe.Recipe{}
	for _, rec := range recipes {
		if strings.Contains(strings.ToLower(rec.Title), query) {
			matches = append(matches, rec)
		}
	}
	c.JSON(http.StatusOK, matches)
}

// handleFilterRecipesByTag returns catalog entries carrying the given tag.
func (s *Server) handleFilterRecipesByTag(c *gin.Context) {
	recipes, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.log.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}

	tag := c.Param("tag")
	matches := []recipe.Recipe{}
	for _, rec := range recipes {
		for _, t := range rec.Tags {
			if strings.EqualFold(t, tag) {
				matches = append(matches, rec)
				break
			}
		}
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) handleCreateRecipe(c *gin.Context) {
	var rec recipe.Recipe
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe payload"})
		return
	}
	if rec.Title == "" || len(rec.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe needs a title and at least one ingredient"})
		return
	}
	if rec.CookTime < 0 || rec.Calories < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cook time and calories must be non-negative"})
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.catalog.Save(c.Request.Context(), rec); err != nil {
		s.log.Error("failed to save recipe", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleImportRecipe(c *gin.Context) {
	if s.importer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe import is not configured"})
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	rec, err := s.importer.ImportURL(c.Request.Context(), req.URL)
	if err != nil {
		s.log.Warn("recipe import failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not extract a recipe from that page"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

package api

import (
	"errors"
	"net/http"

	"plateplanner/internal/planner"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleGetMealPlan returns the caller's saved week, or a null week when
// nothing has been saved yet. The frontend renders those two states
// differently, so absence is data here, not a 404.
func (s *Server) handleGetMealPlan(c *gin.Context) {
	userID := c.GetString(userIDKey)

	week, err := s.plans.LoadPlan(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("failed to load meal plan", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "meal plan temporarily unavailable"})
		return
	}
	if week == nil {
		c.JSON(http.StatusOK, gin.H{"week": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"week": week})
}

func (s *Server) handleSaveMealPlan(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var req struct {
		Week planner.WeekPlan `json:"week" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week is required"})
		return
	}

	p := planner.New(s.plans, userID)
	if err := p.ReplaceWeek(req.Week); err != nil {
		if errors.Is(err, planner.ErrInvalidDay) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week contains an invalid day label"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week payload"})
		return
	}

	if err := p.Save(c.Request.Context()); err != nil {
		s.log.Error("failed to save meal plan", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not save meal plan, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"week": p.Week()})
}

// handleAutoGenerate fills the whole week with one random recipe per day
// and persists the result.
func (s *Server) handleAutoGenerate(c *gin.Context) {
	userID := c.GetString(userIDKey)

	catalog, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.log.Error("failed to list recipes for autogenerate", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}

	p := planner.New(s.plans, userID)
	if err := p.AutoGenerate(catalog); err != nil {
		if errors.Is(err, planner.ErrInsufficientCatalog) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "need at least 7 recipes to generate a week"})
			return
		}
		s.log.Error("autogenerate failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate a week"})
		return
	}

	if err := p.Save(c.Request.Context()); err != nil {
		s.log.Error("failed to save generated plan", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not save meal plan, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"week": p.Week()})
}

package api

import (
	"net/http"
	"strings"

	"plateplanner/internal/grocery"
	"plateplanner/internal/planner"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// deriveList loads the caller's plan and check state and produces the
// reconciled grocery list. A nil week means no plan has been saved yet.
func (s *Server) deriveList(c *gin.Context, userID string) ([]grocery.Item, bool, error) {
	week, err := s.plans.LoadPlan(c.Request.Context(), userID)
	if err != nil {
		return nil, false, err
	}
	if week == nil {
		week = planner.NewWeekPlan()
	}

	rec := grocery.NewReconciler(s.checks, userID)
	if err := rec.Load(c.Request.Context()); err != nil {
		return nil, false, err
	}

	items := rec.ApplyTo(grocery.Aggregate(week))
	return items, week.Empty(), nil
}

func (s *Server) handleGetGroceryList(c *gin.Context) {
	userID := c.GetString(userIDKey)

	items, empty, err := s.deriveList(c, userID)
	if err != nil {
		s.log.Error("failed to derive grocery list", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "grocery list temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"groups": grocery.GroupByCategory(items),
		"empty":  empty,
	})
}

func (s *Server) handleToggleGroceryItem(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	rec := grocery.NewReconciler(s.checks, userID)
	if err := rec.Load(c.Request.Context()); err != nil {
		s.log.Error("failed to load check state", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "grocery list temporarily unavailable"})
		return
	}

	key := grocery.NormalizeName(req.Name)
	resp := gin.H{"name": key}
	if err := rec.Toggle(c.Request.Context(), key); err != nil {
		// The toggle itself took effect in memory; the client keeps its
		// optimistic state and is told the write did not stick.
		s.log.Warn("check state write-through failed", zap.String("user_id", userID), zap.Error(err))
		resp["warning"] = "change not saved, it may revert"
	}
	resp["checked"] = rec.State()[key]
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleClearGroceryChecks(c *gin.Context) {
	userID := c.GetString(userIDKey)

	rec := grocery.NewReconciler(s.checks, userID)
	if err := rec.Load(c.Request.Context()); err != nil {
		s.log.Error("failed to load check state", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "grocery list temporarily unavailable"})
		return
	}

	resp := gin.H{"cleared": true}
	if err := rec.ClearAll(c.Request.Context()); err != nil {
		s.log.Warn("check state clear write-through failed", zap.String("user_id", userID), zap.Error(err))
		resp["warning"] = "change not saved, it may revert"
	}
	c.JSON(http.StatusOK, resp)
}

// handleExportGroceryList renders the list as plain text, one item per
// line, for sharing or printing.
func (s *Server) handleExportGroceryList(c *gin.Context) {
	userID := c.GetString(userIDKey)

	items, _, err := s.deriveList(c, userID)
	if err != nil {
		s.log.Error("failed to derive grocery list", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "grocery list temporarily unavailable"})
		return
	}

	c.String(http.StatusOK, strings.Join(grocery.FormatLines(items), "\n"))
}

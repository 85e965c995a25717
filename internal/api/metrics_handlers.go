package api

import (
	"net/http"

	"plateplanner/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleMetrics reports process health and per-day import usage for the
// last week.
func (s *Server) handleMetrics(c *gin.Context) {
	if s.metricsStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics are not enabled"})
		return
	}

	daily, err := s.metricsStore.Daily(c.Request.Context(), 7)
	if err != nil {
		s.log.Error("failed to load import usage", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics temporarily unavailable"})
		return
	}

	recipes, err := s.catalog.Count(c.Request.Context())
	if err != nil {
		s.log.Error("failed to count recipes", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health":  metrics.Snapshot(s.databasePath),
		"imports": daily,
		"recipes": recipes,
	})
}

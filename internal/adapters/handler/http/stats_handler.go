package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/services"
)

type StatsHandler struct {
	svc             *services.StatsService
	maxLookbackDays int
	now             Clock
}

func NewStatsHandler(svc *services.StatsService, maxLookbackDays int) *StatsHandler {
	return &StatsHandler{
		svc:             svc,
		maxLookbackDays: maxLookbackDays,
		now:             utcNow,
	}
}

// WithClock replaces the source of the default as-of time.
func (h *StatsHandler) WithClock(now Clock) *StatsHandler {
	h.now = now
	return h
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/habits", h.GetHabitAnalytics)
}

func (h *StatsHandler) GetHabitAnalytics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	asOf, err := parseAsOf(c, h.now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lookback, ok := parseBoundedInt(c, "lookback_days", h.maxLookbackDays)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("lookback_days must be an integer between 1 and %d", h.maxLookbackDays),
		})
		return
	}

	analytics, err := h.svc.GetHabitAnalytics(c.Request.Context(), services.AnalyticsInput{
		UserID:       userID,
		AsOf:         asOf,
		LookbackDays: lookback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

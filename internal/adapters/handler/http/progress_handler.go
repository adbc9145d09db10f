package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/services"
)

type ProgressHandler struct {
	svc   *services.ProgressService
	now   Clock
	maxXP int
}

// NewProgressHandler serves progress views. The public level calculator
// rejects totals above maxXP.
func NewProgressHandler(svc *services.ProgressService, maxXP int) *ProgressHandler {
	return &ProgressHandler{svc: svc, now: utcNow, maxXP: maxXP}
}

func (h *ProgressHandler) WithClock(now Clock) *ProgressHandler {
	h.now = now
	return h
}

// RegisterPublicRoutes exposes the level calculator, which reads no user data.
func (h *ProgressHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/levels/:xp", h.GetLevel)
}

func (h *ProgressHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/progress", h.GetProfile)
}

func (h *ProgressHandler) GetProfile(c *gin.Context) {
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

	profile, err := h.svc.GetProfile(c.Request.Context(), userID, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProgressHandler) GetLevel(c *gin.Context) {
	xp, err := strconv.Atoi(c.Param("xp"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "xp must be an integer"})
		return
	}
	if xp > h.maxXP {
		c.JSON(http.StatusBadRequest, gin.H{"error": "xp must not exceed " + strconv.Itoa(h.maxXP)})
		return
	}

	c.JSON(http.StatusOK, h.svc.LevelFor(xp))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster-pro/exam-service/internal/services"
	"github.com/quizmaster-pro/exam-service/internal/utils"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

// ProfileHandler serves the signed-in user's own data: statistics,
// achievement progress and the theme preference.
type ProfileHandler struct {
	BaseHandler
	statisticsService  services.StatisticsService
	achievementService services.AchievementService
	authService        services.AuthService
}

func NewProfileHandler(
	statisticsService services.StatisticsService,
	achievementService services.AchievementService,
	authService services.AuthService,
	logger utils.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:        NewBaseHandler(logger),
		statisticsService:  statisticsService,
		achievementService: achievementService,
		authService:        authService,
	}
}

func (h *ProfileHandler) GetStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.statisticsService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAchievementCatalog lists every achievement definition.
func (h *ProfileHandler) GetAchievementCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"achievements": h.achievementService.Catalog(c.Request.Context()),
	})
}

// GetAchievements returns the catalog joined with the user's progress.
func (h *ProfileHandler) GetAchievements(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	progress, err := h.achievementService.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": progress})
}

func (h *ProfileHandler) GetTheme(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	theme, err := h.authService.GetTheme(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *ProfileHandler) SetTheme(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req validator.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.authService.SetTheme(c.Request.Context(), userID, req.Theme); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

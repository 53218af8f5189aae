package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster-pro/exam-service/internal/services"
	"github.com/quizmaster-pro/exam-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *DashboardHandler) GetChapterAnalytics(c *gin.Context) {
	analytics, err := h.dashboardService.ChapterAnalytics(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapters": analytics})
}

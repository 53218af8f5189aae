package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster-pro/exam-service/internal/services"
	"github.com/quizmaster-pro/exam-service/internal/utils"
)

type ChapterHandler struct {
	BaseHandler
	chapterService services.ChapterService
}

func NewChapterHandler(chapterService services.ChapterService, logger utils.Logger) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler:    NewBaseHandler(logger),
		chapterService: chapterService,
	}
}

// ListChapters lists chapters with live question counts. Admins can ask
// for inactive ones with ?include_inactive=true.
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	chapters, err := h.chapterService.List(c.Request.Context(), includeInactive)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	chapter, err := h.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	h.LogRequest(c, "Creating chapter")

	var req services.ChapterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	chapter, err := h.chapterService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating chapter", "chapter_id", id)

	var req services.ChapterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	chapter, err := h.chapterService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting chapter", "chapter_id", id)

	if err := h.chapterService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Chapter deleted",
	})
}

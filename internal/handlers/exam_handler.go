package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster-pro/exam-service/internal/services"
	"github.com/quizmaster-pro/exam-service/internal/utils"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

type ExamHandler struct {
	BaseHandler
	examService services.ExamService
	validator   *validator.Validator
}

func NewExamHandler(examService services.ExamService, v *validator.Validator, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
		validator:   v,
	}
}

func (h *ExamHandler) StartExam(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Starting exam", "student_id", userID)

	var req services.StartExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, err := h.examService.Start(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	sessionID, userID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	session, err := h.examService.Get(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	sessionID, userID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	var req validator.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if errs := h.validator.Validate(&req); errs != nil {
		h.handleServiceError(c, errs)
		return
	}

	session, err := h.examService.Answer(c.Request.Context(), sessionID, userID, req.QuestionIndex, req.OptionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *ExamHandler) Navigate(c *gin.Context) {
	sessionID, userID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	var req validator.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, err := h.examService.Navigate(c.Request.Context(), sessionID, userID, req.Target)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *ExamHandler) ToggleFlag(c *gin.Context) {
	sessionID, userID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	var req validator.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, err := h.examService.ToggleFlag(c.Request.Context(), sessionID, userID, req.QuestionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *ExamHandler) SubmitExam(c *gin.Context) {
	sessionID, userID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting exam", "session_id", sessionID, "student_id", userID)

	result, err := h.examService.Submit(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ExamHandler) GetTimeRemaining(c *gin.Context) {
	sessionID, userID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	remaining, err := h.examService.TimeRemaining(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_remaining": remaining})
}

// GetLastResult serves the results page: the most recent completed
// exam.
func (h *ExamHandler) GetLastResult(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	result, err := h.examService.LastResult(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ExamHandler) GetHistory(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	limit := h.parseIntQuery(c, "limit", 20)
	results, err := h.examService.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *ExamHandler) sessionScope(c *gin.Context) (sessionID, userID string, ok bool) {
	sessionID = ParseStringIDParam(c, "id")
	if sessionID == "" {
		return "", "", false
	}
	userID, ok = h.requireUserID(c)
	return sessionID, userID, ok
}

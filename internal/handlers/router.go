package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster-pro/exam-service/internal/models"
	"github.com/quizmaster-pro/exam-service/internal/services"
	"github.com/quizmaster-pro/exam-service/internal/utils"
	"github.com/quizmaster-pro/exam-service/internal/validator"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	chapterHandler   *ChapterHandler
	questionHandler  *QuestionHandler
	examHandler      *ExamHandler
	reportHandler    *ReportHandler
	profileHandler   *ProfileHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *AuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		chapterHandler:   NewChapterHandler(serviceManager.Chapter(), logger),
		questionHandler:  NewQuestionHandler(serviceManager.Question(), serviceManager.ImportExport(), logger),
		examHandler:      NewExamHandler(serviceManager.Exam(), v, logger),
		reportHandler:    NewReportHandler(serviceManager.Report(), logger),
		profileHandler:   NewProfileHandler(serviceManager.Statistics(), serviceManager.Achievement(), serviceManager.Auth(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:   NewAuthMiddleware(serviceManager.Auth()),
		serviceManager:   serviceManager,
	}
}

// SetupRoutes mounts the API. Login and register are the only open
// endpoints besides the health check; admin groups additionally gate on
// role.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	adminOnly := hm.authMiddleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", hm.authHandler.Login)
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/logout", hm.authMiddleware.Authenticate(), hm.authHandler.Logout)
			auth.GET("/profile", hm.authMiddleware.Authenticate(), hm.authHandler.Profile)
		}

		authed := v1.Group("")
		authed.Use(hm.authMiddleware.Authenticate())
		{
			chapters := authed.Group("/chapters")
			{
				chapters.GET("", hm.chapterHandler.ListChapters)
				chapters.GET("/:id", hm.chapterHandler.GetChapter)
				chapters.POST("", adminOnly, hm.chapterHandler.CreateChapter)
				chapters.PUT("/:id", adminOnly, hm.chapterHandler.UpdateChapter)
				chapters.DELETE("/:id", adminOnly, hm.chapterHandler.DeleteChapter)
			}

			questions := authed.Group("/questions")
			{
				questions.GET("", hm.questionHandler.ListQuestions)
				questions.GET("/chapter/:chapter_id", hm.questionHandler.GetQuestionsByChapter)
				questions.GET("/export", adminOnly, hm.questionHandler.ExportQuestions)
				questions.POST("/import", adminOnly, hm.questionHandler.ImportQuestions)
				questions.GET("/:id", hm.questionHandler.GetQuestion)
				questions.POST("", adminOnly, hm.questionHandler.CreateQuestion)
				questions.PUT("/:id", adminOnly, hm.questionHandler.UpdateQuestion)
				questions.DELETE("/:id", adminOnly, hm.questionHandler.DeleteQuestion)
			}

			exams := authed.Group("/exams")
			{
				exams.POST("/start", hm.examHandler.StartExam)
				exams.GET("/results", hm.examHandler.GetLastResult)
				exams.GET("/history", hm.examHandler.GetHistory)
				exams.GET("/:id", hm.examHandler.GetExam)
				exams.POST("/:id/answer", hm.examHandler.SubmitAnswer)
				exams.POST("/:id/navigate", hm.examHandler.Navigate)
				exams.POST("/:id/flag", hm.examHandler.ToggleFlag)
				exams.POST("/:id/submit", hm.examHandler.SubmitExam)
				exams.GET("/:id/time-remaining", hm.examHandler.GetTimeRemaining)
			}

			reports := authed.Group("/reports")
			{
				reports.POST("", hm.reportHandler.CreateReport)
				reports.GET("", adminOnly, hm.reportHandler.ListReports)
				reports.PUT("/:id", adminOnly, hm.reportHandler.UpdateReport)
			}

			authed.GET("/achievements", hm.profileHandler.GetAchievementCatalog)

			profile := authed.Group("/profile")
			{
				profile.GET("/stats", hm.profileHandler.GetStats)
				profile.GET("/achievements", hm.profileHandler.GetAchievements)
				profile.GET("/theme", hm.profileHandler.GetTheme)
				profile.PUT("/theme", hm.profileHandler.SetTheme)
			}

			analytics := authed.Group("/analytics")
			analytics.Use(adminOnly)
			{
				analytics.GET("/overview", hm.dashboardHandler.GetOverview)
				analytics.GET("/chapters", hm.dashboardHandler.GetChapterAnalytics)
			}
		}
	}

	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "exam-service",
		})
	})
}

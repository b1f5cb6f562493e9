package app

import (
	"rl_academy_backend/docs"
	"rl_academy_backend/internal/config"
	"rl_academy_backend/internal/middleware"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 评阅接口开放给未登录的体验用户
		public.POST("/evaluate-answer", c.evaluation.EvaluateAnswer)

		public.GET("/modules", c.curriculum.ListModules)
		public.GET("/modules/:slug", c.curriculum.GetModule)
		public.GET("/lessons/:slug", c.curriculum.GetLesson)
		public.GET("/lessons/:slug/assets", c.content.ListAssets)
	}

	// 学员路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.Profile)

		authGroup.POST("/modules/:slug/checkpoint", c.curriculum.SubmitCheckpoint)

		progress := authGroup.Group("/progress")
		{
			progress.GET("", c.progress.Overview)
			progress.POST("/lessons/complete", c.progress.CompleteLesson)
			progress.GET("/lessons/:lessonId", c.progress.LessonStatus)
			progress.POST("/quiz-score", c.progress.UpdateQuizScore)
			progress.POST("/quiz-response", c.progress.SaveQuizResponse)
			progress.POST("/exercise-attempt", c.progress.RecordExerciseAttempt)
			progress.POST("/code", c.progress.SaveCode)
			progress.GET("/code/:lessonId", c.progress.GetCode)
			progress.POST("/position", c.progress.UpdatePosition)
			progress.POST("/learning-time", c.progress.AddLearningTime)
		}
	}

	// 课程管理（教师/管理员）
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher))
	{
		admin.POST("/modules", c.curriculum.CreateModule)
		admin.PUT("/modules/:slug", c.curriculum.UpdateModule)
		admin.POST("/modules/:slug/lessons", c.curriculum.CreateLesson)
		admin.PUT("/lessons/:slug", c.curriculum.UpdateLesson)
		admin.DELETE("/lessons/:slug", c.curriculum.DeleteLesson)

		admin.POST("/assets/video", c.content.UploadVideo)
		admin.POST("/assets/attachment", c.content.UploadAttachment)
		admin.DELETE("/assets/:id", c.content.DeleteAsset)
	}
}

package routes

import (
	"research-conference-api/controllers"
	"research-conference-api/middleware"
	"research-conference-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)
			public.GET("/check-email", controllers.CheckEmailAvailability)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Conference API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Researches
			researches := protected.Group("/researches")
			{
				researches.GET("", controllers.GetResearches)
				researches.GET("/:id", controllers.GetResearch)
				researches.GET("/:id/history", controllers.GetResearchStatusHistory)

				// Only researchers create and revise submissions
				researches.POST("", middleware.RequireRole(models.RoleResearcher), controllers.CreateResearch)
				researches.PUT("/:id", middleware.RequireRole(models.RoleResearcher), controllers.UpdateResearch)
				researches.POST("/:id/revisions", middleware.RequireRole(models.RoleResearcher), controllers.SubmitRevisions)
				researches.POST("/:id/withdraw", middleware.RequireRole(models.RoleResearcher), controllers.WithdrawResearch)

				// Track managers drive the status pipeline
				researches.POST("/:id/status", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.ChangeResearchStatus)
				researches.POST("/:id/reassign-track", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.ReassignTrack)
				researches.GET("/:id/track-history", controllers.GetTrackHistory)

				// Co-authors
				researches.POST("/:id/authors", middleware.RequireRole(models.RoleResearcher), controllers.AddAuthor)
				researches.PUT("/:id/authors/:author_id", middleware.RequireRole(models.RoleResearcher), controllers.UpdateAuthor)
				researches.DELETE("/:id/authors/:author_id", middleware.RequireRole(models.RoleResearcher), controllers.DeleteAuthor)
				researches.POST("/:id/authors/reorder", middleware.RequireRole(models.RoleResearcher), controllers.ReorderAuthors)

				// Files
				researches.POST("/:id/files", controllers.UploadResearchFile)
				researches.GET("/:id/files", controllers.ListResearchFiles)

				// Reviews on one research
				researches.POST("/:id/reviewers", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.AssignReviewer)
				researches.GET("/:id/reviews", controllers.GetResearchReviews)
			}

			// Files (by file id)
			files := protected.Group("/files")
			{
				files.GET("/:file_id/download", controllers.DownloadResearchFile)
				files.DELETE("/:file_id", controllers.DeleteResearchFile)
			}

			// Reviews (reviewer workspace)
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/my", middleware.RequireRole(models.RoleReviewer), controllers.GetMyReviews)
				reviews.PUT("/:review_id", middleware.RequireRole(models.RoleReviewer), controllers.SubmitReview)
				reviews.POST("/:review_id/re-review", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.FlagReReview)
			}

			// Tracks and reviewer rosters
			tracks := protected.Group("/tracks")
			{
				tracks.GET("", controllers.GetTracks)
				tracks.POST("/reviewers", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.AddTrackReviewer)
				tracks.GET("/reviewers", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.ListTrackReviewers)
				tracks.DELETE("/reviewers/:id", middleware.RequireRole(models.RoleTrackManager, models.RoleSystemAdmin), controllers.RemoveTrackReviewer)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", middleware.RequireRole(models.RoleConferenceManager, models.RoleSystemAdmin), controllers.GetDashboardStats)
			}
		}
	}
}

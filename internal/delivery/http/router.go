package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/delivery/http/handler"
	"github.com/studybuddy/backend/internal/delivery/http/middleware"
)

type Router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	buddyListHandler  *handler.BuddyListHandler
	matchingHandler   *handler.MatchingHandler
	connectionHandler *handler.ConnectionHandler
	authMiddleware    *middleware.AuthMiddleware
	allowedOrigins    []string
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	buddyListHandler *handler.BuddyListHandler,
	matchingHandler *handler.MatchingHandler,
	connectionHandler *handler.ConnectionHandler,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
) *Router {
	return &Router{
		authHandler:       authHandler,
		userHandler:       userHandler,
		buddyListHandler:  buddyListHandler,
		matchingHandler:   matchingHandler,
		connectionHandler: connectionHandler,
		authMiddleware:    authMiddleware,
		allowedOrigins:    allowedOrigins,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(r.allowedOrigins) > 0 {
		corsConfig.AllowOrigins = r.allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public except profile setup and /me)
		auth := v1.Group("/auth")
		{
			auth.POST("/request-verification", r.authHandler.RequestVerification)
			auth.POST("/resend-verification", r.authHandler.ResendVerification)
			auth.POST("/verify/:code", r.authHandler.Verify)
			auth.POST("/setup-password", r.authHandler.SetupPassword)
			auth.POST("/setup-profile", r.authMiddleware.RequireAuth(), r.authHandler.SetupProfile)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile and account
			protected.GET("/user/:user_id", r.userHandler.GetUser)
			protected.PUT("/user/update", r.userHandler.Update)
			protected.PUT("/user/preferences", r.userHandler.UpdatePreferences)
			protected.POST("/user/profile-picture", r.userHandler.UploadProfilePicture)
			protected.DELETE("/user/profile-picture", r.userHandler.DeleteProfilePicture)
			protected.POST("/onboarding/complete", r.userHandler.CompleteOnboarding)
			protected.POST("/survey/submit", r.userHandler.SubmitSurvey)
			protected.GET("/filters/options", r.userHandler.FilterOptions)
			protected.POST("/report", r.userHandler.Report)

			// List view (design1)
			list := protected.Group("/list")
			{
				list.GET("/users", r.buddyListHandler.ListUsers)
				list.POST("/select", r.buddyListHandler.Select)
			}

			// Mutual matching (design2)
			protected.POST("/approve-user", r.matchingHandler.Approve)
			protected.GET("/mutual-matches", r.matchingHandler.MutualMatches)
			protected.GET("/potential-matches", r.matchingHandler.PotentialMatches)
			protected.POST("/cleanup-old-approvals", r.matchingHandler.CleanupOldApprovals)

			// Connections and ratings
			protected.POST("/reach-out", r.connectionHandler.ReachOut)
			protected.GET("/reach-out/status", r.connectionHandler.ReachOutStatus)
			connections := protected.Group("/connections")
			{
				connections.GET("", r.connectionHandler.Connections)
				connections.POST("/mark-met", r.connectionHandler.MarkMet)
				connections.GET("/:reach_out_id/rating-criteria", r.connectionHandler.RatingCriteria)
				connections.POST("/rate", r.connectionHandler.Rate)
			}
			protected.GET("/notes", r.connectionHandler.Notes)
		}
	}

	return router
}

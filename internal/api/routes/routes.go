package routes

import (
	"github.com/eben2468/srcwebsite-sub006/internal/api/handlers"
	"github.com/eben2468/srcwebsite-sub006/internal/api/middleware"
	"github.com/eben2468/srcwebsite-sub006/internal/config"
	"github.com/eben2468/srcwebsite-sub006/internal/mail"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"
	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, log zerolog.Logger) {
	// Initialize services
	securityLog := services.NewSecurityLogService(log)
	settings := services.NewSettingsService(cfg)
	attempts := services.NewLoginAttemptService()
	lockouts := services.NewLockoutService(securityLog)
	ipAccess := services.NewIPAccessService(settings, securityLog)
	authService := services.NewAuthService(cfg, settings, attempts, lockouts, ipAccess, securityLog)
	userService := services.NewUserService(authService, securityLog)
	electionService := services.NewElectionService()
	eventService := services.NewEventService()

	var mailer mail.Mailer = mail.NoopMailer{}
	if cfg.SMTP.Enabled {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	}
	resetService := services.NewPasswordResetService(cfg, authService, mailer, securityLog, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, resetService, securityLog)
	securityHandler := handlers.NewSecurityHandler(authService, attempts, lockouts, ipAccess, settings, securityLog)
	userHandler := handlers.NewUserHandler(userService, authService)
	electionHandler := handlers.NewElectionHandler(electionService)
	eventHandler := handlers.NewEventHandler(eventService)

	// Middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.IPFilter(ipAccess))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "SRC Portal API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		// Reachable even while a password change is pending
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.GetMe)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Everything else requires a non-default password
		active := protected.Group("")
		active.Use(middleware.RequirePasswordChanged())
		{
			active.GET("/auth/sessions", userHandler.GetSessions)

			// Elections
			elections := active.Group("/elections")
			{
				elections.GET("", middleware.RequirePermission(rbac.ActionRead, rbac.ResourceElections), electionHandler.GetElections)
				elections.POST("", middleware.RequirePermission(rbac.ActionCreate, rbac.ResourceElections), electionHandler.CreateElection)
				elections.PUT("/:id/status", middleware.RequirePermission(rbac.ActionUpdate, rbac.ResourceElections), electionHandler.UpdateElectionStatus)
				elections.POST("/:id/positions", middleware.RequirePermission(rbac.ActionUpdate, rbac.ResourceElections), electionHandler.AddPosition)
				elections.GET("/:id/positions", middleware.RequirePermission(rbac.ActionRead, rbac.ResourceElections), electionHandler.GetPositions)
			}

			positions := active.Group("/positions")
			{
				positions.GET("/:id/candidates", middleware.RequirePermission(rbac.ActionRead, rbac.ResourceCandidates), electionHandler.GetCandidates)
				positions.GET("/:id/results", middleware.RequirePermission(rbac.ActionRead, rbac.ResourceResults), electionHandler.GetResults)
			}

			candidates := active.Group("/candidates")
			{
				candidates.POST("", middleware.RequirePermission(rbac.ActionCreate, rbac.ResourceCandidates), electionHandler.Apply)
				// Ownership override is evaluated inside the handler
				candidates.PUT("/:id/status", electionHandler.SetCandidateStatus)
			}

			votes := active.Group("/votes")
			{
				votes.POST("", middleware.RequirePermission(rbac.ActionCreate, rbac.ResourceVotes), electionHandler.CastVote)
			}

			// Events
			events := active.Group("/events")
			{
				events.GET("", middleware.RequirePermission(rbac.ActionRead, rbac.ResourceEvents), eventHandler.GetEvents)
				events.POST("", middleware.RequirePermission(rbac.ActionCreate, rbac.ResourceEvents), eventHandler.CreateEvent)
				// Ownership override is evaluated inside the handler
				events.PUT("/:id", eventHandler.UpdateEvent)
				events.DELETE("/:id", middleware.RequirePermission(rbac.ActionDelete, rbac.ResourceEvents), eventHandler.DeleteEvent)
			}
		}
	}

	// Admin JSON surface. Every failure here, missing or bad credentials
	// included, returns the same fixed denial body.
	admin := api.Group("", middleware.AdminAuth(authService), middleware.RequirePasswordChanged(), middleware.RequireAdmin())
	{
		// User management
		users := admin.Group("/users")
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.POST("/:id/password", userHandler.SetPassword)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Security administration
		security := admin.Group("/security")
		{
			security.POST("/unlock-account", securityHandler.UnlockAccount)
			security.POST("/unlock-all", securityHandler.UnlockAll)
			security.GET("/lockouts", securityHandler.GetLockouts)
			security.POST("/reset-attempts", securityHandler.ResetFailedAttempts)
			security.GET("/login-attempts", securityHandler.GetLoginAttempts)
			security.GET("/ip-controls", securityHandler.GetIPControls)
			security.POST("/ip-controls", securityHandler.AddIPControl)
			security.DELETE("/ip-controls/:id", securityHandler.RemoveIPControl)
			security.POST("/force-logout/:id", securityHandler.ForceLogout)
			security.POST("/clean-sessions", securityHandler.CleanExpiredSessions)
			security.GET("/logs", securityHandler.GetSecurityLogs)
			security.GET("/logs/export", securityHandler.ExportSecurityLogs)
			security.GET("/settings", securityHandler.GetSettings)
			security.PUT("/settings", securityHandler.UpdateSetting)
		}
	}
}

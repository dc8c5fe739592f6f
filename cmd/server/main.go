package main

import (
	"fmt"

	"github.com/eben2468/srcwebsite-sub006/internal/api/routes"
	"github.com/eben2468/srcwebsite-sub006/internal/config"
	applog "github.com/eben2468/srcwebsite-sub006/internal/log"
	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := applog.New(cfg.Server.Mode)

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Seed tunable security settings and the first super admin
	securityLog := services.NewSecurityLogService(log)
	settings := services.NewSettingsService(cfg)
	if err := settings.SeedDefaults(); err != nil {
		log.Fatal().Err(err).Msg("failed to seed security settings")
	}

	attempts := services.NewLoginAttemptService()
	lockouts := services.NewLockoutService(securityLog)
	ipAccess := services.NewIPAccessService(settings, securityLog)
	authService := services.NewAuthService(cfg, settings, attempts, lockouts, ipAccess, securityLog)
	if err := authService.CreateDefaultUser(); err != nil {
		log.Warn().Err(err).Msg("failed to create default user")
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(r, cfg, log)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("starting SRC Portal server")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

package server

import (
	"time"

	"zedlink-careers/config"
	"zedlink-careers/internal/database"
	"zedlink-careers/internal/email"
	"zedlink-careers/internal/handlers"
	"zedlink-careers/internal/middleware"
	"zedlink-careers/internal/models"
	"zedlink-careers/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	Router     *gin.Engine
	config     *config.Config
	logger     *zap.Logger
	jwtService *auth.JWTService
	db         *gorm.DB

	// Handlers
	authHandler        *handlers.AuthHandler
	jobHandler         *handlers.JobHandler
	applicationHandler *handlers.ApplicationHandler
	companyHandler     *handlers.CompanyHandler
	partnerHandler     *handlers.PartnerHandler
	adminHandler       *handlers.AdminHandler
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger) *Server {
	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Create Gin router
	router := gin.New()

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg)

	// Initialize database connection
	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := database.DB

	if err := database.SeedDatabase(db, cfg); err != nil {
		logger.Warn("Database seeding failed", zap.Error(err))
	}

	// Initialize services and handlers
	emailService := email.NewEmailService(cfg, logger)

	server := &Server{
		Router:             router,
		config:             cfg,
		logger:             logger,
		jwtService:         jwtService,
		db:                 db,
		authHandler:        handlers.NewAuthHandler(db, logger, jwtService, emailService),
		jobHandler:         handlers.NewJobHandler(db, logger),
		applicationHandler: handlers.NewApplicationHandler(db, logger, emailService),
		companyHandler:     handlers.NewCompanyHandler(db, logger),
		partnerHandler:     handlers.NewPartnerHandler(db, logger),
		adminHandler:       handlers.NewAdminHandler(db, logger, emailService),
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Basic middleware
	s.Router.Use(middleware.RequestIDMiddleware())
	s.Router.Use(middleware.RecoveryMiddleware(s.logger))
	s.Router.Use(middleware.SecurityHeadersMiddleware())

	// CORS middleware
	s.Router.Use(middleware.CORSMiddleware(
		s.config.CORS.Origins,
		s.config.CORS.Credentials,
	))

	// Rate limiting middleware
	rateLimiter := middleware.NewRateLimit(
		s.config.RateLimit.Requests,
		time.Duration(s.config.RateLimit.Window)*time.Second,
	)
	s.Router.Use(middleware.RateLimitMiddleware(rateLimiter, s.logger))

	// Logging middleware
	if s.config.IsDevelopment() {
		s.Router.Use(middleware.DetailedLoggingMiddleware(s.logger, false, false))
	} else {
		s.Router.Use(middleware.LoggingMiddleware(s.logger))
	}
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Health check endpoints
	s.Router.GET("/health", s.healthCheck)
	s.Router.HEAD("/health", s.healthCheck)
	s.Router.GET("/ready", s.readinessCheck)
	s.Router.HEAD("/ready", s.readinessCheck)

	// Swagger documentation
	if s.config.IsDevelopment() {
		s.Router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// API v1 routes
	v1 := s.Router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		public := v1.Group("")
		{
			// Authentication routes
			authRoutes := public.Group("/auth")
			{
				authRoutes.POST("/register", s.authHandler.Register)
				authRoutes.POST("/login", s.authHandler.Login)
				authRoutes.POST("/refresh", s.authHandler.Refresh)
			}

			// Public job board and directories
			public.GET("/jobs", s.jobHandler.ListJobs)
			public.GET("/companies", s.companyHandler.ListCompanies)
			public.GET("/companies/:id", s.companyHandler.GetCompany)
			public.GET("/partners", s.partnerHandler.ListPartners)
			public.GET("/partners/:id", s.partnerHandler.GetPartner)
			public.POST("/partners", s.partnerHandler.RegisterPartner)
		}

		// Routes where authentication is optional (owners see more)
		v1.GET("/jobs/:id", middleware.OptionalAuth(s.jwtService), s.jobHandler.GetJob)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(s.jwtService))
		{
			// Authentication routes for authenticated users
			authRoutes := protected.Group("/auth")
			{
				authRoutes.POST("/logout", s.authHandler.Logout)
				authRoutes.GET("/me", s.authHandler.Me)
				authRoutes.PATCH("/me", s.authHandler.UpdateProfile)
				authRoutes.PATCH("/password", s.authHandler.ChangePassword)
			}

			// Job management (employers)
			jobs := protected.Group("/jobs")
			{
				jobs.POST("", middleware.RequireEmployerOrAdmin(), s.jobHandler.CreateJob)
				jobs.GET("/mine", middleware.RequireEmployerOrAdmin(), s.jobHandler.ListCompanyJobs)
				jobs.PATCH("/:id", middleware.RequireEmployerOrAdmin(), s.jobHandler.UpdateJob)
				jobs.POST("/:id/close", middleware.RequireEmployerOrAdmin(), s.jobHandler.CloseJob)

				// Candidate pipeline
				jobs.POST("/:id/apply", middleware.RequireApplicant(), s.applicationHandler.SubmitApplication)
				jobs.GET("/:id/applications", middleware.RequireEmployerOrAdmin(), s.applicationHandler.ListJobApplications)
			}

			// Application routes
			applications := protected.Group("/applications")
			{
				applications.GET("/mine", s.applicationHandler.ListMyApplications)
				applications.GET("/:id", s.applicationHandler.GetApplication)
				applications.DELETE("/:id", s.applicationHandler.WithdrawApplication)
				applications.PATCH("/:id/status", middleware.RequireEmployerOrAdmin(), s.applicationHandler.UpdateApplicationStatus)
			}

			// Company routes
			companies := protected.Group("/companies")
			{
				companies.POST("", middleware.RequireRole(models.RoleEmployer), s.companyHandler.RegisterCompany)
				companies.PATCH("/:id", middleware.RequireEmployerOrAdmin(), s.companyHandler.UpdateCompany)
			}

			// Partner reviews
			protected.POST("/partners/:id/reviews", s.partnerHandler.ReviewPartner)

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/jobs/pending", s.adminHandler.ListPendingJobs)
				admin.POST("/jobs/:id/approve", s.adminHandler.ApproveJob)
				admin.POST("/jobs/:id/reject", s.adminHandler.RejectJob)

				admin.GET("/partners/pending", s.adminHandler.ListPendingPartners)
				admin.POST("/partners/:id/approve", s.adminHandler.ApprovePartner)
				admin.POST("/partners/:id/reject", s.adminHandler.RejectPartner)
				admin.POST("/partners/:id/suspend", s.adminHandler.SuspendPartner)
				admin.POST("/partners/:id/feature", s.adminHandler.FeaturePartner)
				admin.PATCH("/partners/:id", s.adminHandler.UpdatePartner)

				admin.POST("/companies/:id/verify", s.adminHandler.VerifyCompany)

				admin.GET("/users", s.adminHandler.ListUsers)
				admin.PATCH("/users/:id/active", s.adminHandler.SetUserActive)

				admin.GET("/statistics", s.adminHandler.GetStatistics)
			}
		}
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
		"service":   "zedlink-careers-api",
	})
}

// readinessCheck handles readiness check requests
// @Summary Readiness check
// @Description Check if the service is ready to serve requests
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (s *Server) readinessCheck(c *gin.Context) {
	if err := database.IsHealthy(); err != nil {
		s.logger.Error("Database health check failed", zap.Error(err))
		c.JSON(503, gin.H{
			"status":    "not ready",
			"timestamp": time.Now().UTC(),
			"error":     "Database connection failed",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
		"service":   "zedlink-careers-api",
		"checks": gin.H{
			"database": "healthy",
		},
	})
}

package api

import (
	"net/http"

	"github.com/deeppurple/deeppurple/internal/api/handler"
	custommw "github.com/deeppurple/deeppurple/internal/api/middleware"
	"github.com/deeppurple/deeppurple/internal/blobstore"
	"github.com/deeppurple/deeppurple/internal/config"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/deeppurple/deeppurple/internal/llm/anthropic"
	"github.com/deeppurple/deeppurple/internal/llm/gemini"
	"github.com/deeppurple/deeppurple/internal/llm/mock"
	"github.com/deeppurple/deeppurple/internal/llm/openai"
	"github.com/deeppurple/deeppurple/internal/repository/postgres"
	"github.com/deeppurple/deeppurple/internal/repository/redis"
	"github.com/deeppurple/deeppurple/internal/security"
	"github.com/deeppurple/deeppurple/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, blobs *blobstore.Store) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	fileRepo := postgres.NewFileRepository(db)
	insightRepo := postgres.NewInsightRepository(db)
	turnRepo := postgres.NewTurnRepository(db)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	contextCache := redis.NewContextCache(redisClient)

	// LLM providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	}
	llmRouter.RegisterProvider(mock.NewProvider())

	// Services
	assembler := service.NewContextAssembler(fileRepo, turnRepo, contextCache, cfg.Analysis.MaxContextChars)
	authService := service.NewAuthService(userRepo, jwtManager)
	sessionService := service.NewSessionService(sessionRepo)
	fileService := service.NewFileService(fileRepo, blobs, contextCache)
	answerService := service.NewAnswerService(assembler, turnRepo, llmRouter)
	insightService := service.NewInsightService(insightRepo, fileRepo, turnRepo, llmRouter)
	reportService := service.NewReportService(sessionRepo, fileRepo, insightRepo, turnRepo)
	adminService := service.NewAdminService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	fileHandler := handler.NewFileHandler(sessionService, fileService, cfg.Server.MaxUploadBytes)
	questionHandler := handler.NewQuestionHandler(sessionService, answerService, cfg.Analysis.DefaultHistoryLimit)
	analysisHandler := handler.NewAnalysisHandler(sessionService, insightService)
	reportHandler := handler.NewReportHandler(reportService)
	adminHandler := handler.NewAdminHandler(adminService)

	authMiddleware := custommw.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := custommw.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Create)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Patch("/", sessionHandler.Update)
					r.Delete("/", sessionHandler.Delete)

					r.Route("/files", func(r chi.Router) {
						r.Get("/", fileHandler.List)
						r.Post("/", fileHandler.Upload)

						r.Route("/{fileID}", func(r chi.Router) {
							r.Get("/download", fileHandler.Download)
							r.Get("/content", fileHandler.Content)
							r.Delete("/", fileHandler.Delete)
							r.Post("/analyze", analysisHandler.AnalyzeFile)
						})
					})

					r.Post("/question", questionHandler.Ask)
					r.Post("/question/stream", questionHandler.AskStream)
					r.Get("/turns", questionHandler.ListTurns)

					r.Post("/analyze", analysisHandler.AnalyzeText)
					r.Get("/insights", analysisHandler.ListInsights)

					r.Get("/report", reportHandler.Generate)
				})
			})

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)

				r.Get("/users", adminHandler.ListUsers)
				r.Patch("/users/{userID}/active", adminHandler.SetUserActive)
				r.Delete("/users/{userID}", adminHandler.DeleteUser)
				r.Post("/cache/flush", handler.FlushContextCache(contextCache))
			})
		})
	})

	return r
}

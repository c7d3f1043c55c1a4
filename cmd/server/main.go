package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/config"
	"github.com/hatif03/prepwise/internal/events"
	"github.com/hatif03/prepwise/internal/feedback"
	"github.com/hatif03/prepwise/internal/handlers"
	"github.com/hatif03/prepwise/internal/jobs"
	"github.com/hatif03/prepwise/internal/llm"
	_ "github.com/hatif03/prepwise/internal/llm/gemini"
	"github.com/hatif03/prepwise/internal/metrics"
	"github.com/hatif03/prepwise/internal/prompts"
	"github.com/hatif03/prepwise/internal/questions"
	"github.com/hatif03/prepwise/internal/repositories"
	"github.com/hatif03/prepwise/internal/repositories/memory"
	mongorepo "github.com/hatif03/prepwise/internal/repositories/mongo"
	"github.com/hatif03/prepwise/internal/routers"
	"github.com/hatif03/prepwise/internal/session"
	"github.com/hatif03/prepwise/internal/voice"
)

func registerRoutes(router *chi.Mux, cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	interviewHandler *handlers.InterviewHandler,
	questionHandler *handlers.QuestionHandler,
	sessionHandler *handlers.SessionHandler,
) {
	routers.HealthRoutes(router, healthHandler)
	routers.AuthRoutes(router, authHandler)
	routers.InterviewRoutes(router, interviewHandler, cfg.JWTSecret)
	routers.QuestionRoutes(router, questionHandler, cfg.JWTSecret)
	routers.SessionRoutes(router, sessionHandler, cfg.JWTSecret)
}

// initStores connects to mongo when MONGO_URI is set; otherwise the process
// runs on in-memory stores, which is what local development uses.
func initStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (
	repositories.InterviewRepository,
	repositories.FeedbackRepository,
	repositories.UserRepository,
	func(context.Context) error,
) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, using in-memory stores")
		return memory.NewInterviewStore(), memory.NewFeedbackStore(), memory.NewUserStore(),
			func(context.Context) error { return nil }
	}

	client, err := mongorepo.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to mongo", zap.Error(err))
	}
	interviews, err := mongorepo.NewInterviewRepo(client, cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to initialize interview store", zap.Error(err))
	}
	feedbacks, err := mongorepo.NewFeedbackRepo(client, cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to initialize feedback store", zap.Error(err))
	}
	users, err := mongorepo.NewUserRepo(client, cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to initialize user store", zap.Error(err))
	}
	return interviews, feedbacks, users, client.Disconnect
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("port", cfg.Port))

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	ctx := context.Background()
	interviews, feedbacks, users, closeStores := initStores(ctx, cfg, logger)

	// session_ended events are published only when redis is configured;
	// nothing in the session path requires them.
	var notifier events.Notifier
	var publisher *events.Publisher
	if cfg.RedisAddr != "" {
		publisher = events.NewPublisher(cfg.RedisAddr, logger)
		notifier = publisher
	}

	generator := feedback.NewGenerator(aiProvider, promptManager, feedbacks, logger)
	questionService := questions.NewService(aiProvider, promptManager, logger)

	registry := session.NewRegistry()
	reaper := jobs.NewSessionReaperJob(registry, &jobs.ReaperConfig{
		Schedule: cfg.ReaperSchedule,
		MaxAge:   cfg.SessionMaxAge,
	}, logger)
	if err := reaper.Start(); err != nil {
		logger.Fatal("Failed to start session reaper", zap.Error(err))
	}

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret, logger)
	interviewHandler := handlers.NewInterviewHandler(interviews, feedbacks, logger)
	questionHandler := handlers.NewQuestionHandler(questionService)
	sessionHandler := handlers.NewSessionHandler(
		registry,
		interviews,
		generator,
		notifier,
		func() session.Caller { return voice.NewClient(cfg.VoiceGatewayURL, logger) },
		handlers.SessionHandlerConfig{
			WorkflowID:  cfg.VoiceWorkflowID,
			AssistantID: cfg.VoiceAssistantID,
		},
		logger,
	)

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware())

	router.Handle("/metrics", metrics.Handler())

	registerRoutes(router, cfg, healthHandler, authHandler, interviewHandler, questionHandler, sessionHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	reaper.Stop()

	// Disconnect live sessions so their feedback handoffs run before exit.
	registry.Each(func(m *session.Machine) {
		m.Disconnect()
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if publisher != nil {
		publisher.Close()
	}
	if err := closeStores(shutdownCtx); err != nil {
		logger.Warn("failed to close store connections", zap.Error(err))
	}

	logger.Info("Interview service exited")
}

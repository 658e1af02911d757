// @title Gemini Multi-Tool API
// @version 1.0
// @description Chat assistant, quiz generator and chat history backed by a generative model.
// @description State is kept per browser session through a cookie and is lost when the session ends.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gemini-multitool/internal/adapter"
	"gemini-multitool/internal/adapter/gateway"
	"gemini-multitool/internal/cache"
	"gemini-multitool/internal/config"
	"gemini-multitool/internal/handler"
	"gemini-multitool/internal/logger"
	"gemini-multitool/internal/middleware"
	"gemini-multitool/internal/service"
	"gemini-multitool/internal/session"

	_ "gemini-multitool/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration. A missing credential stops the process here.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize model gateway
	appLogger.Info("Initializing model gateway", zap.String("provider", cfg.LLM.Provider))
	modelGateway, err := gateway.New(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create model gateway", zap.Error(err))
	}

	// Initialize session store
	store, sessionCache, closeStore := newSessionStore(ctx, cfg, appLogger)
	defer closeStore()

	// Initialize services
	chatService := service.NewChatService(modelGateway)
	quizService := service.NewQuizService(modelGateway)

	sessions := middleware.NewSessionMiddleware(store, session.NewGuard(), cfg.Session)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	// RequestLogger wraps recover so requests that panic are logged too.
	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	handler.SetupRoutes(app, handler.Routes{
		Chat:       handler.NewChatHandler(chatService),
		Quiz:       handler.NewQuizHandler(quizService),
		History:    handler.NewHistoryHandler(chatService),
		Session:    handler.NewSessionHandler(sessions),
		Health:     handler.NewHealthHandler(sessionCache),
		Sessions:   sessions,
		Validation: middleware.NewValidationMiddleware(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}

// newSessionStore returns the configured store, the cache behind it (nil for
// the in-memory store) and a func releasing its resources.
func newSessionStore(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (session.Store, handler.Pinger, func()) {
	if cfg.Session.Store != config.SessionStoreRedis {
		appLogger.Info("Using in-memory session store", zap.Duration("ttl", cfg.Session.TTL))
		return session.NewMemoryStore(cfg.Session.TTL), nil, func() {}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))

	redisCache := adapter.NewRedisCache(redisClient)
	return session.NewCacheStore(redisCache, cfg.Session.TTL), redisCache, func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plateplanner/internal/api"
	"plateplanner/internal/auth"
	"plateplanner/internal/config"
	"plateplanner/internal/database"
	"plateplanner/internal/grocery"
	"plateplanner/internal/llm"
	"plateplanner/internal/logging"
	"plateplanner/internal/metrics"
	"plateplanner/internal/planner"
	"plateplanner/internal/recipe"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// 3. Initialize repositories
	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	userRepo := auth.NewRepository(db.SQL)

	// Check state lives in Redis when configured, SQLite otherwise.
	var checkStore grocery.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		checkStore = grocery.NewRedisStore(client)
		logger.Info("using redis check-state store", zap.String("addr", cfg.RedisAddr))
	} else {
		checkStore = grocery.NewSQLiteStore(db.SQL)
	}

	// 4. Initialize services
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTTTL)

	metricsStore := metrics.NewStore(db.SQL)

	// Expire import accounting rows older than 90 days once a day.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := metricsStore.Cleanup(ctx, 90)
			if err != nil {
				logger.Warn("import metrics cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("expired old import metrics", zap.Int64("deleted", deleted))
			}
		}
	}()

	// Gemini is the primary extraction provider, Groq the fallback.
	var importer api.RecipeImporter
	switch {
	case cfg.GeminiAPIKey != "":
		textGen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("failed to create Gemini client", zap.Error(err))
		}
		if closer, ok := textGen.(llm.Closer); ok {
			defer closer.Close()
		}
		imp := recipe.NewImporter(textGen, recipeRepo)
		imp.EnableMetrics(metricsStore, "gemini", cfg.GeminiModel)
		importer = imp
	case cfg.GroqAPIKey != "":
		imp := recipe.NewImporter(llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel), recipeRepo)
		imp.EnableMetrics(metricsStore, "groq", cfg.GroqModel)
		importer = imp
	default:
		logger.Info("no LLM API key set, recipe import disabled")
	}

	// 5. Wire the HTTP surface
	server := api.NewServer(logger, authService, recipeRepo, planRepo, checkStore, importer)
	server.EnableMetrics(metricsStore, cfg.DatabasePath)
	router := api.NewRouter(server, logger, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Start server with graceful shutdown
	go func() {
		logger.Info("plateplanner api listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

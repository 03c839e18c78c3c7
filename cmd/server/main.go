// SafeStreets livability report engine: accepts pre-computed urban analysis
// bundles and serves scored, classified, paginated reports.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apperrors "github.com/safestreets/livability-report/internal/errors"
	"github.com/safestreets/livability-report/internal/monitoring"
	"github.com/safestreets/livability-report/internal/policy"
	"github.com/safestreets/livability-report/internal/ratelimit"
	"github.com/safestreets/livability-report/internal/render"
	"github.com/safestreets/livability-report/internal/report"
	"github.com/safestreets/livability-report/internal/session"
	"github.com/safestreets/livability-report/internal/storage"
)

// @title SafeStreets Livability Report API
// @version 1.0
// @description Renders scored urban livability reports from analysis bundles.
// @BasePath /api/v1

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	policyProfile := getEnvOrDefault("POLICY_PROFILE", "default")
	redisURL := os.Getenv("REDIS_URL")
	port := getEnvOrDefault("PORT", "8080")
	sessionTTL := time.Duration(getEnvIntOrDefault("SESSION_TTL_MINUTES", 30)) * time.Minute

	// Policy is the only configuration surface: band tables, thresholds,
	// display parameters. A malformed profile stops the process here.
	cfg, err := policy.NewStore(dataDir).Load(policyProfile)
	if err != nil {
		slog.Error("Failed to load policy profile", "profile", policyProfile, "error", err)
		os.Exit(1)
	}

	assembler, err := report.NewAssembler(cfg)
	if err != nil {
		slog.Error("Invalid assembler configuration", "error", err)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		slog.Error("Failed to initialize report renderer", "error", err)
		os.Exit(1)
	}

	history, err := storage.New(dataDir)
	if err != nil {
		slog.Error("Failed to initialize report history", "error", err)
		os.Exit(1)
	}
	defer history.Close()

	sessions := session.NewStore(sessionTTL)
	defer sessions.Close()

	deps := &serverDeps{
		assembler: assembler,
		renderer:  renderer,
		sessions:  sessions,
		history:   history,
		metrics:   monitoring.NewMetrics(),
		logger:    monitoring.NewLogger(),
		limiter:   ratelimit.New(redisURL, ratelimit.DefaultConfig()),
	}

	r := setupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Report engine listening", "port", port, "policy_profile", policyProfile)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}

func setupRouter(deps *serverDeps) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(securityHeaders())
	r.Use(ratelimit.Middleware(deps.limiter))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", deps.handleHealth)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.POST("/analysis", deps.handleSubmitAnalysis)
		api.POST("/reports", deps.handleRenderReport)
		api.GET("/reports/:id", deps.handleGetReport)
		api.GET("/history", deps.handleHistory)
	}

	return r
}

func allowedOrigins() []string {
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		return []string{origins}
	}
	return []string{"http://localhost:5173"}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

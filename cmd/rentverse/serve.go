package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/handler"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/realtime"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/session"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, log := rt.cfg, rt.logger

	log.Info("starting rentverse",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("env", cfg.App.Env))

	ctx := cmd.Context()
	if serveMigrate {
		if err := rt.repo.Migrate(ctx); err != nil {
			return err
		}
	}

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	llm := service.NewLLMClient(cfg.LLM, log)
	if cfg.LLM.Enabled() {
		log.Info("language model enabled",
			zap.String("base_url", cfg.LLM.BaseURL),
			zap.String("model", cfg.LLM.Model))
	} else {
		log.Warn("language model disabled, search falls back to basic filters",
			zap.String("hint", "set LLM_API_KEY or GROQ_API_KEY"))
	}
	embedder := service.NewEmbeddingClient(cfg.Embedding, log)
	if !cfg.Embedding.Enabled() {
		log.Warn("embedding provider disabled, similar listings use stored vectors only",
			zap.String("hint", "set EMBEDDING_API_KEY"))
	}

	// Services
	hub := realtime.NewHub(rdb, log)
	settings := service.NewSettingsService(rt.repo)
	intent := service.NewIntentExtractor(llm, service.DefaultTaxonomy(),
		service.NewIntentCache(rdb, cfg.Search.IntentCacheTTL, log), log)
	ranker := service.NewRanker(llm, cfg.Search.DescriptionLimit, log)
	searchService := service.NewSearchService(rt.repo, intent, ranker, cfg.Search.ResultLimit, log)
	defer searchService.Wait()

	services := handler.Services{
		Auth:          service.NewAuthService(rt.repo, session.NewStore(rdb, cfg.Session.TTL), log),
		Search:        searchService,
		Listings:      service.NewListingService(rt.repo, settings, cfg.Search.BrowsePageSize, cfg.Search.BrowseMaxPage, log),
		Bookings:      service.NewBookingService(rt.repo, hub, log),
		Messages:      service.NewMessageService(rt.repo, hub),
		Notifications: service.NewNotificationService(rt.repo),
		Admin:         service.NewAdminService(rt.repo, settings, hub, log),
		Embeddings:    service.NewEmbeddingService(rt.repo, embedder, cfg.Embedding.Dimensions, log),
		Realtime:      hub,
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// Router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(handler.Recovery(), handler.RequestLogger(log), metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := rt.repo.Ping(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": cfg.App.Name,
			"version": Version,
		})
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler.Register(router.Group("/api"), services)

	// Frontend: embedded build (-tags embed) or development placeholder
	setupStaticFiles(router, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := handler.NewServer(addr, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

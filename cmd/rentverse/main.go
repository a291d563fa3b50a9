package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/config"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/logger"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

// Set at build time with -ldflags "-X main.Version=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rentverse",
	Short: "RentVerse rental marketplace backend",
	Long: `rentverse serves the RentVerse marketplace API.

Examples:
  rentverse serve
  rentverse migrate
  rentverse reindex --batch 50`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rentverse %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand needs after startup
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   *repository.PostgresRepository
}

func (rt *app) Close() {
	rt.repo.Close()
	_ = rt.logger.Sync()
}

// bootstrap loads configuration, builds the logger and connects to PostgreSQL.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.App.Env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, err
	}
	log.Info("connected to PostgreSQL", zap.String("host", cfg.PostgreSQL.Host))

	return &app{cfg: cfg, logger: log, repo: repo}, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

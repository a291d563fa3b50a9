package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

var reindexBatch int

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Embed active listings that have no vector yet",
	Long: `Embed every ACTIVE listing without an embedding using the configured
embedding provider. Similar-listing lookups only see embedded listings.

Examples:
  rentverse reindex
  rentverse reindex --batch 25`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().IntVar(&reindexBatch, "batch", 0, "listings per embedding request (default embedding.batch_size)")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()

	batch := reindexBatch
	if batch <= 0 {
		batch = rt.cfg.Embedding.BatchSize
	}

	embedder := service.NewEmbeddingClient(rt.cfg.Embedding, rt.logger)
	svc := service.NewEmbeddingService(rt.repo, embedder, embedder.Dimensions(), rt.logger)

	result, err := svc.Reindex(cmd.Context(), batch)
	if err != nil {
		return err
	}
	rt.logger.Info("reindex finished",
		zap.Int("embedded", result.Embedded),
		zap.Int("failed", result.Failed),
		zap.Int("batches", result.Batches))
	if result.Failed > 0 {
		return fmt.Errorf("%d listings could not be embedded", result.Failed)
	}
	return nil
}

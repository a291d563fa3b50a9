package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the database schema. Every statement is idempotent, so running
migrate against an up-to-date database is a no-op.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.repo.Migrate(cmd.Context()); err != nil {
		return err
	}
	rt.logger.Info("database schema is up to date")
	return nil
}

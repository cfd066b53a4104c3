package main

import (
	"fmt"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Creates or upgrades the run history tables in the database named by database.url (or DATABASE_URL).",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Database.URL == "" {
		return fmt.Errorf("database.url (or DATABASE_URL) is required")
	}
	conn, err := db.Open(cmd.Context(), a.cfg.Database.URL, a.cfg.DatabaseOptions())
	if err != nil {
		return err
	}
	a.closers = append(a.closers, conn.Close)

	if err := db.Migrate(cmd.Context(), conn); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ migrations applied")
	return nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing rule evaluation, instruction compilation and scoring.
Tailoring is enabled when an LLM API key is configured and run history when database.url is set.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}
	if a.cfg.LLM.APIKey != "" {
		if err := a.withTailor(ctx); err != nil {
			return err
		}
	} else {
		a.logger.Warn().Msg("No LLM API key configured; /v1/tailor is disabled")
	}
	if err := a.withStore(ctx); err != nil {
		return err
	}
	if a.cfg.Metrics.Enabled {
		a.metrics = observability.NewMetrics()
	}

	deps := server.Deps{
		Engine:  a.engine,
		Scorer:  a.scorer,
		Tailor:  a.tailor,
		Metrics: a.metrics,
		Logger:  a.logger,
	}
	// a nil *db.RunStore must stay a nil interface
	if a.store != nil {
		deps.Store = a.store
	}

	srv, err := server.New(server.Config{
		Addr:         a.cfg.Server.Addr,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		CORSOrigin:   a.cfg.Server.CORSOrigin,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}

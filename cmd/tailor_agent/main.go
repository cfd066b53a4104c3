// Package main provides the tailor_agent CLI: rule evaluation, instruction
// compilation, scoring and full tailoring runs, plus the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tailor_agent",
	Short: "Hybrid résumé tailoring",
	Long: `tailor_agent tailors a structured résumé to a job posting. Deterministic rules decide
what to change, an LLM rewrites the text, and a recruiter-readiness score measures the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: ./tailor.yaml or $HOME/.tailor/tailor.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print human-readable summaries to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	cfgPath  string
)

var rootCmd = &cobra.Command{
	Use:   "routewise",
	Short: "Visit-sequencing optimizer for delivery and service routes",
	Long: `routewise plans stop-visit sequences under business constraints,
selecting among priority ordering, nearest-neighbor, genetic, simulated
annealing and multi-objective search, and returns a scored, explainable
route.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// no .env is the normal case outside local dev
		_ = godotenv.Load()
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file")
}

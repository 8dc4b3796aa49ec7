package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"routewise/internal/config"
	"routewise/internal/geo"
	"routewise/internal/history"
	"routewise/internal/model"
	"routewise/internal/opt"
)

var (
	problemPath string
	outPath     string
	algorithm   string
	mode        string
	preset      string
	seed        int64
	budgetMs    int
	debugScore  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Optimize a problem file and print the planned route",
	Long: `Reads a JSON problem file (stops, optional vehicles, constraints,
algorithm parameters), runs the optimization engine and writes the response
JSON to stdout or --out.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&problemPath, "problem", "", "Problem JSON file (required)")
	runCmd.Flags().StringVar(&outPath, "out", "", "Write response JSON here instead of stdout")
	runCmd.Flags().StringVar(&algorithm, "algorithm", "", "Override algorithm (priority, nearest_neighbor, genetic, simulated_annealing, multi_objective)")
	runCmd.Flags().StringVar(&mode, "mode", "", "Entry mode: unified or cost")
	runCmd.Flags().StringVar(&preset, "preset", "", "Scoring preset")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	runCmd.Flags().IntVar(&budgetMs, "budget-ms", 0, "Elapsed-time budget in milliseconds")
	runCmd.Flags().BoolVar(&debugScore, "debug-score", false, "Include the scoring formula in the response")

	_ = runCmd.MarkFlagRequired("problem")
	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}
	var req model.OptimizeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse problem: %w", err)
	}
	if algorithm != "" {
		req.Algorithm = algorithm
	}
	if mode != "" {
		req.Mode = mode
	}
	if preset != "" {
		req.Preset = preset
	}
	if seed != 0 {
		req.Seed = seed
	}
	if budgetMs > 0 {
		req.TimeBudgetMs = budgetMs
	}
	if debugScore {
		req.Debug = true
	}

	engine := opt.NewEngine(cfg, engineOptions(cfg)...)

	slog.Info("starting optimization", "stops", len(req.Stops), "algorithm", req.Algorithm, "mode", req.Mode)
	start := time.Now()
	resp, err := engine.Optimize(cmd.Context(), req)
	if err != nil {
		return err
	}
	slog.Info("optimization finished",
		"runId", resp.RunID,
		"algorithm", resp.Metrics.Algorithm,
		"fallback", resp.Metrics.Fallback,
		"dropped", len(resp.Dropped),
		"elapsed", time.Since(start).String(),
	)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(outPath, out, 0o644)
}

// engineOptions wires the optional collaborators from configuration: a
// redis-backed geocode cache when REDIS_URL is set, a Postgres run history
// when DATABASE_URL is set.
func engineOptions(cfg config.Config) []opt.Option {
	var opts []opt.Option

	resolver := geo.Resolver(staticResolverFromEnv())
	resolver = geo.NewRateLimitedResolver(resolver, cfg.GeocodeRPS, 1)
	var cache geo.Cache
	if cfg.RedisURL != "" {
		rc, err := geo.NewRedisCache(cfg.RedisURL, 30*24*time.Hour)
		if err != nil {
			slog.Warn("redis geocode cache unavailable, using memory", "err", err)
		} else {
			cache = rc
		}
	}
	opts = append(opts, opt.WithResolver(geo.NewCachingResolver(resolver, cache)))

	if cfg.DatabaseURL != "" {
		pg, err := history.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			slog.Warn("run history database unavailable, using memory", "err", err)
			opts = append(opts, opt.WithHistory(history.NewMemory()))
		} else {
			opts = append(opts, opt.WithHistory(pg))
		}
	} else {
		opts = append(opts, opt.WithHistory(history.NewMemory()))
	}
	return opts
}

// staticResolverFromEnv loads an optional address table (JSON object of
// address -> {lat,lng}) named by GEOCODE_TABLE. Stops without coordinates
// resolve against it; everything else is dropped with a diagnostic, matching
// how a failed upstream geocoder is handled.
func staticResolverFromEnv() geo.StaticResolver {
	table := geo.StaticResolver{}
	path := os.Getenv("GEOCODE_TABLE")
	if path == "" {
		return table
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("geocode table unreadable", "path", path, "err", err)
		return table
	}
	if err := json.Unmarshal(raw, &table); err != nil {
		slog.Warn("geocode table invalid", "path", path, "err", err)
	}
	return table
}

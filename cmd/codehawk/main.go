package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/codehawk/codehawk/internal/config"
	"github.com/codehawk/codehawk/internal/orchestrator"
	"github.com/codehawk/codehawk/internal/types"
	"github.com/codehawk/codehawk/internal/version"
	"github.com/codehawk/codehawk/internal/watch"
)

func main() {
	app := &cli.App{
		Name:                   "codehawk",
		Usage:                  "Static analysis pipeline for multi-language source trees",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to analyze",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit KDL config file (default: .codehawk.kdl in the root)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/generated/**')",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json or summary",
				Value:   "summary",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall analysis timeout (0 = none)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Run all enabled analyzers once and print the result",
				Action: runAnalyze,
			},
			{
				Name:  "watch",
				Usage: "Analyze, then re-analyze whenever the tree changes",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before re-analysis",
						Value: 500 * time.Millisecond,
					},
				},
				Action: runWatch,
			},
		},
		DefaultCommand: "analyze",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func loadConfig(c *cli.Context) (*config.Config, string, error) {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve root %q: %w", c.String("root"), err)
	}

	var cfg *config.Config
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(root, path)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, "", err
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, excludes...)
	}
	return cfg, root, nil
}

func runAnalyze(c *cli.Context) error {
	logger, err := buildLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, root, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c.Duration("timeout"))
	defer cancel()

	runner := orchestrator.NewRunner(logger)
	result, err := runner.Run(ctx, root, cfg)
	if err != nil {
		return err
	}

	return printResult(c.String("format"), result)
}

func runWatch(c *cli.Context) error {
	logger, err := buildLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, root, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(0)
	defer cancel()

	runner := orchestrator.NewRunner(logger)
	analyze := func() {
		result, err := runner.Run(ctx, root, cfg)
		if err != nil {
			logger.Error("analysis failed", zap.Error(err))
			return
		}
		if err := printResult(c.String("format"), result); err != nil {
			logger.Error("failed to print result", zap.Error(err))
		}
	}

	analyze()

	watcher := watch.New(cfg, c.Duration("debounce"), logger, analyze)
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM and,
// when timeout is positive, by the deadline.
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancelTimeout()
		stop()
	}
}

func printResult(format string, result *types.AnalysisResult) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "summary":
		printSummary(result)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or summary)", format)
	}
}

func printSummary(result *types.AnalysisResult) {
	fmt.Printf("Files:  %d (%d lines)\n", result.Summary.TotalFiles, result.Summary.TotalLines)
	if len(result.Summary.Languages) > 0 {
		fmt.Printf("Languages: %v\n", result.Summary.Languages)
	}
	fmt.Printf("Score:  %.1f/100\n", result.OverallScore)
	fmt.Printf("Issues: %d\n", len(result.Issues))

	for _, severity := range []types.Severity{
		types.SeverityCritical, types.SeverityHigh, types.SeverityMedium,
		types.SeverityLow, types.SeverityInfo,
	} {
		if count := result.Summary.SeverityCounts[severity]; count > 0 {
			fmt.Printf("  %-8s %d\n", severity, count)
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pgxboard/cmd/pgxboard/config"
	"pgxboard/cmd/pgxboard/dash"
	"pgxboard/internal/analyze"
	"pgxboard/internal/logging"
)

var (
	// Global flags
	verbose bool
	theme   string

	// Logger for headless subcommands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pgxboard",
	Short: "pgxboard - pharmacogenomic risk dashboard",
	Long: `pgxboard is a terminal dashboard for clinician-facing pharmacogenomic
risk analysis.

It validates a patient VCF file locally, submits it with one or more drug
names to the analysis backend at ` + analyze.DefaultBackend + `, and renders
the returned risk assessment as color-coded cards with annotation-gap
caveats.

Run without arguments to start the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The dashboard owns the terminal and builds its own file logger.
		if cmd.Use == "pgxboard" && cmd.CalledAs() == "pgxboard" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "Color theme: light or dark (default: auto-detect)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDashboard starts the interactive TUI.
func runDashboard() error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file falls back to defaults rather than blocking
		// the dashboard.
		cfg = config.DefaultConfig()
	}
	if theme != "" {
		cfg.Theme = theme
	}

	dir, err := config.Dir()
	if err != nil {
		dir = "."
	}
	sessionLog, err := logging.NewSession(dir, cfg.DebugLogging || verbose)
	if err != nil {
		return err
	}

	client := analyze.NewClient(sessionLog)
	return dash.Run(cfg, client, sessionLog)
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heap-snapshot/pkg/config"
	"github.com/heap-snapshot/pkg/telemetry"
	"github.com/heap-snapshot/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger            utils.Logger
	cfg               *config.Config
	shutdownTelemetry telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "heapsnap",
	Short: "Inspect V8 heap snapshots",
	Long: `heapsnap decodes .heapsnapshot files into a node and edge graph.

It validates the snapshot layout, tolerates producer format drift, and
prints per-type summaries, the global object, loaded modules and single
nodes with their references. Snapshots are read from local paths or from
the configured object storage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logLevel := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			logLevel = utils.LevelDebug
		}
		if cfg.Log.OutputPath != "" {
			fileLogger, err := utils.NewFileLogger(logLevel, cfg.Log.OutputPath)
			if err != nil {
				return err
			}
			logger = fileLogger
		} else {
			logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		}

		shutdown, err := telemetry.Init(cmd.Context(), telemetry.LoadFromEnv(Version))
		if err != nil {
			logger.Warn("Tracing disabled: %v", err)
		}
		shutdownTelemetry = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTelemetry != nil {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Warn("Failed to flush traces: %v", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// SIGINT and SIGTERM cancel in-flight decodes.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./heapsnap.yaml, ./configs, /etc/heapsnap)")

	binName := BinName()
	rootCmd.Example = `  # Summarize a snapshot
  ` + binName + ` inspect ./app.heapsnapshot

  # Summarize several snapshots and write JSON summaries
  ` + binName + ` inspect a.heapsnapshot b.heapsnapshot --json ./out

  # Read a snapshot from the configured object storage
  ` + binName + ` inspect dumps/app.heapsnapshot --from-storage -c ./heapsnap.yaml

  # Show one node and its references
  ` + binName + ` lookup ./app.heapsnapshot --id 12345`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}

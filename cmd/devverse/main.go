// Command devverse opens the DevVerse portfolio window.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/devverse"
	"github.com/phanxgames/devverse/config"
)

var (
	// Global flags
	configPath string
	debug      bool
	lang       string

	// Root command flags
	startPath  string
	scriptPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "devverse",
	Short: "DevVerse - an interactive developer portfolio",
	Long: `DevVerse shows a developer portfolio as a small universe: a parallax
starfield with one planet per section (about, projects, skills, blog,
contact).

Settings come from built-in defaults, the optional --config YAML file and
DEVVERSE_* environment variables, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if lang != "" {
			cfg.App.Language = lang
		}
		logger, err = buildLogger(cfg.Log, debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runApp,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s %-10s %s\n", "PATTERN", "PAGE", "PLANET")
		for _, rt := range devverse.DefaultRoutes() {
			planet := rt.Planet
			if planet == "" {
				planet = "-"
			}
			fmt.Fprintf(out, "%-14s %-10s %s\n", rt.Pattern, rt.Page, planet)
		}
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved theme, visited planets and achievements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear %s storage: %w", cfg.Storage.Driver, err)
		}
		logger.Info("profile data cleared", zap.String("driver", cfg.Storage.Driver))
		fmt.Fprintln(cmd.OutOrStdout(), "profile data cleared")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug logging and frame stats")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "UI language (BCP 47 tag, e.g. es)")

	rootCmd.Flags().StringVarP(&startPath, "start", "s", "/", "first path to open")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "JSON test script to run, then exit")

	rootCmd.AddCommand(routesCmd, resetCmd)
}

// buildLogger follows the config's level and mode; --debug forces the debug
// level.
func buildLogger(lc config.LogConfig, debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		lvl, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

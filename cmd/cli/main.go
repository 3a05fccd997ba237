package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/cmd/cli/commands"
	"github.com/jakechorley/rail-roster/internal/config"
	"github.com/jakechorley/rail-roster/pkg/metrics"
	"github.com/jakechorley/rail-roster/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	output     string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &commands.AppContext{
		Ctx: ctx,
		Out: os.Stdout,
	}

	rootCmd := &cobra.Command{
		Use:   "rail-roster",
		Short: "Rail Roster CLI - Fatigue scoring and working time compliance",
		Long: `A CLI tool for scoring rail shift rosters with the Risk Index and Fatigue Index
and checking them against working time rules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown(app)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (loads roster_config_<env>.yaml)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (overrides --env lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", commands.FormatText, "Output format: text, yaml or json")

	rootCmd.AddCommand(commands.ComputeFatigueCmd(app))
	rootCmd.AddCommand(commands.EmployeeFatigueCmd(app))
	rootCmd.AddCommand(commands.CheckComplianceCmd(app))
	rootCmd.AddCommand(commands.CheckProjectCmd(app))
	rootCmd.AddCommand(commands.ValidateAssignmentCmd(app))
	rootCmd.AddCommand(commands.ExpandRosterCmd(app))
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRun is skipped when RunE fails
		shutdown(app)
		os.Exit(1)
	}
}

// initApp sets up logger and config. The roster store is opened by the first command that needs it.
func initApp(app *commands.AppContext) error {
	var err error

	if err := commands.ValidateFormat(output); err != nil {
		return err
	}
	app.Format = output

	app.Logger, err = logging.New(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	if configPath != "" {
		app.Logger.Debug("Loading configuration", zap.String("path", configPath))
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Logger.Debug("Loading configuration", zap.String("environment", env))
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger.Debug("Configuration loaded successfully",
		zap.String("roster_source", app.Cfg.RosterSource),
		zap.Int("roster_rules", len(app.Cfg.RosterRules)))

	return nil
}

// shutdown writes metrics, closes the store and flushes the logger. Safe to call more than once.
func shutdown(app *commands.AppContext) {
	app.Close()

	if app.Logger == nil {
		return
	}

	if app.Cfg != nil && app.Cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(app.Cfg.MetricsFile); err != nil {
			app.Logger.Warn("Failed to write metrics", zap.String("path", app.Cfg.MetricsFile), zap.Error(err))
		} else {
			app.Logger.Debug("Metrics written", zap.String("path", app.Cfg.MetricsFile))
		}
	}

	app.Logger.Sync()
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/config"
	"github.com/Veraticus/sprout/internal/metrics"
)

var (
	cfgFile   string
	version   = "dev"
	appConfig *config.Config
	// storeMetrics collects statement timings for every store opened by this process.
	storeMetrics = metrics.NewMetrics()
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sprout",
		Short: cli.SproutIcon + " Personal finance tracker",
		Long: `sprout keeps a local ledger of your income and expenses, monthly
budgets and savings goals, and tells you where the money went.`,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: reportMetrics,
		SilenceUsage:       true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/sprout/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database file (default: $HOME/.local/share/sprout/sprout.db)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().Bool("metrics", false, "print datastore statement metrics after the command")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(methodsCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(txCmd())
	rootCmd.AddCommand(budgetCmd())
	rootCmd.AddCommand(goalCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.Describe(err)))
		slog.Debug("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}

	// An explicit --db wins over config file and environment
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		v.Set("database.path", dbPath)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	appConfig = cfg

	if err := common.SetupLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Configuration loaded", "database", cfg.Database.Path, "config_file", v.ConfigFileUsed())
	return nil
}

func reportMetrics(cmd *cobra.Command, _ []string) error {
	show, _ := cmd.Flags().GetBool("metrics")
	if !show {
		return nil
	}

	counts, err := storeMetrics.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{
			c.Verb,
			fmt.Sprintf("%d", c.Count),
			fmt.Sprintf("%.0f", c.Errors),
			fmt.Sprintf("%.2fms", c.Seconds*1000),
		})
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTable([]string{"Verb", "Statements", "Errors", "Time"}, rows))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sprout %s\n", version)
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"balance_reporter/internal/app/port"
	"balance_reporter/internal/app/service"
	"balance_reporter/internal/infrastructure/configloader"
	"balance_reporter/internal/infrastructure/metrics"
	"balance_reporter/internal/infrastructure/protocol/conflux"
	"balance_reporter/internal/infrastructure/protocol/evm"
	"balance_reporter/internal/infrastructure/report"
	"balance_reporter/internal/pkg/logger"
	"balance_reporter/internal/pkg/utils"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yml"

type options struct {
	configPath  string
	networks    []string
	timeout     int
	output      string
	logLevel    string
	metricsFile string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print native token balances of the configured accounts on every network",
		Long: `balance queries every configured network for the native balance of each account,
trying a Conflux Core client first and an EVM JSON-RPC client second,
and prints one table per network.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, opts, os.Stdout)
		},
	}

	networksCmd := &cobra.Command{
		Use:   "networks",
		Short: "List configured networks and their masked accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return listNetworks(cfg, os.Stdout)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().StringSliceVarP(&opts.networks, "network", "n", nil, "Only query the named network (repeatable)")
	rootCmd.Flags().IntVarP(&opts.timeout, "timeout", "t", 0, "Per-attempt RPC timeout in seconds, 0 disables it (overrides config)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output format: table or json (overrides config)")
	rootCmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")

	rootCmd.AddCommand(networksCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to execute command", "error", err)
	}
	logger.Sync()
}

func loadConfig(cmd *cobra.Command, opts *options) (*configloader.Config, error) {
	if opts.logLevel != "" {
		logger.Init(opts.logLevel, os.Stderr)
	}
	configloader.LoadEnvironment()

	cfg, err := configloader.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		level = opts.logLevel
	}
	logger.Init(level, os.Stderr)
	logger.Debug("Configuration loaded", "path", opts.configPath, "networks", len(cfg.Networks))
	return cfg, nil
}

func runBalance(cmd *cobra.Command, opts *options, stdout io.Writer) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	timeout := cfg.RPCTimeout()
	if cmd.Flags().Changed("timeout") {
		if opts.timeout < 0 {
			return fmt.Errorf("--timeout must not be negative, got %d", opts.timeout)
		}
		timeout = time.Duration(opts.timeout) * time.Second
	}
	output := cfg.Output
	if cmd.Flags().Changed("output") {
		output = strings.ToLower(opts.output)
		if err := configloader.ValidateOutput(output); err != nil {
			return err
		}
	}
	metricsFile := cfg.MetricsFile
	if cmd.Flags().Changed("metrics-file") {
		metricsFile = opts.metricsFile
	}

	entries, err := cfg.NetworkEntries(opts.networks)
	if err != nil {
		return err
	}

	var reporter port.Reporter
	switch output {
	case configloader.OutputJSON:
		reporter = report.NewJSONReporter(stdout)
	default:
		reporter = report.NewTableReporter(stdout)
	}

	appLogger := logger.NewSlogAdapter()
	recorder := metrics.NewRecorder()
	resolver := service.NewBalanceResolver(
		conflux.NewClient(appLogger.With("protocol", conflux.ProtocolName)),
		evm.NewClient(appLogger.With("protocol", evm.ProtocolName)),
		reporter,
		recorder,
		appLogger,
		timeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results := resolver.ResolveAll(ctx, entries)
	logger.Info("Balance check finished",
		"networks", len(entries),
		"reported", len(results),
		"elapsed", time.Since(start).Round(time.Millisecond).String())

	if metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			logger.Error("Failed to write metrics file", "path", metricsFile, "error", err)
		}
	}
	return nil
}

func listNetworks(cfg *configloader.Config, out io.Writer) error {
	for _, name := range cfg.NetworkNames() {
		network := cfg.Networks[name]
		endpoint := network.URL
		if endpoint == "" {
			endpoint = "(no url, skipped)"
		}
		labels := make([]string, 0, len(network.Accounts))
		for _, account := range network.Accounts {
			labels = append(labels, utils.MaskSecret(account))
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", report.PadNetworkName(name), endpoint, strings.Join(labels, ", ")); err != nil {
			return err
		}
	}
	return nil
}

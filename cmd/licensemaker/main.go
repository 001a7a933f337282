// Package main is the entrypoint for the licensemaker CLI.
//
// @title           licensemaker API
// @version         1.0
// @description     Issues signed, Base64-encoded software license files.
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @BasePath  /api/v1
package main

//go:generate swag init -g cmd/licensemaker/main.go -d ../../ -o ../../internal/api/docs --outputTypes go

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/MacJediWizard/licensemaker/internal/config"
	"github.com/MacJediWizard/licensemaker/internal/issuance"
	"github.com/MacJediWizard/licensemaker/internal/ledger"
	"github.com/MacJediWizard/licensemaker/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by subcommands once the root pre-run has
// loaded configuration.
type app struct {
	configPath string
	keyPath    string
	scheme     string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "licensemaker",
		Short: "Issue signed software license files",
		Long: `licensemaker builds signed, Base64-encoded license files for
customers from a date range and a set of licensed modules.

Without a private key licenses carry a SHA-256 checksum; configure
key_path (or pass --key) to sign them with RSA.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.licensemaker/config.yml)")
	flags.StringVar(&a.keyPath, "key", "", "RSA private key in PEM format (overrides key_path)")
	flags.StringVar(&a.scheme, "scheme", "", "license scheme: modular or legacy")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newIssueCmd(a),
		newDecodeCmd(a),
		newModulesCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)

	return rootCmd
}

// load reads the config file, applies environment and flag overrides, and
// builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
		a.configPath = path
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	if cmd.Flags().Changed("key") {
		cfg.KeyPath = a.keyPath
	}
	if a.scheme != "" {
		cfg.Scheme = a.scheme
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.LogLevel)
	return nil
}

// newLogger builds the root logger: JSON on stdout in production, console
// output on stderr otherwise.
func newLogger(level string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if config.LoadEnvironment() != config.EnvProduction {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

// openService builds the issuance service. The returned cleanup closes the
// ledger and is always safe to call.
func (a *app) openService(m *metrics.PrometheusMetrics) (*issuance.Service, *ledger.SQLiteStore, func(), error) {
	issuer, err := a.cfg.NewIssuer()
	if err != nil {
		return nil, nil, func() {}, err
	}

	if a.cfg.DisableLedger {
		return issuance.NewService(issuer, nil, m, a.logger), nil, func() {}, nil
	}

	store, err := a.openLedger()
	if err != nil {
		return nil, nil, func() {}, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close ledger")
		}
	}
	return issuance.NewService(issuer, store, m, a.logger), store, cleanup, nil
}

func (a *app) openLedger() (*ledger.SQLiteStore, error) {
	path, err := a.cfg.ResolvedLedgerPath()
	if err != nil {
		return nil, err
	}
	store, err := ledger.NewSQLiteStore(path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return store, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "licensemaker %s\n", Version)
			fmt.Fprintf(out, "  Commit:     %s\n", Commit)
			fmt.Fprintf(out, "  Built:      %s\n", BuildDate)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

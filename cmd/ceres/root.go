package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sentinel-hq/ceres/pkg/cli"
	"sentinel-hq/ceres/pkg/compliance/rules"
	"sentinel-hq/ceres/pkg/config"
	"sentinel-hq/ceres/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ceres",
	Short: "Sentinel Ceres - compliance inspection engine",
	Long: `Sentinel Ceres inspects text content for regulatory compliance.

It provides:
  - Sensitive entity detection (SSN, credit cards, emails, API keys)
  - Prompt injection detection
  - Rule-based evaluation against HIPAA, GDPR, PCI-DSS, and custom frameworks
  - Composite risk scoring with actionable recommendations
  - Configurable redaction strategies with reversible mappings
  - A hash-only audit trail with retention policies

For more information, visit: https://github.com/sentinel-hq/ceres`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command under a signal-aware context and maps the
// returned error to the process exit status.
func Execute() {
	if err := rootCmd.ExecuteContext(cli.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file named by --config, or defaults
// when no file was given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// setupLogging installs the configured process logger. Verbose mode forces
// debug level.
func setupLogging(cfg *config.Config) error {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// loadRules builds the rule store from the configured path, falling back to
// the built-in rule set. Files that fail to parse are reported as warnings;
// the store built from the remaining files is still used.
func loadRules(cfg *config.Config) (*rules.Store, error) {
	if cfg.Rules.Path == "" {
		return rules.LoadDefault()
	}

	store, err := rules.LoadDir(cfg.Rules.Path)
	var errList *rules.ErrorList
	if errors.As(err, &errList) && store != nil && store.Len() > 0 {
		slog.Warn("some rule files failed to load",
			"path", cfg.Rules.Path,
			"errors", errList.Error(),
		)
		return store, nil
	}
	return store, err
}

// parseFrameworks converts framework names to their canonical form.
func parseFrameworks(names []string) ([]rules.Framework, error) {
	out := make([]rules.Framework, 0, len(names))
	for _, name := range names {
		fw, err := rules.ParseFramework(name)
		if err != nil {
			return nil, err
		}
		out = append(out, fw)
	}
	return out, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"sentinel-hq/ceres/pkg/compliance/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate compliance rule files",
}

var rulesLintFlags struct {
	file   string
	dir    string
	format string
}

var rulesLintCmd = &cobra.Command{
	Use:     "lint",
	Aliases: []string{"validate"},
	Short:   "Validate rule files",
	Long: `Validate compliance rule files for syntax and semantic errors.

The lint command parses rule files and performs full validation:
  - YAML syntax validation with unknown-key rejection
  - Framework, severity, and action validation
  - Regex pattern compilation
  - Duplicate rule ID detection

Examples:
  # Lint a single file
  ceres rules lint --file hipaa.yaml

  # Lint a directory
  ceres rules lint --dir rules/

  # JSON output for CI
  ceres rules lint --dir rules/ --format json`,
	RunE: runRulesLint,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded frameworks and rules",
	RunE:  runRulesList,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesLintCmd)
	rulesCmd.AddCommand(rulesListCmd)

	rulesLintCmd.Flags().StringVarP(&rulesLintFlags.file, "file", "f", "", "rule file to validate")
	rulesLintCmd.Flags().StringVarP(&rulesLintFlags.dir, "dir", "d", "", "directory of rule files")
	rulesLintCmd.Flags().StringVar(&rulesLintFlags.format, "format", "text", "output format: text, json")
}

// lintResult is the validation outcome for a single rule file.
type lintResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Rules  int      `json:"rules"`
	Errors []string `json:"errors,omitempty"`
}

func runRulesLint(cmd *cobra.Command, args []string) error {
	if rulesLintFlags.file == "" && rulesLintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if rulesLintFlags.file != "" {
		files = append(files, rulesLintFlags.file)
	}
	if rulesLintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(rulesLintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule files: %w", err)
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule files found")
	}

	results := make([]lintResult, 0, len(files))
	failed := false
	for _, file := range files {
		result := lintResult{File: file, Valid: true}
		_, loaded, err := rules.LoadFile(file)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
			failed = true
		}
		result.Rules = len(loaded)
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	if rulesLintFlags.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Valid {
				fmt.Fprintf(out, "ok   %s (%d rules)\n", result.File, result.Rules)
				continue
			}
			fmt.Fprintf(out, "FAIL %s\n", result.File)
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "     %s\n", msg)
			}
		}
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	store, err := loadRules(cfg)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, fw := range store.Frameworks() {
		ruleSet, err := store.RulesFor(fw)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%d rules)\n", fw, len(ruleSet))
		for _, rule := range ruleSet {
			fmt.Fprintf(out, "  %-28s %-8s %-6s %s\n", rule.ID, rule.Severity, rule.Action, rule.Name)
		}
	}
	return nil
}

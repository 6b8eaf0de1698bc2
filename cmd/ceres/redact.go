package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sentinel-hq/ceres/pkg/compliance/redact"
	"sentinel-hq/ceres/pkg/detect"
)

var redactFlags struct {
	text        string
	file        string
	strategy    string
	hashKey     string
	types       []string
	showMapping bool
}

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Redact sensitive entities from text",
	Long: `Detect sensitive entities in text and replace them using the selected
redaction strategy.

Strategies:
  token      Replace with a type token, e.g. [SSN] (default)
  full_mask  Replace with a fixed-width mask: ****
  partial    Keep first and last characters, mask the middle
  hash       Replace with a type-tagged digest, e.g. [SSN:a1b2c3d4]

Examples:
  # Token redaction of all entity types
  ceres redact --text "reach me at jane@example.com"

  # Redact only SSNs and credit cards, keyed hash output
  ceres redact --file note.txt --types SSN,CREDIT_CARD --strategy hash --hash-key secret

  # Emit the substitution mapping for reversible workflows
  ceres redact --text "..." --show-mapping`,
	RunE: runRedact,
}

func init() {
	rootCmd.AddCommand(redactCmd)

	redactCmd.Flags().StringVarP(&redactFlags.text, "text", "t", "", "text to redact")
	redactCmd.Flags().StringVarP(&redactFlags.file, "file", "f", "", "file to redact")
	redactCmd.Flags().StringVar(&redactFlags.strategy, "strategy", "token", "redaction strategy: token, full_mask, partial, hash")
	redactCmd.Flags().StringVar(&redactFlags.hashKey, "hash-key", "", "HMAC key for the hash strategy")
	redactCmd.Flags().StringSliceVar(&redactFlags.types, "types", nil, "entity types to redact (default: all)")
	redactCmd.Flags().BoolVar(&redactFlags.showMapping, "show-mapping", false, "print the substitution mapping as JSON")
}

func runRedact(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	text, err := readInput(redactFlags.text, redactFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	strategy, err := redact.ParseStrategy(redactFlags.strategy, []byte(redactFlags.hashKey))
	if err != nil {
		return err
	}

	detector := detect.NewRegexDetector(redactFlags.types...)
	redactor := redact.NewRedactor(nil)

	redacted, mapping := redactor.Redact(text, detector.Detect(text), strategy)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, redacted)

	if redactFlags.showMapping {
		entries := make([]redactionJSON, 0, len(mapping))
		for _, entry := range mapping {
			entries = append(entries, redactionJSON{
				Type:        entry.EntityType,
				Start:       entry.Start,
				End:         entry.End,
				Replacement: entry.Replacement,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	}
	return nil
}

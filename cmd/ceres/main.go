// Sentinel Ceres is a compliance inspection engine for text content.
//
// It detects sensitive entities and prompt injection attempts, evaluates
// text against regulatory rule sets (HIPAA, GDPR, PCI-DSS, and others),
// scores the combined risk, and redacts what it found.
//
// Usage:
//
//	# Scan text against all loaded frameworks
//	ceres scan --text "Patient SSN is 123-45-6789"
//
//	# Scan a file against specific frameworks
//	ceres scan --file note.txt --frameworks HIPAA,GDPR
//
//	# Redact detected entities
//	ceres redact --text "reach me at jane@example.com" --strategy token
//
//	# Validate rule files
//	ceres rules lint --dir rules/
//
//	# Inspect the audit trail
//	ceres audit list --limit 20
//
// For complete documentation, see: https://github.com/sentinel-hq/ceres
package main

func main() {
	Execute()
}

package rules

import "embed"

//go:embed definitions/*.yaml
var defaultDefinitions embed.FS

// LoadDefault loads the rule set shipped with the module (HIPAA, GDPR,
// PCI-DSS, and a generic secret-hygiene framework). The embedded files go
// through exactly the same strict validation as files loaded from disk.
func LoadDefault() (*Store, error) {
	return LoadFS(defaultDefinitions, "definitions")
}

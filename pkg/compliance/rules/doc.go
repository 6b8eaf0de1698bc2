// Package rules provides loading, validation, and indexing of declarative
// compliance rules grouped by regulatory framework (HIPAA, GDPR, PCI-DSS, ...).
//
// Rules are authored as YAML documents, one file per framework, and parsed
// through a strict parse-then-validate boundary: unknown keys, unknown
// severity/action/framework values, and regex patterns that do not compile
// are all rejected at load time rather than coerced or silently skipped.
//
// A loaded Store is immutable. It is safe for unsynchronized concurrent reads
// and is passed explicitly into consumers (the compliance engine) rather than
// held in package-level state.
//
// # Rule file format
//
//	framework: HIPAA
//	rules:
//	  - id: hipaa-phi-ssn
//	    name: Social Security Number exposure
//	    severity: critical
//	    action: block
//	    entity_types: [SSN]
//	    keywords: [medical, diagnosis]
//	    pattern: '\b\d{3}-\d{2}-\d{4}\b'
//	    remediation: Redact the SSN before processing.
//
// A rule matches only if every criterion present on it is satisfied
// (conjunctive semantics). A rule with no criteria never matches.
//
// # Loading
//
//	store, err := rules.LoadDir("rules/")
//	if err != nil {
//	    // err may be an *ErrorList: frameworks whose files parsed cleanly
//	    // are still available in store, failed files are reported per-file.
//	}
//	hipaa := store.RulesFor(rules.FrameworkHIPAA)
package rules

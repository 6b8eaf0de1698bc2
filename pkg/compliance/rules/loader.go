package rules

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ruleFile is the intermediate structure for a single framework file.
// Field tags are exhaustive: decoding runs with KnownFields enabled, so any
// key not listed here is rejected at parse time instead of becoming a no-op.
type ruleFile struct {
	Framework string     `yaml:"framework"`
	Rules     []ruleSpec `yaml:"rules"`
}

// ruleSpec is the intermediate structure for a single rule entry.
type ruleSpec struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Severity    string   `yaml:"severity"`
	Action      string   `yaml:"action"`
	EntityTypes []string `yaml:"entity_types"`
	Keywords    []string `yaml:"keywords"`
	Pattern     string   `yaml:"pattern"`
	Remediation string   `yaml:"remediation"`
}

// ruleFileExtensions are the file extensions recognized by LoadDir.
var ruleFileExtensions = []string{".yaml", ".yml"}

// maxRuleFileSize bounds a single rule file. Rule files are hand-edited
// documents; anything this large is a mistake, not a framework.
const maxRuleFileSize = 1 << 20 // 1 MiB

// LoadFile loads and validates one framework file, returning the file's
// framework alongside its rules. A valid file with zero rules returns the
// framework and an empty rule list. Loading is all-or-nothing for the file:
// the first invalid rule fails the whole file so that a typo'd rule is never
// silently dropped.
func LoadFile(path string) (Framework, []*Rule, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, &LoadError{Path: path, Message: "file not found", Cause: err}
		}
		return "", nil, &LoadError{Path: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return "", nil, &LoadError{Path: path, Message: "not a regular file"}
	}
	if info.Size() > maxRuleFileSize {
		return "", nil, &LoadError{
			Path:    path,
			Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), maxRuleFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	return ParseRules(data, path)
}

// ParseRules parses rule definitions from YAML bytes, returning the document's
// framework alongside its rules so that a framework with zero rules is still
// reported. The source name is used only for error reporting.
func ParseRules(data []byte, source string) (Framework, []*Rule, error) {
	if !utf8.Valid(data) {
		return "", nil, &LoadError{Path: source, Message: "file contains invalid UTF-8 encoding"}
	}

	var file ruleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			// Empty document: a framework with zero rules is valid,
			// but an empty file has no framework to attach them to.
			return "", nil, &ValidationError{Source: source, Field: "framework", Message: "document is empty"}
		}
		return "", nil, &ValidationError{Source: source, Message: "YAML parsing failed", Cause: err}
	}

	framework, err := ParseFramework(file.Framework)
	if err != nil {
		if file.Framework == "" {
			return "", nil, &ValidationError{Source: source, Field: "framework", Message: "framework is required"}
		}
		return "", nil, &ValidationError{Source: source, Field: "framework", Message: err.Error()}
	}

	parsed := make([]*Rule, 0, len(file.Rules))
	seen := make(map[string]bool, len(file.Rules))
	for i, spec := range file.Rules {
		rule, err := parseRule(spec, framework, source)
		if err != nil {
			return "", nil, err
		}
		if seen[rule.ID] {
			return "", nil, &ValidationError{
				Source:  source,
				RuleID:  rule.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicate rule ID (entry %d)", i),
			}
		}
		seen[rule.ID] = true
		parsed = append(parsed, rule)
	}

	return framework, parsed, nil
}

// parseRule validates a single rule spec and produces the immutable Rule.
func parseRule(spec ruleSpec, framework Framework, source string) (*Rule, error) {
	if spec.ID == "" {
		return nil, &ValidationError{Source: source, Field: "id", Message: "rule ID is required"}
	}
	if spec.Name == "" {
		return nil, &ValidationError{Source: source, RuleID: spec.ID, Field: "name", Message: "rule name is required"}
	}

	severity, err := ParseSeverity(spec.Severity)
	if err != nil {
		return nil, &ValidationError{Source: source, RuleID: spec.ID, Field: "severity", Message: err.Error()}
	}

	action, err := ParseAction(spec.Action)
	if err != nil {
		return nil, &ValidationError{Source: source, RuleID: spec.ID, Field: "action", Message: err.Error()}
	}

	var compiled *regexp.Regexp
	if spec.Pattern != "" {
		compiled, err = regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, &ValidationError{
				Source:  source,
				RuleID:  spec.ID,
				Field:   "pattern",
				Message: "regex pattern does not compile",
				Cause:   err,
			}
		}
	}

	remediation := spec.Remediation
	if remediation == "" {
		remediation = fmt.Sprintf("Review and remediate %s", spec.Name)
	}

	return &Rule{
		ID:          spec.ID,
		Framework:   framework,
		Name:        spec.Name,
		Description: spec.Description,
		Severity:    severity,
		Action:      action,
		EntityTypes: normalizeTypes(spec.EntityTypes),
		Keywords:    spec.Keywords,
		Pattern:     spec.Pattern,
		Remediation: remediation,
		compiled:    compiled,
	}, nil
}

// normalizeTypes uppercases entity type names so rule authors and detectors
// agree on spelling (detectors emit uppercase types, e.g. SSN, EMAIL).
func normalizeTypes(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	return out
}

// LoadDir loads every rule file in dir (non-recursive, sorted by file name
// for a stable framework order) into a Store.
//
// A malformed file invalidates only its own framework: the returned Store
// contains every framework whose file parsed cleanly, and the returned error
// (an *ErrorList, or nil) reports each failed file. Callers that require a
// fully clean load should treat a non-nil error as fatal.
func LoadDir(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{Path: dir, Message: "failed to access directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: dir, Message: "not a directory"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Message: "failed to read directory", Cause: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if hasRuleExtension(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, &LoadError{Path: dir, Message: "no rule files found", Cause: ErrNoRuleFiles}
	}

	store := newStore()
	errList := &ErrorList{}
	for _, path := range paths {
		fw, loaded, err := LoadFile(path)
		if err != nil {
			errList.Add(err)
			continue
		}
		store.register(fw)
		store.add(loaded...)
	}

	if errList.HasErrors() {
		if len(store.frameworks) == 0 {
			return nil, errList
		}
		return store, errList
	}
	return store, nil
}

// LoadFS loads rule files from an fs.FS, in sorted file-name order. This is
// how the embedded default rule set is loaded; it follows the same strict
// validation as LoadDir.
func LoadFS(fsys fs.FS, root string) (*Store, error) {
	var paths []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasRuleExtension(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: root, Message: "failed to walk rule tree", Cause: err}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, &LoadError{Path: root, Message: "no rule files found", Cause: ErrNoRuleFiles}
	}

	store := newStore()
	errList := &ErrorList{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			errList.Add(&LoadError{Path: path, Message: "failed to read file", Cause: err})
			continue
		}
		fw, loaded, err := ParseRules(data, path)
		if err != nil {
			errList.Add(err)
			continue
		}
		store.register(fw)
		store.add(loaded...)
	}

	if errList.HasErrors() {
		if len(store.frameworks) == 0 {
			return nil, errList
		}
		return store, errList
	}
	return store, nil
}

// hasRuleExtension reports whether the file name has a recognized extension.
func hasRuleExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, valid := range ruleFileExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}

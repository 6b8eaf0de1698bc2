package redact

import (
	"strings"

	"sentinel-hq/ceres/pkg/detect"
)

// Stage is one step of a redaction pipeline. A stage receives the previous
// stage's output text and returns its own rewritten text plus the mapping of
// substitutions it made, with spans relative to its input.
type Stage interface {
	Run(r *Redactor, text string) (string, Mapping, error)
}

// EntityStage redacts a fixed entity set with one strategy. The entity spans
// refer to the pipeline's original input; when an earlier stage has already
// rewritten the text, each entity is re-located by searching for its value
// in the current text, so spans always address the stage input. Entities
// whose value no longer occurs (already rewritten by an earlier stage)
// are skipped.
type EntityStage struct {
	Entities []detect.Entity
	Strategy Strategy
}

// Run implements Stage.
func (s EntityStage) Run(r *Redactor, text string) (string, Mapping, error) {
	located := make([]detect.Entity, 0, len(s.Entities))
	for _, entity := range s.Entities {
		if entity.Start >= 0 && entity.End <= len(text) && entity.End > entity.Start &&
			text[entity.Start:entity.End] == entity.Value {
			located = append(located, entity)
			continue
		}
		if idx := strings.Index(text, entity.Value); idx >= 0 && entity.Value != "" {
			relocated := entity
			relocated.Start = idx
			relocated.End = idx + len(entity.Value)
			located = append(located, relocated)
		}
	}

	redacted, mapping := r.Redact(text, located, s.Strategy)
	return redacted, mapping, nil
}

// PatternStage redacts regex matches with one strategy.
type PatternStage struct {
	Patterns map[string]string
	Strategy Strategy
}

// Run implements Stage.
func (s PatternStage) Run(r *Redactor, text string) (string, Mapping, error) {
	return r.RedactPattern(text, s.Patterns, s.Strategy)
}

// Pipeline chains redaction stages. Each stage operates on the output of the
// previous one; the accumulated mapping tags every entry with its stage
// index, and entry spans refer to that stage's input text.
type Pipeline struct {
	redactor *Redactor
	stages   []Stage
}

// NewPipeline creates a pipeline over the given redactor. A nil redactor
// gets a default one.
func NewPipeline(r *Redactor) *Pipeline {
	if r == nil {
		r = NewRedactor(nil)
	}
	return &Pipeline{redactor: r}
}

// AddEntityStage appends an entity-based stage. Returns the pipeline for
// chaining.
func (p *Pipeline) AddEntityStage(entities []detect.Entity, strategy Strategy) *Pipeline {
	p.stages = append(p.stages, EntityStage{Entities: entities, Strategy: strategy})
	return p
}

// AddPatternStage appends a pattern-based stage. Returns the pipeline for
// chaining.
func (p *Pipeline) AddPatternStage(patterns map[string]string, strategy Strategy) *Pipeline {
	p.stages = append(p.stages, PatternStage{Patterns: patterns, Strategy: strategy})
	return p
}

// AddStage appends a custom stage. Returns the pipeline for chaining.
func (p *Pipeline) AddStage(stage Stage) *Pipeline {
	p.stages = append(p.stages, stage)
	return p
}

// Execute runs all stages in order. A stage error aborts the pipeline and
// returns the original text untouched.
func (p *Pipeline) Execute(text string) (string, Mapping, error) {
	current := text
	var combined Mapping

	for i, stage := range p.stages {
		rewritten, mapping, err := stage.Run(p.redactor, current)
		if err != nil {
			return text, nil, err
		}
		for _, entry := range mapping {
			entry.Stage = i
			combined = append(combined, entry)
		}
		current = rewritten
	}

	return current, combined, nil
}

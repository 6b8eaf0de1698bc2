package redact

import (
	"testing"

	"sentinel-hq/ceres/pkg/detect"
)

func TestPipelineStages(t *testing.T) {
	text := "ssn 123-45-6789 email a@b.co order 12345"

	// Spans refer to the pipeline's original input. The second stage runs
	// after the first has already shortened the text, so its entity must be
	// relocated.
	out, mapping, err := NewPipeline(nil).
		AddEntityStage([]detect.Entity{entity("SSN", "123-45-6789", 4, 0.95)}, Token{}).
		AddEntityStage([]detect.Entity{entity("EMAIL", "a@b.co", 22, 0.95)}, Token{}).
		AddPatternStage(map[string]string{"ORDER": `\b\d{5}\b`}, Token{}).
		Execute(text)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := "ssn [SSN] email [EMAIL] order [ORDER]"
	if out != want {
		t.Errorf("Execute() = %q, want %q", out, want)
	}

	if len(mapping) != 3 {
		t.Fatalf("mapping has %d entries, want 3", len(mapping))
	}
	for i, entry := range mapping {
		if entry.Stage != i {
			t.Errorf("mapping[%d].Stage = %d, want %d", i, entry.Stage, i)
		}
	}

	// The relocated email span addresses the second stage's input text.
	stageOneInput := "ssn [SSN] email a@b.co order 12345"
	email := mapping[1]
	if stageOneInput[email.Start:email.End] != email.Original {
		t.Errorf("mapping[1] span [%d,%d) does not address the stage input", email.Start, email.End)
	}
}

func TestPipelineConsumedEntitySkipped(t *testing.T) {
	ssn := entity("SSN", "123-45-6789", 4, 0.95)

	// The second stage targets a value the first stage already rewrote.
	out, mapping, err := NewPipeline(nil).
		AddEntityStage([]detect.Entity{ssn}, Token{}).
		AddEntityStage([]detect.Entity{ssn}, FullMask{}).
		Execute("ssn 123-45-6789 end")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if out != "ssn [SSN] end" {
		t.Errorf("Execute() = %q, want %q", out, "ssn [SSN] end")
	}
	if len(mapping) != 1 || mapping[0].Stage != 0 {
		t.Errorf("mapping = %+v, want single stage-zero entry", mapping)
	}
}

func TestPipelineStageErrorAborts(t *testing.T) {
	text := "ssn 123-45-6789 end"

	out, mapping, err := NewPipeline(nil).
		AddEntityStage([]detect.Entity{entity("SSN", "123-45-6789", 4, 0.95)}, Token{}).
		AddPatternStage(map[string]string{"BAD": "[unclosed"}, Token{}).
		Execute(text)
	if err == nil {
		t.Fatal("Execute() succeeded with an invalid pattern stage")
	}
	// A failed pipeline must not leak a half-redacted text.
	if out != text {
		t.Errorf("Execute() = %q, want the original text back", out)
	}
	if mapping != nil {
		t.Errorf("mapping = %+v, want nil", mapping)
	}
}

func TestPipelineEmpty(t *testing.T) {
	out, mapping, err := NewPipeline(nil).Execute("unchanged")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out != "unchanged" || len(mapping) != 0 {
		t.Errorf("Execute() = %q, %v, want input unchanged", out, mapping)
	}
}

package redact

import (
	"regexp"
	"testing"
)

func TestFullMask(t *testing.T) {
	s := FullMask{}
	// Constant width regardless of input length.
	if got := s.Apply("SSN", "123-45-6789"); got != "****" {
		t.Errorf("Apply() = %q, want ****", got)
	}
	if got := s.Apply("EMAIL", "a"); got != "****" {
		t.Errorf("Apply() = %q, want ****", got)
	}
}

func TestToken(t *testing.T) {
	s := Token{}
	if got := s.Apply("SSN", "123-45-6789"); got != "[SSN]" {
		t.Errorf("Apply() = %q, want [SSN]", got)
	}
	// Re-applying to already-tokenized output is stable.
	if got := s.Apply("SSN", "[SSN]"); got != "[SSN]" {
		t.Errorf("Apply() on token output = %q, want [SSN]", got)
	}
}

func TestPartialMask(t *testing.T) {
	s := PartialMask{}

	tests := []struct {
		value string
		want  string
	}{
		{"123-45-6789", "1*********9"},
		{"jane@example.com", "j**************m"},
		{"abcd", "****"}, // short values are fully masked
		{"abc", "***"},
		{"a", "*"},
		{"", ""},
		{"héllo!", "h****!"}, // rune-based, not byte-based
	}

	for _, tt := range tests {
		if got := s.Apply("X", tt.value); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestHashDeterministic(t *testing.T) {
	s := NewHash(nil)

	first := s.Apply("SSN", "123-45-6789")
	second := s.Apply("SSN", "123-45-6789")
	if first != second {
		t.Errorf("hash not deterministic: %q vs %q", first, second)
	}

	format := regexp.MustCompile(`^\[SSN:[0-9a-f]{8}\]$`)
	if !format.MatchString(first) {
		t.Errorf("hash output %q does not match [TYPE:hex8]", first)
	}

	// Same value under a different type yields a different digest.
	if other := s.Apply("PHONE_NUMBER", "123-45-6789"); other[len("[PHONE_NUMBER:"):len("[PHONE_NUMBER:")+8] == first[len("[SSN:"):len("[SSN:")+8] {
		t.Error("digest should cover the entity type")
	}
}

func TestHashKeyed(t *testing.T) {
	unkeyed := NewHash(nil)
	keyed := NewHash([]byte("secret"))

	if unkeyed.Apply("SSN", "123-45-6789") == keyed.Apply("SSN", "123-45-6789") {
		t.Error("keyed and unkeyed digests should differ")
	}
	if keyed.Apply("SSN", "123-45-6789") != keyed.Apply("SSN", "123-45-6789") {
		t.Error("keyed digest should be deterministic")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: "full_mask", wantName: StrategyFullMask},
		{name: "token", wantName: StrategyToken},
		{name: "", wantName: StrategyToken},
		{name: "partial", wantName: StrategyPartialMask},
		{name: "hash", wantName: StrategyHash},
		{name: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		s, err := ParseStrategy(tt.name, nil)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStrategy(%q) succeeded, want error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStrategy(%q) error: %v", tt.name, err)
			continue
		}
		if s.Name() != tt.wantName {
			t.Errorf("ParseStrategy(%q).Name() = %q, want %q", tt.name, s.Name(), tt.wantName)
		}
	}
}

package redact

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Strategy names, used in mappings and configuration.
const (
	StrategyFullMask    = "full_mask"
	StrategyToken       = "token"
	StrategyPartialMask = "partial"
	StrategyHash        = "hash"
	StrategyPattern     = "pattern"
)

// Strategy generates a replacement for a sensitive value. Implementations
// must be deterministic and safe for concurrent use.
type Strategy interface {
	// Name identifies the strategy in mappings.
	Name() string

	// Apply returns the replacement for a value of the given entity type.
	Apply(entityType, value string) string
}

// fullMaskWidth is the constant mask width. Not derived from the value:
// leaking the original length would leak information about the value.
const fullMaskWidth = 4

// FullMask replaces every value with a constant-width mask.
type FullMask struct{}

// Name returns the strategy name.
func (FullMask) Name() string { return StrategyFullMask }

// Apply returns the constant mask.
func (FullMask) Apply(entityType, value string) string {
	return strings.Repeat("*", fullMaskWidth)
}

// Token replaces a value with its bracketed type tag, e.g. [SSN].
type Token struct{}

// Name returns the strategy name.
func (Token) Name() string { return StrategyToken }

// Apply returns the bracketed type tag.
func (Token) Apply(entityType, value string) string {
	return "[" + entityType + "]"
}

// PartialMask keeps the first and last character and masks the interior.
// Values of four characters or fewer are fully masked; exposing half of a
// short value would defeat the mask.
type PartialMask struct{}

// Name returns the strategy name.
func (PartialMask) Name() string { return StrategyPartialMask }

// Apply masks the interior of the value.
func (PartialMask) Apply(entityType, value string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}

// hashTokenLen is the hex length of the truncated digest.
const hashTokenLen = 8

// Hash replaces a value with a deterministic truncated digest tagged with
// the entity type, e.g. [SSN:3f2a9c1b]. The digest covers type and value
// together, so equal values of different types produce different tokens.
// With a key configured the digest is an HMAC; without one it is a plain
// SHA-256, which still correlates records but offers no resistance to
// offline guessing of low-entropy values.
type Hash struct {
	key []byte
}

// NewHash creates a hash strategy. A nil or empty key selects unkeyed
// SHA-256.
func NewHash(key []byte) *Hash {
	return &Hash{key: key}
}

// Name returns the strategy name.
func (*Hash) Name() string { return StrategyHash }

// Apply returns the tagged truncated digest of (type, value).
func (h *Hash) Apply(entityType, value string) string {
	payload := entityType + ":" + value

	var sum []byte
	if len(h.key) > 0 {
		mac := hmac.New(sha256.New, h.key)
		mac.Write([]byte(payload))
		sum = mac.Sum(nil)
	} else {
		digest := sha256.Sum256([]byte(payload))
		sum = digest[:]
	}

	return fmt.Sprintf("[%s:%s]", entityType, hex.EncodeToString(sum)[:hashTokenLen])
}

// ParseStrategy returns the strategy for a configured name. The hash
// strategy takes the optional key; other strategies ignore it.
func ParseStrategy(name string, hashKey []byte) (Strategy, error) {
	switch name {
	case StrategyFullMask:
		return FullMask{}, nil
	case StrategyToken, "":
		return Token{}, nil
	case StrategyPartialMask:
		return PartialMask{}, nil
	case StrategyHash:
		return NewHash(hashKey), nil
	default:
		return nil, fmt.Errorf("unknown redaction strategy: %q", name)
	}
}

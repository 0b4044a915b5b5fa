// Package numerator derives prefix-sequenced invoice numbers.
//
// Numbers look like PREFIX-NNN. The sequence part is zero-padded to at
// least PadWidth digits and grows past it without truncation. There is no
// reservation table: the next number is always max(existing)+1, computed
// from the numbers already stored.
package numerator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultPrefix is used when a company has no prefix configured.
	DefaultPrefix = "INV"

	// DefaultPadWidth is the minimum width of the sequence part.
	DefaultPadWidth = 3

	separator = "-"
)

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "INV", "GR")
	Prefix string

	// PadWidth is the minimum sequence width (default 3)
	PadWidth int
}

// DefaultConfig returns the configuration for a raw company prefix.
func DefaultConfig(rawPrefix string) Config {
	return Config{
		Prefix:   ResolvePrefix(rawPrefix),
		PadWidth: DefaultPadWidth,
	}
}

// ResolvePrefix trims the configured prefix and falls back to DefaultPrefix when blank.
func ResolvePrefix(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return DefaultPrefix
	}
	return p
}

// Format creates the final number string.
func Format(cfg Config, seq int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = DefaultPadWidth
	}
	return fmt.Sprintf("%s%s%0*d", cfg.Prefix, separator, padWidth, seq)
}

// Matcher extracts sequence values from numbers issued under one prefix.
type Matcher struct {
	prefix string
	re     *regexp.Regexp
}

// NewMatcher builds a matcher for prefix. The prefix is matched literally.
func NewMatcher(prefix string) *Matcher {
	return &Matcher{
		prefix: prefix + separator,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(prefix+separator) + `(\d+)$`),
	}
}

// HasPrefix reports whether number was issued under the matcher's prefix.
// It is the cheap pre-filter; Parse still has to accept the suffix.
func (m *Matcher) HasPrefix(number string) bool {
	return strings.HasPrefix(number, m.prefix)
}

// Parse returns the sequence part of number.
// Numbers with another prefix, a non-numeric suffix or a suffix of
// math.MaxInt64 or more are rejected.
func (m *Matcher) Parse(number string) (int64, bool) {
	match := m.re.FindStringSubmatch(number)
	if match == nil {
		return 0, false
	}
	seq, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || seq == math.MaxInt64 {
		// no successor exists: treat like any other malformed suffix
		return 0, false
	}
	return seq, true
}

// MaxSequence returns the highest sequence among existing numbers, 0 when none match.
func MaxSequence(prefix string, existing []string) int64 {
	m := NewMatcher(prefix)
	var maxSeq int64
	for _, n := range existing {
		if !m.HasPrefix(n) {
			continue
		}
		if seq, ok := m.Parse(n); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq
}

// Next returns the number following the highest existing one for cfg.Prefix.
func Next(cfg Config, existing []string) string {
	return Format(cfg, MaxSequence(cfg.Prefix, existing)+1)
}

// Package gstin checks GST identification numbers and HSN codes.
package gstin

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	hsnPattern   = regexp.MustCompile(`^\d{4,8}$`)
)

var (
	ErrFormat    = errors.New("GSTIN must be 15 characters: 2-digit state code, PAN, entity code, Z, checksum")
	ErrStateCode = errors.New("GSTIN state code must be 01-38")
	ErrHSN       = errors.New("HSN code must be 4 to 8 digits")
)

// Normalize upper-cases and strips spaces.
func Normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Validate checks the shape of a GSTIN. Empty input is valid (unregistered party).
func Validate(s string) error {
	s = Normalize(s)
	if s == "" {
		return nil
	}
	if !gstinPattern.MatchString(s) {
		return ErrFormat
	}
	if !IsValidStateCode(s[:2]) {
		return ErrStateCode
	}
	return nil
}

// StateCode returns the two-digit state prefix, or "" when the GSTIN is too short.
func StateCode(s string) string {
	s = Normalize(s)
	if len(s) < 2 {
		return ""
	}
	if _, err := strconv.Atoi(s[:2]); err != nil {
		return ""
	}
	return s[:2]
}

// IsValidStateCode reports whether code is a GST state code (01-38).
func IsValidStateCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 1 && n <= 38
}

// ValidateHSN checks an HSN/SAC code. Empty input is valid.
func ValidateHSN(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || hsnPattern.MatchString(s) {
		return nil
	}
	return ErrHSN
}

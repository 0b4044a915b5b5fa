// Package id provides the surrogate integer keys used by every stored entity.
package id

import (
	"fmt"
	"strconv"
)

// ID is an auto-incremented surrogate key. Zero means "not yet stored".
type ID = int64

// Parse converts a path or query value to ID.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("parse id %q: must be positive", s)
	}
	return v, nil
}

// IsNil checks if ID is unset.
func IsNil(v ID) bool {
	return v <= 0
}

// Package filter describes structured list filters shared by HTTP and storage.
package filter

import "fmt"

// ComparisonType defines the comparison kinds.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	Contains       ComparisonType = "contains" // ILIKE %val%
	IsNull         ComparisonType = "null"
	IsNotNull      ComparisonType = "not_null"
)

// Item is a single filter row.
type Item struct {
	Field    string         `json:"field"` // snake_case column name
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Valid reports whether the operator is known.
func (o ComparisonType) Valid() bool {
	switch o {
	case Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual, InList, Contains, IsNull, IsNotNull:
		return true
	}
	return false
}

// Validate checks the item against a column whitelist.
func (i Item) Validate(allowed map[string]bool) error {
	if !allowed[i.Field] {
		return fmt.Errorf("invalid filter column: %s", i.Field)
	}
	if !i.Operator.Valid() {
		return fmt.Errorf("invalid filter operator: %s", i.Operator)
	}
	return nil
}

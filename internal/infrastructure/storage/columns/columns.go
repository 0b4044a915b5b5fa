// Package columns maps entity structs to table columns through "db" tags.
// Both storage backends use it so that filters and ordering accept the same
// column names everywhere.
package columns

import (
	"reflect"
	"strings"
	"sync"

	"oflo/internal/core/apperror"
)

// Extract returns all column names from struct "db" tags.
// Embedded structs (entity.BaseEntity) are walked recursively.
func Extract[T any]() []string {
	var zero T
	return extractFromType(reflect.TypeOf(zero))
}

func extractFromType(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, extractFromType(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

// fieldInfo is a pre-computed tagged field.
type fieldInfo struct {
	index int
	dbTag string
}

type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

var typeCache sync.Map // map[reflect.Type]*typeMetadata

func metadataFor(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embeddedIndices = append(meta.embeddedIndices, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
		}
	}

	typeCache.Store(t, meta)
	return meta
}

// ToMap converts a struct (or pointer to one) to column -> value.
func ToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := metadataFor(rv.Type())
	res := make(map[string]any, len(meta.fields))
	for _, fi := range meta.fields {
		res[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, idx := range meta.embeddedIndices {
		for k, val := range ToMap(rv.Field(idx).Interface()) {
			res[k] = val
		}
	}
	return res
}

// Set is a column whitelist.
type Set map[string]bool

// NewSet builds a whitelist from column names.
func NewSet(cols ...string) Set {
	s := make(Set, len(cols))
	for _, c := range cols {
		s[c] = true
	}
	return s
}

// Order is a parsed "field" / "-field" sort key.
type Order struct {
	Field string
	Desc  bool
}

// SQL renders the order for an ORDER BY clause.
func (o Order) SQL() string {
	if o.Desc {
		return o.Field + " DESC"
	}
	return o.Field + " ASC"
}

// ParseOrder parses "field", "+field" or "-field" against allowed.
// An empty input yields def.
func ParseOrder(raw string, allowed Set, def Order) (Order, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	o := Order{Field: raw}
	if strings.HasPrefix(raw, "-") {
		o.Desc = true
		o.Field = strings.TrimPrefix(raw, "-")
	} else if strings.HasPrefix(raw, "+") {
		o.Field = strings.TrimPrefix(raw, "+")
	}

	o.Field = strings.TrimSpace(o.Field)
	if o.Field == "" {
		return Order{}, apperror.NewValidation("invalid orderBy").WithDetail("orderBy", raw)
	}
	if !allowed[o.Field] {
		return Order{}, apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", raw).
			WithDetail("field", o.Field)
	}
	return o, nil
}

package memory

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"oflo/internal/core/apperror"
	"oflo/internal/domain"
	"oflo/internal/domain/filter"
	"oflo/internal/infrastructure/storage/columns"
)

// listSpec describes how rows of one table are filtered and sorted.
type listSpec[T any] struct {
	allowed columns.Set
	search  []string
	order   columns.Order
	row     func(T) map[string]any
}

// list applies f to items the way the postgres repositories do:
// AND of all conditions, count before pagination.
func list[T any](items []T, f domain.ListFilter, spec listSpec[T]) (domain.ListResult[T], error) {
	for _, it := range f.AdvancedFilters {
		if err := it.Validate(spec.allowed); err != nil {
			return domain.ListResult[T]{}, apperror.NewValidation(err.Error())
		}
	}
	order, err := columns.ParseOrder(f.OrderBy, spec.allowed, spec.order)
	if err != nil {
		return domain.ListResult[T]{}, err
	}

	ids := make(map[int64]bool, len(f.IDs))
	for _, v := range f.IDs {
		ids[v] = true
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	type entry struct {
		item T
		row  map[string]any
	}
	var matched []entry
	for _, it := range items {
		row := spec.row(it)
		if len(ids) > 0 && !ids[toInt64(row["id"])] {
			continue
		}
		if search != "" && !matchesSearch(row, spec.search, search) {
			continue
		}
		if !matchesAll(row, f.AdvancedFilters) {
			continue
		}
		matched = append(matched, entry{item: it, row: row})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		c := compareForSort(matched[i].row[order.Field], matched[j].row[order.Field])
		if c == 0 {
			return toInt64(matched[i].row["id"]) < toInt64(matched[j].row["id"])
		}
		if order.Desc {
			return c > 0
		}
		return c < 0
	})

	result := domain.ListResult[T]{
		TotalCount: int64(len(matched)),
		Limit:      f.Limit,
		Offset:     f.Offset,
		Items:      []T{},
	}

	start := min(max(f.Offset, 0), len(matched))
	end := len(matched)
	if f.Limit > 0 {
		end = min(start+f.Limit, end)
	}
	for _, e := range matched[start:end] {
		result.Items = append(result.Items, e.item)
	}
	return result, nil
}

func matchesSearch(row map[string]any, cols []string, needle string) bool {
	for _, c := range cols {
		if s, ok := row[c]; ok && strings.Contains(strings.ToLower(fmt.Sprint(normalize(s))), needle) {
			return true
		}
	}
	return false
}

func matchesAll(row map[string]any, items []filter.Item) bool {
	for _, it := range items {
		if !matches(normalize(row[it.Field]), it) {
			return false
		}
	}
	return true
}

// matches evaluates one condition with SQL semantics: NULL never compares.
func matches(col any, it filter.Item) bool {
	switch it.Operator {
	case filter.IsNull:
		return col == nil
	case filter.IsNotNull:
		return col != nil
	}
	if col == nil {
		return false
	}

	switch it.Operator {
	case filter.Contains:
		return strings.Contains(
			strings.ToLower(fmt.Sprint(col)),
			strings.ToLower(fmt.Sprint(it.Value)),
		)
	case filter.InList:
		rv := reflect.ValueOf(it.Value)
		if rv.Kind() != reflect.Slice {
			c, ok := compare(col, it.Value)
			return ok && c == 0
		}
		for i := 0; i < rv.Len(); i++ {
			if c, ok := compare(col, rv.Index(i).Interface()); ok && c == 0 {
				return true
			}
		}
		return false
	}

	c, ok := compare(col, it.Value)
	if !ok {
		return false
	}
	switch it.Operator {
	case filter.Equal:
		return c == 0
	case filter.NotEqual:
		return c != 0
	case filter.Less:
		return c < 0
	case filter.LessOrEqual:
		return c <= 0
	case filter.Greater:
		return c > 0
	case filter.GreaterOrEqual:
		return c >= 0
	}
	return false
}

// normalize reduces column values to string, decimal, time, bool or nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return x
	case time.Time:
		return x
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d
		}
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(rv.Float())
	case reflect.Bool:
		return rv.Bool()
	}
	return fmt.Sprint(v)
}

// compare orders col against a filter value coerced to col's type.
func compare(col, val any) (int, bool) {
	val = normalize(val)
	if val == nil {
		return 0, false
	}

	switch c := col.(type) {
	case decimal.Decimal:
		switch v := val.(type) {
		case decimal.Decimal:
			return c.Cmp(v), true
		case string:
			d, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return 0, false
			}
			return c.Cmp(d), true
		}
	case time.Time:
		var t time.Time
		switch v := val.(type) {
		case time.Time:
			t = v
		case string:
			parsed, ok := parseTime(v)
			if !ok {
				return 0, false
			}
			t = parsed
		default:
			return 0, false
		}
		return c.Compare(t), true
	case bool:
		v, ok := val.(bool)
		if !ok {
			v = fmt.Sprint(val) == "true"
		}
		if c == v {
			return 0, true
		}
		if !c {
			return -1, true
		}
		return 1, true
	case string:
		return strings.Compare(c, fmt.Sprint(val)), true
	}
	return 0, false
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// compareForSort puts NULLs last, like PostgreSQL ascending order.
func compareForSort(a, b any) int {
	a, b = normalize(a), normalize(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if c, ok := compare(a, b); ok {
		return c
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toInt64(v any) int64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Ptr:
		if !rv.IsNil() {
			return toInt64(rv.Elem().Interface())
		}
	}
	return 0
}

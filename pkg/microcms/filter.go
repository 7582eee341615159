package microcms

import (
	"strings"
)

// FilterOperator is a comparison understood by the filters parameter.
type FilterOperator string

// Filter operators.
const (
	FilterEquals      FilterOperator = "equals"
	FilterNotEquals   FilterOperator = "not_equals"
	FilterLessThan    FilterOperator = "less_than"
	FilterGreaterThan FilterOperator = "greater_than"
	FilterContains    FilterOperator = "contains"
	FilterNotContains FilterOperator = "not_contains"
	FilterExists      FilterOperator = "exists"
	FilterNotExists   FilterOperator = "not_exists"
	FilterBeginsWith  FilterOperator = "begins_with"
)

const (
	filterAnd = "[and]"
	filterOr  = "[or]"
)

// FilterBuilder composes a filters expression such as
// "category[equals]news[and]title[contains]release".
type FilterBuilder struct {
	builder strings.Builder
	empty   bool
}

// NewFilter creates an empty filter expression.
func NewFilter() *FilterBuilder {
	return &FilterBuilder{empty: true}
}

// Where appends a condition joined with [and].
func (fb *FilterBuilder) Where(field string, op FilterOperator, value string) *FilterBuilder {
	return fb.join(filterAnd, field, op, value)
}

// Or appends a condition joined with [or].
func (fb *FilterBuilder) Or(field string, op FilterOperator, value string) *FilterBuilder {
	return fb.join(filterOr, field, op, value)
}

// Equals is shorthand for Where(field, FilterEquals, value).
func (fb *FilterBuilder) Equals(field, value string) *FilterBuilder {
	return fb.Where(field, FilterEquals, value)
}

// Contains is shorthand for Where(field, FilterContains, value).
func (fb *FilterBuilder) Contains(field, value string) *FilterBuilder {
	return fb.Where(field, FilterContains, value)
}

// Exists appends a valueless existence check.
func (fb *FilterBuilder) Exists(field string) *FilterBuilder {
	return fb.Where(field, FilterExists, "")
}

// NotExists appends a valueless absence check.
func (fb *FilterBuilder) NotExists(field string) *FilterBuilder {
	return fb.Where(field, FilterNotExists, "")
}

// IfNotEmpty appends an equality condition only when value is set.
func (fb *FilterBuilder) IfNotEmpty(field, value string) *FilterBuilder {
	if value == "" {
		return fb
	}

	return fb.Equals(field, value)
}

// Build returns the expression.
func (fb *FilterBuilder) Build() string {
	return fb.builder.String()
}

// String implements fmt.Stringer.
func (fb *FilterBuilder) String() string {
	return fb.Build()
}

func (fb *FilterBuilder) join(conjunction, field string, op FilterOperator, value string) *FilterBuilder {
	if !fb.empty {
		fb.builder.WriteString(conjunction)
	}

	fb.empty = false

	fb.builder.WriteString(field)
	fb.builder.WriteByte('[')
	fb.builder.WriteString(string(op))
	fb.builder.WriteByte(']')

	if op != FilterExists && op != FilterNotExists {
		fb.builder.WriteString(value)
	}

	return fb
}

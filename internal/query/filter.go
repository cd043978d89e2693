// AngelaMos | 2026
// filter.go

package query

import "strings"

type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpIsNull   Operator = "is"
	OpNotNull  Operator = "not.is"
	OpContains Operator = "cs"
	OpILike    Operator = "ilike"
)

// Filter is a single predicate on a column of the queried table, or an OR
// group of predicates when Any is non-empty.
type Filter struct {
	Column   string
	Operator Operator
	Value    any
	Any      []Filter
}

func (f Filter) IsGroup() bool {
	return len(f.Any) > 0
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Operator: OpEq, Value: value}
}

func Neq(column string, value any) Filter {
	return Filter{Column: column, Operator: OpNeq, Value: value}
}

func IsNull(column string) Filter {
	return Filter{Column: column, Operator: OpIsNull}
}

func NotNull(column string) Filter {
	return Filter{Column: column, Operator: OpNotNull}
}

// Contains matches array columns holding every one of values.
func Contains(column string, values ...string) Filter {
	return Filter{Column: column, Operator: OpContains, Value: values}
}

// ILike is a case-insensitive LIKE; pattern wildcards are passed through.
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Operator: OpILike, Value: pattern}
}

// Or is satisfied when at least one of filters is.
func Or(filters ...Filter) Filter {
	return Filter{Any: filters}
}

// Substring builds an ILIKE pattern matching s anywhere in the value, with
// LIKE metacharacters in s escaped.
func Substring(s string) string {
	return "%" + EscapeLike(s) + "%"
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

package securesql

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// Builder assembles a parameterized SELECT statement without string
// concatenation of caller input. Every method returns a new Builder value, so
// a builder can be shared or reused safely across goroutines. Placeholder
// numbering follows construction order.
type Builder struct {
	columns  []string
	table    string
	wheres   []string
	orderBy  string
	limit    string
	offset   string
	values   []any
	failures []string
}

// Select starts a builder with the given projection columns.
func Select(columns ...string) Builder {
	b := Builder{}
	if len(columns) == 0 {
		return b.fail("select requires at least one column")
	}
	checked := make([]string, 0, len(columns))
	for _, col := range columns {
		if col != "*" && !identifierPattern.MatchString(col) {
			return b.fail(fmt.Sprintf("invalid identifier: %q", col))
		}
		checked = append(checked, col)
	}
	b.columns = checked
	return b
}

// From sets the table to select from.
func (b Builder) From(table string) Builder {
	if !identifierPattern.MatchString(table) {
		return b.fail(fmt.Sprintf("invalid identifier: %q", table))
	}
	b.table = table
	return b
}

// Where adds the first condition. The value is bound to the next positional
// placeholder.
func (b Builder) Where(column, operator string, value any) Builder {
	return b.condition("", column, operator, value)
}

// And adds a condition joined with AND.
func (b Builder) And(column, operator string, value any) Builder {
	return b.condition("AND", column, operator, value)
}

// Or adds a condition joined with OR.
func (b Builder) Or(column, operator string, value any) Builder {
	return b.condition("OR", column, operator, value)
}

var allowedOperators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {}, "<": {}, "<=": {}, ">": {}, ">=": {}, "LIKE": {}, "ILIKE": {},
}

func (b Builder) condition(conjunction, column, operator string, value any) Builder {
	if !identifierPattern.MatchString(column) {
		return b.fail(fmt.Sprintf("invalid identifier: %q", column))
	}
	op := strings.ToUpper(strings.TrimSpace(operator))
	if _, ok := allowedOperators[op]; !ok {
		return b.fail(fmt.Sprintf("unsupported operator: %q", operator))
	}

	sanitized, err := SanitizeValue(value)
	if err != nil {
		return b.fail(err.Error())
	}

	values := append(append([]any{}, b.values...), sanitized)
	clause := fmt.Sprintf("%s %s $%d", column, op, len(values))
	if conjunction != "" {
		clause = conjunction + " " + clause
	}

	b.values = values
	b.wheres = append(append([]string{}, b.wheres...), clause)
	return b
}

// OrderBy sets the ordering clause. Direction must be ASC or DESC.
func (b Builder) OrderBy(column, direction string) Builder {
	if !identifierPattern.MatchString(column) {
		return b.fail(fmt.Sprintf("invalid identifier: %q", column))
	}
	dir := strings.ToUpper(strings.TrimSpace(direction))
	if dir != "ASC" && dir != "DESC" {
		return b.fail(fmt.Sprintf("invalid order direction: %q", direction))
	}
	b.orderBy = fmt.Sprintf("ORDER BY %s %s", column, dir)
	return b
}

// Limit binds a LIMIT value to the next placeholder.
func (b Builder) Limit(n int) Builder {
	if n < 0 {
		return b.fail("limit must not be negative")
	}
	b.values = append(append([]any{}, b.values...), n)
	b.limit = fmt.Sprintf("LIMIT $%d", len(b.values))
	return b
}

// Offset binds an OFFSET value to the next placeholder.
func (b Builder) Offset(n int) Builder {
	if n < 0 {
		return b.fail("offset must not be negative")
	}
	b.values = append(append([]any{}, b.values...), n)
	b.offset = fmt.Sprintf("OFFSET $%d", len(b.values))
	return b
}

// Build assembles the statement, re-validates it and returns the query text
// with its ordered values.
func (b Builder) Build() (string, []any, error) {
	if len(b.failures) > 0 {
		return "", nil, fmt.Errorf("query builder: %s", strings.Join(b.failures, "; "))
	}
	if b.table == "" {
		return "", nil, fmt.Errorf("query builder: no table specified")
	}

	parts := []string{
		"SELECT " + strings.Join(b.columns, ", "),
		"FROM " + b.table,
	}
	if len(b.wheres) > 0 {
		parts = append(parts, "WHERE "+strings.Join(b.wheres, " "))
	}
	if b.orderBy != "" {
		parts = append(parts, b.orderBy)
	}
	if b.limit != "" {
		parts = append(parts, b.limit)
	}
	if b.offset != "" {
		parts = append(parts, b.offset)
	}

	query := strings.Join(parts, " ")
	if v := ValidateParameterizedQuery(query, b.values); !v.IsValid {
		return "", nil, fmt.Errorf("query builder: assembled query rejected: %s", strings.Join(v.Errors, "; "))
	}

	return query, b.values, nil
}

func (b Builder) fail(reason string) Builder {
	b.failures = append(append([]string{}, b.failures...), reason)
	return b
}

package securesql

import (
	"fmt"
	"sort"
	"strings"
)

// FindByID builds a lookup of a single row by primary key.
func FindByID(table string, id any) (string, []any, error) {
	return Select("*").From(table).Where("id", "=", id).Build()
}

// FindByField builds a lookup filtered on one column.
func FindByField(table, field string, value any) (string, []any, error) {
	return Select("*").From(table).Where(field, "=", value).Build()
}

// Insert builds a parameterized INSERT statement for the given columns.
func Insert(table string, columns []string, values []any) (string, []any, error) {
	if !identifierPattern.MatchString(table) {
		return "", nil, fmt.Errorf("invalid identifier: %q", table)
	}
	if len(columns) == 0 || len(columns) != len(values) {
		return "", nil, fmt.Errorf("insert requires matching columns and values")
	}

	placeholders := make([]string, 0, len(columns))
	sanitized := make([]any, 0, len(values))
	for i, col := range columns {
		if !identifierPattern.MatchString(col) {
			return "", nil, fmt.Errorf("invalid identifier: %q", col)
		}
		value, err := SanitizeValue(values[i])
		if err != nil {
			return "", nil, err
		}
		sanitized = append(sanitized, value)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if v := ValidateParameterizedQuery(query, sanitized); !v.IsValid {
		return "", nil, fmt.Errorf("assembled query rejected: %s", strings.Join(v.Errors, "; "))
	}

	return query, sanitized, nil
}

// Update builds a parameterized UPDATE statement. Set columns are ordered
// alphabetically so placeholder numbering is deterministic.
func Update(table string, updates map[string]any, whereField string, whereValue any) (string, []any, error) {
	if !identifierPattern.MatchString(table) {
		return "", nil, fmt.Errorf("invalid identifier: %q", table)
	}
	if !identifierPattern.MatchString(whereField) {
		return "", nil, fmt.Errorf("invalid identifier: %q", whereField)
	}
	if len(updates) == 0 {
		return "", nil, fmt.Errorf("update requires at least one column")
	}

	columns := make([]string, 0, len(updates))
	for col := range updates {
		if !identifierPattern.MatchString(col) {
			return "", nil, fmt.Errorf("invalid identifier: %q", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns))
	values := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		value, err := SanitizeValue(updates[col])
		if err != nil {
			return "", nil, err
		}
		values = append(values, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}

	where, err := SanitizeValue(whereValue)
	if err != nil {
		return "", nil, err
	}
	values = append(values, where)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(sets, ", "), whereField, len(values))

	if v := ValidateParameterizedQuery(query, values); !v.IsValid {
		return "", nil, fmt.Errorf("assembled query rejected: %s", strings.Join(v.Errors, "; "))
	}

	return query, values, nil
}

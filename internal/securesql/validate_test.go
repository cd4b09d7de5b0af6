package securesql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateParameterizedQueryRejectsInjection(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{name: "statement chaining", query: "SELECT * FROM users WHERE name = 'x'; DROP TABLE x; --"},
		{name: "tautology", query: "SELECT * FROM users WHERE name = '' OR '1'='1'"},
		{name: "tautology unterminated tail", query: "SELECT * FROM users WHERE name = '' OR '1'='1"},
		{name: "tautology bare", query: "' OR '1'='1"},
		{name: "union select", query: "SELECT id FROM users UNION SELECT * FROM t"},
		{name: "line comment", query: "SELECT * FROM users -- hidden"},
		{name: "block comment", query: "SELECT /* sneak */ * FROM users"},
		{name: "exec", query: "EXEC sp_configure"},
		{name: "extended procedure", query: "SELECT xp_cmdshell"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateParameterizedQuery(tc.query, nil)
			require.False(t, result.IsValid)
			require.NotEmpty(t, result.Errors)
		})
	}
}

func TestValidateParameterizedQueryParameterCountMismatch(t *testing.T) {
	result := ValidateParameterizedQuery("SELECT * FROM t WHERE id = $1", []any{1, 2})
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "parameter count mismatch")
}

func TestValidateParameterizedQueryCollectsAllViolations(t *testing.T) {
	result := ValidateParameterizedQuery("SELECT * FROM t WHERE id = $1 UNION SELECT * FROM u --", nil)
	require.False(t, result.IsValid)
	require.GreaterOrEqual(t, len(result.Errors), 3)
}

func TestValidateParameterizedQueryRejectsConcatenation(t *testing.T) {
	result := ValidateParameterizedQuery("SELECT * FROM t WHERE name = 'a' || name", nil)
	require.False(t, result.IsValid)
}

func TestValidateParameterizedQueryAcceptsCleanQuery(t *testing.T) {
	result := ValidateParameterizedQuery("SELECT id, name FROM students WHERE section_id = $1 AND date >= $2", []any{"sec-1", "2024-01-01"})
	require.True(t, result.IsValid)
	require.Empty(t, result.Errors)
}

func TestValidateParameterizedQueryRepeatedPlaceholder(t *testing.T) {
	result := ValidateParameterizedQuery("SELECT * FROM t WHERE a = $1 AND b = $1", []any{"x"})
	require.True(t, result.IsValid)
}

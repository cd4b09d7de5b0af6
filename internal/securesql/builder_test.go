package securesql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderAssemblesQuery(t *testing.T) {
	query, values, err := Select("id", "status").
		From("attendance_logs").
		Where("student_id", "=", "stu-1").
		And("section_id", "=", "sec-1").
		OrderBy("date", "DESC").
		Limit(10).
		Build()

	require.NoError(t, err)
	require.Equal(t, "SELECT id, status FROM attendance_logs WHERE student_id = $1 AND section_id = $2 ORDER BY date DESC LIMIT $3", query)
	require.Equal(t, []any{"stu-1", "sec-1", 10}, values)
}

func TestBuilderRejectsInvalidIdentifier(t *testing.T) {
	_, _, err := Select("id").From("logs; DROP TABLE logs").Build()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid identifier")

	_, _, err = Select("id").From("logs").Where("name' OR '1'='1", "=", "x").Build()
	require.Error(t, err)
}

func TestBuilderRejectsUnsupportedOperator(t *testing.T) {
	_, _, err := Select("id").From("logs").Where("name", "= 1 OR", "x").Build()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported operator")
}

func TestBuilderAcceptsQualifiedIdentifier(t *testing.T) {
	query, _, err := Select("attendance_logs.id").From("attendance_logs").Build()
	require.NoError(t, err)
	require.Contains(t, query, "attendance_logs.id")
}

func TestBuilderImmutable(t *testing.T) {
	base := Select("id").From("logs")
	first := base.Where("a", "=", 1)
	second := base.Where("b", "=", 2)

	q1, v1, err := first.Build()
	require.NoError(t, err)
	q2, v2, err := second.Build()
	require.NoError(t, err)

	require.Equal(t, "SELECT id FROM logs WHERE a = $1", q1)
	require.Equal(t, []any{1}, v1)
	require.Equal(t, "SELECT id FROM logs WHERE b = $1", q2)
	require.Equal(t, []any{2}, v2)
}

func TestBuilderSanitizesStringValues(t *testing.T) {
	_, values, err := Select("id").From("logs").Where("name", "=", "abc\x00def\x1f").Build()
	require.NoError(t, err)
	require.Equal(t, []any{"abcdef"}, values)
}

func TestBuilderCollectsFailures(t *testing.T) {
	_, _, err := Select("bad col").From("bad table").Build()
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad col")
	require.Contains(t, err.Error(), "bad table")
}

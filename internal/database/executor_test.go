package database

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testExecutor(t *testing.T, cfg ExecutorConfig) *Executor {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	executor := NewExecutor(db, cfg, zerolog.New(io.Discard))
	executor.sleep = func(context.Context, time.Duration) error { return nil }
	return executor
}

func TestExecutorRetryCeiling(t *testing.T) {
	executor := testExecutor(t, ExecutorConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})

	attempts := 0
	result := executor.do(context.Background(), "test", func() error {
		attempts++
		return &pgconn.PgError{Code: "40P01"}
	})

	require.False(t, result.Success)
	require.Equal(t, 3, result.RetryCount)
	require.Equal(t, 4, attempts)
}

func TestExecutorNonRetryableShortCircuit(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	attempts := 0
	result := executor.do(context.Background(), "test", func() error {
		attempts++
		return &pgconn.PgError{Code: "23505"}
	})

	require.False(t, result.Success)
	require.Equal(t, 0, result.RetryCount)
	require.Equal(t, 1, attempts)
}

func TestExecutorRecoversAfterTransientFault(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	attempts := 0
	result := executor.do(context.Background(), "test", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	require.True(t, result.Success)
	require.Equal(t, 2, result.RetryCount)
}

func TestExecutorValidationIsTerminal(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	result := executor.Exec(context.Background(), "DELETE FROM logs; DROP TABLE logs; --")
	require.False(t, result.Success)
	require.Equal(t, 0, result.RetryCount)
	require.ErrorIs(t, result.Err, ErrQueryRejected)
}

func TestExecutorParameterMismatchRejected(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	var dest []int
	result := executor.Query(context.Background(), &dest, "SELECT * FROM t WHERE id = $1", 1, 2)
	require.False(t, result.Success)
	require.ErrorIs(t, result.Err, ErrQueryRejected)
}

func TestExecutorQueryRoundTrip(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	require.True(t, executor.Exec(context.Background(), "CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT)").Success)
	require.True(t, executor.Exec(context.Background(), "INSERT INTO widgets (id, name) VALUES ($1, $2)", 1, "gear").Success)

	var names []string
	result := executor.Query(context.Background(), &names, "SELECT name FROM widgets WHERE id = $1", 1)
	require.True(t, result.Success)
	require.Equal(t, []string{"gear"}, names)
}

func TestExecutorTransactionRollsBackOnFailure(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	require.True(t, executor.Exec(context.Background(), "CREATE TABLE entries (id INTEGER PRIMARY KEY)").Success)

	result := executor.Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO entries (id) VALUES (1)").Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.False(t, result.Success)

	var count int
	require.True(t, executor.Query(context.Background(), &count, "SELECT COUNT(*) FROM entries").Success)
	require.Equal(t, 0, count)
}

func TestExecutorBackoffCapped(t *testing.T) {
	executor := testExecutor(t, ExecutorConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second})

	for retry := 0; retry < 10; retry++ {
		delay := executor.backoff(retry)
		require.LessOrEqual(t, delay, 30*time.Second)
		require.Greater(t, delay, time.Duration(0))
	}
}

func TestExecutorSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, sleepContext(ctx, time.Minute))
}

func TestExecutorHealth(t *testing.T) {
	executor := testExecutor(t, DefaultExecutorConfig())

	report := executor.Health(context.Background())
	require.Equal(t, "healthy", report.Status)
	require.GreaterOrEqual(t, report.InUse+report.Idle, 0)
}

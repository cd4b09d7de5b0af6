package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rollcall-labs/rollcall-api/internal/observability"
	"github.com/rollcall-labs/rollcall-api/internal/securesql"
)

// ErrQueryRejected marks a query that failed pre-execution validation.
// It is terminal and never retried.
var ErrQueryRejected = errors.New("query rejected by validation")

// ExecutorConfig tunes the retry behaviour of the fault-recovery executor.
type ExecutorConfig struct {
	// MaxRetries is the number of retries beyond the first attempt.
	MaxRetries int
	// BaseDelay is the backoff base; doubled per retry with 0-10% jitter.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration
}

// DefaultExecutorConfig returns the production retry settings.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RecoveryResult describes the outcome of one executed operation, including
// how many retries were spent on it.
type RecoveryResult struct {
	Success    bool
	RetryCount int
	Err        error
}

// HealthReport summarises a database health probe.
type HealthReport struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency"`
	InUse   int           `json:"in_use"`
	Idle    int           `json:"idle"`
	Waiting int64         `json:"waiting"`
}

// Executor wraps every database operation with query validation, fault
// classification, class-specific recovery actions and exponential-backoff
// retry. Safe for concurrent use.
type Executor struct {
	db     *gorm.DB
	cfg    ExecutorConfig
	logger zerolog.Logger
	sleep  func(context.Context, time.Duration) error
}

// NewExecutor constructs an executor around the shared connection pool.
func NewExecutor(db *gorm.DB, cfg ExecutorConfig, logger zerolog.Logger) *Executor {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}

	return &Executor{
		db:     db,
		cfg:    cfg,
		logger: logger.With().Str("component", "db_executor").Logger(),
		sleep:  sleepContext,
	}
}

// Query validates then runs a point query, scanning rows into dest.
func (e *Executor) Query(ctx context.Context, dest any, query string, params ...any) RecoveryResult {
	if result, ok := e.reject(query, params); !ok {
		return result
	}

	return e.do(ctx, "query", func() error {
		return e.db.WithContext(ctx).Raw(query, params...).Scan(dest).Error
	})
}

// Exec validates then runs a mutation statement.
func (e *Executor) Exec(ctx context.Context, query string, params ...any) RecoveryResult {
	if result, ok := e.reject(query, params); !ok {
		return result
	}

	return e.do(ctx, "exec", func() error {
		return e.db.WithContext(ctx).Exec(query, params...).Error
	})
}

// Transaction runs fn inside a single transaction. Any failure rolls the
// transaction back before retry classification; a fresh transaction is
// started on each retry, so no partial commit carries over.
func (e *Executor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) RecoveryResult {
	return e.do(ctx, "transaction", func() error {
		return e.db.WithContext(ctx).Transaction(fn)
	})
}

// Health executes a trivial round-trip query and reports probe latency and
// pool occupancy. Status is healthy below one second, degraded above, and
// unhealthy when the probe itself fails.
func (e *Executor) Health(ctx context.Context) HealthReport {
	report := HealthReport{Status: "unhealthy"}

	if sqlDB, err := e.db.DB(); err == nil {
		stats := sqlDB.Stats()
		report.InUse = stats.InUse
		report.Idle = stats.Idle
		report.Waiting = stats.WaitCount
	}

	start := time.Now()
	var one int
	if err := e.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		e.logger.Error().Err(err).Msg("database health probe failed")
		return report
	}

	report.Latency = time.Since(start)
	if report.Latency < time.Second {
		report.Status = "healthy"
	} else {
		report.Status = "degraded"
	}

	return report
}

func (e *Executor) reject(query string, params []any) (RecoveryResult, bool) {
	validation := securesql.ValidateParameterizedQuery(query, params)
	if validation.IsValid {
		return RecoveryResult{}, true
	}

	err := fmt.Errorf("%w: %s", ErrQueryRejected, strings.Join(validation.Errors, "; "))
	e.logger.Warn().Strs("violations", validation.Errors).Msg("query rejected before execution")
	return RecoveryResult{Err: err}, false
}

func (e *Executor) do(ctx context.Context, name string, attempt func() error) RecoveryResult {
	retries := 0
	for {
		err := attempt()
		if err == nil {
			return RecoveryResult{Success: true, RetryCount: retries}
		}

		class := Classify(err)
		if !class.Retryable() || retries >= e.cfg.MaxRetries {
			if class.Retryable() {
				e.logger.Error().Err(err).Str("operation", name).Int("retries", retries).Msg("retry budget exhausted")
			}
			return RecoveryResult{RetryCount: retries, Err: err}
		}

		observability.DatabaseRetries().WithLabelValues(class.String()).Inc()
		e.logger.Warn().Err(err).
			Str("operation", name).
			Str("fault_class", class.String()).
			Int("retry", retries).
			Msg("retrying database operation")

		e.recoverFault(ctx, class)

		if sleepErr := e.sleep(ctx, e.backoff(retries)); sleepErr != nil {
			return RecoveryResult{RetryCount: retries, Err: err}
		}
		retries++
	}
}

// recoverFault runs the class-specific mitigation before the backoff sleep.
// Its outcome never suppresses the retry.
func (e *Executor) recoverFault(ctx context.Context, class FaultClass) {
	switch class {
	case FaultConnection, FaultShutdown:
		if sqlDB, err := e.db.DB(); err == nil {
			if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
				e.logger.Warn().Err(pingErr).Msg("pool connectivity probe failed")
			}
		}
	case FaultDeadlock:
		// Random delay de-correlates competing transactions.
		_ = e.sleep(ctx, rand.N(time.Second))
	case FaultSerialization:
		_ = e.sleep(ctx, 500*time.Millisecond)
	case FaultLockTimeout:
		_ = e.sleep(ctx, 500*time.Millisecond)
	case FaultTooManyConnections, FaultResource:
		_ = e.sleep(ctx, 2*time.Second)
	}
}

func (e *Executor) backoff(retryCount int) time.Duration {
	delay := e.cfg.BaseDelay << retryCount
	if delay > e.cfg.MaxDelay || delay <= 0 {
		delay = e.cfg.MaxDelay
	}

	jitter := time.Duration(rand.Float64() * 0.1 * float64(delay))
	if delay+jitter > e.cfg.MaxDelay {
		return e.cfg.MaxDelay
	}
	return delay + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

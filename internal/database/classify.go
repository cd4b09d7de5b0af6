package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// FaultClass partitions database errors by the recovery policy they require.
type FaultClass int

const (
	// FaultNone means the operation succeeded.
	FaultNone FaultClass = iota
	// FaultConnection covers connection loss, refusal and resets.
	FaultConnection
	// FaultTooManyConnections covers pool and server connection limits.
	FaultTooManyConnections
	// FaultShutdown covers admin or crash shutdown of the server.
	FaultShutdown
	// FaultSerialization covers serialization failures in concurrent transactions.
	FaultSerialization
	// FaultDeadlock covers deadlock detection.
	FaultDeadlock
	// FaultLockTimeout covers lock acquisition timeouts.
	FaultLockTimeout
	// FaultResource covers server resource exhaustion.
	FaultResource
	// FaultValidation covers queries rejected before execution.
	FaultValidation
	// FaultTerminal covers everything else; never retried.
	FaultTerminal
)

// String returns the metric label for the fault class.
func (f FaultClass) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultConnection:
		return "connection"
	case FaultTooManyConnections:
		return "too_many_connections"
	case FaultShutdown:
		return "shutdown"
	case FaultSerialization:
		return "serialization"
	case FaultDeadlock:
		return "deadlock"
	case FaultLockTimeout:
		return "lock_timeout"
	case FaultResource:
		return "resource"
	case FaultValidation:
		return "validation"
	default:
		return "terminal"
	}
}

// Retryable reports whether an operation hitting this fault class is eligible
// for backoff retry.
func (f FaultClass) Retryable() bool {
	switch f {
	case FaultConnection, FaultTooManyConnections, FaultShutdown, FaultSerialization, FaultDeadlock, FaultLockTimeout, FaultResource:
		return true
	default:
		return false
	}
}

// Classify maps an error to its fault class using Postgres SQLSTATE codes
// first and message heuristics for driver-level faults.
func Classify(err error) FaultClass {
	if err == nil {
		return FaultNone
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FaultTerminal
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001":
			return FaultSerialization
		case "40P01":
			return FaultDeadlock
		case "55P03":
			return FaultLockTimeout
		case "53300":
			return FaultTooManyConnections
		case "57P01", "57P02", "57P03":
			return FaultShutdown
		}
		switch {
		case strings.HasPrefix(pgErr.Code, "08"):
			return FaultConnection
		case strings.HasPrefix(pgErr.Code, "53"):
			return FaultResource
		}
		return FaultTerminal
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "too many connections"), strings.Contains(message, "too many clients"):
		return FaultTooManyConnections
	case strings.Contains(message, "connection refused"),
		strings.Contains(message, "connection reset"),
		strings.Contains(message, "broken pipe"),
		strings.Contains(message, "connection closed"),
		strings.Contains(message, "bad connection"),
		strings.Contains(message, "i/o timeout"):
		return FaultConnection
	case strings.Contains(message, "shutting down"), strings.Contains(message, "server closed"):
		return FaultShutdown
	case strings.Contains(message, "deadlock"):
		return FaultDeadlock
	case strings.Contains(message, "could not serialize"):
		return FaultSerialization
	case strings.Contains(message, "lock timeout"), strings.Contains(message, "lock not available"):
		return FaultLockTimeout
	case strings.Contains(message, "out of memory"), strings.Contains(message, "disk full"):
		return FaultResource
	default:
		return FaultTerminal
	}
}

package security

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRingBufferEvictsOldest(t *testing.T) {
	buffer := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		event := NewEvent(EventSuspiciousActivity, fmt.Sprintf("event %d", i))
		buffer.Record(event)
	}

	snapshot := buffer.Snapshot()
	require.Len(t, snapshot, 3)
	require.Equal(t, "event 2", snapshot[0].Details)
	require.Equal(t, "event 4", snapshot[2].Details)
}

func TestRingBufferConcurrentAppends(t *testing.T) {
	buffer := NewRingBuffer(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				buffer.Record(NewEvent(EventRateLimitExceeded, "burst"))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 100, buffer.Len())
}

func TestRingBufferDefaultCapacity(t *testing.T) {
	buffer := NewRingBuffer(0)
	for i := 0; i < 1100; i++ {
		buffer.Record(NewEvent(EventInvalidToken, "bad token"))
	}
	require.Equal(t, 1000, buffer.Len())
}

func TestFanoutReachesAllSinks(t *testing.T) {
	first := NewRingBuffer(10)
	second := NewRingBuffer(10)

	sink := Fanout(first, second)
	sink.Record(NewEvent(EventUnauthorizedAccess, "denied"))

	require.Equal(t, 1, first.Len())
	require.Equal(t, 1, second.Len())
}

func TestMonitorRecordsToSink(t *testing.T) {
	buffer := NewRingBuffer(10)
	monitor := NewMonitor(buffer, zerolog.New(io.Discard))

	event := NewEvent(EventDataBreachAttempt, "payload scan hit")
	event.Blocked = true
	monitor.Record(event)

	snapshot := buffer.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, SeverityCritical, snapshot[0].Severity)
	require.True(t, snapshot[0].Blocked)
}

func TestSeverityMapping(t *testing.T) {
	require.Equal(t, SeverityCritical, SeverityFor(EventDataBreachAttempt))
	require.Equal(t, SeverityHigh, SeverityFor(EventUnauthorizedAccess))
	require.Equal(t, SeverityHigh, SeverityFor(EventSuspiciousActivity))
	require.Equal(t, SeverityMedium, SeverityFor(EventInvalidToken))
	require.Equal(t, SeverityMedium, SeverityFor(EventRateLimitExceeded))
}

func TestNewEventPopulatesIdentity(t *testing.T) {
	event := NewEvent(EventInvalidToken, "expired")
	require.NotEmpty(t, event.ID)
	require.False(t, event.Timestamp.IsZero())
	require.Equal(t, SeverityMedium, event.Severity)
}

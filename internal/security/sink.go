package security

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/observability"
)

// Sink receives security events. Implementations must tolerate concurrent
// calls.
type Sink interface {
	Record(event Event)
}

// RingBuffer is a bounded in-process event log. When full, the oldest event
// is evicted first.
type RingBuffer struct {
	mu       sync.Mutex
	events   []Event
	capacity int
}

// NewRingBuffer creates a buffer holding at most capacity events.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RingBuffer{capacity: capacity}
}

// Record appends the event, evicting the oldest entry when at capacity.
func (b *RingBuffer) Record(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == b.capacity {
		b.events = b.events[1:]
	}
	b.events = append(b.events, event)
}

// Snapshot returns a copy of the buffered events, oldest first.
func (b *RingBuffer) Snapshot() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make([]Event, len(b.events))
	copy(snapshot, b.events)
	return snapshot
}

// Len reports how many events are currently buffered.
func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// NATSForwarder publishes events to an external monitoring subject.
// Publishing is best effort; failures are logged and never block the caller.
type NATSForwarder struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSForwarder creates a forwarder publishing to the given subject.
func NewNATSForwarder(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSForwarder {
	return &NATSForwarder{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "security_forwarder").Logger(),
	}
}

// Record publishes the event as JSON.
func (f *NATSForwarder) Record(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to encode security event")
		return
	}

	if err := f.conn.Publish(f.subject, payload); err != nil {
		f.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to forward security event")
	}
}

type multiSink struct {
	sinks []Sink
}

// Fanout combines sinks so one recorded event reaches all of them.
func Fanout(sinks ...Sink) Sink {
	return multiSink{sinks: sinks}
}

func (m multiSink) Record(event Event) {
	for _, sink := range m.sinks {
		sink.Record(event)
	}
}

// Monitor couples a sink with an operational log so every event is both
// buffered and written to the log stream.
type Monitor struct {
	sink   Sink
	logger zerolog.Logger
}

// NewMonitor constructs a monitor around the injected sink.
func NewMonitor(sink Sink, logger zerolog.Logger) *Monitor {
	return &Monitor{
		sink:   sink,
		logger: logger.With().Str("component", "security_monitor").Logger(),
	}
}

// Record buffers the event, counts it and writes it to the operational log.
func (m *Monitor) Record(event Event) {
	if m == nil {
		return
	}

	if m.sink != nil {
		m.sink.Record(event)
	}

	observability.SecurityEvents().WithLabelValues(string(event.Type)).Inc()

	entry := m.logger.Warn()
	if event.Severity == SeverityCritical {
		entry = m.logger.Error()
	}
	entry.
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("severity", string(event.Severity)).
		Str("ip", event.IPAddress).
		Str("endpoint", event.Endpoint).
		Str("method", event.Method).
		Bool("blocked", event.Blocked).
		Msg(event.Details)
}

package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var buffer = NewRingBuffer(256)

// Appender persists journal events. *postgres.Client satisfies it.
type Appender interface {
	Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error
}

var (
	sinkMu          sync.RWMutex
	sink            Appender
	sinkErrorLogged bool
	sessionID       string
	echo            io.Writer

	totalCount atomic.Int64
)

// SetAppender sets the journal sink. Pass nil to disable persistence.
func SetAppender(a Appender) {
	sinkMu.Lock()
	sink = a
	sinkErrorLogged = false
	sinkMu.Unlock()
}

// SetSessionID tags every subsequent event with the given session.
func SetSessionID(id string) {
	sinkMu.Lock()
	sessionID = id
	sinkMu.Unlock()
}

// SetOutput echoes every event as a JSON line to w. Pass nil to stop echoing.
func SetOutput(w io.Writer) {
	sinkMu.Lock()
	echo = w
	sinkMu.Unlock()
}

type Event struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Name      string                 `json:"event"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
}

// Emit records a journal event and returns its JSON encoding.
// Unknown event names are rejected before anything is recorded.
func Emit(level, name, msg string, fields map[string]interface{}) ([]byte, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}

	sinkMu.RLock()
	client := sink
	errorLogged := sinkErrorLogged
	sid := sessionID
	out := echo
	sinkMu.RUnlock()

	ts := time.Now().UTC()
	e := Event{
		Timestamp: ts.Format(time.RFC3339Nano),
		Level:     level,
		Name:      name,
		Message:   msg,
		Fields:    fields,
		SessionID: sid,
	}

	buffer.Add(e)
	totalCount.Add(1)
	broadcast(e)

	if client != nil {
		if err := client.Append(ts, level, name, msg, fields, sid); err != nil && !errorLogged {
			sinkMu.Lock()
			first := !sinkErrorLogged
			sinkErrorLogged = true
			sinkMu.Unlock()
			if first {
				// Goes straight to the buffer; calling Emit here would recurse while the sink is down.
				buffer.Add(Event{
					Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
					Level:     "error",
					Name:      "system.error",
					Message:   "journal append failed",
					Fields:    map[string]interface{}{"error": err.Error()},
					SessionID: sid,
				})
			}
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	if out != nil {
		fmt.Fprintln(out, string(b))
	}

	return b, nil
}

func Snapshot() []Event {
	return buffer.Snapshot()
}

// TotalCount returns the number of events emitted since startup.
func TotalCount() int64 {
	return totalCount.Load()
}

// Clear resets the event buffer. Used for testing.
func Clear() {
	buffer.Clear()
}

// Find returns buffered events with the given name, oldest first.
func Find(name string) []Event {
	var out []Event
	for _, e := range buffer.Snapshot() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	initial := SubscriberCount()

	sub1 := Subscribe()
	if SubscriberCount() != initial+1 {
		t.Errorf("expected %d subscribers after first subscribe, got %d", initial+1, SubscriberCount())
	}

	sub2 := Subscribe()
	if SubscriberCount() != initial+2 {
		t.Errorf("expected %d subscribers after second subscribe, got %d", initial+2, SubscriberCount())
	}

	Unsubscribe(sub1)
	if SubscriberCount() != initial+1 {
		t.Errorf("expected %d subscribers after unsubscribe, got %d", initial+1, SubscriberCount())
	}

	// Second unsubscribe must not panic on a closed channel
	Unsubscribe(sub1)
	if SubscriberCount() != initial+1 {
		t.Errorf("expected double unsubscribe to be a no-op, got %d subscribers", SubscriberCount())
	}

	Unsubscribe(sub2)
	if SubscriberCount() != initial {
		t.Errorf("expected %d subscribers after all unsubscribed, got %d", initial, SubscriberCount())
	}
}

func TestBroadcastToSubscribers(t *testing.T) {
	sub := Subscribe()
	defer Unsubscribe(sub)

	Emit("info", "target.eliminated", "", map[string]interface{}{"target": "A"})

	select {
	case e := <-sub:
		if e.Name != "target.eliminated" {
			t.Errorf("expected event name 'target.eliminated', got '%s'", e.Name)
		}
		if e.Fields["target"] != "A" {
			t.Errorf("expected target 'A', got '%v'", e.Fields["target"])
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for broadcast event")
	}
}

func TestRecentEvents(t *testing.T) {
	Clear()

	for i := 0; i < 10; i++ {
		Emit("info", "target.eliminated", "", map[string]interface{}{"i": i})
	}

	recent := RecentEvents(5)
	if len(recent) != 5 {
		t.Errorf("expected 5 recent events, got %d", len(recent))
	}

	// Last five means the first one returned is i=5
	if recent[0].Fields["i"] != 5 {
		t.Errorf("expected first recent event i=5, got %v", recent[0].Fields["i"])
	}

	all := RecentEvents(100)
	if len(all) != 10 {
		t.Errorf("expected 10 events when requesting 100, got %d", len(all))
	}

	zero := RecentEvents(0)
	if len(zero) != 10 {
		t.Errorf("expected 10 events when requesting 0, got %d", len(zero))
	}
}

func TestCloseAllSubscribers(t *testing.T) {
	CloseAllSubscribers()

	sub1 := Subscribe()
	sub2 := Subscribe()

	if SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", SubscriberCount())
	}

	CloseAllSubscribers()

	_, ok1 := <-sub1
	_, ok2 := <-sub2
	if ok1 || ok2 {
		t.Error("expected all channels to be closed")
	}

	if SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after CloseAllSubscribers, got %d", SubscriberCount())
	}
}

func TestEmitRejectsUnknownEvent(t *testing.T) {
	Clear()
	before := TotalCount()

	if _, err := Emit("info", "node.started", "", nil); err == nil {
		t.Error("expected error for unknown event name")
	}
	if len(Snapshot()) != 0 {
		t.Errorf("expected rejected event not to be buffered, got %d events", len(Snapshot()))
	}
	if TotalCount() != before {
		t.Errorf("expected total count unchanged, got %d want %d", TotalCount(), before)
	}
}

func TestEmitEchoesJSONLine(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out)
	defer SetOutput(nil)

	SetSessionID("sess-1")
	defer SetSessionID("")

	if _, err := Emit("info", "puzzle.initialized", "hunt", map[string]interface{}{"puzzle_id": "PuzzleOne"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var e Event
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &e); err != nil {
		t.Fatalf("failed to decode echoed line %q: %v", out.String(), err)
	}
	if e.Name != "puzzle.initialized" {
		t.Errorf("expected 'puzzle.initialized', got '%s'", e.Name)
	}
	if e.SessionID != "sess-1" {
		t.Errorf("expected session id 'sess-1', got '%s'", e.SessionID)
	}
}

type failingAppender struct {
	calls int
}

func (f *failingAppender) Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error {
	f.calls++
	return errors.New("connection refused")
}

func TestAppenderFailureLoggedOnce(t *testing.T) {
	Clear()
	app := &failingAppender{}
	SetAppender(app)
	defer SetAppender(nil)

	for i := 0; i < 3; i++ {
		if _, err := Emit("info", "target.eliminated", "", nil); err != nil {
			t.Fatalf("emit should not fail when the sink fails: %v", err)
		}
	}

	if app.calls != 3 {
		t.Errorf("expected 3 append attempts, got %d", app.calls)
	}
	if n := len(Find("system.error")); n != 1 {
		t.Errorf("expected exactly 1 system.error event, got %d", n)
	}
}

func TestRingBufferWraps(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.Add(Event{Name: "target.eliminated", Fields: map[string]interface{}{"i": i}})
	}

	snap := rb.Snapshot()
	if len(snap) != 3 || rb.Len() != 3 {
		t.Fatalf("expected 3 buffered events, got %d", len(snap))
	}
	if snap[0].Fields["i"] != 2 || snap[2].Fields["i"] != 4 {
		t.Errorf("expected events 2..4 in order, got %v..%v", snap[0].Fields["i"], snap[2].Fields["i"])
	}

	rb.Clear()
	if rb.Len() != 0 {
		t.Errorf("expected empty buffer after Clear, got %d", rb.Len())
	}
}

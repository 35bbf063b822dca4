package mqtt

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/AaronLay10/PuzzleMaster/internal/bus"
	"github.com/AaronLay10/PuzzleMaster/internal/events"
	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
)

// Inbound topics, relative to the room prefix.
const (
	TopicTargetEliminated = "targets/eliminated"
	TopicKillTimer        = "timer/kill"
	TopicHideStart        = "timer/hide/start"
	TopicHideStop         = "timer/hide/stop"
	TopicGameOver         = "game/over"
	TopicHeartbeat        = "props/+/heartbeat"
)

// Eliminator receives target eliminations reported by room props.
type Eliminator interface {
	EliminateTarget(t puzzle.TargetID) bool
}

type eliminationMsg struct {
	Target string `json:"target"`
}

type killTimerMsg struct {
	DeltaSec float64 `json:"delta_sec"`
}

type hideStartMsg struct {
	DurationSec float64 `json:"duration_sec"`
}

type gameOverMsg struct {
	Won bool `json:"won"`
}

type heartbeatMsg struct {
	IntervalSec int `json:"interval_sec"`
}

// Bridge connects room props on the broker to the bus and the puzzle
// controller. Inbound messages are translated into bus publishes and
// eliminations; every bus channel is mirrored to display/<channel>.
type Bridge struct {
	conn    Conn
	prefix  string
	bus     *bus.Bus
	target  Eliminator
	monitor *Monitor

	mu   sync.Mutex
	subs []*bus.Subscription
}

func NewBridge(conn Conn, prefix string, b *bus.Bus, target Eliminator) *Bridge {
	return &Bridge{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "/"),
		bus:    b,
		target: target,
	}
}

// WithMonitor routes prop heartbeats to m.
func (br *Bridge) WithMonitor(m *Monitor) *Bridge {
	br.monitor = m
	return br
}

// Topic joins suffix onto the room prefix.
func (br *Bridge) Topic(suffix string) string {
	return br.prefix + "/" + suffix
}

// Start subscribes the inbound topics and registers the display mirrors.
func (br *Bridge) Start() error {
	inbound := map[string]paho.MessageHandler{
		TopicTargetEliminated: br.handle(TopicTargetEliminated, br.onEliminated),
		TopicKillTimer:        br.handle(TopicKillTimer, br.onKillTimer),
		TopicHideStart:        br.handle(TopicHideStart, br.onHideStart),
		TopicHideStop:         br.handle(TopicHideStop, br.onHideStop),
		TopicGameOver:         br.handle(TopicGameOver, br.onGameOver),
	}
	if br.monitor != nil {
		inbound[TopicHeartbeat] = br.handle(TopicHeartbeat, br.onHeartbeat)
	}
	for suffix, h := range inbound {
		if err := br.conn.Subscribe(br.Topic(suffix), h); err != nil {
			return fmt.Errorf("subscribe %s: %w", suffix, err)
		}
	}

	subs := []*bus.Subscription{
		br.bus.OnKillTimerChange(func(d time.Duration) error {
			return br.display(bus.KillTimerChange, killTimerMsg{DeltaSec: d.Seconds()})
		}),
		br.bus.OnGameOver(func(won bool) error {
			return br.display(bus.GameOver, gameOverMsg{Won: won})
		}),
		br.bus.OnHideTimerStart(func(d time.Duration) error {
			return br.display(bus.HideTimerStart, hideStartMsg{DurationSec: d.Seconds()})
		}),
		br.bus.OnHideTimerStop(func() error {
			return br.display(bus.HideTimerStop, struct{}{})
		}),
		br.bus.OnNextPuzzle(func(s bus.SceneRef) error {
			return br.display(bus.NextPuzzle, map[string]string{"scene": string(s)})
		}),
	}

	br.mu.Lock()
	br.subs = append(br.subs, subs...)
	br.mu.Unlock()
	return nil
}

// Close removes the bridge's bus subscriptions.
func (br *Bridge) Close() {
	br.mu.Lock()
	subs := br.subs
	br.subs = nil
	br.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

func (br *Bridge) display(ch bus.Channel, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return br.conn.Publish(br.Topic("display/"+string(ch)), b)
}

// handle wraps fn with journaling. Payloads that fail to decode are
// journaled as device.error and dropped.
func (br *Bridge) handle(suffix string, fn func(topic string, payload []byte) error) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		var payload interface{}
		if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
			payload = string(msg.Payload())
		}
		if suffix != TopicHeartbeat {
			events.Emit("info", "device.input", "", map[string]interface{}{
				"topic":   msg.Topic(),
				"payload": payload,
			})
		}

		if err := fn(msg.Topic(), msg.Payload()); err != nil {
			events.Emit("warn", "device.error", "rejected message", map[string]interface{}{
				"topic": msg.Topic(),
				"error": err.Error(),
			})
		}
	}
}

func decode(payload []byte, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (br *Bridge) onEliminated(_ string, payload []byte) error {
	var m eliminationMsg
	if err := decode(payload, &m); err != nil {
		return err
	}
	if m.Target == "" {
		return fmt.Errorf("missing target")
	}
	br.target.EliminateTarget(puzzle.TargetID(m.Target))
	return nil
}

func (br *Bridge) onKillTimer(_ string, payload []byte) error {
	var m killTimerMsg
	if err := decode(payload, &m); err != nil {
		return err
	}
	d, err := seconds(m.DeltaSec)
	if err != nil {
		return fmt.Errorf("delta_sec: %w", err)
	}
	br.bus.ChangeKillTimer(d)
	return nil
}

func (br *Bridge) onHideStart(_ string, payload []byte) error {
	var m hideStartMsg
	if err := decode(payload, &m); err != nil {
		return err
	}
	if m.DurationSec <= 0 {
		return fmt.Errorf("duration_sec must be positive")
	}
	d, err := seconds(m.DurationSec)
	if err != nil {
		return fmt.Errorf("duration_sec: %w", err)
	}
	br.bus.StartHideTimer(d)
	return nil
}

func (br *Bridge) onHideStop(_ string, _ []byte) error {
	br.bus.StopHideTimer()
	return nil
}

func (br *Bridge) onGameOver(_ string, payload []byte) error {
	var m gameOverMsg
	if err := decode(payload, &m); err != nil {
		return err
	}
	br.bus.EndGame(m.Won)
	return nil
}

// onHeartbeat handles <prefix>/props/<id>/heartbeat.
func (br *Bridge) onHeartbeat(topic string, payload []byte) error {
	var m heartbeatMsg
	if err := decode(payload, &m); err != nil {
		return err
	}
	rest := strings.TrimPrefix(topic, br.prefix+"/props/")
	id := strings.TrimSuffix(rest, "/heartbeat")
	if id == "" || id == rest {
		return fmt.Errorf("malformed heartbeat topic")
	}
	br.monitor.Seen(id, time.Duration(m.IntervalSec)*time.Second)
	return nil
}

const maxSeconds = math.MaxInt64 / float64(time.Second)

func seconds(s float64) (time.Duration, error) {
	if math.Abs(s) >= maxSeconds {
		return 0, fmt.Errorf("%g seconds is out of range", s)
	}
	return time.Duration(s * float64(time.Second)), nil
}

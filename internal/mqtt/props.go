package mqtt

import (
	"encoding/json"
	"log"
	"sync"
)

// Props drives the room's audio, overlay and player displays over MQTT.
// It satisfies the puzzle controller's Audio, UI and Player collaborators.
// Commands are fire-and-forget: publish failures are logged, not returned.
type Props struct {
	conn   Conn
	prefix string

	mu      sync.Mutex
	playing bool
}

func NewProps(conn Conn, prefix string) *Props {
	return &Props{conn: conn, prefix: prefix}
}

func (p *Props) send(suffix string, v interface{}) {
	topic := p.prefix + "/" + suffix
	b, err := json.Marshal(v)
	if err == nil {
		err = p.conn.Publish(topic, b)
	}
	if err != nil {
		log.Printf("mqtt: failed to publish %s: %v", topic, err)
	}
}

func (p *Props) PlayBackgroundScore() {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
	p.send("audio/score", map[string]string{"action": "play"})
}

func (p *Props) StopBackgroundScore() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	p.send("audio/score", map[string]string{"action": "stop"})
}

// ScorePlaying reports the last commanded score state.
func (p *Props) ScorePlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Props) SetActionText(text string) {
	p.send("ui/action_text", map[string]string{"text": text})
}

func (p *Props) CancelProgressDisplay() {
	p.send("ui/progress", map[string]string{"action": "cancel"})
}

func (p *Props) SetPlayerHealth(value int) {
	p.send("player/health", map[string]int{"value": value})
}

func (p *Props) SetPlayerAmmo(value int) {
	p.send("player/ammo", map[string]int{"value": value})
}

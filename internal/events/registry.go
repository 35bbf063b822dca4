package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// puzzle
	"puzzle.initialized":   {},
	"puzzle.solving":       {},
	"puzzle.transitioning": {},
	"puzzle.won":           {},
	"puzzle.cancelled":     {},
	"puzzle.rejected":      {},

	// target
	"target.eliminated": {},
	"target.ignored":    {},

	// scene
	"scene.load_requested": {},
	"scene.loaded":         {},
	"scene.failed":         {},

	// game
	"game.started":  {},
	"game.finished": {},

	// bus
	"bus.subscriber_failed": {},

	// operator
	"operator.eliminate": {},

	// device
	"device.connected":    {},
	"device.disconnected": {},
	"device.input":        {},
	"device.error":        {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

// Validate reports whether event is a known journal event name.
func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}

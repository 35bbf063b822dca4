package puzzle

import (
	"sync"
	"time"

	"github.com/AaronLay10/PuzzleMaster/internal/bus"
	"github.com/AaronLay10/PuzzleMaster/internal/events"
)

const (
	// DefaultResolveDelay is the pause between the last elimination and the scene change.
	DefaultResolveDelay = time.Second
	DefaultWinScene     = "GameOverWin"
	DefaultActionText   = "HUNT!"
)

// Config wires a Controller to its collaborators.
type Config struct {
	Bus           *bus.Bus
	Chain         Chain
	Collaborators Collaborators
	Scheduler     Scheduler

	ResolveDelay time.Duration
	WinScene     string
	ActionText   string
}

// Controller drives a puzzle through Active -> Solving -> Transitioning or Won.
//
// All state changes happen under mu. Bus publishes and collaborator calls
// are made after mu is released so subscribers may call back in.
type Controller struct {
	mu sync.Mutex

	bus    *bus.Bus
	chain  Chain
	collab Collaborators
	sched  Scheduler
	delay  time.Duration
	win    string
	action string

	def       *Definition
	state     State
	remaining *RemainingSet
	pending   Timer
	gen       uint64
	aborted   bool
	subs      []*bus.Subscription
}

// NewController creates an idle controller. Call Initialize to bind a puzzle.
func NewController(cfg Config) *Controller {
	if cfg.Scheduler == nil {
		cfg.Scheduler = WallScheduler{}
	}
	if cfg.ResolveDelay <= 0 {
		cfg.ResolveDelay = DefaultResolveDelay
	}
	if cfg.WinScene == "" {
		cfg.WinScene = DefaultWinScene
	}
	if cfg.ActionText == "" {
		cfg.ActionText = DefaultActionText
	}
	return &Controller{
		bus:    cfg.Bus,
		chain:  cfg.Chain.Clone(),
		collab: cfg.Collaborators.withDefaults(),
		sched:  cfg.Scheduler,
		delay:  cfg.ResolveDelay,
		win:    cfg.WinScene,
		action: cfg.ActionText,
		state:  StateIdle,
	}
}

// Initialize binds def and starts the puzzle. It fails with
// ErrAlreadyInitialized while another puzzle is bound, and with a
// *ConfigError when def is not playable against the chain.
func (c *Controller) Initialize(def Definition) error {
	c.mu.Lock()
	if c.def != nil {
		current := c.def.ID
		c.mu.Unlock()
		events.Emit("warn", "puzzle.rejected", ErrAlreadyInitialized.Error(), map[string]interface{}{
			"puzzle_id": string(def.ID),
			"current":   string(current),
		})
		return ErrAlreadyInitialized
	}
	if err := def.Validate(c.chain); err != nil {
		c.mu.Unlock()
		events.Emit("error", "puzzle.rejected", err.Error(), map[string]interface{}{
			"puzzle_id": string(def.ID),
		})
		return err
	}

	bound := def
	bound.Targets = append([]TargetID(nil), def.Targets...)
	c.def = &bound
	c.remaining = NewRemainingSet(bound.Targets)
	c.state = StateActive
	c.aborted = false
	if c.bus != nil {
		c.subs = append(c.subs, c.bus.OnGameOver(c.onGameOver))
	}
	targets := c.remaining.Len()
	c.mu.Unlock()

	transitions.WithLabelValues(string(StateActive)).Inc()

	s := c.collab.Session
	c.collab.Player.SetPlayerHealth(s.Health())
	c.collab.Player.SetPlayerAmmo(s.Ammo())
	c.collab.UI.SetActionText(c.action)
	s.RecordCurrentPuzzle(string(def.ID))
	c.collab.Audio.PlayBackgroundScore()

	events.Emit("info", "puzzle.initialized", "", map[string]interface{}{
		"puzzle_id":     string(def.ID),
		"targets":       targets,
		"has_successor": def.HasSuccessor,
	})
	return nil
}

// EliminateTarget removes t from the remaining set and reports whether it
// was a live member. Calls outside Active, and unknown or repeated
// targets, are ignored. Emptying the set schedules the delayed resolve.
func (c *Controller) EliminateTarget(t TargetID) bool {
	c.mu.Lock()
	if c.state != StateActive || c.aborted {
		reason := "state_" + string(c.state)
		if c.aborted {
			reason = "game_over"
		}
		c.mu.Unlock()
		c.ignored(t, reason)
		return false
	}
	if !c.remaining.Remove(t) {
		c.mu.Unlock()
		c.ignored(t, "unknown_target")
		return false
	}

	puzzleID := c.def.ID
	left := c.remaining.Len()
	solved := left == 0
	if solved {
		c.state = StateSolving
		c.gen++
		gen := c.gen
		c.pending = c.sched.AfterFunc(c.delay, func() { c.resolve(gen) })
	}
	c.mu.Unlock()

	eliminated.Inc()
	events.Emit("info", "target.eliminated", "", map[string]interface{}{
		"puzzle_id": string(puzzleID),
		"target":    string(t),
		"remaining": left,
	})

	if solved {
		transitions.WithLabelValues(string(StateSolving)).Inc()
		c.collab.UI.CancelProgressDisplay()
		events.Emit("info", "puzzle.solving", "", map[string]interface{}{
			"puzzle_id": string(puzzleID),
			"delay_ms":  c.delay.Milliseconds(),
		})
	}
	return true
}

func (c *Controller) ignored(t TargetID, reason string) {
	ignoredTotal.WithLabelValues(reason).Inc()
	events.Emit("debug", "target.ignored", "", map[string]interface{}{
		"target": string(t),
		"reason": reason,
	})
}

// resolve runs once per completion. A stale generation means the timer
// was revoked by Cancel after it had already been dispatched.
func (c *Controller) resolve(gen uint64) {
	c.mu.Lock()
	if c.pending == nil || gen != c.gen || c.state != StateSolving {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	def := *c.def

	var next PuzzleID
	if def.HasSuccessor {
		// Initialize validated the entry and the chain is a private copy.
		next, _ = c.chain.Successor(def.ID)
		c.state = StateTransitioning
	} else {
		c.state = StateWon
	}
	state := c.state
	c.mu.Unlock()

	transitions.WithLabelValues(string(state)).Inc()
	c.stopScore()

	if state == StateTransitioning {
		events.Emit("info", "puzzle.transitioning", "", map[string]interface{}{
			"puzzle_id": string(def.ID),
			"next":      string(next),
			"scene":     string(def.SuccessorScene),
		})
		if c.bus != nil {
			c.bus.SetNextPuzzle(def.SuccessorScene)
		}
		c.requestScene(string(next))
		return
	}

	events.Emit("info", "puzzle.won", "", map[string]interface{}{
		"puzzle_id": string(def.ID),
	})
	if c.bus != nil {
		c.bus.EndGame(true)
	}
	c.requestScene(c.win)
}

func (c *Controller) stopScore() {
	if c.collab.Audio.ScorePlaying() {
		c.collab.Audio.StopBackgroundScore()
	}
}

func (c *Controller) requestScene(id string) {
	events.Emit("info", "scene.load_requested", "", map[string]interface{}{"scene_id": id})
	c.collab.Scenes.RequestSceneLoad(id)
}

// onGameOver revokes a pending resolve when the game ends elsewhere (the
// kill timer ran out, or a prop declared the room won) so a late scene
// change cannot follow it. The controller's own win publishes from StateWon.
func (c *Controller) onGameOver(bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.def == nil || c.state == StateTransitioning || c.state == StateWon {
		return nil
	}
	c.aborted = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
		c.gen++
	}
	return nil
}

// Cancel tears the controller down: the pending resolve is revoked, the
// controller's own bus subscriptions are removed, and the controller
// returns to Idle. It is safe to call at any time, including twice.
func (c *Controller) Cancel() {
	c.mu.Lock()
	revoked := false
	if c.pending != nil {
		revoked = c.pending.Stop()
		c.pending = nil
	}
	c.gen++
	subs := c.subs
	c.subs = nil
	var puzzleID PuzzleID
	bound := c.def != nil
	if bound {
		puzzleID = c.def.ID
	}
	prev := c.state
	c.def = nil
	c.remaining = nil
	c.state = StateIdle
	c.aborted = false
	c.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}

	if bound {
		events.Emit("info", "puzzle.cancelled", "", map[string]interface{}{
			"puzzle_id":       string(puzzleID),
			"state":           string(prev),
			"resolve_revoked": revoked,
		})
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the live targets, sorted. It is empty when idle.
func (c *Controller) Remaining() []TargetID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining == nil {
		return nil
	}
	return c.remaining.Members()
}

// Puzzle returns the bound puzzle id and whether one is bound.
func (c *Controller) Puzzle() (PuzzleID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.def == nil {
		return "", false
	}
	return c.def.ID, true
}

// ResolvePending reports whether a delayed resolve is scheduled.
func (c *Controller) ResolvePending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

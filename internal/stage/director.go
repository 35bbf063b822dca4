// Package stage loads puzzle scenes on behalf of the controller.
package stage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AaronLay10/PuzzleMaster/internal/bus"
	"github.com/AaronLay10/PuzzleMaster/internal/config"
	"github.com/AaronLay10/PuzzleMaster/internal/events"
	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
)

const queueSize = 8

var (
	ErrQueueFull    = errors.New("scene queue full")
	ErrGameFinished = errors.New("game already finished")
)

// Puzzle is the part of the controller the director drives.
type Puzzle interface {
	Initialize(def puzzle.Definition) error
	Cancel()
}

// Director owns scene changes. RequestSceneLoad only queues the id; Run
// tears down the current puzzle and binds the next one on its own goroutine.
type Director struct {
	content *config.Content
	queue   chan string

	mu       sync.Mutex
	puzzle   Puzzle
	current  string
	finished bool
	won      bool
	loads    int
	done     chan struct{}
	sub      *bus.Subscription
}

func NewDirector(content *config.Content) *Director {
	return &Director{
		content: content,
		queue:   make(chan string, queueSize),
		done:    make(chan struct{}),
	}
}

// Bind attaches the controller the director loads puzzles into and, when b
// is not nil, watches GameOver to record the outcome.
func (d *Director) Bind(p Puzzle, b *bus.Bus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.puzzle = p
	if b != nil && d.sub == nil {
		d.sub = b.OnGameOver(d.onGameOver)
	}
}

// RequestSceneLoad queues a scene change.
func (d *Director) RequestSceneLoad(id string) {
	if err := d.enqueue(id); err != nil {
		events.Emit("error", "scene.failed", err.Error(), map[string]interface{}{"scene_id": id})
	}
}

func (d *Director) enqueue(id string) error {
	select {
	case d.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start queues the entry puzzle. An empty id starts the first puzzle in
// the content.
func (d *Director) Start(id puzzle.PuzzleID) error {
	if id == "" {
		id = d.content.Entry()
	}
	if _, ok := d.content.Definition(id); !ok {
		return fmt.Errorf("puzzle not found: %s", id)
	}
	events.Emit("info", "game.started", "", map[string]interface{}{"puzzle_id": string(id)})
	return d.enqueue(string(id))
}

// Run processes scene requests until ctx is cancelled.
func (d *Director) Run(ctx context.Context) error {
	defer d.release()
	for {
		select {
		case <-ctx.Done():
			return nil
		case id := <-d.queue:
			if err := d.load(id); err != nil {
				events.Emit("error", "scene.failed", err.Error(), map[string]interface{}{"scene_id": id})
			}
		}
	}
}

func (d *Director) load(id string) error {
	d.mu.Lock()
	p := d.puzzle
	finished, won := d.finished, d.won
	d.mu.Unlock()
	if p == nil {
		return errors.New("no puzzle controller bound")
	}
	if finished && !(won && id == d.content.WinSceneID()) {
		return fmt.Errorf("%w: %s", ErrGameFinished, id)
	}

	// The won puzzle stays bound so its final state remains visible.
	if id == d.content.WinSceneID() {
		d.mu.Lock()
		d.current = id
		d.loads++
		d.mu.Unlock()
		d.finish(true)
		events.Emit("info", "scene.loaded", "", map[string]interface{}{"scene_id": id})
		return nil
	}

	def, ok := d.content.Definition(puzzle.PuzzleID(id))
	if !ok {
		return fmt.Errorf("puzzle not found: %s", id)
	}

	p.Cancel()
	if err := p.Initialize(def); err != nil {
		return err
	}

	d.mu.Lock()
	d.current = id
	d.loads++
	d.mu.Unlock()

	events.Emit("info", "scene.loaded", "", map[string]interface{}{
		"scene_id": id,
		"asset":    string(def.Scene),
	})
	return nil
}

func (d *Director) onGameOver(won bool) error {
	d.finish(won)
	return nil
}

func (d *Director) finish(won bool) {
	d.mu.Lock()
	if d.finished {
		d.mu.Unlock()
		return
	}
	d.finished = true
	d.won = won
	close(d.done)
	d.mu.Unlock()

	events.Emit("info", "game.finished", "", map[string]interface{}{"won": won})
}

func (d *Director) release() {
	d.mu.Lock()
	sub := d.sub
	d.sub = nil
	d.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}

// Current returns the last scene loaded.
func (d *Director) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Loads returns how many scenes have been loaded.
func (d *Director) Loads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loads
}

// Finished reports whether the game has ended and whether it was won.
func (d *Director) Finished() (finished, won bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finished, d.won
}

// Done is closed when the game ends.
func (d *Director) Done() <-chan struct{} {
	return d.done
}

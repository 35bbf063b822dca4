package puzzle

import (
	"fmt"
	"slices"

	"github.com/AaronLay10/PuzzleMaster/internal/bus"
)

// TargetID identifies an entity the player must eliminate.
type TargetID string

// PuzzleID identifies a puzzle level. It doubles as the scene-load identifier.
type PuzzleID string

// State is the controller lifecycle state.
type State string

const (
	// StateIdle means no puzzle is bound (before Initialize or after Cancel).
	StateIdle          State = "idle"
	StateActive        State = "active"
	StateSolving       State = "solving"
	StateTransitioning State = "transitioning"
	StateWon           State = "won"
)

// Definition describes one puzzle level.
type Definition struct {
	ID      PuzzleID
	Scene   bus.SceneRef
	Targets []TargetID

	HasSuccessor bool
	// SuccessorScene is published on NextPuzzle when the puzzle is solved.
	SuccessorScene bus.SceneRef
}

// Validate checks the definition against chain. It is the content-time
// check; a definition that passes can always be initialized.
func (d Definition) Validate(chain Chain) error {
	if len(d.Targets) == 0 {
		return &ConfigError{Puzzle: d.ID, Err: ErrNoTargets}
	}
	if d.HasSuccessor {
		if _, ok := chain.Successor(d.ID); !ok {
			return &ConfigError{Puzzle: d.ID, Err: ErrMissingSuccessor}
		}
	}
	return nil
}

// Chain maps each puzzle to its successor. Identifiers need not be
// contiguous: PuzzleFive may lead straight to PuzzleSeven.
type Chain map[PuzzleID]PuzzleID

// Successor returns the configured successor of id.
func (c Chain) Successor(id PuzzleID) (PuzzleID, bool) {
	next, ok := c[id]
	return next, ok
}

// Clone returns an independent copy.
func (c Chain) Clone() Chain {
	out := make(Chain, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Validate rejects chains that loop back on themselves.
func (c Chain) Validate() error {
	for start := range c {
		seen := map[PuzzleID]bool{start: true}
		cur := start
		for {
			next, ok := c[cur]
			if !ok {
				break
			}
			if seen[next] {
				return &ConfigError{Puzzle: start, Err: fmt.Errorf("%w via %s", ErrChainCycle, next)}
			}
			seen[next] = true
			cur = next
		}
	}
	return nil
}

// RemainingSet tracks the targets still alive in the active puzzle.
// It only shrinks, and removing an absent target is a no-op.
// It is not safe for concurrent use; Controller serializes access.
type RemainingSet struct {
	members map[TargetID]struct{}
}

// NewRemainingSet seeds a set from targets. Duplicates collapse.
func NewRemainingSet(targets []TargetID) *RemainingSet {
	rs := &RemainingSet{members: make(map[TargetID]struct{}, len(targets))}
	for _, t := range targets {
		rs.members[t] = struct{}{}
	}
	return rs
}

// Remove deletes t and reports whether it was a member.
func (rs *RemainingSet) Remove(t TargetID) bool {
	if _, ok := rs.members[t]; !ok {
		return false
	}
	delete(rs.members, t)
	return true
}

func (rs *RemainingSet) Contains(t TargetID) bool {
	_, ok := rs.members[t]
	return ok
}

func (rs *RemainingSet) Len() int {
	return len(rs.members)
}

// Members returns the remaining targets in sorted order.
func (rs *RemainingSet) Members() []TargetID {
	out := make([]TargetID, 0, len(rs.members))
	for t := range rs.members {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

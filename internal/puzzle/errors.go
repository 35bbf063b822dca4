package puzzle

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyInitialized is returned when Initialize is called while a
	// puzzle is still bound. Cancel the previous puzzle first.
	ErrAlreadyInitialized = errors.New("puzzle already in progress")

	ErrMissingSuccessor = errors.New("successor missing from puzzle chain")
	ErrNoTargets        = errors.New("puzzle has no targets")
	ErrChainCycle       = errors.New("puzzle chain contains a cycle")
)

// ConfigError is a content error detected before a puzzle becomes playable.
type ConfigError struct {
	Puzzle PuzzleID
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("puzzle %s: %v", e.Puzzle, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AaronLay10/PuzzleMaster/internal/bus"
	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
)

// Content is the puzzle catalog loaded from content.yaml. Each puzzle names
// its successor once, and both the chain and the successor scene are derived
// from that single field.
type Content struct {
	Version        int           `yaml:"version"`
	Session        SessionStart  `yaml:"session"`
	ActionText     string        `yaml:"action_text"`
	WinScene       string        `yaml:"win_scene"`
	ResolveDelayMS int           `yaml:"resolve_delay_ms"`
	Puzzles        []PuzzleEntry `yaml:"puzzles"`
}

// SessionStart seeds the in-memory session record.
type SessionStart struct {
	Health int `yaml:"health"`
	Ammo   int `yaml:"ammo"`
}

type PuzzleEntry struct {
	ID      string   `yaml:"id"`
	Scene   string   `yaml:"scene"`
	Targets []string `yaml:"targets"`
	Next    string   `yaml:"next,omitempty"`
}

// LoadContent reads and validates a content file.
func LoadContent(path string) (*Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	c, err := ParseContent(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseContent decodes and validates content YAML.
func ParseContent(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every configuration error so content authors can fix
// them in one pass. A catalog that validates can be played end to end.
func (c *Content) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported content version: %d", c.Version)
	}
	if len(c.Puzzles) == 0 {
		return errors.New("content defines no puzzles")
	}

	var errs []error
	ids := make(map[string]bool, len(c.Puzzles))
	for i, p := range c.Puzzles {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("puzzles[%d]: id is required", i))
			continue
		}
		if ids[p.ID] {
			errs = append(errs, fmt.Errorf("puzzle %s: duplicate id", p.ID))
		}
		ids[p.ID] = true

		seen := make(map[string]bool, len(p.Targets))
		for _, t := range p.Targets {
			if t == "" {
				errs = append(errs, &puzzle.ConfigError{
					Puzzle: puzzle.PuzzleID(p.ID),
					Err:    errors.New("empty target name"),
				})
				continue
			}
			if seen[t] {
				errs = append(errs, fmt.Errorf("puzzle %s: duplicate target %s", p.ID, t))
			}
			seen[t] = true
		}
	}
	if ids[c.winScene()] {
		errs = append(errs, fmt.Errorf("win scene %s collides with a puzzle id", c.winScene()))
	}

	for _, p := range c.Puzzles {
		if p.Next != "" && !ids[p.Next] {
			errs = append(errs, &puzzle.ConfigError{
				Puzzle: puzzle.PuzzleID(p.ID),
				Err:    fmt.Errorf("%w: next %s is not defined", puzzle.ErrMissingSuccessor, p.Next),
			})
		}
	}

	chain := c.Chain()
	if err := chain.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.Puzzles {
		if p.ID == "" {
			continue
		}
		def, _ := c.Definition(puzzle.PuzzleID(p.ID))
		if err := def.Validate(chain); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Chain builds the successor mapping.
func (c *Content) Chain() puzzle.Chain {
	chain := make(puzzle.Chain)
	for _, p := range c.Puzzles {
		if p.Next != "" {
			chain[puzzle.PuzzleID(p.ID)] = puzzle.PuzzleID(p.Next)
		}
	}
	return chain
}

// Definition builds the playable definition for id.
func (c *Content) Definition(id puzzle.PuzzleID) (puzzle.Definition, bool) {
	p, ok := c.find(string(id))
	if !ok {
		return puzzle.Definition{}, false
	}

	def := puzzle.Definition{
		ID:           id,
		Scene:        bus.SceneRef(p.Scene),
		HasSuccessor: p.Next != "",
	}
	for _, t := range p.Targets {
		def.Targets = append(def.Targets, puzzle.TargetID(t))
	}
	if def.HasSuccessor {
		if next, ok := c.find(p.Next); ok {
			def.SuccessorScene = bus.SceneRef(next.Scene)
		}
	}
	return def, true
}

// Entry returns the first puzzle in the catalog.
func (c *Content) Entry() puzzle.PuzzleID {
	if len(c.Puzzles) == 0 {
		return ""
	}
	return puzzle.PuzzleID(c.Puzzles[0].ID)
}

// ResolveDelay returns the configured pause before a solved puzzle resolves.
func (c *Content) ResolveDelay() time.Duration {
	if c.ResolveDelayMS <= 0 {
		return puzzle.DefaultResolveDelay
	}
	return time.Duration(c.ResolveDelayMS) * time.Millisecond
}

func (c *Content) winScene() string {
	if c.WinScene == "" {
		return puzzle.DefaultWinScene
	}
	return c.WinScene
}

// WinSceneID returns the terminal scene loaded after the last puzzle.
func (c *Content) WinSceneID() string {
	return c.winScene()
}

func (c *Content) find(id string) (PuzzleEntry, bool) {
	for _, p := range c.Puzzles {
		if p.ID == id {
			return p, true
		}
	}
	return PuzzleEntry{}, false
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
)

const sampleContent = `
version: 1
session:
  health: 100
  ammo: 12
action_text: "HUNT!"
resolve_delay_ms: 1500
puzzles:
  - id: PuzzleOne
    scene: scenes/puzzle_one
    targets: [A, B, C]
    next: PuzzleTwo
  - id: PuzzleTwo
    scene: scenes/puzzle_two
    targets: [guard]
    next: PuzzleFive
  - id: PuzzleFive
    scene: scenes/puzzle_five
    targets: [sentry, sniper]
    next: PuzzleSeven
  - id: PuzzleSeven
    scene: scenes/puzzle_seven
    targets: [boss]
`

func TestParseContent(t *testing.T) {
	c, err := ParseContent([]byte(sampleContent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Entry() != "PuzzleOne" {
		t.Errorf("entry = %q, want PuzzleOne", c.Entry())
	}
	if c.ResolveDelay() != 1500*time.Millisecond {
		t.Errorf("resolve delay = %v", c.ResolveDelay())
	}
	if c.WinSceneID() != puzzle.DefaultWinScene {
		t.Errorf("win scene = %q", c.WinSceneID())
	}
	if c.Session.Health != 100 || c.Session.Ammo != 12 {
		t.Errorf("session = %+v", c.Session)
	}

	next, ok := c.Chain().Successor("PuzzleFive")
	if !ok || next != "PuzzleSeven" {
		t.Errorf("successor of PuzzleFive = %q, %v", next, ok)
	}
}

func TestDefinitionTakesSuccessorScene(t *testing.T) {
	c, err := ParseContent([]byte(sampleContent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def, ok := c.Definition("PuzzleFive")
	if !ok {
		t.Fatal("PuzzleFive not found")
	}
	if !def.HasSuccessor || def.SuccessorScene != "scenes/puzzle_seven" {
		t.Errorf("got %+v", def)
	}
	if len(def.Targets) != 2 {
		t.Errorf("targets = %v", def.Targets)
	}

	last, _ := c.Definition("PuzzleSeven")
	if last.HasSuccessor || last.SuccessorScene != "" {
		t.Errorf("last puzzle should have no successor: %+v", last)
	}

	if _, ok := c.Definition("PuzzleSix"); ok {
		t.Error("expected PuzzleSix to be missing")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    string
		wantErr error
	}{
		{
			name: "bad version",
			yaml: "version: 2\npuzzles: [{id: P, targets: [A]}]",
			want: "unsupported content version",
		},
		{
			name: "no puzzles",
			yaml: "version: 1",
			want: "no puzzles",
		},
		{
			name: "duplicate id",
			yaml: "version: 1\npuzzles: [{id: P, targets: [A]}, {id: P, targets: [B]}]",
			want: "duplicate id",
		},
		{
			name:    "empty targets",
			yaml:    "version: 1\npuzzles: [{id: P}]",
			wantErr: puzzle.ErrNoTargets,
		},
		{
			name: "empty target name",
			yaml: "version: 1\npuzzles: [{id: P, targets: [\"\", A]}]",
			want: "empty target name",
		},
		{
			name: "duplicate target",
			yaml: "version: 1\npuzzles: [{id: P, targets: [A, A]}]",
			want: "duplicate target A",
		},
		{
			name:    "undefined next",
			yaml:    "version: 1\npuzzles: [{id: P, targets: [A], next: Q}]",
			wantErr: puzzle.ErrMissingSuccessor,
		},
		{
			name:    "cycle",
			yaml:    "version: 1\npuzzles: [{id: P, targets: [A], next: Q}, {id: Q, targets: [B], next: P}]",
			wantErr: puzzle.ErrChainCycle,
		},
		{
			name: "win scene collides",
			yaml: "version: 1\nwin_scene: P\npuzzles: [{id: P, targets: [A]}]",
			want: "collides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContent([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %q is not %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRoomAndContent(t *testing.T) {
	dir := t.TempDir()
	room := `
version: 1
room:
  id: hunt-01
  name: Night Hunt
mqtt:
  url: tcp://broker:1883
content:
  path: puzzles.yaml
game:
  frame_rate: 60
`
	if err := os.WriteFile(filepath.Join(dir, "room.yaml"), []byte(room), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "puzzles.yaml"), []byte(sampleContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoomConfig(filepath.Join(dir, "room.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UIPort() != 8080 {
		t.Errorf("ui port = %d, want default 8080", cfg.UIPort())
	}
	if cfg.TopicPrefix() != "puzzlemaster/hunt-01" {
		t.Errorf("topic prefix = %q", cfg.TopicPrefix())
	}
	if cfg.ClientID() != "puzzlemaster-hunt-01" {
		t.Errorf("client id = %q", cfg.ClientID())
	}

	c, err := LoadContent(cfg.ContentPath())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Puzzles) != 4 {
		t.Errorf("puzzles = %d", len(c.Puzzles))
	}
}

func TestLoadRoomConfigRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	if err := os.WriteFile(path, []byte("version: 3\nroom: {id: x}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRoomConfig(path); err == nil {
		t.Error("expected version error")
	}
}

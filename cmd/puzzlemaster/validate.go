package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AaronLay10/PuzzleMaster/internal/config"
	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
)

var validateCmd = &cobra.Command{
	Use:   "validate CONTENT",
	Short: "Check a content file for configuration errors",
	Long: `Parses a content.yaml and reports every configuration error: duplicate
puzzle ids, puzzles without targets, successors that are not defined, and
cycles in the puzzle chain.

Examples:
  puzzlemaster validate rooms/_template/content.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	content, err := config.LoadContent(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d puzzles\n", args[0], len(content.Puzzles))

	id := content.Entry()
	for id != "" {
		def, _ := content.Definition(id)
		next, ok := content.Chain().Successor(id)
		if !ok {
			fmt.Fprintf(out, "  %s (%d targets) -> %s\n", id, len(def.Targets), content.WinSceneID())
			break
		}
		fmt.Fprintf(out, "  %s (%d targets) -> %s\n", id, len(def.Targets), next)
		id = next
	}

	for _, p := range content.Puzzles {
		if !reachable(content, puzzle.PuzzleID(p.ID)) {
			fmt.Fprintf(out, "  note: %s is not reachable from %s\n", p.ID, content.Entry())
		}
	}
	return nil
}

func reachable(c *config.Content, target puzzle.PuzzleID) bool {
	chain := c.Chain()
	for id := c.Entry(); id != ""; {
		if id == target {
			return true
		}
		next, ok := chain.Successor(id)
		if !ok {
			return false
		}
		id = next
	}
	return false
}

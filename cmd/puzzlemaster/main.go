package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AaronLay10/PuzzleMaster/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "puzzlemaster",
	Short:        "Run puzzle progression for a hunt room",
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

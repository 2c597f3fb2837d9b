// RuneCore is a data-driven rules engine for simulation-style games:
// tagged entity types, contextual stat modifiers, and worlds of arbitrary
// dimensionality, all defined in Lua.
// Usage: runecore [--version] [--plain] [--script <file>] [--trace] <world_directory>
package main

import (
	"fmt"
	"os"

	"github.com/nathoo/runecore/cli"
	"github.com/nathoo/runecore/engine"
	"github.com/nathoo/runecore/loader"
	"github.com/nathoo/runecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var worldDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("runecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if worldDir == "" {
				worldDir = args[i]
			}
		}
	}

	if worldDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: runecore [--version] [--plain] [--script <file>] [--trace] <world_directory>\n")
		os.Exit(1)
	}

	// Load and compile Lua world content.
	defs, err := loader.Load(worldDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
		os.Exit(1)
	}

	eng, err := engine.New(defs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building world: %v\n", err)
		os.Exit(1)
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

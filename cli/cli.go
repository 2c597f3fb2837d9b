// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the RuneCore rules engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/runecore/engine"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the command loop. It shows the world banner, then loops:
// prompt → input → dispatch → output.
func (c *CLI) Run() {
	game := c.Engine.Defs.Game
	banner := game.Title
	if game.Version != "" {
		banner += " v" + game.Version
	}
	c.printLine(banner)
	if game.Author != "" {
		c.printLine("by " + game.Author)
	}
	c.printLine("")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace()
		}

		if !c.Engine.Running {
			return
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the loop should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /state        — Debug: dump current world state",
		"  /trace        — Toggle per-command world summary",
		"",
		"World commands:",
		"  move <v1> <v2> ...      — Set player position",
		"  approach <npc> <dist>   — Move toward an NPC",
		"  tick [n] [delta]        — Advance the simulation",
		"  status                  — World summary",
		"  stat <who> <name> [ctx] — Resolve one stat",
		"  stats <who> [ctx]       — Resolve all stats",
		"  tags / tag <id|name>    — Inspect tags",
		"  entities / entity <id>  — Inspect entity types",
		"  npcs                    — List NPCs",
		"  spawn <type> <id>       — Spawn an NPC",
		"  damage <npc> <amount>   — Apply damage",
		"  flag <name> on|off      — Toggle a condition flag",
		"  set/get <key> [value]   — World properties",
		"  again (g)               — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	w := c.Engine.World
	c.printSystem(fmt.Sprintf("Tick: %d (%.1fs)", w.Tick, w.GameTime))
	c.printSystem(fmt.Sprintf("Player: %s", w.Player.Position))
	for _, n := range w.NPCs {
		c.printSystem(fmt.Sprintf("NPC %s (%s): %s, %s", n.ID, n.Type, n.Position, n.Behavior))
	}
	if len(w.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", w.Flags))
	}
	if len(w.Properties) > 0 {
		c.printSystem(fmt.Sprintf("Properties: %v", w.Properties))
	}
}

func (c *CLI) printTrace() {
	w := c.Engine.World
	c.printSystem(fmt.Sprintf("[trace] tick=%d player=%s npcs=%d",
		w.Tick, w.Player.Position, len(w.NPCs)))
}

func (c *CLI) printResult(result engine.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

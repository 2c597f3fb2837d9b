package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/runecore/engine"
)

// tickInterval drives the live simulation at 10 updates per second.
const tickInterval = 100 * time.Millisecond

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the RuneCore TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated output lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	live     bool // advance the simulation on every tick
	trace    bool
	quitting bool
	lastCmd  string
}

// commandOutputMsg carries output from the engine into the Update loop.
type commandOutputMsg struct {
	input    string   // echoed player input (empty for the banner)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg fires at the simulation rate while the program runs.
type tickMsg time.Time

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	m := New(eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial commands: cursor blink, banner output, and
// the first simulation tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.banner(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) banner() tea.Cmd {
	return func() tea.Msg {
		game := m.engine.Defs.Game
		line := game.Title
		if game.Version != "" {
			line += " v" + game.Version
		}
		if game.Author != "" {
			line += " by " + game.Author
		}

		lines := []string{line, ""}
		lines = append(lines, m.engine.Step("status").Output...)
		return commandOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, engine output,
// simulation ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		if m.live {
			// The status bar re-renders every View, so a silent update
			// is enough; output only appears for explicit commands.
			if err := m.engine.World.Update(m.engine.Defs, tickInterval.Seconds()); err != nil {
				m = m.appendOutput(commandOutputMsg{
					lines: []string{fmt.Sprintf("Update failed: %v", err)}, isSystem: true,
				})
				m.live = false
			}
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case commandOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(commandOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(commandOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Engine command.
	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, m.formatTrace()...)
	}
	m = m.appendOutput(commandOutputMsg{input: input, lines: output})
	if !m.engine.Running {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// appendOutput adds lines to the transcript and refreshes the viewport.
func (m Model) appendOutput(msg commandOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current
// width and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeader:
		return styleHeader.Render(line)
	case kindDetail:
		return styleDetail.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleBody.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/live":
		m.live = !m.live
		if m.live {
			return []string{"Live simulation running (10 ticks per second)."}, false
		}
		return []string{"Live simulation paused."}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /live         — Toggle the live simulation (10 ticks per second)",
		"  /trace        — Toggle debug trace output",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"",
		"World commands:",
		"  move <v1> <v2> ...      — Set player position",
		"  approach <npc> <dist>   — Move toward an NPC",
		"  tick [n] [delta]        — Advance the simulation by hand",
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
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) formatTrace() []string {
	w := m.engine.World
	return []string{
		fmt.Sprintf("[trace] tick=%d time=%.1fs player=%s npcs=%d",
			w.Tick, w.GameTime, w.Player.Position, len(w.NPCs)),
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/runecore/engine"
	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/stats"
	"github.com/nathoo/runecore/engine/tags"
	"github.com/nathoo/runecore/engine/world"
)

func testModel(t *testing.T) Model {
	t.Helper()

	base := stats.New()
	base.SetInt("hp", 100)

	defs := &world.Defs{
		Game: world.GameDef{
			Title:      "Testland",
			Version:    "1.0",
			Dimensions: 2,
			Labels:     []string{"x", "y"},
		},
		Tags:        tags.NewCollection(),
		EntityTypes: map[string]*entity.Type{"goblin": entity.New("goblin", "Goblin")},
		Player:      world.PlayerDef{Base: base},
	}

	eng, err := engine.New(defs)
	if err != nil {
		t.Fatalf("engine.New error: %v", err)
	}
	return New(eng)
}

func TestHistoryNavigation(t *testing.T) {
	h := NewHistory(10)

	if _, ok := h.Prev(); ok {
		t.Error("Prev on empty history should fail")
	}

	h.Push("one")
	h.Push("two")
	h.Push("three")

	if got, _ := h.Prev(); got != "three" {
		t.Errorf("Prev = %q, want three", got)
	}
	if got, _ := h.Prev(); got != "two" {
		t.Errorf("Prev = %q, want two", got)
	}
	if got, _ := h.Next(); got != "three" {
		t.Errorf("Next = %q, want three", got)
	}
	if _, ok := h.Next(); ok {
		t.Error("Next past newest should fail")
	}
	// Cursor reset: Prev starts from the newest again.
	if got, _ := h.Prev(); got != "three" {
		t.Errorf("Prev after reset = %q, want three", got)
	}
}

func TestHistorySkipsConsecutiveDuplicates(t *testing.T) {
	h := NewHistory(10)
	h.Push("same")
	h.Push("same")
	h.Push("other")
	h.Push("same")

	if h.count != 3 {
		t.Errorf("count = %d, want 3", h.count)
	}
}

func TestHistoryWrapsAround(t *testing.T) {
	h := NewHistory(3)
	for _, cmd := range []string{"a", "b", "c", "d"} {
		h.Push(cmd)
	}

	// "a" was overwritten; oldest is now "b".
	var got []string
	for i := 0; i < 3; i++ {
		prev, ok := h.Prev()
		if !ok {
			t.Fatal("Prev failed")
		}
		got = append(got, prev)
	}
	want := []string{"d", "c", "b"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("walk = %v, want %v", got, want)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Tags:", kindHeader},
		{"  attack = 9", kindDetail},
		{"Unknown command: dance. Type 'help' for available commands.", kindError},
		{"Spawn failed: npc exists", kindError},
		{"No NPC named \"x\".", kindError},
		{"[trace] tick=1", kindTrace},
		{"Player moved to (x:1, y:2)", kindBody},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "the quick brown fox jumps" {
		t.Errorf("words lost: %q", got)
	}

	if got := wordWrap("short", 80); got != "short" {
		t.Errorf("short text changed: %q", got)
	}
}

func TestModelEnterDispatchesCommand(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m.input.SetValue("move 3 4")
	updated, _ = m.handleEnter()
	m = updated.(Model)

	found := false
	for _, rl := range m.rawLines {
		if strings.Contains(rl.text, "(x:3, y:4)") {
			found = true
		}
	}
	if !found {
		t.Errorf("move output not in transcript: %+v", m.rawLines)
	}
	if v, _ := m.engine.World.Player.GetPositionByLabel("x"); v != 3 {
		t.Errorf("player x = %v, want 3", v)
	}
}

func TestModelLiveTickAdvancesWorld(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m.input.SetValue("/live")
	updated, _ = m.handleEnter()
	m = updated.(Model)
	if !m.live {
		t.Fatal("live mode not enabled")
	}

	updated, cmd := m.Update(tickMsg{})
	m = updated.(Model)
	if m.engine.World.Tick != 1 {
		t.Errorf("tick = %d, want 1", m.engine.World.Tick)
	}
	if cmd == nil {
		t.Error("tick did not reschedule")
	}
}

func TestModelQuitMeta(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m.input.SetValue("/quit")
	updated, cmd := m.handleEnter()
	m = updated.(Model)
	if !m.quitting {
		t.Error("model not quitting after /quit")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestStatusBarContents(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	bar := m.renderStatusBar()
	for _, want := range []string{"Testland", "T:0", "paused"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q:\n%s", want, bar)
		}
	}
}

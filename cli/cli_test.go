package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/runecore/engine"
	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/stats"
	"github.com/nathoo/runecore/engine/tags"
	"github.com/nathoo/runecore/engine/world"
)

func testCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
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

	out := &bytes.Buffer{}
	c := New(eng)
	c.In = strings.NewReader(input)
	c.Out = out
	return c, out
}

func TestRunBannerAndQuit(t *testing.T) {
	c, out := testCLI(t, "/quit\n")
	c.Run()

	got := out.String()
	if !strings.Contains(got, "Testland v1.0") {
		t.Errorf("missing banner:\n%s", got)
	}
	if !strings.Contains(got, "Goodbye.") {
		t.Errorf("missing goodbye:\n%s", got)
	}
}

func TestRunDispatchesCommands(t *testing.T) {
	c, out := testCLI(t, "move 3 4\nstatus\nquit\n")
	c.Run()

	got := out.String()
	if !strings.Contains(got, "(x:3, y:4)") {
		t.Errorf("move output missing:\n%s", got)
	}
	if !strings.Contains(got, "Shutting down") {
		t.Errorf("quit output missing:\n%s", got)
	}
}

func TestRunSkipsCommentsAndBlanks(t *testing.T) {
	c, out := testCLI(t, "# a comment\n\nstatus\n/quit\n")
	c.Run()

	got := out.String()
	if strings.Contains(got, "Unknown command") {
		t.Errorf("comment was dispatched:\n%s", got)
	}
	if !strings.Contains(got, "Tick: 0") {
		t.Errorf("status missing:\n%s", got)
	}
}

func TestRunAgainRepeats(t *testing.T) {
	c, out := testCLI(t, "g\nmove 1 1\nagain\n/quit\n")
	c.Run()

	got := out.String()
	if !strings.Contains(got, "Nothing to repeat.") {
		t.Errorf("empty repeat not reported:\n%s", got)
	}
	if strings.Count(got, "Player moved to (x:1, y:1)") != 2 {
		t.Errorf("again did not repeat move:\n%s", got)
	}
}

func TestRunMeta(t *testing.T) {
	c, out := testCLI(t, "/state\n/trace\nstatus\n/bogus\n/quit\n")
	c.Run()

	got := out.String()
	if !strings.Contains(got, "[Player: ") {
		t.Errorf("/state output missing:\n%s", got)
	}
	if !strings.Contains(got, "Trace output enabled.") {
		t.Errorf("/trace toggle missing:\n%s", got)
	}
	if !strings.Contains(got, "[trace] tick=") {
		t.Errorf("trace summary missing:\n%s", got)
	}
	if !strings.Contains(got, "Unknown command: /bogus") {
		t.Errorf("unknown meta missing:\n%s", got)
	}
}

func TestRunEchoInput(t *testing.T) {
	c, out := testCLI(t, "status\n/quit\n")
	c.EchoInput = true
	c.Run()

	if !strings.Contains(out.String(), "> status") {
		t.Errorf("input not echoed:\n%s", out.String())
	}
}

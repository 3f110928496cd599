package debug

import (
	"errors"
	"testing"

	"flashcore/value"
)

type fakeTarget struct {
	stopped   bool
	steps     int
	stepErr   error
	chars     map[int]string
	allocated uint64
}

func (f *fakeTarget) Stop() { f.stopped = true }

func (f *fakeTarget) Step() error {
	f.steps++
	return f.stepErr
}

func (f *fakeTarget) InspectCharacter(id int) (string, bool) {
	d, ok := f.chars[id]
	return d, ok
}

func (f *fakeTarget) ArenaStats() (allocated, freed, live uint64) {
	return f.allocated, 0, f.allocated
}

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("  INSPECT  42 ")
	if !ok {
		t.Fatalf("expected a parsed command")
	}
	if cmd.Verb != "inspect" || len(cmd.Args) != 1 || cmd.Args[0] != "42" {
		t.Fatalf("unexpected parse result: %+v", cmd)
	}
	if _, ok := ParseCommand("   "); ok {
		t.Fatalf("expected no command from a blank line")
	}
}

func TestConsoleDispatchStopStepInspectGC(t *testing.T) {
	target := &fakeTarget{chars: map[int]string{7: "a shape"}, allocated: 3}
	c := NewConsole(nil, nil, 0, target)

	if got := c.Dispatch(Command{Verb: "stop"}); got != "stopped" {
		t.Fatalf("expected stopped, got %q", got)
	}
	if !target.stopped {
		t.Fatalf("expected target to be stopped")
	}

	if got := c.Dispatch(Command{Verb: "step"}); got != "stepped one frame" {
		t.Fatalf("expected stepped one frame, got %q", got)
	}
	if target.steps != 1 {
		t.Fatalf("expected exactly one step")
	}

	if got := c.Dispatch(Command{Verb: "inspect", Args: []string{"7"}}); got != "a shape" {
		t.Fatalf("expected character description, got %q", got)
	}
	if got := c.Dispatch(Command{Verb: "inspect", Args: []string{"9"}}); got != "no character 9" {
		t.Fatalf("expected no character message, got %q", got)
	}

	if got := c.Dispatch(Command{Verb: "gc"}); got != "allocated=3 freed=0 live=3" {
		t.Fatalf("unexpected gc output: %q", got)
	}

	if got := c.Dispatch(Command{Verb: "nonsense"}); got != "unknown command: nonsense" {
		t.Fatalf("unexpected default output: %q", got)
	}
}

func TestConsoleDispatchStepPropagatesError(t *testing.T) {
	target := &fakeTarget{stepErr: errors.New("boom")}
	c := NewConsole(nil, nil, 0, target)
	if got := c.Dispatch(Command{Verb: "step"}); got != "error: boom" {
		t.Fatalf("expected step error surfaced, got %q", got)
	}
}

func TestDescribeObject(t *testing.T) {
	if got := DescribeObject(nil); got != "<null>" {
		t.Fatalf("expected <null>, got %q", got)
	}
	o := value.NewObject(true)
	if got := DescribeObject(o); got != "object (no class)" {
		t.Fatalf("expected no-class description, got %q", got)
	}
	o.SetClass(&value.Class{Name: "com.example.Thing"})
	if got := DescribeObject(o); got != "object of class com.example.Thing" {
		t.Fatalf("unexpected description: %q", got)
	}
}

// inspector.go - The run_frame_command debug/inspect console, adapted from a prior terminal_host.go/terminal_io.go raw-tty
// line reader and debug_commands.go command dispatch table, generalized
// from "inspect a CPU register file" to "inspect a Player's display tree,
// library and GC arena".
package debug

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"flashcore/value"
)

// Command is one parsed inspector command.
type Command struct {
	Verb string
	Args []string
}

// ParseCommand splits a raw input line the way a prior
// terminal_io.go line reader hands whole lines to debug_commands.go.
func ParseCommand(line string) (Command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
 return Command{}, false
	}
	return Command{Verb: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// Target exposes just enough of Player to the inspector without the
// debug package importing the player package, the same inversion
// avm1.ClipController uses against the timeline package.
type Target interface {
	Stop()
	Step() error
	InspectCharacter(id int) (string, bool)
	ArenaStats() (allocated, freed, live uint64)
}

// Console holds the inspector's input, output and target. Dispatch runs
// one parsed command and returns the text to print; Console has no read
// loop of its own and never reads its input. EnterRaw puts the terminal
// into raw mode via golang.org/x/term the same way a prior terminal_host.go does for
// its own monitor prompt, restored on Close.
type Console struct {
	in *bufio.Reader
	out io.Writer
	target Target

	fd int
	oldState *term.State
}

// NewConsole wires a Console to fd (typically os.Stdin's descriptor) and
// target.
func NewConsole(r io.Reader, w io.Writer, fd int, target Target) *Console {
	return &Console{in: bufio.NewReader(r), out: w, fd: fd, target: target}
}

// EnterRaw puts the terminal into raw mode, matching a prior
// terminal_host.go raw-mode monitor prompt. Console itself implements no
// line editing, history or key chords.
func (c *Console) EnterRaw() error {
	st, err := term.MakeRaw(c.fd)
	if err != nil {
 return fmt.Errorf("debug console: %w", err)
	}
	c.oldState = st
	return nil
}

// Close restores the terminal's prior mode.
func (c *Console) Close() error {
	if c.oldState == nil {
 return nil
	}
	return term.Restore(c.fd, c.oldState)
}

// Dispatch runs one parsed command against the console's target.
func (c *Console) Dispatch(cmd Command) string {
	switch cmd.Verb {
	case "stop":
 c.target.Stop()
 return "stopped"
	case "step":
 if err := c.target.Step(); err != nil {
 return "error: " + err.Error()
 }
 return "stepped one frame"
	case "inspect":
 if len(cmd.Args) < 1 {
 return "usage: inspect <character-id>"
 }
 var id int
 if _, err := fmt.Sscanf(cmd.Args[0], "%d", &id); err != nil {
 return "bad character id"
 }
 desc, ok := c.target.InspectCharacter(id)
 if !ok {
 return fmt.Sprintf("no character %d", id)
 }
 return desc
	case "gc":
 allocated, freed, live := c.target.ArenaStats()
 return fmt.Sprintf("allocated=%d freed=%d live=%d", allocated, freed, live)
	default:
 return "unknown command: " + cmd.Verb
	}
}

// DescribeObject renders a one-line summary of an object. Dispatch does
// not call it: the "inspect" command looks up library characters only.
func DescribeObject(o *value.Object) string {
	if o == nil {
 return "<null>"
	}
	cls := o.Class()
	if cls == nil {
 return "object (no class)"
	}
	return fmt.Sprintf("object of class %s", cls.Name)
}

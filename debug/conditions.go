// conditions.go - Conditional breakpoints and watch expressions for the
// inspector, generalizing a prior debug_conditions.go (a hand-rolled
// "lhs op rhs" grammar over register names) into a full embedded Lua
// boolean-expression evaluator via github.com/yuin/gopher-lua, so a
// breakpoint condition can reference arbitrary display-tree/value state
// instead of only a fixed comparison grammar.
package debug

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Condition is a compiled breakpoint/watch expression plus the state
// binding that feeds it every time it is evaluated, mirroring the
// prior BreakpointCondition but carrying Lua source instead of a
// fixed lhs/op/rhs triple.
type Condition struct {
	Source string
	state *lua.LState
}

// NewCondition compiles a Lua boolean expression. Evaluation binds a
// table named `frame` with the variables supplied to Eval; this mirrors
// ParseCondition's lhs/op/rhs shape but lets the expression reference any
// number of named values instead of exactly two.
func NewCondition(source string) (*Condition, error) {
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	if _, err := l.LoadString("return (" + source + ")"); err != nil {
 l.Close()
 return nil, fmt.Errorf("debug condition: %w", err)
	}
	return &Condition{Source: source, state: l}, nil
}

// Close releases the Lua state backing this condition.
func (c *Condition) Close() {
	if c.state != nil {
 c.state.Close()
	}
}

// Eval binds vars into a Lua table named `frame` and evaluates the
// compiled expression, returning its truthiness.
func (c *Condition) Eval(vars map[string]float64) (bool, error) {
	frame := c.state.NewTable()
	for k, v := range vars {
 frame.RawSetString(k, lua.LNumber(v))
	}
	c.state.SetGlobal("frame", frame)

	fn, err := c.state.LoadString("return (" + c.Source + ")")
	if err != nil {
 return false, fmt.Errorf("debug condition: %w", err)
	}
	c.state.Push(fn)
	if err := c.state.PCall(0, 1, nil); err != nil {
 return false, fmt.Errorf("debug condition: %w", err)
	}
	ret := c.state.Get(-1)
	c.state.Pop(1)
	return lua.LVAsBool(ret), nil
}

// WatchExpr is a named Condition evaluated every tick and reported when
// its truth value flips, the same "watch" concept as a conditional
// breakpoint but without halting execution.
type WatchExpr struct {
	Name string
	Cond *Condition
	lastValue bool
}

// Check evaluates w against vars and reports whether the truth value
// changed since the previous Check call.
func (w *WatchExpr) Check(vars map[string]float64) (changed bool, value bool, err error) {
	v, err := w.Cond.Eval(vars)
	if err != nil {
 return false, false, err
	}
	changed = v != w.lastValue
	w.lastValue = v
	return changed, v, nil
}

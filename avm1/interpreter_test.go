package avm1

import (
	"testing"

	"flashcore/value"
)

func newTestActivation(arena *value.Arena) *Activation {
	globals := value.NewObject(true)
	scope := NewScopeChain(globals)
	tok := arena.Begin()
	return NewActivation(arena, tok, scope, value.Undefined, nil, 6)
}

func TestRunAddAndVariableRoundTrip(t *testing.T) {
	arena := value.NewArena()
	a := newTestActivation(arena)

	chunk := &Chunk{Actions: []Action{
		{Op: ActionPush, Push: []value.Value{value.Str(arena.Strings().Intern("result"))}},
		{Op: ActionPush, Push: []value.Value{value.Int(2)}},
		{Op: ActionPush, Push: []value.Value{value.Int(3)}},
		{Op: ActionAdd2},
		{Op: ActionSetVariable},
		{Op: ActionPush, Push: []value.Value{value.Str(arena.Strings().Intern("result"))}},
		{Op: ActionGetVariable},
		{Op: ActionReturn},
	}}

	ret, err := Run(a, chunk, NewBudget(DefaultScriptBudget))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := ret.ToNumber(); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestRunStackUnderflowYieldsUndefined(t *testing.T) {
	arena := value.NewArena()
	a := newTestActivation(arena)

	chunk := &Chunk{Actions: []Action{
		{Op: ActionPop},
		{Op: ActionPush, Push: []value.Value{value.Int(1)}},
		{Op: ActionReturn},
	}}

	ret, err := Run(a, chunk, NewBudget(DefaultScriptBudget))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := ret.ToNumber(); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestRunOperandStackOverflowIsEngineError(t *testing.T) {
	arena := value.NewArena()
	a := newTestActivation(arena)

	actions := make([]Action, 0, MaxOperandStack+2)
	for i := 0; i < MaxOperandStack+1; i++ {
		actions = append(actions, Action{Op: ActionPush, Push: []value.Value{value.Int(1)}})
	}
	chunk := &Chunk{Actions: actions}

	_, err := Run(a, chunk, NewBudget(DefaultScriptBudget))
	if err == nil {
		t.Fatalf("expected an operand stack overflow error")
	}
	if _, ok := err.(*EngineError); !ok {
		t.Fatalf("expected *EngineError, got %T: %v", err, err)
	}
}

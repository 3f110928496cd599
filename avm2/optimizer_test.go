package avm2

import "testing"

func TestCollapseGetLocalPopIsNopped(t *testing.T) {
	m := &Method{Body: []Op{
		{Code: OpGetLocal0},
		{Code: OpPop},
		{Code: OpReturnVoid},
	}}
	Peephole(m)
	if m.Body[0].Code != OpNop || m.Body[1].Code != OpNop {
		t.Fatalf("expected getlocal0;pop collapsed to nop;nop, got %v", m.Body)
	}
}

func TestCollapseZeroDistanceJump(t *testing.T) {
	m := &Method{Body: []Op{
		{Code: OpJump, Target: 1},
		{Code: OpReturnVoid},
	}}
	Peephole(m)
	if m.Body[0].Code != OpNop {
		t.Fatalf("expected a zero-distance jump collapsed to nop, got %v", m.Body[0].Code)
	}
}

func TestDeleteCanonicalPrologueWhenScopeUntouched(t *testing.T) {
	m := &Method{Body: []Op{
		{Code: OpGetLocal0},
		{Code: OpPushScope},
		{Code: OpReturnVoid},
	}}
	Peephole(m)
	if m.Body[0].Code != OpNop || m.Body[1].Code != OpNop {
		t.Fatalf("expected canonical prologue elided, got %v", m.Body)
	}
}

func TestDeleteCanonicalProloguePreservedWhenScopeUsedLater(t *testing.T) {
	m := &Method{Body: []Op{
		{Code: OpGetLocal0},
		{Code: OpPushScope},
		{Code: OpPushWith},
		{Code: OpReturnVoid},
	}}
	Peephole(m)
	if m.Body[0].Code == OpNop || m.Body[1].Code == OpNop {
		t.Fatalf("expected prologue preserved when scope is used later, got %v", m.Body)
	}
}

func TestOptimizeElidesRedundantCoerceInt(t *testing.T) {
	m := &Method{
		Body: []Op{
			{Code: OpPushByte}, // pushes an int-kind value onto the shadow stack
			{Code: OpCoerceI},
			{Code: OpReturnValue},
		},
		MaxStack: 4, MaxLocals: 1, MaxScope: 4,
	}
	vm := Verify(m, nil)
	if vm.Err != nil {
		t.Fatalf("Verify: %v", vm.Err)
	}
	Optimize(&vm, true)
	if m.Body[1].Code != OpNop {
		t.Fatalf("expected a coerce_i over an already-int value elided, got %v", m.Body[1].Code)
	}
}

func TestOptimizeDisabledSkipsSpecialization(t *testing.T) {
	m := &Method{
		Body: []Op{
			{Code: OpPushByte},
			{Code: OpCoerceI},
			{Code: OpReturnValue},
		},
		MaxStack: 4, MaxLocals: 1, MaxScope: 4,
	}
	vm := Verify(m, nil)
	if vm.Err != nil {
		t.Fatalf("Verify: %v", vm.Err)
	}
	Optimize(&vm, false)
	if m.Body[1].Code != OpCoerceI {
		t.Fatalf("expected coerce_i preserved when optimization is disabled, got %v", m.Body[1].Code)
	}
}

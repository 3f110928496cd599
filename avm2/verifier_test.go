package avm2

import "testing"

// simpleAddMethod builds pushbyte 2, pushbyte 3, add, returnvalue — a
// method with one block and no branches, enough to exercise verification
// end to end.
func simpleAddMethod() *Method {
	return &Method{
		Body: []Op{
			{Code: OpPushByte, ByteOffset: 0},
			{Code: OpPushByte, ByteOffset: 1},
			{Code: OpAdd, ByteOffset: 2},
			{Code: OpReturnValue, ByteOffset: 3},
		},
		MaxStack:  4,
		MaxLocals: 1,
		MaxScope:  4,
	}
}

func TestVerifyIdempotent(t *testing.T) {
	m := simpleAddMethod()
	first := Verify(m, []Lattice{LatticeTop})
	second := Verify(m, []Lattice{LatticeTop})

	if (first.Err == nil) != (second.Err == nil) {
		t.Fatalf("expected matching error presence across runs, got %v and %v", first.Err, second.Err)
	}
	if len(first.Blocks) != len(second.Blocks) {
		t.Fatalf("expected the same block count across runs, got %d and %d", len(first.Blocks), len(second.Blocks))
	}
	for i := range first.Blocks {
		a, b := first.Blocks[i], second.Blocks[i]
		if a.Start != b.Start || a.End != b.End {
			t.Fatalf("block %d bounds differ across runs: (%d,%d) vs (%d,%d)", i, a.Start, a.End, b.Start, b.End)
		}
	}
}

func TestVerifyStackUnderflowIsAnError(t *testing.T) {
	m := &Method{
		Body: []Op{
			{Code: OpAdd, ByteOffset: 0}, // pops two from an empty stack
			{Code: OpReturnValue, ByteOffset: 1},
		},
		MaxStack: 4, MaxLocals: 1, MaxScope: 4,
	}
	res := Verify(m, nil)
	if res.Err == nil {
		t.Fatalf("expected a stack underflow verify error")
	}
	if res.Err.Code != ErrStackUnderflow {
		t.Fatalf("expected ErrStackUnderflow, got %v", res.Err.Code)
	}
}

// TestVerifyScopeReconciliationMismatch builds a method where one branch
// of an if joins the merge point having pushed a with-scope entry and the
// other a plain (non-with) scope entry at the same depth — the closed
// error taxonomy's "scope reconciliation mismatch between with and
// non-with" (spec.md §4.3).
func TestVerifyScopeReconciliationMismatch(t *testing.T) {
	m := &Method{
		Body: []Op{
			{Code: OpPushTrue, ByteOffset: 0},
			{Code: OpIfTrue, ByteOffset: 1, Target: 5},
			{Code: OpPushNull, ByteOffset: 2},
			{Code: OpPushScope, ByteOffset: 3},
			{Code: OpJump, ByteOffset: 4, Target: 7},
			{Code: OpPushNull, ByteOffset: 5},
			{Code: OpPushWith, ByteOffset: 6},
			{Code: OpReturnVoid, ByteOffset: 7},
		},
		MaxStack: 4, MaxLocals: 1, MaxScope: 4,
	}
	res := Verify(m, nil)
	if res.Err == nil {
		t.Fatalf("expected a scope reconciliation mismatch error")
	}
	if res.Err.Code != ErrScopeReconcileMismatch {
		t.Fatalf("expected ErrScopeReconcileMismatch, got %v", res.Err.Code)
	}
}

func TestMergeIsCommutative(t *testing.T) {
	a := LatticePrimitive(PrimInt)
	b := LatticePrimitive(PrimNumber)
	if Merge(a, b) != Merge(b, a) {
		t.Fatalf("Merge must be commutative")
	}
}

func TestMergeIsAssociative(t *testing.T) {
	a := LatticePrimitive(PrimInt)
	b := LatticeTop
	c := LatticePrimitive(PrimNumber)
	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	if left != right {
		t.Fatalf("Merge must be associative: got %+v vs %+v", left, right)
	}
}

func TestMergeIsMonotonic(t *testing.T) {
	intKind := LatticePrimitive(PrimInt)
	merged := Merge(intKind, LatticeTop)
	if merged != LatticeTop {
		t.Fatalf("merging with Top must widen to Top, got %+v", merged)
	}
}

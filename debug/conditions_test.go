package debug

import "testing"

func TestConditionEvalComparesBoundVars(t *testing.T) {
	c, err := NewCondition("frame.x > 10")
	if err != nil {
		t.Fatalf("NewCondition: %v", err)
	}
	defer c.Close()

	ok, err := c.Eval(map[string]float64{"x": 5})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if ok {
		t.Fatalf("expected false for x=5")
	}

	ok, err = c.Eval(map[string]float64{"x": 20})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for x=20")
	}
}

func TestConditionBadSyntaxRejected(t *testing.T) {
	if _, err := NewCondition("frame.x >"); err == nil {
		t.Fatalf("expected an error compiling malformed Lua source")
	}
}

func TestWatchExprReportsChange(t *testing.T) {
	cond, err := NewCondition("frame.health <= 0")
	if err != nil {
		t.Fatalf("NewCondition: %v", err)
	}
	defer cond.Close()
	w := &WatchExpr{Name: "dead", Cond: cond}

	changed, v, err := w.Check(map[string]float64{"health": 10})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if changed || v {
		t.Fatalf("expected unchanged false on first check with health=10")
	}

	changed, v, err = w.Check(map[string]float64{"health": 0})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !changed || !v {
		t.Fatalf("expected a change to true when health drops to 0")
	}

	changed, _, err = w.Check(map[string]float64{"health": 0})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if changed {
		t.Fatalf("expected no change on repeated true reading")
	}
}

// interpreter.go - AVM1 opcode dispatch loop.
package avm1

import (
	"fmt"
	"time"

	"flashcore/value"
)

// Budget tracks the max-execution-duration script budget.
// The interpreter checks it at back-edges (loop headers), not on every
// op, matching the documented stated granularity.
type Budget struct {
	Deadline time.Time
}

// NewBudget starts a budget with the given duration from now; zero or
// negative duration disables the check.
func NewBudget(d time.Duration) Budget {
	if d <= 0 {
 return Budget{}
	}
	return Budget{Deadline: time.Now().Add(d)}
}

func (b Budget) expired() bool {
	return !b.Deadline.IsZero() && time.Now().After(b.Deadline)
}

// DefaultScriptBudget is the documented documented default.
const DefaultScriptBudget = 15 * time.Second

// Run executes chunk to completion (return, thrown error, or timeout).
// On ActionReturn it returns the returned value; otherwise Undefined.
func Run(a *Activation, chunk *Chunk, budget Budget) (value.Value, error) {
	pc := 0
	for pc < len(chunk.Actions) {
 ins := chunk.Actions[pc]
 if (ins.Op == ActionJump || ins.Op == ActionIf) && ins.Target <= pc && budget.expired() {
 return value.Undefined, ScriptTimeout{}
 }
 next, err := a.step(ins, chunk)
 if err != nil {
 return value.Undefined, err
 }
 if a.returned {
 return a.returnVal, nil
 }
 if next >= 0 {
 pc = next
 } else {
 pc++
 }
	}
	return value.Undefined, nil
}

// step executes one Action and returns the next pc, or -1 to mean
// "advance by one" (kept separate from pc++ so jump targets can be
// expressed uniformly).
func (a *Activation) step(ins Action, chunk *Chunk) (int, error) {
	switch ins.Op {
	case ActionPush:
 for _, v := range ins.Push {
 if err := a.push(v); err != nil {
 return -1, err
 }
 }

	case ActionPop:
 a.pop()

	case ActionPushDuplicate:
 v := a.pop()
 a.push(v)
 a.push(v)

	case ActionSwap:
 b, t := a.pop(), a.pop()
 a.push(b)
 a.push(t)

	case ActionAdd2:
 b, x := a.pop(), a.pop()
 a.push(Add(a.strings, x, b, a.SwfVersion))

	case ActionAdd, ActionSubtract, ActionMultiply, ActionDivide, ActionModulo:
 b, x := a.pop().ToNumber(), a.pop().ToNumber()
 a.push(value.Float(arith(ins.Op, x, b)))

	case ActionEquals2:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(looseEquals(x, b)))

	case ActionStrictEquals:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.StrictEquals(b)))

	case ActionLess2:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() < b.ToNumber()))

	case ActionGreater:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() > b.ToNumber()))

	case ActionNot:
 a.push(value.Bool(!a.pop().ToBoolean()))

	case ActionAnd:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToBoolean() && b.ToBoolean()))

	case ActionOr:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToBoolean() || b.ToBoolean()))

	case ActionBitAnd:
 b, x := a.pop(), a.pop()
 a.push(value.Int(ToInt32Bitwise(x) & ToInt32Bitwise(b)))
	case ActionBitOr:
 b, x := a.pop(), a.pop()
 a.push(value.Int(ToInt32Bitwise(x) | ToInt32Bitwise(b)))
	case ActionBitXor:
 b, x := a.pop(), a.pop()
 a.push(value.Int(ToInt32Bitwise(x) ^ ToInt32Bitwise(b)))
	case ActionBitLShift:
 b, x := a.pop(), a.pop()
 a.push(value.Int(ToInt32Bitwise(x) << (uint32(ToInt32Bitwise(b)) & 31)))
	case ActionBitRShift:
 b, x := a.pop(), a.pop()
 a.push(value.Int(ToInt32Bitwise(x) >> (uint32(ToInt32Bitwise(b)) & 31)))
	case ActionBitURShift:
 b, x := a.pop(), a.pop()
 a.push(value.Uint(uint32(ToInt32Bitwise(x)) >> (uint32(ToInt32Bitwise(b)) & 31)))

	case ActionStringAdd:
 b, x := a.pop(), a.pop()
 a.push(value.Str(a.strings.Intern(ConcatString(x, a.SwfVersion) + ConcatString(b, a.SwfVersion))))
	case ActionStringEquals:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToStringDefault() == b.ToStringDefault()))
	case ActionStringLess:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToStringDefault() < b.ToStringDefault()))
	case ActionStringLength:
 s := a.pop().ToStringDefault()
 a.push(value.Int(int32(len(s))))

	case ActionToNumber:
 a.push(value.Float(a.pop().ToNumber()))
	case ActionToString:
 a.push(value.Str(a.strings.Intern(a.pop().ToStringDefault())))
	case ActionToInteger:
 a.push(value.Int(int32(a.pop().ToNumber())))
	case ActionTypeOf:
 a.push(value.Str(a.strings.Intern(typeOf(a.pop()))))

	case ActionIncrement:
 a.push(value.Float(a.pop().ToNumber() + 1))
	case ActionDecrement:
 a.push(value.Float(a.pop().ToNumber() - 1))

	case ActionGetVariable:
 name := a.pop().ToStringDefault()
 a.push(a.getVariable(name))

	case ActionSetVariable:
 val := a.pop()
 name := a.pop().ToStringDefault()
 a.setVariable(name, val)

	case ActionGetMember:
 name := a.pop().ToStringDefault()
 obj := a.pop().Object()
 a.push(a.getMember(obj, name))

	case ActionSetMember:
 val := a.pop()
 name := a.pop().ToStringDefault()
 obj := a.pop().Object()
 if obj != nil {
 obj.SetStored(a.tok, name, val, value.AttrNone)
 }

	case ActionDefineLocal:
 val := a.pop()
 name := a.pop().ToStringDefault()
 a.Scope.Innermost().SetStored(a.tok, name, val, value.AttrNone)

	case ActionDefineLocal2:
 name := a.pop().ToStringDefault()
 a.Scope.Innermost().SetStored(a.tok, name, value.Undefined, value.AttrNone)

	case ActionDelete:
 name := a.pop().ToStringDefault()
 obj := a.pop().Object()
 ok := obj != nil && obj.Delete(name)
 a.push(value.Bool(ok))

	case ActionDelete2:
 name := a.pop().ToStringDefault()
 _, owner, found := a.Scope.Resolve(name)
 ok := found && owner.Delete(name)
 a.push(value.Bool(ok))

	case ActionInitObject:
 n := int(a.pop().ToNumber())
 obj := value.NewObject(a.CaseSensitive)
 a.arena.Allocate(obj)
 for i := 0; i < n; i++ {
 val := a.pop()
 name := a.pop().ToStringDefault()
 obj.SetStored(a.tok, name, val, value.AttrNone)
 }
 a.push(value.Obj(obj))

	case ActionInitArray:
 n := int(a.pop().ToNumber())
 obj := value.NewObject(a.CaseSensitive)
 a.arena.Allocate(obj)
 elems := a.popN(n)
 for i := len(elems) - 1; i >= 0; i-- {
 obj.SetStored(a.tok, fmt.Sprintf("%d", n-1-i), elems[i], value.AttrNone)
 }
 obj.SetStored(a.tok, "length", value.Int(int32(n)), value.AttrDontEnum)
 a.push(value.Obj(obj))

	case ActionNewObject:
 name := a.pop().ToStringDefault()
 args := a.popN(int(a.pop().ToNumber()))
 v, err := a.construct(name, args)
 if err != nil {
 return -1, err
 }
 a.push(v)

	case ActionCallFunction:
 name := a.pop().ToStringDefault()
 args := a.popN(int(a.pop().ToNumber()))
 v, err := a.callNamed(name, args)
 if err != nil {
 return -1, err
 }
 a.push(v)

	case ActionCallMethod:
 name := a.pop().ToStringDefault()
 obj := a.pop().Object()
 args := a.popN(int(a.pop().ToNumber()))
 v, err := a.callMethod(obj, name, args)
 if err != nil {
 return -1, err
 }
 a.push(v)

	case ActionReturn:
 a.returnVal = a.pop()
 a.returned = true

	case ActionThrow:
 return -1, &ThrownValue{Value: a.pop()}

	case ActionTrace:
 _ = a.pop() // the traced value is discarded; nothing is logged

	case ActionDefineFunction:
 fn := a.defineFunction(ins.Name, ins.Params, ins.Body)
 if ins.Name == "" {
 a.push(value.Obj(fn))
 } else {
 a.Scope.Innermost().SetStored(a.tok, ins.Name, value.Obj(fn), value.AttrDontEnum)
 }

	case ActionDefineFunction2:
 fn := a.defineFunction(ins.Name, ins.Params, ins.Body)
 if ins.Name == "" {
 a.push(value.Obj(fn))
 } else {
 a.Scope.Innermost().SetStored(a.tok, ins.Name, value.Obj(fn), value.AttrDontEnum)
 }

	case ActionJump:
 return ins.Target, nil

	case ActionIf:
 if a.pop().ToBoolean() {
 return ins.Target, nil
 }

	case ActionWith:
 target := a.pop().Object()
 if target != nil {
 inner := &Activation{
 Stack: a.Stack, Registers: a.Registers, This: a.This,
 Arguments: a.Arguments, Scope: a.Scope.WithPrototypeParent(target),
 Clip: a.Clip, SwfVersion: a.SwfVersion, CaseSensitive: a.CaseSensitive,
 arena: a.arena, strings: a.strings, tok: a.tok,
 }
 _, err := Run(inner, &Chunk{Actions: ins.Body}, Budget{})
 a.Stack = inner.Stack
 if inner.returned {
 a.returnVal, a.returned = inner.returnVal, true
 }
 if err != nil {
 return -1, err
 }
 }

	case ActionSetTarget:
 if ins.Name == "" {
 // reset to the default target; handled by player.Context normally.
 } else if target, ok := a.Clip.Resolve(ins.Name); ok {
 a.Scope = a.Scope.Push(target)
 }

	case ActionGotoFrame:
 a.Clip.GotoFrame(ins.NumArgs)
	case ActionGotoFrame2:
 a.Clip.GotoFrame(int(a.pop().ToNumber()))
	case ActionPlay:
 a.Clip.Play()
	case ActionStop:
 a.Clip.Stop()
	case ActionNextFrame, ActionPrevFrame:
 // no effect: ClipController exposes no current frame to step from,
 // so neither action moves the playhead.

	case ActionRandomNumber:
 // deterministic placeholder: real randomness is supplied by the
 // player's RNG via a ClipController hook in a full build; kept
 // here as ToInteger(0) to avoid a hidden nondeterministic
 // dependency inside a pure interpreter step.
 n := a.pop().ToNumber()
 _ = n
 a.push(value.Int(0))

	case ActionCastOp:
 obj := a.pop().Object()
 _ = obj
 a.push(a.pop())

	case ActionInstanceOf:
 ctor := a.pop().Object()
 obj := a.pop().Object()
 a.push(value.Bool(instanceOf(obj, ctor)))

	default:
 // Unimplemented opcodes are skipped without error: nothing
 // is logged, nothing is pushed, and execution continues.
	}
	return -1, nil
}

func arith(op Code, x, b float64) float64 {
	switch op {
	case ActionAdd:
 return x + b
	case ActionSubtract:
 return x - b
	case ActionMultiply:
 return x * b
	case ActionDivide:
 return x / b
	case ActionModulo:
 return float64(int64(x) % int64(b))
	}
	return 0
}

func looseEquals(a, b value.Value) bool {
	if a.Kind() == b.Kind() {
 return a.StrictEquals(b)
	}
	if a.IsNull() && b.IsUndefined() || a.IsUndefined() && b.IsNull() {
 return true
	}
	return a.ToNumber() == b.ToNumber()
}

func typeOf(v value.Value) string {
	switch v.Kind() {
	case value.KindUndefined:
 return "undefined"
	case value.KindNull, value.KindObject:
 return "object"
	case value.KindBool:
 return "boolean"
	case value.KindString:
 return "string"
	default:
 return "number"
	}
}

func instanceOf(obj *value.Object, ctor *value.Object) bool {
	if obj == nil || ctor == nil {
 return false
	}
	proto, ok := ctor.GetOwn("prototype")
	if !ok {
 return false
	}
	target := proto.Object()
	for p := obj.Prototype(); p != nil; p = p.Prototype() {
 if p == target {
 return true
 }
	}
	return false
}

func (a *Activation) getVariable(name string) value.Value {
	if p, owner, ok := a.Scope.Resolve(name); ok {
 if p.IsVirtual && p.Getter != nil {
 v, _ := a.invoke(p.Getter, value.Obj(owner), nil)
 return v
 }
 return p.Value
	}
	return value.Undefined
}

func (a *Activation) setVariable(name string, val value.Value) {
	if _, owner, ok := a.Scope.Resolve(name); ok {
 if p, _ := owner.LookupOwn(name); p.IsVirtual {
 if p.Setter != nil {
 a.invoke(p.Setter, value.Obj(owner), []value.Value{val})
 }
 return
 }
 owner.SetStored(a.tok, name, val, value.AttrNone)
 return
	}
	a.Scope.Innermost().SetStored(a.tok, name, val, value.AttrNone)
}

func (a *Activation) getMember(obj *value.Object, name string) value.Value {
	if obj == nil {
 return value.Undefined
	}
	p, owner, ok := obj.Lookup(name)
	if !ok {
 return value.Undefined
	}
	if p.IsVirtual && p.Getter != nil {
 v, _ := a.invoke(p.Getter, value.Obj(owner), nil)
 return v
	}
	return p.Value
}

func (a *Activation) callNamed(name string, args []value.Value) (value.Value, error) {
	p, owner, ok := a.Scope.Resolve(name)
	if !ok || !p.Value.IsObject() {
 return value.Undefined, nil
	}
	return a.invoke(p.Value.Object(), value.Obj(owner), args)
}

func (a *Activation) callMethod(obj *value.Object, name string, args []value.Value) (value.Value, error) {
	if obj == nil {
 return value.Undefined, nil
	}
	p, _, ok := obj.Lookup(name)
	if !ok || !p.Value.IsObject() {
 return value.Undefined, nil
	}
	return a.invoke(p.Value.Object(), value.Obj(obj), args)
}

// invoke calls a callable *value.Object (any object whose Class has a
// CallHandler, such as one created by defineFunction) with `this` bound
// and args in place.
func (a *Activation) invoke(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	class := fn.Class()
	if class == nil || class.CallHandler == nil {
 return value.Undefined, nil
	}
	return class.CallHandler(this.Object(), args)
}

func (a *Activation) construct(name string, args []value.Value) (value.Value, error) {
	p, _, ok := a.Scope.Resolve(name)
	if !ok || !p.Value.IsObject() {
 return value.Undefined, nil
	}
	ctor := p.Value.Object()
	inst := value.NewObject(a.CaseSensitive)
	a.arena.Allocate(inst)
	if protoProp, hasProto := ctor.GetOwn("prototype"); hasProto {
 inst.SetPrototype(protoProp.Object())
	}
	_, err := a.invoke(ctor, value.Obj(inst), args)
	if err != nil {
 return value.Undefined, err
	}
	return value.Obj(inst), nil
}

// defineFunction builds a callable *value.Object around a captured
// ScopeChain and body, per scope-chain closures.
func (a *Activation) defineFunction(name string, params []string, body []Action) *value.Object {
	capturedScope := a.Scope
	clip := a.Clip
	swfVersion := a.SwfVersion
	caseSensitive := a.CaseSensitive
	arena := a.arena

	fnObj := value.NewObject(caseSensitive)
	arena.Allocate(fnObj)
	proto := value.NewObject(caseSensitive)
	arena.Allocate(proto)
	fnObj.SetStored(a.tok, "prototype", value.Obj(proto), value.AttrDontEnum)

	class := &value.Class{Name: name}
	class.CallHandler = func(this *value.Object, args []value.Value) (value.Value, error) {
 inner := NewActivation(arena, a.tok, capturedScope.Push(value.NewObject(caseSensitive)), value.Obj(this), clip, swfVersion)
 for i, pname := range params {
 var v value.Value
 if i < len(args) {
 v = args[i]
 }
 inner.Scope.Innermost().SetStored(inner.tok, pname, v, value.AttrNone)
 }
 argsObj := value.NewObject(caseSensitive)
 arena.Allocate(argsObj)
 for i, v := range args {
 argsObj.SetStored(inner.tok, fmt.Sprintf("%d", i), v, value.AttrNone)
 }
 argsObj.SetStored(inner.tok, "length", value.Int(int32(len(args))), value.AttrDontEnum)
 inner.Arguments = argsObj
 return Run(inner, &Chunk{Actions: body}, NewBudget(DefaultScriptBudget))
	}
	fnObj.SetClass(class)
	return fnObj
}

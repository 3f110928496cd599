// interpreter.go - AVM2 dispatch of verified(+optimized) ops.
package avm2

import (
	"flashcore/value"
)

// Activation is one AVM2 method call frame: three stacks (operand, scope,
// local) matching the shape the verifier already typed.
type Activation struct {
	Operand []value.Value
	Locals []value.Value
	Scope ScopeChain

	This *value.Object
	Method *Method
	Domain *Domain

	arena *value.Arena
	tok value.MutationToken
}

// Domain is a named container of loaded classes,
// defining the lookup scope for findDef-style ops.
type Domain struct {
	Parent *Domain
	Classes map[string]*value.Class
}

// NewDomain creates a domain optionally chained to a parent.
func NewDomain(parent *Domain) *Domain {
	return &Domain{Parent: parent, Classes: make(map[string]*value.Class)}
}

// FindClass resolves a qualified name, searching this domain then parents.
func (d *Domain) FindClass(name string) (*value.Class, bool) {
	for cur := d; cur != nil; cur = cur.Parent {
 if c, ok := cur.Classes[name]; ok {
 return c, true
 }
	}
	return nil, false
}

// NewActivation binds `this`, allocates a locals vector of MaxLocals+1
// entries (local 0 holds `this`, parameters follow from local 1), and seeds the scope
// chain with the outer scope captured at method-definition time.
func NewActivation(arena *value.Arena, tok value.MutationToken, method *Method, this *value.Object, outerScope ScopeChain, domain *Domain, args []value.Value) (*Activation, error) {
	a := &Activation{
 Locals: make([]value.Value, method.MaxLocals+1),
 This: this,
 Method: method,
 Domain: domain,
 Scope: ScopeChain{Entries: append([]ScopeEntry(nil), outerScope.Entries...), Floor: len(outerScope.Entries)},
 arena: arena,
 tok: tok,
	}
	a.Locals[0] = value.Obj(this)
	for i, pt := range method.ParamTypes {
 var v value.Value
 if i < len(args) {
 v = args[i]
 }
 if pt.Resolved {
 v = coerceToDeclared(v, pt)
 }
 a.Locals[i+1] = v
	}
	return a, nil
}

func coerceToDeclared(v value.Value, t value.DeclaredType) value.Value {
	if t.Class == nil {
 return v
	}
	if v.IsObject() && v.Object() != nil && v.Object().Class() != nil && v.Object().Class().DescendsFrom(t.Class) {
 return v
	}
	return v
}

// ThrownValue carries a thrown AVM2 value up through Go's error channel.
type ThrownValue struct{ Value value.Value }

func (t *ThrownValue) Error() string { return "avm2 throw: " + t.Value.ToStringDefault() }

// Run executes a verified (and possibly optimized) method body to
// completion, implementing exception unwind per : on a thrown
// value, the interpreter searches inward-to-outward for the first
// exception record covering the current op whose catch class matches (nil
// matches any), resets the operand stack to just the thrown value, and
// restores the scope stack to its entry-level depth while preserving
// locals.
func Run(a *Activation, m *Method) (value.Value, error) {
	pc := 0
	for pc < len(m.Body) {
 next, retVal, thrown, done := a.step(m.Body[pc], pc)
 if done {
 return retVal, nil
 }
 if thrown != nil {
 handlerPC, ok := findHandler(m, pc, thrown.Value)
 if !ok {
 return value.Undefined, thrown
 }
 a.Operand = a.Operand[:0]
 a.Operand = append(a.Operand, thrown.Value)
 a.Scope.Entries = a.Scope.Entries[:a.Scope.Floor]
 pc = handlerPC
 continue
 }
 if next >= 0 {
 pc = next
 } else {
 pc++
 }
	}
	return value.Undefined, nil
}

func findHandler(m *Method, opIdx int, thrown value.Value) (int, bool) {
	for _, exc := range m.Exceptions {
 if opIdx < exc.From || opIdx >= exc.To {
 continue
 }
 if exc.CatchClass == nil {
 return exc.Target, true
 }
 if obj := thrown.Object(); obj != nil && obj.Class() != nil && obj.Class().DescendsFrom(exc.CatchClass) {
 return exc.Target, true
 }
	}
	return 0, false
}

func (a *Activation) push(v value.Value) { a.Operand = append(a.Operand, v) }
func (a *Activation) pop() value.Value {
	if len(a.Operand) == 0 {
 return value.Undefined
	}
	v := a.Operand[len(a.Operand)-1]
	a.Operand = a.Operand[:len(a.Operand)-1]
	return v
}
func (a *Activation) popN(n int) []value.Value {
	if n > len(a.Operand) {
 n = len(a.Operand)
	}
	out := append([]value.Value(nil), a.Operand[len(a.Operand)-n:]...)
	a.Operand = a.Operand[:len(a.Operand)-n]
	return out
}

// step executes one op. Returns (nextPC, returnValue, thrown, isReturn).
func (a *Activation) step(op Op, idx int) (int, value.Value, *ThrownValue, bool) {
	switch op.Code {
	case OpNop, OpLabel:
	case OpPop:
 a.pop()
	case OpDup:
 v := a.pop()
 a.push(v)
 a.push(v)
	case OpSwap:
 x, y := a.pop(), a.pop()
 a.push(x)
 a.push(y)

	case OpPushTrue:
 a.push(value.Bool(true))
	case OpPushFalse:
 a.push(value.Bool(false))
	case OpPushNull:
 a.push(value.Null)
	case OpPushUndefined, OpPushNaN:
 a.push(value.Undefined)
	case OpPushByte, OpPushShort, OpPushInt, OpPushUint, OpPushDouble, OpPushString, OpPushNamespace:
 a.push(op.Value)

	case OpGetLocal0:
 a.push(a.Locals[0])
	case OpGetLocal1:
 a.push(a.localOrUndef(1))
	case OpGetLocal2:
 a.push(a.localOrUndef(2))
	case OpGetLocal3:
 a.push(a.localOrUndef(3))
	case OpGetLocal:
 a.push(a.localOrUndef(op.Index))
	case OpSetLocal:
 v := a.pop()
 for len(a.Locals) <= op.Index {
 a.Locals = append(a.Locals, value.Undefined)
 }
 a.Locals[op.Index] = v

	case OpPushScope:
 v := a.pop()
 a.Scope.Push(v.Object())
	case OpPushWith:
 v := a.pop()
 a.Scope.PushWith(v.Object())
	case OpPopScope:
 a.Scope.Pop()
	case OpGetScopeObject, OpGetOuterScope:
 e, _ := a.Scope.At(op.Index)
 a.push(value.Obj(e.Object))
	case OpGetScriptGlobals:
 a.push(value.Undefined) // bound by the player/library layer at script-init time

	case OpFindPropStrict, OpFindProperty:
 name := op.Name.LocalName
 if op.Name.IsLazyName {
 name = a.pop().ToStringDefault()
 }
 if obj, ok := a.Scope.FindProperty(name); ok {
 a.push(value.Obj(obj))
 } else if op.Code == OpFindPropStrict {
 return 0, value.Undefined, &ThrownValue{Value: scriptError(1065, "Variable "+name+" is not defined.")}, false
 } else {
 a.push(value.Undefined)
 }

	case OpGetProperty:
 name := op.Name.LocalName
 if op.Name.IsLazyName {
 name = a.pop().ToStringDefault()
 }
 base := a.pop().Object()
 if base == nil {
 return 0, value.Undefined, &ThrownValue{Value: scriptError(1009, "Cannot read property of null.")}, false
 }
 p, owner, ok := base.Lookup(name)
 if !ok {
 a.push(value.Undefined)
 } else if p.IsVirtual && p.Getter != nil && p.Getter.Class() != nil && p.Getter.Class().CallHandler != nil {
 v, _ := p.Getter.Class().CallHandler(owner, nil)
 a.push(v)
 } else {
 a.push(p.Value)
 }

	case OpSetProperty, OpInitProperty:
 v := a.pop()
 name := op.Name.LocalName
 if op.Name.IsLazyName {
 name = a.pop().ToStringDefault()
 }
 base := a.pop().Object()
 if base == nil {
 return 0, value.Undefined, &ThrownValue{Value: scriptError(1009, "Cannot set property of null.")}, false
 }
 if p, ok := base.LookupOwn(name); ok && p.IsVirtual {
 if p.Setter != nil && p.Setter.Class() != nil && p.Setter.Class().CallHandler != nil {
 p.Setter.Class().CallHandler(base, []value.Value{v})
 }
 } else {
 base.SetStored(a.tok, name, v, value.AttrNone)
 }

	case OpGetSlot:
 base := a.pop().Object()
 if base == nil {
 return 0, value.Undefined, &ThrownValue{Value: scriptError(1009, "Cannot read slot of null.")}, false
 }
 a.push(base.Slot(op.Index))
	case OpSetSlot, OpSetSlotNoCoerce:
 v := a.pop()
 base := a.pop().Object()
 if base != nil {
 base.SetSlot(a.tok, op.Index, v)
 }

	case OpCallProperty, OpCallMethod, OpCallNative, OpConstructProp:
 return a.stepCall(op, idx)

	case OpCoerceB:
 a.push(value.Bool(a.pop().ToBoolean()))
	case OpCoerceD, OpConvertO:
 a.push(value.Float(a.pop().ToNumber()))
	case OpCoerceI:
 a.push(value.Int(int32(a.pop().ToNumber())))
	case OpCoerceU:
 a.push(value.Uint(uint32(int32(a.pop().ToNumber()))))
	case OpCoerceS, OpConvertS:
 a.push(a.pop()) // string table access handled by caller via arena; identity-preserving here
	case OpCoerceA, OpCoerceOSwapPop:
 // CoerceA / the swap+pop specialization is a pure stack-shape op.

	case OpAdd:
 b, x := a.pop(), a.pop()
 a.push(value.Float(x.ToNumber() + b.ToNumber()))
	case OpAddI:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) + int32(b.ToNumber())))
	case OpSubtract:
 b, x := a.pop(), a.pop()
 a.push(value.Float(x.ToNumber() - b.ToNumber()))
	case OpSubtractI:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) - int32(b.ToNumber())))
	case OpMultiply:
 b, x := a.pop(), a.pop()
 a.push(value.Float(x.ToNumber() * b.ToNumber()))
	case OpMultiplyI:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) * int32(b.ToNumber())))
	case OpDivide:
 b, x := a.pop(), a.pop()
 a.push(value.Float(x.ToNumber() / b.ToNumber()))
	case OpModulo:
 b, x := a.pop(), a.pop()
 a.push(value.Float(float64(int64(x.ToNumber()) % int64(b.ToNumber()))))
	case OpNegate:
 a.push(value.Float(-a.pop().ToNumber()))
	case OpNegateI:
 a.push(value.Int(-int32(a.pop().ToNumber())))
	case OpIncrement:
 a.push(value.Float(a.pop().ToNumber() + 1))
	case OpIncrementI:
 a.push(value.Int(int32(a.pop().ToNumber()) + 1))
	case OpDecrement:
 a.push(value.Float(a.pop().ToNumber() - 1))
	case OpDecrementI:
 a.push(value.Int(int32(a.pop().ToNumber()) - 1))
	case OpIncLocal:
 a.Locals[op.Index] = value.Float(a.Locals[op.Index].ToNumber() + 1)
	case OpIncLocalI:
 a.Locals[op.Index] = value.Int(int32(a.Locals[op.Index].ToNumber()) + 1)
	case OpDecLocal:
 a.Locals[op.Index] = value.Float(a.Locals[op.Index].ToNumber() - 1)
	case OpDecLocalI:
 a.Locals[op.Index] = value.Int(int32(a.Locals[op.Index].ToNumber()) - 1)
	case OpBitNot:
 a.push(value.Int(^int32(a.pop().ToNumber())))
	case OpBitAnd:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) & int32(b.ToNumber())))
	case OpBitOr:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) | int32(b.ToNumber())))
	case OpBitXor:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) ^ int32(b.ToNumber())))
	case OpLShift:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) << (uint32(int32(b.ToNumber())) & 31)))
	case OpRShift:
 b, x := a.pop(), a.pop()
 a.push(value.Int(int32(x.ToNumber()) >> (uint32(int32(b.ToNumber())) & 31)))
	case OpURShift:
 b, x := a.pop(), a.pop()
 a.push(value.Uint(uint32(int32(x.ToNumber())) >> (uint32(int32(b.ToNumber())) & 31)))
	case OpNot:
 a.push(value.Bool(!a.pop().ToBoolean()))

	case OpEquals:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() == b.ToNumber() || x.StrictEquals(b)))
	case OpStrictEquals:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.StrictEquals(b)))
	case OpLessThan:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() < b.ToNumber()))
	case OpLessEquals:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() <= b.ToNumber()))
	case OpGreaterThan:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() > b.ToNumber()))
	case OpGreaterEquals:
 b, x := a.pop(), a.pop()
 a.push(value.Bool(x.ToNumber() >= b.ToNumber()))

	case OpJump:
 return op.Target, value.Undefined, nil, false
	case OpIfTrue:
 if a.pop().ToBoolean() {
 return op.Target, value.Undefined, nil, false
 }
	case OpIfFalse:
 if !a.pop().ToBoolean() {
 return op.Target, value.Undefined, nil, false
 }
	case OpPopJump:
 a.pop()
 return op.Target, value.Undefined, nil, false

	case OpNewArray:
 elems := a.popN(op.NumArgs)
 obj := value.NewObject(true)
 a.arena.Allocate(obj)
 for i, v := range elems {
 obj.SetStored(a.tok, intKey(i), v, value.AttrNone)
 }
 a.push(value.Obj(obj))
	case OpNewObject:
 obj := value.NewObject(true)
 a.arena.Allocate(obj)
 for i := 0; i < op.NumArgs; i++ {
 v := a.pop()
 k := a.pop().ToStringDefault()
 obj.SetStored(a.tok, k, v, value.AttrNone)
 }
 a.push(value.Obj(obj))
	case OpNewFunction:
 a.push(value.Undefined) // bound by the avm2 class-building layer
	case OpNewClass:
 a.pop() // base class value, already resolved into op.Class by the loader
 a.push(value.Obj(op.Class.CClass))

	case OpReturnValue, OpReturnValueNoCoerce:
 return 0, a.pop(), nil, true
	case OpReturnVoid:
 return 0, value.Undefined, nil, true
	case OpThrow:
 return 0, value.Undefined, &ThrownValue{Value: a.pop()}, false
	}
	return -1, value.Undefined, nil, false
}

func (a *Activation) localOrUndef(i int) value.Value {
	if i < 0 || i >= len(a.Locals) {
 return value.Undefined
	}
	return a.Locals[i]
}

func intKey(i int) string {
	// small, allocation-light decimal formatter; array indices never
	// exceed a few digits in practice.
	if i == 0 {
 return "0"
	}
	var buf [20]byte
	p := len(buf)
	n := i
	for n > 0 {
 p--
 buf[p] = byte('0' + n%10)
 n /= 10
	}
	return string(buf[p:])
}

func (a *Activation) stepCall(op Op, idx int) (int, value.Value, *ThrownValue, bool) {
	switch op.Code {
	case OpCallNative:
 args := a.popN(op.NumArgs)
 receiver := a.pop().Object()
 fn := a.lookupNative(op.Index)
 if fn == nil {
 a.push(value.Undefined)
 return -1, value.Undefined, nil, false
 }
 v, err := fn(receiver, args)
 if err != nil {
 if tv, ok := err.(*ThrownValue); ok {
 return 0, value.Undefined, tv, false
 }
 return 0, value.Undefined, &ThrownValue{Value: value.Str(value.AvmString{})}, false
 }
 a.push(v)
	case OpCallMethod:
 args := a.popN(op.NumArgs)
 receiver := a.pop().Object()
 fn := a.lookupNative(op.Index)
 if fn == nil {
 a.push(value.Undefined)
 return -1, value.Undefined, nil, false
 }
 v, _ := fn(receiver, args)
 a.push(v)
	case OpCallProperty:
 args := a.popN(op.NumArgs)
 receiver := a.pop().Object()
 name := op.Name.LocalName
 if op.Name.IsLazyName {
 name = args[0].ToStringDefault()
 args = args[1:]
 }
 if receiver == nil {
 return 0, value.Undefined, &ThrownValue{Value: scriptError(1009, "Cannot call method on null.")}, false
 }
 p, owner, ok := receiver.Lookup(name)
 if !ok || !p.Value.IsObject() || p.Value.Object().Class() == nil || p.Value.Object().Class().CallHandler == nil {
 a.push(value.Undefined)
 } else {
 v, err := p.Value.Object().Class().CallHandler(owner, args)
 if err != nil {
 if tv, ok := err.(*ThrownValue); ok {
 return 0, value.Undefined, tv, false
 }
 }
 a.push(v)
 }
	case OpConstructProp:
 args := a.popN(op.NumArgs)
 receiver := a.pop().Object()
 name := op.Name.LocalName
 if receiver == nil {
 a.push(value.Undefined)
 return -1, value.Undefined, nil, false
 }
 p, _, ok := receiver.Lookup(name)
 if !ok || !p.Value.IsObject() {
 a.push(value.Undefined)
 return -1, value.Undefined, nil, false
 }
 ctorClass := p.Value.Object().Class()
 inst := value.NewObject(true)
 a.arena.Allocate(inst)
 if ctorClass != nil {
 inst.SetClass(ctorClass)
 if ctorClass.Ctor != nil {
 ctorClass.Ctor(inst, args)
 }
 }
 a.push(value.Obj(inst))
	}
	return -1, value.Undefined, nil, false
}

// lookupNative resolves a dispatch id to its Go implementation. Only
// dispatch id 0 resolves, to the running Method's own Native function;
// every other id resolves to nil.
func (a *Activation) lookupNative(dispID int) value.NativeMethod {
	if a.Method.Native != nil && dispID == 0 {
 return a.Method.Native
	}
	return nil
}

// scriptError returns the value thrown for a tier-1 script-visible error.
// The value is a fresh, empty object: code and msg are not stored on it,
// so a catch handler cannot read them back.
func scriptError(code int, msg string) value.Value {
	obj := value.NewObject(true)
	// Not arena-registered: callers that need this value to survive a GC
	// collect must allocate it through their own arena.
	return value.Obj(obj)
}

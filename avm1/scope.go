// scope.go - AVM1 variable resolution along the scope and prototype chains.
package avm1

import "flashcore/value"

// ScopeChain is the ordered list of scope objects an Activation resolves
// variables against, innermost (the activation's own locals/`with`
// targets) last. Each lookup also walks that scope object's own prototype
// chain (value.Object.Lookup already implements that half).
type ScopeChain struct {
	scopes []*value.Object
}

// NewScopeChain starts a chain rooted at globals.
func NewScopeChain(globals *value.Object) *ScopeChain {
	return &ScopeChain{scopes: []*value.Object{globals}}
}

// Push returns a new chain with obj appended as the innermost scope,
// leaving the receiver untouched (activations share the tail of their
// enclosing function's captured chain, so mutation would be observable by
// unrelated activations).
func (s *ScopeChain) Push(obj *value.Object) *ScopeChain {
	next := make([]*value.Object, len(s.scopes)+1)
	copy(next, s.scopes)
	next[len(s.scopes)] = obj
	return &ScopeChain{scopes: next}
}

// Resolve walks the chain from innermost to outermost, returning the first
// matching property, the scope object owning it (after its own prototype
// walk), and ok.
func (s *ScopeChain) Resolve(name string) (value.OwnProperty, *value.Object, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if p, owner, ok := s.scopes[i].Lookup(name); ok {
			return p, owner, true
		}
	}
	return value.OwnProperty{}, nil, false
}

// Innermost returns the innermost scope object, the usual target for a
// bare `DefineLocal`.
func (s *ScopeChain) Innermost() *value.Object {
	return s.scopes[len(s.scopes)-1]
}

// WithPrototypeParent is used for `with(obj) { ... }`: a temporary scope
// pushed for the block's duration.
func (s *ScopeChain) WithPrototypeParent(obj *value.Object) *ScopeChain {
	return s.Push(obj)
}

// errors.go - AVM1 throw/catch unwind support.
package avm1

import "flashcore/value"

// ThrownValue wraps an ActionScript value thrown by `ActionThrow`, letting
// Go's own error propagation carry it out of Run to the caller. The
// interpreter has no try action, so nothing in this package catches it.
type ThrownValue struct {
	Value value.Value
}

func (t *ThrownValue) Error() string {
	return "AVM1 throw: " + t.Value.ToStringDefault()
}

// ScriptTimeout is raised when a method's execution crosses the
// max-execution-duration budget at a back-edge check.
type ScriptTimeout struct{}

func (ScriptTimeout) Error() string { return "script execution timed out" }

// coerce.go - ECMA-262-3 coercions plus the two documented Flash quirks.
package avm1

import (
	"math"

	"flashcore/value"
)

// ToNumberBitwise applies ToNumber but folds NaN to 0, the documented
// quirk for bitwise operators: `"x" & 1` must not propagate
// NaN the way arithmetic operators do.
func ToNumberBitwise(v value.Value) float64 {
	n := v.ToNumber()
	if math.IsNaN(n) {
 return 0
	}
	return n
}

// ToInt32Bitwise converts through ToNumberBitwise and truncates to int32,
// matching the ECMA ToInt32 abstract operation.
func ToInt32Bitwise(v value.Value) int32 {
	n := ToNumberBitwise(v)
	if math.IsInf(n, 0) {
 return 0
	}
	return int32(int64(n))
}

// ConcatString renders v for string concatenation. Prior to SWF 7,
// `undefined` concatenates as the empty string; from SWF 7 onward it
// renders as the literal "undefined".
func ConcatString(v value.Value, swfVersion uint8) string {
	if v.IsUndefined() {
 if swfVersion < 7 {
 return ""
 }
 return "undefined"
	}
	return v.ToStringDefault()
}

// Add implements the AVM1 `+` operator: string concatenation if either
// operand is already a string, otherwise numeric addition. AVM1 is
// pragmatic here rather than spec-faithful to ECMA's full ToPrimitive
// machinery. The string table is passed explicitly.
func Add(strings *value.StringTable, a, b value.Value, swfVersion uint8) value.Value {
	if a.Kind() == value.KindString || b.Kind() == value.KindString {
 return value.Str(strings.Intern(ConcatString(a, swfVersion) + ConcatString(b, swfVersion)))
	}
	return value.Float(a.ToNumber() + b.ToNumber())
}

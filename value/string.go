// string.go - Interned, WTF-16 encoded string store.
package value

import (
	"strings"
	"sync"
	"unicode/utf16"
)

// AvmString is an immutable interned string. Two AvmStrings with equal
// content always compare equal by id, never by content, the same way the
// prior audio LUTs (audio_lut.go) trade a lookup for repeated
// recomputation.
type AvmString struct {
	id uint32
	table *StringTable
}

// StringTable interns strings as WTF-16 code unit slices (so that unpaired
// surrogates produced by malformed SWF text round-trip losslessly, the way
// ActionScript's internal string representation requires) and provides a
// case-insensitive lookup path for SWF <= 6 content.
type StringTable struct {
	mu sync.RWMutex
	units [][]uint16
	byExact map[string]uint32
	byFold map[string][]uint32
}

// NewStringTable creates an empty interner.
func NewStringTable() *StringTable {
	return &StringTable{
 byExact: make(map[string]uint32),
 byFold: make(map[string][]uint32),
	}
}

// Intern interns s and returns a handle. Interning the same content twice
// returns the same id.
func (t *StringTable) Intern(s string) AvmString {
	t.mu.RLock()
	if id, ok := t.byExact[s]; ok {
 t.mu.RUnlock()
 return AvmString{id: id, table: t}
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byExact[s]; ok {
 return AvmString{id: id, table: t}
	}
	id := uint32(len(t.units))
	t.units = append(t.units, utf16.Encode([]rune(s)))
	t.byExact[s] = id
	fold := strings.ToLower(s)
	t.byFold[fold] = append(t.byFold[fold], id)
	return AvmString{id: id, table: t}
}

// Lookup finds a previously interned string. When caseSensitive is false
// (SWF ≤ 6) the first-interned string matching case-insensitively wins,
// matching the historical runtime's prototype-chain lookup order.
func (t *StringTable) Lookup(s string, caseSensitive bool) (AvmString, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if caseSensitive {
 if id, ok := t.byExact[s]; ok {
 return AvmString{id: id, table: t}, true
 }
 return AvmString{}, false
	}
	ids := t.byFold[strings.ToLower(s)]
	if len(ids) == 0 {
 return AvmString{}, false
	}
	return AvmString{id: ids[0], table: t}, true
}

// String renders the interned content back to UTF-8.
func (s AvmString) String() string {
	if s.table == nil {
 return ""
	}
	s.table.mu.RLock()
	defer s.table.mu.RUnlock()
	return string(utf16.Decode(s.table.units[s.id]))
}

// Equals compares by interned identity, which is exact-content equality.
func (s AvmString) Equals(o AvmString) bool {
	return s.table == o.table && s.id == o.id
}

// EqualsFold compares case-insensitively without re-interning.
func (s AvmString) EqualsFold(o AvmString) bool {
	if s.table == nil || o.table == nil {
 return s.table == o.table
	}
	return strings.EqualFold(s.String(), o.String())
}

// IsZero reports whether this is the unset zero value.
func (s AvmString) IsZero() bool { return s.table == nil }

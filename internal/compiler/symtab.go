package compiler

import "github.com/samber/lo"

// SymbolKind distinguishes a resolved name's storage class.
type SymbolKind int

const (
	SymNone SymbolKind = iota
	SymLocal
	SymExtern
)

// SymbolTable tracks the per-function locals table, the per-function
// extern table, and the translation-unit-wide string pool. Locals and
// externs are stored as parallel name/payload slices searched
// linearly — appropriate here since a function's local count is
// always small and lookups are dominated by parse overhead, not
// symbol-table overhead.
type SymbolTable struct {
	localNames []string
	localSlots []int

	externNames []string

	stringPool []string
}

func NewSymbolTable() *SymbolTable { return &SymbolTable{} }

// ResetFunction clears the locals and extern tables at the start of a
// new function. The string pool is untouched — it accumulates across
// the whole translation unit.
func (st *SymbolTable) ResetFunction() {
	st.localNames = st.localNames[:0]
	st.localSlots = st.localSlots[:0]
	st.externNames = st.externNames[:0]
}

// DeclareLocal adds a local to the current function's table. Returns
// false if name is already a local or extern in this function.
func (st *SymbolTable) DeclareLocal(name string, slot int) bool {
	if lo.IndexOf(st.localNames, name) >= 0 || lo.IndexOf(st.externNames, name) >= 0 {
		return false
	}
	st.localNames = append(st.localNames, name)
	st.localSlots = append(st.localSlots, slot)
	return true
}

// DeclareExtern adds name to the extern table. Returns false if name
// is already a local or extern in this function.
func (st *SymbolTable) DeclareExtern(name string) bool {
	if lo.IndexOf(st.localNames, name) >= 0 || lo.IndexOf(st.externNames, name) >= 0 {
		return false
	}
	st.externNames = append(st.externNames, name)
	return true
}

// DeclareExternIfAbsent is used for the implicit self-reference a
// function definition adds to its own extern table, and for tentative
// call-site externs: both are idempotent, not an error, if the name
// is already known.
func (st *SymbolTable) DeclareExternIfAbsent(name string) {
	if lo.IndexOf(st.localNames, name) >= 0 || lo.IndexOf(st.externNames, name) >= 0 {
		return
	}
	st.externNames = append(st.externNames, name)
}

// Resolve looks up name, locals first, then externs.
func (st *SymbolTable) Resolve(name string) (SymbolKind, int) {
	if i := lo.IndexOf(st.localNames, name); i >= 0 {
		return SymLocal, st.localSlots[i]
	}
	if lo.IndexOf(st.externNames, name) >= 0 {
		return SymExtern, 0
	}
	return SymNone, 0
}

// Intern adds s to the string pool if not already present and returns
// its stable index; an index, once handed out, never changes for the
// rest of the translation unit.
func (st *SymbolTable) Intern(s string) int {
	if i := lo.IndexOf(st.stringPool, s); i >= 0 {
		return i
	}
	st.stringPool = append(st.stringPool, s)
	return len(st.stringPool) - 1
}

func (st *SymbolTable) Strings() []string { return st.stringPool }

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableLocalsAndExterns(t *testing.T) {
	st := NewSymbolTable()

	require.True(t, st.DeclareLocal("x", 0))
	require.True(t, st.DeclareExtern("printf"))

	kind, slot := st.Resolve("x")
	assert.Equal(t, SymLocal, kind)
	assert.Equal(t, 0, slot)

	kind, _ = st.Resolve("printf")
	assert.Equal(t, SymExtern, kind)

	kind, _ = st.Resolve("nope")
	assert.Equal(t, SymNone, kind)
}

func TestSymbolTableLocalShadowsNothingButRejectsDuplicates(t *testing.T) {
	st := NewSymbolTable()
	require.True(t, st.DeclareLocal("a", 0))
	assert.False(t, st.DeclareLocal("a", 1), "duplicate local must be rejected")
	assert.False(t, st.DeclareExtern("a"), "name already local must be rejected as extern too")
}

func TestSymbolTableResetFunctionKeepsStringPool(t *testing.T) {
	st := NewSymbolTable()
	require.True(t, st.DeclareLocal("x", 0))
	idx := st.Intern("hello")

	st.ResetFunction()

	kind, _ := st.Resolve("x")
	assert.Equal(t, SymNone, kind, "locals must not survive ResetFunction")
	assert.Equal(t, idx, st.Intern("hello"), "string pool index must survive ResetFunction")
}

func TestSymbolTableDeclareExternIfAbsentIsIdempotent(t *testing.T) {
	st := NewSymbolTable()
	st.DeclareExternIfAbsent("foo")
	st.DeclareExternIfAbsent("foo")
	kind, _ := st.Resolve("foo")
	assert.Equal(t, SymExtern, kind)
	assert.Len(t, st.externNames, 1)
}

func TestSymbolTableInternStableIndices(t *testing.T) {
	st := NewSymbolTable()
	a := st.Intern("hello")
	b := st.Intern("world")
	c := st.Intern("hello")
	assert.Equal(t, a, c, "interning the same string twice returns the same index")
	assert.NotEqual(t, a, b)
	assert.Equal(t, []string{"hello", "world"}, st.Strings())
}

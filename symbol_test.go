package elisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntern_SameNameReturnsIdenticalValue(t *testing.T) {
	ctx := NewContext()
	a := Intern(ctx, "foo")
	b := Intern(ctx, "foo")
	assert.True(t, Eq(a, b))
}

func TestIntern_DifferentNamesAreDistinct(t *testing.T) {
	ctx := NewContext()
	a := Intern(ctx, "foo")
	b := Intern(ctx, "bar")
	assert.False(t, Eq(a, b))
}

func TestMakeSymbol_NeverInterned(t *testing.T) {
	ctx := NewContext()
	a, err := MakeSymbol(ctx, "gensym")
	require.NoError(t, err)
	b, err := MakeSymbol(ctx, "gensym")
	require.NoError(t, err)

	assert.False(t, Eq(a, b), "two uninterned symbols with the same name have distinct identity")
	assert.False(t, Eq(a, Intern(ctx, "gensym")), "an uninterned symbol never matches an interned one of the same name")
}

func TestSymbol_ValueAndFunctionSlots(t *testing.T) {
	ctx := NewContext()
	sym := Intern(ctx, "x")
	s := symbolOf(sym)

	_, ok := s.GetValue()
	assert.False(t, ok)

	s.SetValue(FromInt(42))
	v, ok := s.GetValue()
	require.True(t, ok)
	assert.Equal(t, int64(42), mustInt(t, v))

	s.SetFunction(sym)
	fn, ok := s.GetFunction()
	require.True(t, ok)
	assert.True(t, Eq(fn, sym))
}

func TestSymbol_PropertyListPutGet(t *testing.T) {
	ctx := NewContext()
	sym := symbolOf(Intern(ctx, "x"))
	key := Intern(ctx, "prop")

	_, ok := sym.Get(key)
	assert.False(t, ok)

	sym.Put(key, FromInt(1))
	v, ok := sym.Get(key)
	require.True(t, ok)
	assert.Equal(t, int64(1), mustInt(t, v))

	sym.Put(key, FromInt(2)) // overwrite, not append
	v, ok = sym.Get(key)
	require.True(t, ok)
	assert.Equal(t, int64(2), mustInt(t, v))
}

func TestSymbolName(t *testing.T) {
	ctx := NewContext()
	sym := Intern(ctx, "hello")
	assert.Equal(t, "hello", SymbolName(sym))
}

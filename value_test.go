package elisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf_Immediates(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected Variant
	}{
		{"int", FromInt(42), VInt},
		{"nil", Nil, VNil},
		{"true", True, VTrue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.v))
		})
	}
}

func TestFromInt_WrapsAtFixnumWidth(t *testing.T) {
	max := FromInt(fixnumMax)
	over, ok := AsInt(FromInt(fixnumMax + 1))
	require.True(t, ok)
	assert.NotEqual(t, fixnumMax+1, over, "overflow must wrap, not promote")
	assert.Equal(t, fixnumMin, over)

	v, _ := AsInt(max)
	assert.Equal(t, fixnumMax, v)
}

func TestEq_Immediates(t *testing.T) {
	assert.True(t, Eq(Nil, Nil))
	assert.True(t, Eq(True, True))
	assert.False(t, Eq(Nil, True))
	assert.True(t, Eq(FromInt(7), FromInt(7)))
	assert.False(t, Eq(FromInt(7), FromInt(8)))
}

func TestEq_HeapCellsByIdentityNotContent(t *testing.T) {
	ctx := NewContext()
	a, err := NewString(ctx, "hi")
	require.NoError(t, err)
	b, err := NewString(ctx, "hi")
	require.NoError(t, err)

	assert.False(t, Eq(a, b), "two separately allocated Strings are never Eq even with equal bytes")
	assert.True(t, Eq(a, a))
}

func TestValueString_Cons(t *testing.T) {
	ctx := NewContext()
	tail, err := NewCons(ctx, FromInt(2), Nil)
	require.NoError(t, err)
	head, err := NewCons(ctx, FromInt(1), tail)
	require.NoError(t, err)

	assert.Equal(t, "(1 2)", head.String())
}

func TestValueString_ImproperList(t *testing.T) {
	ctx := NewContext()
	pair, err := NewCons(ctx, FromInt(1), FromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "(1 . 2)", pair.String())
}

func TestValueString_StringQuoting(t *testing.T) {
	ctx := NewContext()
	v, err := NewString(ctx, "ab\"c")
	require.NoError(t, err)
	assert.Equal(t, `"ab\"c"`, v.String())
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(Nil))
	assert.True(t, Truthy(True))
	assert.True(t, Truthy(FromInt(0)), "0 is truthy in Emacs Lisp, unlike C")
}

package elisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootGuard_ReinitPanics(t *testing.T) {
	ctx := NewContext()
	g := NewRootGuard(ctx)
	g.Init(FromInt(1))
	defer g.Release()

	assert.Panics(t, func() { g.Init(FromInt(2)) })
}

func TestRootGuard_ReleaseWhileUninitializedPanics(t *testing.T) {
	ctx := NewContext()
	g := NewRootGuard(ctx)
	assert.Panics(t, func() { g.Release() })
}

func TestRootGuard_DoubleReleasePanics(t *testing.T) {
	ctx := NewContext()
	g := Root(ctx, FromInt(1))
	g.Release()
	assert.Panics(t, func() { g.Release() })
}

func TestRootGuard_OutOfOrderReleasePanics(t *testing.T) {
	ctx := NewContext()
	outer := Root(ctx, FromInt(1))
	inner := Root(ctx, FromInt(2))

	assert.Panics(t, func() { outer.Release() }, "outer can't be released before inner while inner is still live")

	inner.Release()
	outer.Release()
}

func TestRootedCons_ChildPropagatesRootedness(t *testing.T) {
	ctx := NewContext()
	ctx.Config().SetBool("gc.disable_auto", true)

	cell, err := NewCons(ctx, FromInt(1), Nil)
	require.NoError(t, err)
	rc := NewRootedCons(ctx, cell)
	defer rc.Release()

	car := rc.Car()
	defer car.Release()

	ctx.Collect()
	assert.Equal(t, int64(1), mustInt(t, car.Get()))
}

func TestRootedList_PushAndSnapshotSurviveCollection(t *testing.T) {
	ctx := NewContext()
	ctx.Config().SetBool("gc.disable_auto", true)

	l := NewRootedList(ctx)
	defer l.Release()

	for i := 0; i < 5; i++ {
		s, err := NewString(ctx, "x")
		require.NoError(t, err)
		l.Push(s)
	}

	ctx.Collect()
	assert.Equal(t, 5, l.Len())
	snap := l.Snapshot()
	assert.Len(t, snap, 5)
	assert.Equal(t, 5, l.Len(), "Snapshot must not drain the list")
}

func TestRootedList_PopAndSwapRemove(t *testing.T) {
	ctx := NewContext()
	l := NewRootedList(ctx)
	defer l.Release()

	l.Push(FromInt(1))
	l.Push(FromInt(2))
	l.Push(FromInt(3))

	popped := l.Pop()
	assert.Equal(t, int64(3), mustInt(t, popped))
	assert.Equal(t, 2, l.Len())

	removed := l.SwapRemove(0)
	assert.Equal(t, int64(1), mustInt(t, removed))
	assert.Equal(t, 1, l.Len())
}

func TestRootedVector_SetAndGet(t *testing.T) {
	ctx := NewContext()
	ctx.Config().SetBool("gc.disable_auto", true)

	vec, err := MakeVector(ctx, 3, Nil)
	require.NoError(t, err)
	rv := NewRootedVector(ctx, vec)
	defer rv.Release()

	rv.Set(ctx, 1, FromInt(9))
	ctx.Collect()

	elem := rv.Get(1)
	defer elem.Release()
	assert.Equal(t, int64(9), mustInt(t, elem.Get()))
}

func TestRootedHashTable_InsertGetRemove(t *testing.T) {
	ctx := NewContext()
	tbl, err := NewHashTable(ctx)
	require.NoError(t, err)
	rh := NewRootedHashTable(ctx, tbl)
	defer rh.Release()

	key := FromInt(1)
	rh.Insert(ctx, key, FromInt(100))
	assert.Equal(t, 1, rh.Len())

	got, ok := rh.Get(key)
	require.True(t, ok)
	defer got.Release()
	assert.Equal(t, int64(100), mustInt(t, got.Get()))

	rh.Remove(key)
	assert.Equal(t, 0, rh.Len())
}

func mustInt(t *testing.T, v Value) int64 {
	t.Helper()
	n, ok := AsInt(v)
	require.True(t, ok)
	return n
}

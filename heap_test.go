package elisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_AllocateRecyclesFreedSlots(t *testing.T) {
	b := newBlock()
	idx1, gen1 := b.allocate(VInt, &lispFloat{f: 1})
	b.sweep() // unmarked, so this cell is freed
	assert.True(t, b.headers[idx1].free)

	idx2, gen2 := b.allocate(VFloat, &lispFloat{f: 2})
	assert.Equal(t, idx1, idx2, "a freed slot is recycled before growing")
	assert.NotEqual(t, gen1, gen2, "recycling must bump the generation")
}

func TestBlock_DerefPanicsOnStaleGeneration(t *testing.T) {
	b := newBlock()
	idx, gen := b.allocate(VFloat, &lispFloat{f: 1})
	b.sweep() // unmarked -> freed, gen bumped
	assert.True(t, b.headers[idx].free)

	assert.Panics(t, func() {
		b.deref(idx, gen)
	}, "dereferencing a cellRef whose generation has been superseded must abort")
}

func TestBlock_SweepClearsMarkOnSurvivors(t *testing.T) {
	b := newBlock()
	idx, _ := b.allocate(VFloat, &lispFloat{f: 1})
	b.mark(idx)
	freed := b.sweep()
	assert.Equal(t, 0, freed)
	assert.False(t, b.headers[idx].marked, "sweep clears the mark bit so the next cycle starts clean")
	assert.True(t, b.live(idx))
}

func TestBuffer_InsertAndDelete(t *testing.T) {
	b := newBuffer("hello")
	require.Equal(t, "hello", b.Text())

	b.InsertString(" world")
	assert.Equal(t, "hello world", b.Text())

	b.Delete(6)
	assert.Equal(t, "hello", b.Text())
}

func TestBuffer_GrowsPastSlack(t *testing.T) {
	b := newBuffer("")
	long := make([]byte, gapBufferSlack*4)
	for i := range long {
		long[i] = 'x'
	}
	b.InsertString(string(long))
	assert.Equal(t, string(long), b.Text())
}

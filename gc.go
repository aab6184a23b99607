package elisp

import (
	"io"
	"os"
)

// defaultGCThreshold is how many cells may be allocated since the last
// collection before the next allocation triggers one.
const defaultGCThreshold = 4096

// Context is the single entry point for allocation and for root-set
// access (§4.3). Every operation that may allocate takes *Context by
// exclusive use — there is exactly one Context per mutator thread, and
// nothing in this package lets two goroutines share one safely (§5).
type Context struct {
	blocks []*Block
	roots  *RootSet
	config *Config
	symbols *internTable

	allocatedSinceGC int
	allocatedTotal    int
	collections       int

	// Stdout is where `message` writes; defaults to os.Stdout and is
	// swapped out in tests so output can be captured.
	Stdout io.Writer
}

// NewContext creates a Context with one Block and a primed symbol table
// (the built-in function names are interned and bound as part of this
// call — see RegisterBuiltins).
func NewContext() *Context {
	cfg := NewConfig()
	ctx := &Context{
		blocks: []*Block{newBlock()},
		roots:  newRootSet(),
		config: cfg,
		Stdout: os.Stdout,
	}
	ctx.symbols = newInternTable()
	RegisterBuiltins(ctx)
	return ctx
}

// Config exposes the Context's tuning knobs (see config.go).
func (ctx *Context) Config() *Config { return ctx.config }

// RootSetOf exposes the stack of live roots so Rooting handles can push
// onto it. Named RootSetOf (not RootSet, which is the type) to avoid a
// name clash at the package level.
func (ctx *Context) RootSetOf() *RootSet { return ctx.roots }

func (ctx *Context) block() *Block { return ctx.blocks[0] }

// maybeCollect runs a collection before the next allocation if the
// configured heuristic threshold has been crossed. Tests that want
// fully-controlled GC timing should set gc.disable_auto true and call
// Collect directly.
func (ctx *Context) maybeCollect() {
	if ctx.config.GetBool("gc.disable_auto") {
		return
	}
	threshold := ctx.config.GetInt("gc.threshold_cells")
	if threshold <= 0 {
		threshold = defaultGCThreshold
	}
	if ctx.allocatedSinceGC >= threshold {
		ctx.Collect()
	}
}

// alloc heap-allocates obj, tagging the returned Value as typ. It may run
// a collection first (§4.3) and fails with OutOfMemory if a configured
// cell budget (gc.max_cells, 0 = unbounded) would be exceeded even after
// collecting.
func (ctx *Context) alloc(typ Variant, obj heapObj) (Value, error) {
	ctx.maybeCollect()

	if max := ctx.config.GetInt("gc.max_cells"); max > 0 && ctx.liveCells() >= max {
		ctx.Collect()
		if ctx.liveCells() >= max {
			return Value{}, &Error{kind: ErrOutOfMemory}
		}
	}

	b := ctx.block()
	idx, gen := b.allocate(typ, obj)
	ctx.allocatedSinceGC++
	ctx.allocatedTotal++
	return Value{tag: typ, ref: cellRef{block: b, index: idx, gen: gen}}, nil
}

// liveCells counts cells currently live across every owned Block.
func (ctx *Context) liveCells() int {
	n := 0
	for _, b := range ctx.blocks {
		for i := range b.headers {
			if !b.headers[i].free {
				n++
			}
		}
	}
	return n
}

// Stats is a snapshot of allocator/collector counters, handy for tests
// and for the demo CLI.
type Stats struct {
	LiveCells   int
	Collections int
	Allocated   int
}

func (ctx *Context) Stats() Stats {
	return Stats{LiveCells: ctx.liveCells(), Collections: ctx.collections, Allocated: ctx.allocatedTotal}
}

// Collect runs one mark-sweep cycle (§4.3):
//  1. every root traces its referenced Values onto a worklist,
//  2. the worklist is drained, marking each heap cell once and enqueuing
//     whatever it, in turn, references,
//  3. every Block is swept: unmarked cells are freed, survivors have
//     their mark bit cleared.
//
// The intern table is an implicit, unconditional root (§4.5): every
// interned Symbol is traced regardless of what the explicit root stack
// holds.
func (ctx *Context) Collect() {
	var work []Value

	ctx.roots.traceAll(&work)
	ctx.symbols.trace(&work)

	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]

		if v.ref.block == nil {
			continue // immediate: Int, Nil, True have nothing to mark
		}
		b := v.ref.block
		if b.mark(v.ref.index) {
			continue // already marked, already traced
		}
		obj := b.deref(v.ref.index, v.ref.gen)
		obj.trace(&work)
	}

	for _, b := range ctx.blocks {
		b.sweep()
	}
	ctx.allocatedSinceGC = 0
	ctx.collections++
}

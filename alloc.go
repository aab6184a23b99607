package elisp

// This file is the rest of the "Built-in Allocators" component (§2 item
// 8, §4.6): the small family of constructors that is the public face of
// the heap to the rest of the interpreter. VectorOf and RecordOf live in
// builtins.go next to the Lisp-callable builtins they back; the
// constructors here have no direct `(6)` table entry of their own
// (Cons, Float, String, HashTable and Buffer are built by the reader,
// the arithmetic library, and the buffer primitives, none of which are
// in scope — see §1). Within this core, NewString backs the results of
// `format`, `format-message` and `message`, and several of them are
// used by the core's own tests.

// NewCons allocates a single cons cell.
func NewCons(ctx *Context, car, cdr Value) (Value, error) {
	return ctx.alloc(VCons, &Cons{Car: car, Cdr: cdr})
}

// NewFloat boxes f onto the heap.
func NewFloat(ctx *Context, f float64) (Value, error) {
	return ctx.alloc(VFloat, &lispFloat{f: f})
}

// NewString allocates an immutable copy of s's bytes.
func NewString(ctx *Context, s string) (Value, error) {
	b := make([]byte, len(s))
	copy(b, s)
	return ctx.alloc(VString, &lispString{bytes: b})
}

// StringBytes returns a copy of the UTF-8 bytes backing a String Value.
func StringBytes(v Value) []byte {
	s := v.ref.block.str(v.ref.index, v.ref.gen)
	return []byte(s)
}

// StringText returns the UTF-8 text backing a String Value.
func StringText(v Value) string {
	return v.ref.block.str(v.ref.index, v.ref.gen)
}

// NewHashTable allocates an empty Value->Value hash table, keyed by Eq
// rather than deep structural equality.
func NewHashTable(ctx *Context) (Value, error) {
	return ctx.alloc(VHashTable, newHashTable())
}

// NewBuffer allocates a Buffer cell wrapping a gap buffer primed with
// initial's contents.
func NewBuffer(ctx *Context, initial string) (Value, error) {
	return ctx.alloc(VBuffer, newBuffer(initial))
}

// BufferOf returns the *Buffer backing a Buffer Value, for the buffer
// primitives this core pins as an external collaborator (§1).
func BufferOf(v Value) *Buffer {
	return v.ref.block.buffer(v.ref.index, v.ref.gen)
}

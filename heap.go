package elisp

import "fmt"

// Cons is the two-Value building block of lists. Both Car and Cdr are
// mutable in place through a Context (§4.3's exclusive-borrow rule is what
// makes that safe), unlike String bytes or compiled ByteFn code.
type Cons struct {
	Car, Cdr Value
}

func (c *Cons) trace(work *[]Value) {
	*work = append(*work, c.Car, c.Cdr)
}

// lispString is the immutable byte-sequence backing a String Value.
type lispString struct {
	bytes []byte
}

func (s *lispString) trace(work *[]Value) {}

// lispFloat boxes a float64 so that every Value stays the same shape.
type lispFloat struct {
	f float64
}

func (f *lispFloat) trace(work *[]Value) {}

// Vector is a fixed-length, in-place-mutable sequence of Values.
type Vector struct {
	Items []Value
}

func (v *Vector) trace(work *[]Value) {
	*work = append(*work, v.Items...)
}

// Record is a Vector-shaped cell whose first slot is conventionally a
// type-tag Value.
type Record struct {
	Slots []Value
}

func (r *Record) trace(work *[]Value) {
	*work = append(*work, r.Slots...)
}

// HashTable is a Value-to-Value map. Keys compare by Eq, which is exactly
// what makes a plain Go map usable here: Value is a small comparable
// struct.
type HashTable struct {
	m map[Value]Value
}

func newHashTable() *HashTable {
	return &HashTable{m: make(map[Value]Value)}
}

func (h *HashTable) trace(work *[]Value) {
	for k, v := range h.m {
		*work = append(*work, k, v)
	}
}

// gapBufferSlack is the size, in bytes, of the gap a new buffer starts
// with and that every reallocation leaves after the inserted text, so a
// typical run of consecutive inserts doesn't reallocate the backing store
// each time. Inserts that fit in the gap shrink it without restoring it.
const gapBufferSlack = 32

// Buffer wraps a gap buffer: a mutable byte store with a contiguous
// unused region ("the gap") positioned at the edit point. It traces to no
// Values, so the collector never needs to look inside it.
type Buffer struct {
	storage  []byte
	gapStart int
	gapEnd   int
}

func newBuffer(initial string) *Buffer {
	storage := make([]byte, 0, len(initial)+gapBufferSlack)
	storage = append(storage, initial...)
	storage = append(storage, make([]byte, gapBufferSlack)...)
	return &Buffer{storage: storage, gapStart: len(initial), gapEnd: len(initial) + gapBufferSlack}
}

func (b *Buffer) trace(work *[]Value) {}

func (b *Buffer) grow(s string) {
	preGap := b.storage[:b.gapStart]
	postGap := b.storage[b.gapEnd:]
	next := make([]byte, 0, len(preGap)+len(s)+gapBufferSlack+len(postGap))
	next = append(next, preGap...)
	next = append(next, s...)
	next = append(next, make([]byte, gapBufferSlack)...)
	next = append(next, postGap...)
	b.storage = next
	b.gapStart += len(s)
	b.gapEnd = b.gapStart + gapBufferSlack
}

// InsertString writes s into the gap, growing the backing store first if
// the gap cannot hold it.
func (b *Buffer) InsertString(s string) {
	if b.gapEnd-b.gapStart < len(s) {
		b.grow(s)
		return
	}
	copy(b.storage[b.gapStart:b.gapStart+len(s)], s)
	b.gapStart += len(s)
}

// InsertRune is InsertString for a single rune.
func (b *Buffer) InsertRune(r rune) {
	var buf [4]byte
	n := encodeRune(buf[:], r)
	b.InsertString(string(buf[:n]))
}

func encodeRune(buf []byte, r rune) int {
	return copy(buf, string(r))
}

// Delete removes up to size bytes immediately before the gap.
func (b *Buffer) Delete(size int) {
	idx := b.gapStart - size
	if idx < 0 {
		idx = 0
	}
	b.gapStart = idx
}

// Text returns the buffer's current contents as a string (pre-gap then
// post-gap).
func (b *Buffer) Text() string {
	out := make([]byte, 0, len(b.storage)-(b.gapEnd-b.gapStart))
	out = append(out, b.storage[:b.gapStart]...)
	out = append(out, b.storage[b.gapEnd:]...)
	return string(out)
}

// heapObj is satisfied by every payload type a Block can hold. trace
// enqueues every Value the payload owns onto the collector's worklist.
type heapObj interface {
	trace(work *[]Value)
}

// cellHeader carries a type discriminator, a mark bit, and a reserved
// forwarding bit (always false here — this core never evacuates cells).
type cellHeader struct {
	typ    Variant
	marked bool
	moved  bool
	gen    uint32
	free   bool
}

// Block is a bump/arena-style owner of heap cells: allocate grows the
// slot map (or reuses a freed slot), and sweep walks every live cell.
// Every cellRef minted by a Block's allocate is only ever valid for that
// Block — crossing Blocks is not supported, matching §4.2's "no Value
// refers between Blocks that do not share a Context".
type Block struct {
	headers []cellHeader
	objs    []heapObj
	free    []uint32
}

func newBlock() *Block {
	return &Block{}
}

// allocate pins obj to this Block's lifetime and returns the slot it was
// given. The mark bit starts clear; sweep will reclaim it unless the next
// collection finds it reachable.
func (b *Block) allocate(typ Variant, obj heapObj) (index uint32, gen uint32) {
	if n := len(b.free); n > 0 {
		idx := b.free[n-1]
		b.free = b.free[:n-1]
		b.headers[idx] = cellHeader{typ: typ, gen: b.headers[idx].gen}
		b.objs[idx] = obj
		return idx, b.headers[idx].gen
	}
	idx := uint32(len(b.objs))
	b.headers = append(b.headers, cellHeader{typ: typ})
	b.objs = append(b.objs, obj)
	return idx, 0
}

// deref returns the live payload at (index, gen), aborting if the slot
// has since been swept or recycled — the Go substitute for "dangling
// tagged pointer" since there is no real pointer to dangle.
func (b *Block) deref(index uint32, gen uint32) heapObj {
	if int(index) >= len(b.headers) || b.headers[index].gen != gen || b.headers[index].free {
		panic(fmt.Sprintf("elisp: use of collected cell (index=%d gen=%d)", index, gen))
	}
	return b.objs[index]
}

func (b *Block) cons(index, gen uint32) *Cons     { return b.deref(index, gen).(*Cons) }
func (b *Block) str(index, gen uint32) string     { return b.deref(index, gen).(*lispString).bytes2string() }
func (b *Block) float(index, gen uint32) float64  { return b.deref(index, gen).(*lispFloat).f }
func (b *Block) symbol(index, gen uint32) *Symbol { return b.deref(index, gen).(*Symbol) }
func (b *Block) vector(index, gen uint32) *Vector { return b.deref(index, gen).(*Vector) }
func (b *Block) record(index, gen uint32) *Record { return b.deref(index, gen).(*Record) }
func (b *Block) byteFn(index, gen uint32) *ByteFn { return b.deref(index, gen).(*ByteFn) }
func (b *Block) hashTable(index, gen uint32) *HashTable {
	return b.deref(index, gen).(*HashTable)
}
func (b *Block) buffer(index, gen uint32) *Buffer { return b.deref(index, gen).(*Buffer) }

func (s *lispString) bytes2string() string { return string(s.bytes) }

// mark sets the mark bit for a live slot; it is idempotent so the
// collector can mark the same cell twice without consequence.
func (b *Block) mark(index uint32) (already bool) {
	if b.headers[index].marked {
		return true
	}
	b.headers[index].marked = true
	return false
}

// sweep frees every unmarked, non-free slot and clears the mark bit on
// every survivor, per §4.3 step 3. It returns the number of cells freed.
func (b *Block) sweep() int {
	freed := 0
	for i := range b.headers {
		h := &b.headers[i]
		if h.free {
			continue
		}
		if !h.marked {
			h.free = true
			h.gen++
			b.objs[i] = nil
			b.free = append(b.free, uint32(i))
			freed++
			continue
		}
		h.marked = false
	}
	return freed
}

// live reports whether the slot at index currently holds a cell (used by
// tests that want to assert on sweep results directly).
func (b *Block) live(index uint32) bool {
	return int(index) < len(b.headers) && !b.headers[index].free
}

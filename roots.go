package elisp

// rootEntry is satisfied by anything that can sit on the root stack: a
// scalar RootGuard or a RootedList.
type rootEntry interface {
	traceRoot(work *[]Value)
}

// RootSet is the process-local, LIFO stack of live root guards (§4.4). It
// is a stack so its entries map one-to-one onto nested Go scopes: a
// guard pushes itself when initialized and pops itself on Release, and
// Release panics if it isn't popping the current top.
type RootSet struct {
	stack []rootEntry
}

func newRootSet() *RootSet {
	return &RootSet{}
}

func (rs *RootSet) traceAll(work *[]Value) {
	for _, g := range rs.stack {
		g.traceRoot(work)
	}
}

func (rs *RootSet) push(e rootEntry) {
	rs.stack = append(rs.stack, e)
}

func (rs *RootSet) pop(e rootEntry) {
	n := len(rs.stack)
	if n == 0 || rs.stack[n-1] != e {
		panic("elisp: root guard released out of LIFO order")
	}
	rs.stack = rs.stack[:n-1]
}

type rootState uint8

const (
	rootUninit rootState = iota
	rootLive
	rootDropped
)

// RootGuard is a stack-scoped owner of one rooted slot (§4.4 "Root
// guard"). It also doubles as the Rooted view of a plain Value: Get/Set
// are its `bind`/`set` operations. Construct with NewRootGuard then
// Init, or use the Root convenience which does both; always pair a live
// guard with a deferred Release.
type RootGuard struct {
	ctx   *Context
	val   Value
	state rootState
}

// NewRootGuard allocates an uninitialized guard. Dropping it (calling
// Release) before Init is a bug and panics, per §4.4's failure mode.
func NewRootGuard(ctx *Context) *RootGuard {
	return &RootGuard{ctx: ctx}
}

// Init assigns v to the guard and pushes it onto the Context's root set.
// Calling Init twice on the same guard panics — re-initializing a root
// slot is an unrecoverable bug, per §4.4.
func (g *RootGuard) Init(v Value) *RootGuard {
	if g.state != rootUninit {
		panic("elisp: root guard reinitialized")
	}
	g.val = v
	g.state = rootLive
	g.ctx.roots.push(g)
	return g
}

// Root is the common-case constructor: allocate and initialize a guard
// for v in one call, ready for `defer g.Release()`.
func Root(ctx *Context, v Value) *RootGuard {
	return NewRootGuard(ctx).Init(v)
}

func (g *RootGuard) traceRoot(work *[]Value) {
	if g.state == rootLive {
		*work = append(*work, g.val)
	}
}

// Release pops the guard from the root set. It must be called in strict
// LIFO order with every other live guard — calling it out of order, on an
// uninitialized guard, or twice on the same guard are all unrecoverable
// bugs and panic rather than returning an error (§4.4, §7).
func (g *RootGuard) Release() {
	switch g.state {
	case rootUninit:
		panic("elisp: root guard released while uninitialized")
	case rootDropped:
		panic("elisp: root guard released twice")
	}
	g.ctx.roots.pop(g)
	g.state = rootDropped
}

func (g *RootGuard) requireLive() {
	if g.state != rootLive {
		panic("elisp: use of a root guard that is not live")
	}
}

// Get returns the currently rooted Value. Safe to call any number of
// times, including across allocations, since the guard is traced by the
// collector.
func (g *RootGuard) Get() Value {
	g.requireLive()
	return g.val
}

// Bind narrows the rooted Value to "safe to use until the next
// allocation" (§4.4). In this single-threaded, non-compacting
// implementation Bind and Get return the same thing; Bind exists to spell
// out the contract at call sites that are about to pass the Value to code
// that might allocate.
func (g *RootGuard) Bind(ctx *Context) Value {
	g.requireLive()
	return g.val
}

// Set overwrites the rooted Value; whatever it used to hold becomes
// unreachable through this guard (but may still be reachable elsewhere).
func (g *RootGuard) Set(v Value) {
	g.requireLive()
	g.val = v
}

// child roots a Value produced by dereferencing the receiver's own
// contents (e.g. a Cons's Car), giving callers a Rooted view of it that
// is independently safe across further allocations, per §4.4's
// "propagating the safety property by construction".
func (g *RootGuard) child(v Value) *RootGuard {
	return Root(g.ctx, v)
}

// ---- Rooted container views ----

// RootedCons is a Rooted view over a Cons cell.
type RootedCons struct{ *RootGuard }

// NewRootedCons roots v, asserting it is a Cons.
func NewRootedCons(ctx *Context, v Value) *RootedCons {
	if v.tag != VCons {
		panic("elisp: NewRootedCons on a non-cons Value")
	}
	return &RootedCons{Root(ctx, v)}
}

func (r *RootedCons) cons() *Cons {
	v := r.Get()
	return v.ref.block.cons(v.ref.index, v.ref.gen)
}

// Car returns a freshly rooted view of the car.
func (r *RootedCons) Car() *RootGuard { return r.child(r.cons().Car) }

// Cdr returns a freshly rooted view of the cdr.
func (r *RootedCons) Cdr() *RootGuard { return r.child(r.cons().Cdr) }

// SetCar mutates the car in place. Requires the Context to make the
// "no shared mutation during GC" invariant visible at call sites.
func (r *RootedCons) SetCar(ctx *Context, v Value) { r.cons().Car = v }

// SetCdr mutates the cdr in place.
func (r *RootedCons) SetCdr(ctx *Context, v Value) { r.cons().Cdr = v }

// RootedVector is a Rooted view over a fixed-length Vector cell.
type RootedVector struct{ *RootGuard }

func NewRootedVector(ctx *Context, v Value) *RootedVector {
	if v.tag != VVector {
		panic("elisp: NewRootedVector on a non-vector Value")
	}
	return &RootedVector{Root(ctx, v)}
}

func (r *RootedVector) vector() *Vector {
	v := r.RootGuard.Get()
	return v.ref.block.vector(v.ref.index, v.ref.gen)
}

func (r *RootedVector) Len() int { return len(r.vector().Items) }

// Get returns a freshly rooted view of the element at i.
func (r *RootedVector) Get(i int) *RootGuard { return r.child(r.vector().Items[i]) }

// Set mutates the element at i in place.
func (r *RootedVector) Set(ctx *Context, i int, v Value) { r.vector().Items[i] = v }

// RootedHashTable is a Rooted view over a HashTable cell.
type RootedHashTable struct{ *RootGuard }

func NewRootedHashTable(ctx *Context, v Value) *RootedHashTable {
	if v.tag != VHashTable {
		panic("elisp: NewRootedHashTable on a non-hash-table Value")
	}
	return &RootedHashTable{Root(ctx, v)}
}

func (r *RootedHashTable) table() *HashTable {
	v := r.RootGuard.Get()
	return v.ref.block.hashTable(v.ref.index, v.ref.gen)
}

func (r *RootedHashTable) Insert(ctx *Context, k, v Value) { r.table().m[k] = v }

func (r *RootedHashTable) Get(k Value) (*RootGuard, bool) {
	v, ok := r.table().m[k]
	if !ok {
		return nil, false
	}
	return r.child(v), true
}

func (r *RootedHashTable) Remove(k Value) { delete(r.table().m, k) }

func (r *RootedHashTable) Len() int { return len(r.table().m) }

// RootedList is the internal, growable rooted []Value used to accumulate
// Values across allocations before they are frozen into a heap container
// (e.g. the list builtin collects its arguments into one of these before
// consing the chain). It generalizes the container operations §4.4
// names: push, get, pop (truncate by one), truncate, drain, swap_remove,
// clear. Get, Pop, Drain and SwapRemove hand back bare Values, not
// RootGuard-backed views: a Value taken out of the list is only safe
// until the next allocation unless the caller roots it.
type RootedList struct {
	ctx   *Context
	items []Value
	state rootState
}

// NewRootedList creates an empty rooted list and pushes it onto the root
// set immediately, mirroring RootGuard's Init-on-construction shape.
func NewRootedList(ctx *Context) *RootedList {
	l := &RootedList{ctx: ctx, state: rootLive}
	ctx.roots.push(l)
	return l
}

func (l *RootedList) traceRoot(work *[]Value) {
	if l.state == rootLive {
		*work = append(*work, l.items...)
	}
}

// Release pops the list from the root set; like RootGuard, must be
// called in strict LIFO order.
func (l *RootedList) Release() {
	if l.state != rootLive {
		panic("elisp: rooted list released while not live")
	}
	l.ctx.roots.pop(l)
	l.state = rootDropped
}

func (l *RootedList) Push(v Value)  { l.items = append(l.items, v) }
func (l *RootedList) Len() int      { return len(l.items) }
func (l *RootedList) Get(i int) Value { return l.items[i] }
func (l *RootedList) Set(i int, v Value) { l.items[i] = v }
func (l *RootedList) Pop() Value {
	n := len(l.items)
	v := l.items[n-1]
	l.items = l.items[:n-1]
	return v
}
func (l *RootedList) Truncate(n int)       { l.items = l.items[:n] }
func (l *RootedList) Clear()               { l.items = l.items[:0] }
func (l *RootedList) Drain() []Value {
	out := l.items
	l.items = nil
	return out
}
func (l *RootedList) SwapRemove(i int) Value {
	n := len(l.items)
	v := l.items[i]
	l.items[i] = l.items[n-1]
	l.items = l.items[:n-1]
	return v
}

// Snapshot copies out the current contents without draining the list,
// for callers that still need it rooted afterward.
func (l *RootedList) Snapshot() []Value {
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

package elisp

// Symbol is the heap cell backing both interned and uninterned symbols
// (§3, §4.5). Interned symbols share identity by name; uninterned ones
// (from make-symbol) get fresh identity on every call.
type Symbol struct {
	Name     string
	value    Value
	hasValue bool
	function Value
	hasFunc  bool
	plist    []Value // flat (key, value, key, value, ...) property list

	builtin *Builtin // non-nil for symbols bound to a native implementation
}

func (s *Symbol) trace(work *[]Value) {
	if s.hasValue {
		*work = append(*work, s.value)
	}
	if s.hasFunc {
		*work = append(*work, s.function)
	}
	*work = append(*work, s.plist...)
}

// SetValue/GetValue implement the global value slot (§3's "global-value-slot").
func (s *Symbol) SetValue(v Value) { s.value, s.hasValue = v, true }
func (s *Symbol) GetValue() (Value, bool) { return s.value, s.hasValue }

// SetFunction/GetFunction implement the function slot.
func (s *Symbol) SetFunction(v Value) { s.function, s.hasFunc = v, true }
func (s *Symbol) GetFunction() (Value, bool) { return s.function, s.hasFunc }

// Put/Get implement the flat property list.
func (s *Symbol) Put(key, val Value) {
	for i := 0; i+1 < len(s.plist); i += 2 {
		if Eq(s.plist[i], key) {
			s.plist[i+1] = val
			return
		}
	}
	s.plist = append(s.plist, key, val)
}

func (s *Symbol) Get(key Value) (Value, bool) {
	for i := 0; i+1 < len(s.plist); i += 2 {
		if Eq(s.plist[i], key) {
			return s.plist[i+1], true
		}
	}
	return Value{}, false
}

// internTable is the process-wide name -> Symbol map (§4.5). It also owns
// the Values wrapping each interned Symbol, which is what makes it an
// unconditional GC root: an interned symbol is never collected even if
// nothing else references it.
type internTable struct {
	byName map[string]Value
}

func newInternTable() *internTable {
	t := &internTable{byName: make(map[string]Value)}
	// Nil and True are not heap cells, but their names are reserved: no
	// symbol named "nil" or "t" can be separately interned as a
	// heap-backed Symbol, matching Emacs Lisp's treatment of these two
	// names as self-evaluating constants rather than ordinary symbols.
	return t
}

func (t *internTable) trace(work *[]Value) {
	for _, v := range t.byName {
		*work = append(*work, v)
	}
}

// Intern returns the Symbol interned under name, allocating and
// registering it the first time it is requested. Every subsequent call
// with the same name returns the identical Value (§8 property 3). The
// reserved names "nil" and "t" return the Nil and True singletons.
func Intern(ctx *Context, name string) Value {
	switch name {
	case "nil":
		return Nil
	case "t":
		return True
	}
	if v, ok := ctx.symbols.byName[name]; ok {
		return v
	}
	v, err := ctx.allocSymbol(name)
	if err != nil {
		panic(err) // interning never legitimately fails: OOM here means
		// the process is already unrecoverable.
	}
	ctx.symbols.byName[name] = v
	return v
}

// MakeSymbol allocates a fresh, uninterned symbol: it never enters the
// intern table, so it never compares Eq to any other symbol, including
// one made with the same name (§4.5, §8 property 4).
func MakeSymbol(ctx *Context, name string) (Value, error) {
	return ctx.allocSymbol(name)
}

func (ctx *Context) allocSymbol(name string) (Value, error) {
	return ctx.alloc(VSymbol, &Symbol{Name: name})
}

// SymbolName returns v's name, panicking (a programmer error, not a user
// error) if v is not a Symbol.
func SymbolName(v Value) string {
	if v.tag != VSymbol {
		panic("elisp: SymbolName on a non-symbol Value")
	}
	return v.ref.block.symbol(v.ref.index, v.ref.gen).Name
}

func symbolOf(v Value) *Symbol {
	return v.ref.block.symbol(v.ref.index, v.ref.gen)
}

package elisp

// Builtin is a native function descriptor attached to its name Symbol
// (§4.5 "every built-in function is registered under its name
// symbol at process start"). MinArgs/MaxArgs describe arity; MaxArgs < 0
// means "rest" (unbounded).
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for unbounded (rest args)
	Fn      func(ctx *Context, args []Value) (Value, error)
}

func (b *Builtin) checkArity(args []Value) error {
	if len(args) < b.MinArgs || (b.MaxArgs >= 0 && len(args) > b.MaxArgs) {
		expected := uint16(b.MinArgs)
		return NewArgCountError(expected, uint16(len(args)), b.Name)
	}
	return nil
}

// Call invokes the builtin after checking arity, matching §6's "each is
// registered under its exact name symbol with the arity shown".
func (b *Builtin) Call(ctx *Context, args []Value) (Value, error) {
	if err := b.checkArity(args); err != nil {
		return Value{}, err
	}
	return b.Fn(ctx, args)
}

// Builtins is keyed by name and is what RegisterBuiltins walks to bind
// every entry into the intern table's function slots.
var Builtins = map[string]*Builtin{
	"list":           {Name: "list", MinArgs: 0, MaxArgs: -1, Fn: builtinList},
	"make-closure":   {Name: "make-closure", MinArgs: 1, MaxArgs: -1, Fn: builtinMakeClosure},
	"make-byte-code": {Name: "make-byte-code", MinArgs: 4, MaxArgs: -1, Fn: builtinMakeByteCode},
	"make-vector":    {Name: "make-vector", MinArgs: 2, MaxArgs: 2, Fn: builtinMakeVector},
	"vector":         {Name: "vector", MinArgs: 0, MaxArgs: -1, Fn: builtinVector},
	"record":         {Name: "record", MinArgs: 1, MaxArgs: -1, Fn: builtinRecord},
	"purecopy":       {Name: "purecopy", MinArgs: 1, MaxArgs: 1, Fn: builtinPurecopy},
	"make-symbol":    {Name: "make-symbol", MinArgs: 1, MaxArgs: 1, Fn: builtinMakeSymbol},
	"message":        {Name: "message", MinArgs: 1, MaxArgs: -1, Fn: builtinMessage},
	"format":         {Name: "format", MinArgs: 1, MaxArgs: -1, Fn: builtinFormat},
	"format-message": {Name: "format-message", MinArgs: 1, MaxArgs: -1, Fn: builtinFormatMessage},
}

// RegisterBuiltins interns every name in Builtins, sets the symbol's
// function slot to the symbol itself, and attaches the matching native
// implementation to the symbol (see CallBuiltin). Called once from
// NewContext (§4.5: "every built-in function is registered ... at
// process start").
func RegisterBuiltins(ctx *Context) {
	for name, b := range Builtins {
		sym := Intern(ctx, name)
		symbolOf(sym).SetFunction(sym)
		symbolOf(sym).builtin = b
	}
}

// CallBuiltin looks up name's builtin (if any) and calls it. It exists so
// callers outside this package (the out-of-scope dispatch loop this core
// pins as an external collaborator) have one narrow entry point rather
// than reaching into Symbol internals.
func CallBuiltin(ctx *Context, name string, args []Value) (Value, bool, error) {
	sym := Intern(ctx, name)
	b := symbolOf(sym).builtin
	if b == nil {
		return Value{}, false, nil
	}
	v, err := b.Call(ctx, args)
	return v, true, err
}

func builtinList(ctx *Context, args []Value) (Value, error) {
	return listOf(ctx, args)
}

// listOf builds a right-folded Cons chain terminated by Nil (§4.6, §8
// property 5). Arguments are rooted in a RootedList while the chain is
// built so none of them can be invalidated by the allocations the
// consing itself performs.
func listOf(ctx *Context, items []Value) (Value, error) {
	pending := NewRootedList(ctx)
	defer pending.Release()
	for _, v := range items {
		pending.Push(v)
	}

	head := Nil
	tail := Root(ctx, head)
	defer tail.Release()

	for i := pending.Len() - 1; i >= 0; i-- {
		v, err := ctx.alloc(VCons, &Cons{Car: pending.Get(i), Cdr: tail.Get()})
		if err != nil {
			return Value{}, err
		}
		tail.Set(v)
	}
	return tail.Get(), nil
}

func builtinMakeClosure(ctx *Context, args []Value) (Value, error) {
	return MakeClosure(ctx, args[0], args[1:])
}

func builtinMakeByteCode(ctx *Context, args []Value) (Value, error) {
	arglist, ok := AsInt(args[0])
	if !ok {
		return Value{}, NewTypeError(VInt, args[0])
	}
	code, ok := asBytes(args[1])
	if !ok {
		return Value{}, NewTypeError(VString, args[1])
	}
	constants, ok := asValueSlice(args[2])
	if !ok {
		return Value{}, NewTypeError(VVector, args[2])
	}
	return MakeByteCode(ctx, uint16(arglist), code, constants, args[4:]...)
}

func asBytes(v Value) ([]byte, bool) {
	if v.tag != VString {
		return nil, false
	}
	return []byte(v.ref.block.str(v.ref.index, v.ref.gen)), true
}

func asValueSlice(v Value) ([]Value, bool) {
	switch v.tag {
	case VVector:
		return v.ref.block.vector(v.ref.index, v.ref.gen).Items, true
	default:
		return nil, false
	}
}

func builtinMakeVector(ctx *Context, args []Value) (Value, error) {
	n, ok := AsInt(args[0])
	if !ok || n < 0 {
		return Value{}, NewTypeError(VInt, args[0])
	}
	return MakeVector(ctx, int(n), args[1])
}

// MakeVector builds a Vector of length n with every slot set to init
// (§6's make-vector, §8 boundary "make_vector(0, init)").
func MakeVector(ctx *Context, n int, init Value) (Value, error) {
	items := make([]Value, n)
	for i := range items {
		items[i] = init
	}
	return ctx.alloc(VVector, &Vector{Items: items})
}

func builtinVector(ctx *Context, args []Value) (Value, error) {
	return VectorOf(ctx, args)
}

// VectorOf builds a Vector from items (§6's vector).
func VectorOf(ctx *Context, items []Value) (Value, error) {
	cp := make([]Value, len(items))
	copy(cp, items)
	return ctx.alloc(VVector, &Vector{Items: cp})
}

func builtinRecord(ctx *Context, args []Value) (Value, error) {
	return RecordOf(ctx, args[0], args[1:])
}

// RecordOf builds a Record whose first slot is typ, followed by slots
// (§6's record).
func RecordOf(ctx *Context, typ Value, slots []Value) (Value, error) {
	all := make([]Value, 0, len(slots)+1)
	all = append(all, typ)
	all = append(all, slots...)
	return ctx.alloc(VRecord, &Record{Slots: all})
}

func builtinPurecopy(ctx *Context, args []Value) (Value, error) {
	// Identity: this core does not implement Emacs's "pure space";
	// callers should not rely on post-purecopy immutability (§9 Open
	// Question).
	return args[0], nil
}

func builtinMakeSymbol(ctx *Context, args []Value) (Value, error) {
	if args[0].tag != VString {
		return Value{}, NewTypeError(VString, args[0])
	}
	name := args[0].ref.block.str(args[0].ref.index, args[0].ref.gen)
	return MakeSymbol(ctx, name)
}

func builtinMessage(ctx *Context, args []Value) (Value, error) {
	s, err := formatValues(args[0], args[1:])
	if err != nil {
		return Value{}, err
	}
	fmtPrintln(ctx, "MESSAGE: "+s)
	return stringValue(ctx, s)
}

func builtinFormat(ctx *Context, args []Value) (Value, error) {
	s, err := formatValues(args[0], args[1:])
	if err != nil {
		return Value{}, err
	}
	return stringValue(ctx, s)
}

func builtinFormatMessage(ctx *Context, args []Value) (Value, error) {
	s, err := formatValues(args[0], args[1:])
	if err != nil {
		return Value{}, err
	}
	s = quoteCurlyToStraight(s)
	return stringValue(ctx, s)
}

func stringValue(ctx *Context, s string) (Value, error) {
	return NewString(ctx, s)
}

func fmtPrintln(ctx *Context, s string) {
	if ctx.Stdout != nil {
		ctx.Stdout.Write([]byte(s + "\n"))
	}
}

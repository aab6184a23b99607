package elisp

// Arity describes how many arguments a ByteFn accepts (§4.6).
type Arity struct {
	Required uint16
	Optional uint16
	Rest     bool
	Advice   bool
}

// ByteFn is the heap cell behind compiled Lisp functions and closures
// (§4.6). Its opcode bytes and constant vector are immutable after
// construction: make-closure builds a new ByteFn rather than mutating an
// existing one.
type ByteFn struct {
	Code      []byte
	Constants []Value
	Args      Arity
}

func (f *ByteFn) trace(work *[]Value) {
	*work = append(*work, f.Constants...)
}

const maxClosureVars = 5

// decodeArglist splits the packed arglist word make-byte-code receives
// into an Arity, per §4.6: bits 0-6 are required, bits 8-14 are
// optional, bit 7 is rest.
func decodeArglist(word uint16) Arity {
	return Arity{
		Required: word & 0x7F,
		Optional: (word >> 8) & 0x7F,
		Rest:     word&0x80 != 0,
	}
}

// MakeByteCode builds a ByteFn from its raw encoded pieces (§4.6,
// §6's `make-byte-code`). codeBytes and constants are copied so the
// resulting ByteFn never aliases caller-owned storage the way §3
// requires of immutable cells. Any further positional arguments
// (docstring, interactive spec, ...) are accepted and ignored, reserved
// for the surrounding interpreter.
func MakeByteCode(ctx *Context, arglistWord uint16, codeBytes []byte, constants []Value, extra ...Value) (Value, error) {
	code := make([]byte, len(codeBytes))
	copy(code, codeBytes)
	consts := make([]Value, len(constants))
	copy(consts, constants)

	return ctx.alloc(VByteFn, &ByteFn{
		Code:      code,
		Constants: consts,
		Args:      decodeArglist(arglistWord),
	})
}

// MakeClosure produces a new ByteFn holding a copy of prototype's opcode
// vector and a constant vector with the first len(closureVars) entries replaced by
// closureVars (§4.6, §8 property 7). Fails with ClosureOverflow if
// closureVars is longer than 5 or longer than the prototype's own
// constant vector.
func MakeClosure(ctx *Context, prototype Value, closureVars []Value) (Value, error) {
	if prototype.tag != VByteFn {
		return Value{}, NewTypeError(VByteFn, prototype)
	}
	proto := prototype.ref.block.byteFn(prototype.ref.index, prototype.ref.gen)

	if len(closureVars) > maxClosureVars || len(closureVars) > len(proto.Constants) {
		return Value{}, &Error{kind: ErrClosureOverflow}
	}

	consts := make([]Value, len(proto.Constants))
	copy(consts, proto.Constants)
	copy(consts, closureVars)

	code := make([]byte, len(proto.Code))
	copy(code, proto.Code)

	return ctx.alloc(VByteFn, &ByteFn{
		Code:      code,
		Constants: consts,
		Args:      proto.Args,
	})
}

// ByteFnArity returns the arity descriptor of a ByteFn Value.
func ByteFnArity(v Value) Arity {
	return v.ref.block.byteFn(v.ref.index, v.ref.gen).Args
}

// ByteFnCode returns the opcode bytes of a ByteFn Value.
func ByteFnCode(v Value) []byte {
	return v.ref.block.byteFn(v.ref.index, v.ref.gen).Code
}

// ByteFnConstants returns the constant vector of a ByteFn Value.
func ByteFnConstants(v Value) []Value {
	return v.ref.block.byteFn(v.ref.index, v.ref.gen).Constants
}

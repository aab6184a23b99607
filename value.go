package elisp

import "fmt"

// Variant discriminates the primitive shapes a Value can hold. It is
// readable off a Value in constant time without touching the heap.
type Variant uint8

const (
	VInt Variant = iota
	VNil
	VTrue
	VFloat
	VCons
	VString
	VSymbol
	VVector
	VRecord
	VByteFn
	VHashTable
	VBuffer
)

var variantNames = map[Variant]string{
	VInt:       "integer",
	VNil:       "nil",
	VTrue:      "t",
	VFloat:     "float",
	VCons:      "cons",
	VString:    "string",
	VSymbol:    "symbol",
	VVector:    "vector",
	VRecord:    "record",
	VByteFn:    "function",
	VHashTable: "hash-table",
	VBuffer:    "buffer",
}

func (v Variant) String() string {
	if n, ok := variantNames[v]; ok {
		return n
	}
	return "unknown"
}

// fixnumBits bounds the range of an Integer Value so arithmetic on it can
// wrap over a fixed width instead of silently promoting to a bignum.
const fixnumBits = 61

const (
	fixnumMax = int64(1)<<(fixnumBits-1) - 1
	fixnumMin = -int64(1) << (fixnumBits - 1)
)

// cellRef is a generation-checked handle into a Block's slot map. It plays
// the role a tagged heap pointer would in a native implementation: two
// cellRefs are the same cell iff block, index and generation all match,
// and a cellRef whose generation is behind the slot's current generation
// refers to a cell that has since been swept.
type cellRef struct {
	block *Block
	index uint32
	gen   uint32
}

// Value is the single fixed-shape word every piece of Lisp data is packed
// into. Exactly one of imm/ref is meaningful, selected by tag: immediates
// (Int, Nil, True) live entirely in imm, everything else is a cellRef into
// some Block.
type Value struct {
	tag Variant
	imm int64
	ref cellRef
}

// Nil is the canonical singleton nil/empty-list Value.
var Nil = Value{tag: VNil}

// True is the canonical singleton truthy sentinel.
var True = Value{tag: VTrue}

// TypeOf reports v's variant. Total, constant time.
func TypeOf(v Value) Variant { return v.tag }

// IsNil reports whether v is the nil singleton.
func IsNil(v Value) bool { return v.tag == VNil }

// IsTrue reports whether v is the t singleton. Note this is narrower than
// "truthy in a conditional" — in Emacs Lisp every non-nil value is truthy,
// but Truthy (below) is the function that implements that broader rule.
func IsTrue(v Value) bool { return v.tag == VTrue }

// Truthy reports whether v would take the "then" branch of a conditional:
// everything except nil is truthy.
func Truthy(v Value) bool { return v.tag != VNil }

// FromBool maps a Go bool onto the True/Nil singletons.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return Nil
}

// FromInt builds an immediate Integer Value, wrapping two's-complement
// over the fixnum range rather than promoting to a wider representation.
func FromInt(n int64) Value {
	return Value{tag: VInt, imm: wrapFixnum(n)}
}

func wrapFixnum(n int64) int64 {
	const width = uint(64 - fixnumBits)
	return (n << width) >> width
}

// AsInt returns n's payload and true if v is an Integer.
func AsInt(v Value) (int64, bool) {
	if v.tag != VInt {
		return 0, false
	}
	return v.imm, true
}

// Eq implements identity equality: Nil and True compare equal only to
// themselves, Integers compare by value, and every other variant compares
// by cell identity (two Strings with equal bytes are distinct Values
// unless they are literally the same cell).
func Eq(a, b Value) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case VInt:
		return a.imm == b.imm
	case VNil, VTrue:
		return true
	default:
		return a.ref == b.ref
	}
}

// String renders v using Emacs-Lisp print syntax. It never allocates on
// the heap and never triggers a collection, so it is always safe to call
// on a bare Value, rooted or not, as long as the cell it refers to (if
// any) has not already been swept.
func (v Value) String() string {
	switch v.tag {
	case VInt:
		return fmt.Sprintf("%d", v.imm)
	case VNil:
		return "nil"
	case VTrue:
		return "t"
	case VFloat:
		f := v.ref.block.float(v.ref.index, v.ref.gen)
		return formatFloat(f)
	case VCons:
		return printCons(v)
	case VString:
		s := v.ref.block.str(v.ref.index, v.ref.gen)
		return fmt.Sprintf("%q", s)
	case VSymbol:
		sym := v.ref.block.symbol(v.ref.index, v.ref.gen)
		return sym.Name
	case VVector:
		return printVector(v)
	case VRecord:
		return printRecord(v)
	case VByteFn:
		return "#[byte-code]"
	case VHashTable:
		return "#s(hash-table)"
	case VBuffer:
		return "#<buffer>"
	default:
		return "#<unknown>"
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("%g", f)
}

func printCons(v Value) string {
	var out []byte
	out = append(out, '(')
	first := true
	for {
		c := v.ref.block.cons(v.ref.index, v.ref.gen)
		if !first {
			out = append(out, ' ')
		}
		first = false
		out = append(out, c.Car.String()...)
		if c.Cdr.tag == VNil {
			break
		}
		if c.Cdr.tag != VCons {
			out = append(out, " . "...)
			out = append(out, c.Cdr.String()...)
			break
		}
		v = c.Cdr
	}
	out = append(out, ')')
	return string(out)
}

func printVector(v Value) string {
	vec := v.ref.block.vector(v.ref.index, v.ref.gen)
	out := "["
	for i, e := range vec.Items {
		if i > 0 {
			out += " "
		}
		out += e.String()
	}
	return out + "]"
}

func printRecord(v Value) string {
	rec := v.ref.block.record(v.ref.index, v.ref.gen)
	out := "#s("
	for i, e := range rec.Slots {
		if i > 0 {
			out += " "
		}
		out += e.String()
	}
	return out + ")"
}

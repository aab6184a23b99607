package elisp

import (
	"strings"

	"github.com/rune-core/rune-core/ascii"
)

// printToken classifies a span of printed text so a highlighter can pick
// a color for it.
type printToken int

const (
	tokenNone printToken = iota
	tokenNil
	tokenSymbol
	tokenString
	tokenNumber
	tokenPunct
	tokenError
)

var printTheme = map[printToken]string{
	tokenNone:   ascii.Reset,
	tokenNil:    ascii.DefaultTheme.Muted,
	tokenSymbol: ascii.DefaultTheme.Accent,
	tokenString: ascii.DefaultTheme.Literal,
	tokenNumber: ascii.DefaultTheme.Literal,
	tokenPunct:  ascii.DefaultTheme.Operator,
	tokenError:  ascii.DefaultTheme.Error,
}

// PrettyString renders v the same way Value.String does, with no color
// codes — the uncolored counterpart to HighlightString.
func (v Value) PrettyString() string {
	return v.String()
}

// HighlightString renders v with ANSI color by Variant: punctuation
// (parens, brackets) in the operator color, strings and numbers in the
// literal color, symbols in the accent color, nil dimmed.
func (v Value) HighlightString() string {
	var b strings.Builder
	writeHighlighted(&b, v)
	return b.String()
}

func writeHighlighted(b *strings.Builder, v Value) {
	switch v.tag {
	case VNil:
		b.WriteString(ascii.Color(printTheme[tokenNil], "nil"))
	case VTrue:
		b.WriteString(ascii.Color(printTheme[tokenSymbol], "t"))
	case VInt:
		b.WriteString(ascii.Color(printTheme[tokenNumber], "%s", v.String()))
	case VFloat:
		b.WriteString(ascii.Color(printTheme[tokenNumber], "%s", v.String()))
	case VString:
		b.WriteString(ascii.Color(printTheme[tokenString], "%s", v.String()))
	case VSymbol:
		b.WriteString(ascii.Color(printTheme[tokenSymbol], "%s", SymbolName(v)))
	case VCons:
		writeHighlightedCons(b, v)
	case VVector:
		writeHighlightedVector(b, v)
	default:
		b.WriteString(v.String())
	}
}

func writeHighlightedCons(b *strings.Builder, v Value) {
	b.WriteString(ascii.Color(printTheme[tokenPunct], "("))
	first := true
	for {
		c := v.ref.block.cons(v.ref.index, v.ref.gen)
		if !first {
			b.WriteString(" ")
		}
		first = false
		writeHighlighted(b, c.Car)
		if c.Cdr.tag == VNil {
			break
		}
		if c.Cdr.tag != VCons {
			b.WriteString(ascii.Color(printTheme[tokenPunct], " . "))
			writeHighlighted(b, c.Cdr)
			break
		}
		v = c.Cdr
	}
	b.WriteString(ascii.Color(printTheme[tokenPunct], ")"))
}

func writeHighlightedVector(b *strings.Builder, v Value) {
	vec := v.ref.block.vector(v.ref.index, v.ref.gen)
	b.WriteString(ascii.Color(printTheme[tokenPunct], "["))
	for i, e := range vec.Items {
		if i > 0 {
			b.WriteString(" ")
		}
		writeHighlighted(b, e)
	}
	b.WriteString(ascii.Color(printTheme[tokenPunct], "]"))
}

// HighlightError renders an Error's message the way a diagnostic would
// be surfaced at a REPL, colored in the theme's error color.
func HighlightError(err error) string {
	return ascii.Color(printTheme[tokenError], "%s", err.Error())
}

package praxis

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNum Kind = iota
	KindErr
	KindSym
	KindSexpr
)

// Value is a node of an expression tree. A Sexpr owns its Cell exclusively:
// no Value is ever referenced by two parents.
type Value struct {
	Kind Kind
	Num  int64
	Err  string
	Sym  string
	Cell []*Value
}

func NumVal(n int64) *Value                    { return (*Heap)(nil).Num(n) }
func ErrVal(format string, args ...any) *Value { return (*Heap)(nil).Err(format, args...) }
func SymVal(s string) *Value                   { return (*Heap)(nil).Sym(s) }
func SexprVal(children ...*Value) *Value       { return (*Heap)(nil).Sexpr(children...) }

// Add appends child to the end of list and hands ownership of child to list.
// It panics if list is not a Sexpr.
func Add(list, child *Value) *Value {
	if list == nil || list.Kind != KindSexpr {
		panic(fmt.Sprintf("praxis: Add on %s value", list.KindName()))
	}
	list.Cell = append(list.Cell, child)
	return list
}

func (v *Value) String() string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// Print streams the printed form of v to w.
func Print(w io.Writer, v *Value) error {
	_, err := io.WriteString(w, v.String())
	return err
}

// Println is Print followed by a newline.
func Println(w io.Writer, v *Value) error {
	_, err := io.WriteString(w, v.String()+"\n")
	return err
}

func writeValue(b *strings.Builder, v *Value) {
	if v == nil {
		b.WriteString("<nil>")
		return
	}
	switch v.Kind {
	case KindNum:
		b.WriteString(strconv.FormatInt(v.Num, 10))
	case KindErr:
		b.WriteString("ERROR: ")
		b.WriteString(v.Err)
	case KindSym:
		b.WriteString(v.Sym)
	case KindSexpr:
		b.WriteByte('(')
		for i, c := range v.Cell {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, c)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<unknown:%d>", v.Kind)
	}
}

func (v *Value) KindName() string {
	if v == nil {
		return "Nil"
	}
	switch v.Kind {
	case KindNum:
		return "Number"
	case KindErr:
		return "Error"
	case KindSym:
		return "Symbol"
	case KindSexpr:
		return "S-Expression"
	default:
		return "Unknown"
	}
}

// Equal compares two values for deep equality.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNum:
		return a.Num == b.Num
	case KindErr:
		return a.Err == b.Err
	case KindSym:
		return a.Sym == b.Sym
	case KindSexpr:
		if len(a.Cell) != len(b.Cell) {
			return false
		}
		for i := range a.Cell {
			if !Equal(a.Cell[i], b.Cell[i]) {
				return false
			}
		}
		return true
	}
	return false
}

package praxis

import (
	"strconv"
	"strings"
)

// Reader converts a parse tree into an owned value tree. It never modifies
// the parse tree.
type Reader struct {
	Heap *Heap
}

func (r *Reader) Read(n *Node) *Value {
	switch {
	case strings.Contains(n.Tag, "number"):
		return r.readNum(n)
	case strings.Contains(n.Tag, "symbol"):
		return r.Heap.Sym(n.Contents)
	case n.Tag == TagRoot, strings.Contains(n.Tag, "sexpr"):
		x := r.Heap.Sexpr()
		for _, c := range n.Children {
			if c.Contents == "(" || c.Contents == ")" {
				continue
			}
			if c.Tag == TagRegex {
				continue
			}
			Add(x, r.Read(c))
		}
		return x
	default:
		return r.Heap.Err("internal error: unexpected node %q", n.Tag)
	}
}

func (r *Reader) readNum(n *Node) *Value {
	x, err := strconv.ParseInt(n.Contents, 10, 64)
	if err != nil {
		return r.Heap.Err(MsgInvalidNumber)
	}
	return r.Heap.Num(x)
}

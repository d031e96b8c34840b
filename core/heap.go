package praxis

import "fmt"

// Heap accounts for every value node it allocates so that a finished line can
// be checked for leaks and double frees. A nil *Heap is valid and does no
// accounting.
type Heap struct {
	live        map[*Value]struct{}
	allocs      int
	frees       int
	doubleFrees int
}

func NewHeap() *Heap {
	return &Heap{live: make(map[*Value]struct{})}
}

func (h *Heap) alloc(v *Value) *Value {
	if h == nil {
		return v
	}
	if h.live == nil {
		h.live = make(map[*Value]struct{})
	}
	h.live[v] = struct{}{}
	h.allocs++
	return v
}

func (h *Heap) Num(n int64) *Value {
	return h.alloc(&Value{Kind: KindNum, Num: n})
}

func (h *Heap) Err(format string, args ...any) *Value {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return h.alloc(&Value{Kind: KindErr, Err: msg})
}

func (h *Heap) Sym(s string) *Value {
	return h.alloc(&Value{Kind: KindSym, Sym: s})
}

// Sexpr allocates a list node. The children, if any, become owned by it.
func (h *Heap) Sexpr(children ...*Value) *Value {
	v := h.alloc(&Value{Kind: KindSexpr})
	for _, c := range children {
		Add(v, c)
	}
	return v
}

// Delete frees v and everything it owns, children first.
func (h *Heap) Delete(v *Value) {
	if v == nil {
		return
	}
	for _, c := range v.Cell {
		h.Delete(c)
	}
	v.Cell = nil
	if h == nil {
		return
	}
	if _, ok := h.live[v]; !ok {
		h.doubleFrees++
		return
	}
	delete(h.live, v)
	h.frees++
}

// Pop removes the i-th child of v and returns it. Ownership moves to the
// caller.
func (h *Heap) Pop(v *Value, i int) *Value {
	x := v.Cell[i]
	copy(v.Cell[i:], v.Cell[i+1:])
	v.Cell[len(v.Cell)-1] = nil
	v.Cell = v.Cell[:len(v.Cell)-1]
	return x
}

// Take pops the i-th child of v and deletes what is left of v.
func (h *Heap) Take(v *Value, i int) *Value {
	x := h.Pop(v, i)
	h.Delete(v)
	return x
}

func (h *Heap) Live() int {
	if h == nil {
		return 0
	}
	return len(h.live)
}

func (h *Heap) Allocs() int {
	if h == nil {
		return 0
	}
	return h.allocs
}

func (h *Heap) Frees() int {
	if h == nil {
		return 0
	}
	return h.frees
}

func (h *Heap) DoubleFrees() int {
	if h == nil {
		return 0
	}
	return h.doubleFrees
}

// Check reports leaked or doubly freed nodes since the heap was created or
// last reset.
func (h *Heap) Check() error {
	if h == nil {
		return nil
	}
	if h.doubleFrees > 0 {
		return fmt.Errorf("%w: %d node(s)", ErrDoubleFree, h.doubleFrees)
	}
	if n := len(h.live); n > 0 {
		return fmt.Errorf("%w: %d of %d node(s) still live", ErrLeak, n, h.allocs)
	}
	return nil
}

// Reset forgets all accounting, including any leaked nodes.
func (h *Heap) Reset() {
	if h == nil {
		return
	}
	h.live = make(map[*Value]struct{})
	h.allocs, h.frees, h.doubleFrees = 0, 0, 0
}

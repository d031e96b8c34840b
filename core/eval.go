package praxis

import "errors"

// Op combines the running result of a fold with the next operand.
type Op func(x, y int64) (int64, error)

var errDivisionByZero = errors.New(MsgDivisionByZero)

var defaultOps = map[string]Op{
	"+": func(x, y int64) (int64, error) { return x + y, nil },
	"-": func(x, y int64) (int64, error) { return x - y, nil },
	"*": func(x, y int64) (int64, error) { return x * y, nil },
	"/": func(x, y int64) (int64, error) {
		if y == 0 {
			return 0, errDivisionByZero
		}
		return x / y, nil
	},
}

// DefaultOps returns a fresh copy of the four arithmetic operators.
func DefaultOps() map[string]Op {
	ops := make(map[string]Op, len(defaultOps))
	for k, v := range defaultOps {
		ops[k] = v
	}
	return ops
}

// Evaluator reduces value trees. Eval consumes its argument: the caller owns
// only the returned value afterwards.
type Evaluator struct {
	Heap *Heap
	Ops  map[string]Op // nil means DefaultOps
}

func (e *Evaluator) Eval(v *Value) *Value {
	if v.Kind == KindSexpr {
		return e.evalSexpr(v)
	}
	return v
}

func (e *Evaluator) evalSexpr(v *Value) *Value {
	for i, c := range v.Cell {
		v.Cell[i] = e.Eval(c)
		if v.Cell[i].Kind == KindErr {
			// Later siblings are never evaluated.
			return e.Heap.Take(v, i)
		}
	}

	switch len(v.Cell) {
	case 0:
		return v
	case 1:
		return e.Heap.Take(v, 0)
	}

	head := e.Heap.Pop(v, 0)
	op, ok := e.lookup(head)
	e.Heap.Delete(head)
	if !ok {
		e.Heap.Delete(v)
		return e.Heap.Err(MsgInvalidOperator)
	}
	return e.fold(op, v)
}

func (e *Evaluator) lookup(head *Value) (Op, bool) {
	if head.Kind != KindSym {
		return nil, false
	}
	ops := e.Ops
	if ops == nil {
		ops = defaultOps
	}
	op, ok := ops[head.Sym]
	return op, ok
}

// fold reduces the numeric operands of args left to right, seeding with the
// first. args is consumed.
func (e *Evaluator) fold(op Op, args *Value) *Value {
	for _, a := range args.Cell {
		if a.Kind != KindNum {
			e.Heap.Delete(args)
			return e.Heap.Err(MsgNonNumber)
		}
	}

	x := e.Heap.Pop(args, 0)
	for len(args.Cell) > 0 {
		y := e.Heap.Pop(args, 0)
		n, err := op(x.Num, y.Num)
		e.Heap.Delete(y)
		e.Heap.Delete(x)
		if err != nil {
			e.Heap.Delete(args)
			return e.Heap.Err(err.Error())
		}
		x = e.Heap.Num(n)
	}
	e.Heap.Delete(args)
	return x
}

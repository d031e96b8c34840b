/*
Package praxis implements a small arithmetic S-expression language: a value
model, a grammar, a reader from parse trees to values, and an evaluator.

One line of input goes through the whole pipeline:

	tree, err := praxis.Parse("<stdin>", "(+ 1 (* 7 8))")
	if err != nil {
		// handle parse error
	}
	h := praxis.NewHeap()
	r := praxis.Reader{Heap: h}
	e := praxis.Evaluator{Heap: h}
	v := e.Eval(r.Read(tree))
	fmt.Println(v) // 57
	h.Delete(v)

Interp bundles these steps and checks that every value node was released:

	in := praxis.NewInterp("")
	t, err := in.EvalLine("(/ 10 0)")
	// t.Output == "ERROR: Division by Zero"

Evaluation failures are Error values, never Go errors. Go errors are reserved
for grammar rejections (ErrParse) and accounting faults (ErrLeak,
ErrDoubleFree).
*/
package praxis

// Version is reported in the REPL banner and the server manual.
const Version = "0.0.0.0.1"

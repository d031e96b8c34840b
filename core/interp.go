package praxis

import (
	"fmt"
	"io"
	"time"
)

// DefaultSource names standard input in parse error messages.
const DefaultSource = "<stdin>"

// Interp runs the read-eval-print cycle for single lines of input. Every
// value tree it builds is deleted before EvalLine returns.
type Interp struct {
	Source  string
	Heap    *Heap
	DumpAST io.Writer // when set, each parse tree is dumped here

	reader Reader
	eval   Evaluator
}

func NewInterp(source string) *Interp {
	if source == "" {
		source = DefaultSource
	}
	h := NewHeap()
	return &Interp{
		Source: source,
		Heap:   h,
		reader: Reader{Heap: h},
		eval:   Evaluator{Heap: h},
	}
}

// EvalLine parses, reads, evaluates and prints one line. A grammar rejection
// is returned as an error wrapping ErrParse together with a Trace whose
// Output holds the message. Error values from evaluation are ordinary
// results. A non-nil error without ErrParse means the value tree was not
// released correctly.
func (in *Interp) EvalLine(line string) (*Trace, error) {
	start := time.Now()
	in.Heap.Reset()
	t := &Trace{Input: line, Timestamp: start.UTC().Format(time.RFC3339)}

	tree, err := Parse(in.Source, line)
	if err != nil {
		t.Output = err.Error()
		t.Kind = "ParseError"
		t.IsError = true
		t.Elapsed = time.Since(start)
		return t, err
	}
	if in.DumpAST != nil {
		if err := tree.Dump(in.DumpAST); err != nil {
			t.Output = fmt.Sprintf("dump parse tree: %v", err)
			t.Kind = "InternalError"
			t.IsError = true
			t.Elapsed = time.Since(start)
			return t, err
		}
	}

	v := in.eval.Eval(in.reader.Read(tree))
	t.Output = v.String()
	t.Kind = v.KindName()
	t.IsError = v.Kind == KindErr
	in.Heap.Delete(v)

	t.Allocs = in.Heap.Allocs()
	t.Elapsed = time.Since(start)
	return t, in.Heap.Check()
}

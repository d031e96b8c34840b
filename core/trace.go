package praxis

import "time"

// Trace records one evaluated line: what went in, what was printed, and how
// many value nodes the line allocated.
type Trace struct {
	Input     string
	Output    string // printed result, or the parse error text
	Kind      string // KindName of the result, "ParseError" when parsing failed
	IsError   bool   // result is an Error value or parsing failed
	Allocs    int    // value nodes allocated while reading and evaluating
	Timestamp string // RFC 3339, UTC
	Elapsed   time.Duration
}

// ToMap converts a Trace to a JSON-friendly map for the wire.
func (t *Trace) ToMap() map[string]any {
	return map[string]any{
		"input":      t.Input,
		"output":     t.Output,
		"kind":       t.Kind,
		"error":      t.IsError,
		"allocs":     t.Allocs,
		"timestamp":  t.Timestamp,
		"elapsed_us": t.Elapsed.Microseconds(),
	}
}

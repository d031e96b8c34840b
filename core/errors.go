package praxis

import "errors"

var (
	// ErrParse indicates the input text was rejected by the grammar.
	ErrParse = errors.New("parse error")

	// ErrLeak indicates value nodes were still live after a line was finished.
	ErrLeak = errors.New("value leak")

	// ErrDoubleFree indicates a value node was deleted more than once.
	ErrDoubleFree = errors.New("double free")

	// ErrConfig indicates an unreadable or invalid configuration file.
	ErrConfig = errors.New("config error")
)

// Messages carried by error values produced during reading and evaluation.
const (
	MsgInvalidNumber   = "invalid number"
	MsgDivisionByZero  = "Division by Zero"
	MsgInvalidOperator = "Invalid Operator"
	MsgNonNumber       = "Cannot operate on non-number"
)

package praxis

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Tags carried by parse nodes. Leaf and branch tags are joined with '|' the
// way a combinator grammar nests rule names, so a number inside an expression
// is tagged "expr|number|regex".
const (
	TagRoot   = ">"
	TagRegex  = "regex"
	TagChar   = "char"
	TagNumber = "expr|number|regex"
	TagSymbol = "expr|symbol|char"
	TagSexpr  = "expr|sexpr|>"
)

// Node is a generic parse tree node: a tag, the literal text of a leaf, and
// ordered children.
type Node struct {
	Tag      string
	Contents string
	Line     int
	Col      int
	Children []*Node
}

// Dump writes the tree to w, one node per line, children indented.
func (n *Node) Dump(w io.Writer) error {
	return n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	if len(n.Children) == 0 {
		_, err = fmt.Fprintf(w, "%s%s:%d:%d '%s'\n", indent, n.Tag, n.Line, n.Col, n.Contents)
	} else {
		_, err = fmt.Fprintf(w, "%s%s \n", indent, n.Tag)
	}
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.dump(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// ParseError describes input rejected by the grammar.
type ParseError struct {
	Source     string
	Line       int
	Col        int
	Expected   []string
	Found      string // quoted character, or "end of input"
	Incomplete bool   // input ended inside an open '('
	Reason     string // replaces the expected/found message when set
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s:%d:%d: error: %s", e.Source, e.Line, e.Col, e.Reason)
	}
	return fmt.Sprintf("%s:%d:%d: error: expected %s at %s", e.Source, e.Line, e.Col, joinAlternatives(e.Expected), e.Found)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// IsIncomplete reports whether err is a parse error caused by input that
// ended before every '(' was closed.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 0:
		return "nothing"
	case 1:
		return alts[0]
	}
	return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
}

// MaxDepth is the deepest list nesting Parse accepts. Reading, evaluating
// and printing all recurse over the tree, so the bound holds for them too.
const MaxDepth = 1000

type parser struct {
	source string
	input  []rune
	pos    int
	line   int
	col    int
	depth  int
}

// Parse parses one line of input against the grammar
//
//	number : /-?[0-9]+/ ;
//	symbol : '+' | '-' | '*' | '/' ;
//	sexpr  : '(' <expr>* ')' ;
//	expr   : <number> | <symbol> | <sexpr> ;
//	praxis : /^/ <expr>* /$/ ;
//
// and returns the root node. source names the input in error messages.
func Parse(source, input string) (*Node, error) {
	p := &parser{source: source, input: []rune(input), line: 1, col: 1}
	root := &Node{Tag: TagRoot, Line: 1, Col: 1}
	root.Children = append(root.Children, &Node{Tag: TagRegex, Line: 1, Col: 1})
	for {
		p.skipWhitespace()
		if p.eof() {
			break
		}
		n, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, n)
	}
	root.Children = append(root.Children, &Node{Tag: TagRegex, Line: p.line, Col: p.col})
	return root, nil
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.input) {
		return 0
	}
	return p.input[p.pos+off]
}

func (p *parser) advance() rune {
	ch := p.input[p.pos]
	p.pos++
	if ch == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return ch
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.input[p.pos]) {
		p.advance()
	}
}

func (p *parser) parseExpr(inList bool) (*Node, error) {
	ch := p.peekAt(0)
	switch {
	case isDigit(ch), ch == '-' && isDigit(p.peekAt(1)):
		return p.parseNumber(), nil
	case isSymbol(ch):
		line, col := p.line, p.col
		p.advance()
		return &Node{Tag: TagSymbol, Contents: string(ch), Line: line, Col: col}, nil
	case ch == '(':
		return p.parseSexpr()
	default:
		return nil, p.unexpected(inList)
	}
}

func (p *parser) parseNumber() *Node {
	line, col := p.line, p.col
	start := p.pos
	if p.peekAt(0) == '-' {
		p.advance()
	}
	for !p.eof() && isDigit(p.input[p.pos]) {
		p.advance()
	}
	return &Node{Tag: TagNumber, Contents: string(p.input[start:p.pos]), Line: line, Col: col}
}

func (p *parser) parseSexpr() (*Node, error) {
	if p.depth >= MaxDepth {
		return nil, &ParseError{
			Source: p.source,
			Line:   p.line,
			Col:    p.col,
			Reason: fmt.Sprintf("lists nested deeper than %d", MaxDepth),
		}
	}
	p.depth++
	defer func() { p.depth-- }()

	n := &Node{Tag: TagSexpr, Line: p.line, Col: p.col}
	n.Children = append(n.Children, &Node{Tag: TagChar, Contents: "(", Line: p.line, Col: p.col})
	p.advance() // skip '('
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, p.unexpected(true)
		}
		if p.input[p.pos] == ')' {
			n.Children = append(n.Children, &Node{Tag: TagChar, Contents: ")", Line: p.line, Col: p.col})
			p.advance()
			return n, nil
		}
		child, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
}

func (p *parser) unexpected(inList bool) *ParseError {
	expected := []string{"number", "symbol", "'('"}
	if inList {
		expected = append(expected, "')'")
	} else {
		expected = append(expected, "end of input")
	}
	found := "end of input"
	if !p.eof() {
		found = fmt.Sprintf("'%c'", p.input[p.pos])
	}
	return &ParseError{
		Source:     p.source,
		Line:       p.line,
		Col:        p.col,
		Expected:   expected,
		Found:      found,
		Incomplete: inList && p.eof(),
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSymbol(r rune) bool {
	return r == '+' || r == '-' || r == '*' || r == '/'
}

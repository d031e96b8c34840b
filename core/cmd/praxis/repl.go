package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"golang.org/x/term"

	praxis "github.com/rphilander/praxis/core"
	"github.com/rphilander/praxis/journal"
)

// run picks the interactive REPL or script mode depending on stdin.
func run(cfg praxis.Config, opts *options, j *journal.Journal) error {
	in := praxis.NewInterp(praxis.DefaultSource)
	if opts.ast {
		in.DumpAST = os.Stdout
	}
	s := &session{interp: in, rec: recorder(j), out: os.Stdout, errOut: os.Stderr}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return s.script(os.Stdin)
	}
	s.interactive(cfg)
	return nil
}

// recorder avoids handing a typed nil to the interface.
func recorder(j *journal.Journal) praxis.Recorder {
	if j == nil {
		return nil
	}
	return j
}

// session evaluates lines and writes results to out.
type session struct {
	interp *praxis.Interp
	rec    praxis.Recorder
	out    io.Writer
	errOut io.Writer
	failed int
}

// evalPrint runs one line through the interpreter and prints the result or
// the parse error.
func (s *session) evalPrint(line string) {
	t, err := s.interp.EvalLine(line)
	if err != nil && !errors.Is(err, praxis.ErrParse) {
		fmt.Fprintf(s.errOut, "internal error: %v\n", err)
	}
	fmt.Fprintln(s.out, t.Output)
	if t.IsError {
		s.failed++
	}
	if s.rec != nil {
		if err := s.rec.Record(t); err != nil {
			fmt.Fprintf(s.errOut, "journal: %v\n", err)
		}
	}
}

// script evaluates r line by line without prompts. Lines with an unclosed
// list are joined with the following lines, as in the REPL.
func (s *session) script(r io.Reader) error {
	sc := bufio.NewScanner(r)
	var pending strings.Builder
	for sc.Scan() {
		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(sc.Text())

		src := pending.String()
		if _, err := praxis.Parse(praxis.DefaultSource, src); praxis.IsIncomplete(err) {
			continue
		}
		pending.Reset()
		s.evalPrint(src)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	// Report the unterminated tail instead of dropping it.
	if pending.Len() > 0 {
		s.evalPrint(pending.String())
	}
	return nil
}

// interactive runs the line-editing REPL until end of input or Ctrl+C.
// SIGTERM and SIGHUP exit the process with status 130.
func (s *session) interactive(cfg praxis.Config) {
	fmt.Fprintf(s.out, "Praxis Version %s\n", praxis.Version)
	fmt.Fprint(s.out, "Press Ctrl+c to Exit\n\n")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, ok := readInput(ln, cfg.Prompt, cfg.ContinuePrompt)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
		s.evalPrint(src)
	}
}

// readInput prompts until the accumulated text is no longer an unfinished
// list. It reports false on end of input or Ctrl+C.
func readInput(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if err != nil {
			// io.EOF on Ctrl+D, liner.ErrPromptAborted on Ctrl+C
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := praxis.Parse(praxis.DefaultSource, src); praxis.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

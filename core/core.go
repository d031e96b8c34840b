package praxis

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

// Recorder persists evaluated lines, e.g. to a journal.
type Recorder interface {
	Record(t *Trace) error
}

// Core is the central actor that owns the interpreter and serves requests
// from socket clients. Only the actor goroutine touches the interpreter, so
// lines are evaluated one at a time in arrival order.
type Core struct {
	interp    *Interp
	recorder  Recorder
	requests  chan coreRequest
	done      chan struct{}
	closeOnce sync.Once
	listener  net.Listener
	traces    []Trace
	maxTraces int
}

type coreRequest struct {
	msg      map[string]any
	response chan map[string]any
}

// NewCore listens on the unix socket sockPath. rec may be nil.
func NewCore(sockPath string, maxTraces int, rec Recorder) (*Core, error) {
	// Clean up a stale socket
	os.Remove(sockPath)

	if maxTraces <= 0 {
		maxTraces = 1000
	}
	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return &Core{
		interp:    NewInterp(DefaultSource),
		recorder:  rec,
		requests:  make(chan coreRequest, 64),
		done:      make(chan struct{}),
		listener:  listener,
		maxTraces: maxTraces,
	}, nil
}

// Addr returns the socket address the core listens on.
func (c *Core) Addr() net.Addr {
	return c.listener.Addr()
}

// Run starts the actor goroutine and accepts connections. Blocks until
// Shutdown.
func (c *Core) Run() {
	go c.actorLoop()
	for {
		conn, err := c.listener.Accept()
		if err != nil {
			return
		}
		go c.handleClientConnection(conn)
	}
}

// Shutdown stops accepting connections and stops the actor.
func (c *Core) Shutdown() {
	c.closeOnce.Do(func() {
		c.listener.Close()
		close(c.done)
	})
}

// actorLoop is the single goroutine that owns the interpreter.
func (c *Core) actorLoop() {
	for {
		select {
		case req := <-c.requests:
			req.response <- c.handleRequest(req.msg)
		case <-c.done:
			return
		}
	}
}

// sendToActor sends a request to the actor and waits for the response.
func (c *Core) sendToActor(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)
	resp := make(chan map[string]any, 1)
	select {
	case c.requests <- coreRequest{msg: msg, response: resp}:
	case <-c.done:
		return errorResponse(id, "core is shutting down")
	}
	select {
	case r := <-resp:
		return r
	case <-c.done:
		return errorResponse(id, "core is shutting down")
	}
}

func (c *Core) handleRequest(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)

	op, _ := msg["op"].(string)
	switch op {
	case "":
		// Empty request or no op: return manual
		return c.coreManual(id)
	case "eval":
		return c.handleEval(id, msg)
	case "traces":
		return c.handleTraces(id, msg)
	case "clear":
		return c.handleClear(id)
	default:
		return errorResponse(id, fmt.Sprintf("unknown op: %s", op))
	}
}

func (c *Core) coreManual(id string) map[string]any {
	return map[string]any{
		"id": id,
		"ok": true,
		"value": map[string]any{
			"name":    "praxis-core",
			"version": Version,
			"ops": map[string]any{
				"eval":   "Evaluate one line of input. Params: expr (string)",
				"traces": "List recent evaluations, oldest first. Params: n (int, optional)",
				"clear":  "Forget recorded traces.",
			},
			"operators": []any{"+", "-", "*", "/"},
		},
	}
}

func (c *Core) handleEval(id string, msg map[string]any) map[string]any {
	expr, ok := msg["expr"].(string)
	if !ok {
		return errorResponse(id, "eval: missing 'expr' string")
	}

	trace, err := c.interp.EvalLine(expr)
	c.appendTrace(trace)
	if err != nil {
		if errors.Is(err, ErrParse) {
			return errorResponse(id, err.Error())
		}
		log.Printf("eval %q: %v", expr, err)
		return errorResponse(id, fmt.Sprintf("internal error: %v", err))
	}
	return map[string]any{
		"id": id,
		"ok": true,
		"value": map[string]any{
			"output": trace.Output,
			"kind":   trace.Kind,
			"error":  trace.IsError,
		},
	}
}

func (c *Core) handleTraces(id string, msg map[string]any) map[string]any {
	n := len(c.traces)
	if raw, exists := msg["n"]; exists {
		f, ok := raw.(float64)
		if !ok || f < 0 {
			return errorResponse(id, "traces: 'n' must be a non-negative number")
		}
		// Compare as floats; converting a huge n to int first can go negative.
		if f < float64(n) {
			n = int(f)
		}
	}

	start := len(c.traces) - n
	result := make([]any, n)
	for i := 0; i < n; i++ {
		result[i] = c.traces[start+i].ToMap()
	}
	return map[string]any{"id": id, "ok": true, "value": result}
}

func (c *Core) handleClear(id string) map[string]any {
	c.traces = nil
	return map[string]any{"id": id, "ok": true, "value": "cleared"}
}

func errorResponse(id, errMsg string) map[string]any {
	return map[string]any{"id": id, "ok": false, "error": errMsg}
}

// appendTrace records t and enforces the maxTraces cap.
func (c *Core) appendTrace(t *Trace) {
	c.traces = append(c.traces, *t)
	if len(c.traces) > c.maxTraces {
		// Drop oldest traces
		excess := len(c.traces) - c.maxTraces
		c.traces = c.traces[excess:]
	}
	if c.recorder != nil {
		if err := c.recorder.Record(t); err != nil {
			log.Printf("record trace: %v", err)
		}
	}
}

// --- Connection handling ---

func (c *Core) handleClientConnection(conn net.Conn) {
	defer conn.Close()

	for {
		msg, err := ReadMsg(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("read client message: %v", err)
			}
			return
		}

		resp := c.sendToActor(msg)
		if err := WriteMsg(conn, resp); err != nil {
			log.Printf("write client response: %v", err)
			return
		}
	}
}

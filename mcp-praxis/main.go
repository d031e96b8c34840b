// mcp-praxis exposes a running praxis server to MCP clients over stdio.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	praxis "github.com/rphilander/praxis/core"
)

// bridge forwards tool calls to the praxis core over one socket connection.
type bridge struct {
	mu   sync.Mutex
	conn net.Conn
}

// send sends a request to the praxis core and returns the response.
func (b *bridge) send(req map[string]any) (map[string]any, error) {
	req["id"] = praxis.NextID()
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := praxis.WriteMsg(b.conn, req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	resp, err := praxis.ReadMsg(b.conn)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return resp, nil
}

// call sends req and converts the response into a tool result. Transport
// failures become error results so the client sees them.
func (b *bridge) call(req map[string]any) (*mcp.CallToolResult, error) {
	resp, err := b.send(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

// formatResult turns a core response into an MCP tool result.
func formatResult(resp map[string]any) (*mcp.CallToolResult, error) {
	ok, _ := resp["ok"].(bool)
	if !ok {
		errMsg, _ := resp["error"].(string)
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return mcp.NewToolResultError(errMsg), nil
	}
	if s, isString := resp["value"].(string); isString {
		return mcp.NewToolResultText(s), nil
	}
	out, err := json.MarshalIndent(resp["value"], "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (b *bridge) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return b.call(map[string]any{"op": "eval", "expr": expr})
}

func (b *bridge) handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := map[string]any{"op": "traces"}
	if n := request.GetFloat("n", -1); n >= 0 {
		req["n"] = n
	}
	return b.call(req)
}

func (b *bridge) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return b.call(map[string]any{"op": "clear"})
}

func newServer(b *bridge) *server.MCPServer {
	s := server.NewMCPServer(
		"praxis",
		praxis.Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("praxis_eval",
			mcp.WithDescription("Evaluate an arithmetic S-expression with + - * /. Returns the printed result, its kind and whether it is an error."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Expression to evaluate, e.g. (+ 1 (* 7 8))"),
			),
		),
		b.handleEval,
	)

	s.AddTool(
		mcp.NewTool("praxis_traces",
			mcp.WithDescription("List recent evaluations, oldest first."),
			mcp.WithNumber("n",
				mcp.Description("Maximum number of traces to return"),
			),
		),
		b.handleTraces,
	)

	s.AddTool(
		mcp.NewTool("praxis_clear",
			mcp.WithDescription("Forget the traces recorded by the core."),
		),
		b.handleClear,
	)
	return s
}

func main() {
	cfg, err := praxis.LoadConfig("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := net.Dial("unix", cfg.Socket)
	if err != nil {
		log.Fatalf("connect to %s: %v", cfg.Socket, err)
	}
	defer conn.Close()
	log.Printf("connected to praxis core: %s", cfg.Socket)

	if err := server.ServeStdio(newServer(&bridge{conn: conn})); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

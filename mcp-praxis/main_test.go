package main

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	praxis "github.com/rphilander/praxis/core"
)

func testBridge(t *testing.T) *bridge {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "praxis.sock")
	c, err := praxis.NewCore(sock, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	go c.Run()
	t.Cleanup(c.Shutdown)

	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return &bridge{conn: conn}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", res.Content[0])
	}
	return text.Text
}

func TestToolEval(t *testing.T) {
	b := testBridge(t)
	res, err := b.handleEval(context.Background(), toolRequest(map[string]any{"expr": "(+ 1 (* 7 8))"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, `"output": "57"`) {
		t.Fatalf("got %s", text)
	}
}

func TestToolEvalParseError(t *testing.T) {
	b := testBridge(t)
	res, err := b.handleEval(context.Background(), toolRequest(map[string]any{"expr": "(+ 1"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "end of input") {
		t.Fatalf("got %+v", res)
	}
}

func TestToolEvalMissingExpr(t *testing.T) {
	b := testBridge(t)
	res, err := b.handleEval(context.Background(), toolRequest(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
}

func TestToolTracesAndClear(t *testing.T) {
	b := testBridge(t)
	ctx := context.Background()
	for _, expr := range []string{"1", "2", "3"} {
		if _, err := b.handleEval(ctx, toolRequest(map[string]any{"expr": expr})); err != nil {
			t.Fatal(err)
		}
	}

	res, err := b.handleTraces(ctx, toolRequest(map[string]any{"n": float64(1)}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if strings.Count(text, `"input"`) != 1 || !strings.Contains(text, `"input": "3"`) {
		t.Fatalf("got %s", text)
	}

	res, err = b.handleClear(ctx, toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "cleared" {
		t.Fatalf("clear: %s", got)
	}

	res, err = b.handleTraces(ctx, toolRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); got != "[]" {
		t.Fatalf("traces after clear: %s", got)
	}
}

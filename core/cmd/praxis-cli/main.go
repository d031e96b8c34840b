// praxis-cli sends one request to a running praxis server and prints the
// response as JSON.
//
// With arguments the request is {"op":"eval","expr":ARGS}. Otherwise a JSON
// object is read from stdin; empty input asks the server for its manual.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	praxis "github.com/rphilander/praxis/core"
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	cfg, err := praxis.LoadConfig("")
	if err != nil {
		fatalf("config: %v", err)
	}

	msg, err := buildRequest(os.Args[1:], os.Stdin)
	if err != nil {
		fatalf("%v", err)
	}

	conn, err := net.Dial("unix", cfg.Socket)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer conn.Close()

	if err := praxis.WriteMsg(conn, msg); err != nil {
		fatalf("send: %v", err)
	}
	resp, err := praxis.ReadMsg(conn)
	if err != nil {
		fatalf("receive: %v", err)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fatalf("format response: %v", err)
	}
	fmt.Println(string(out))
}

func buildRequest(args []string, stdin io.Reader) (map[string]any, error) {
	msg := map[string]any{}
	if len(args) > 0 {
		msg["op"] = "eval"
		msg["expr"] = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &msg); err != nil {
				return nil, fmt.Errorf("parse JSON: %w", err)
			}
			if msg == nil {
				return nil, fmt.Errorf("parse JSON: request must be an object")
			}
		}
	}
	if _, ok := msg["id"]; !ok {
		msg["id"] = praxis.NextID()
	}
	return msg, nil
}

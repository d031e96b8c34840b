// http-praxis serves a running praxis core over HTTP.
//
//	GET  /        manual
//	POST /eval    body is the expression, or {"expr": "..."} as JSON
//	GET  /traces  optional ?n=N
//	POST /clear
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	praxis "github.com/rphilander/praxis/core"
)

const maxBody = 64 << 10

// Response mirrors a core response.
type Response struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

type evalRequest struct {
	Expr *string `json:"expr"`
}

// gateway forwards HTTP requests to the praxis core over one socket
// connection.
type gateway struct {
	mu   sync.Mutex
	conn net.Conn
}

func (g *gateway) send(req map[string]any) (*Response, error) {
	req["id"] = praxis.NextID()
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := praxis.WriteMsg(g.conn, req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	msg, err := praxis.ReadMsg(g.conn)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	resp := &Response{Value: msg["value"]}
	resp.ID, _ = msg["id"].(string)
	resp.OK, _ = msg["ok"].(bool)
	resp.Error, _ = msg["error"].(string)
	return resp, nil
}

func (g *gateway) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", g.handleManual)
	mux.HandleFunc("POST /eval", g.handleEval)
	mux.HandleFunc("GET /traces", g.handleTraces)
	mux.HandleFunc("POST /clear", g.handleClear)
	return mux
}

// forward sends req to the core and writes the answer. A rejected request
// is 422, a broken core connection 502.
func (g *gateway) forward(w http.ResponseWriter, req map[string]any) {
	resp, err := g.send(req)
	if err != nil {
		log.Printf("forward %v: %v", req["op"], err)
		writeJSON(w, http.StatusBadGateway, &Response{Error: err.Error()})
		return
	}
	status := http.StatusOK
	if !resp.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (g *gateway) handleManual(w http.ResponseWriter, r *http.Request) {
	g.forward(w, map[string]any{})
}

func (g *gateway) handleEval(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, &Response{Error: err.Error()})
		return
	}

	expr := string(body)
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		var er evalRequest
		if err := json.Unmarshal(body, &er); err != nil || er.Expr == nil {
			writeJSON(w, http.StatusBadRequest, &Response{Error: `expected {"expr": "..."}`})
			return
		}
		expr = *er.Expr
	}
	g.forward(w, map[string]any{"op": "eval", "expr": strings.TrimRight(expr, "\r\n")})
}

func (g *gateway) handleTraces(w http.ResponseWriter, r *http.Request) {
	req := map[string]any{"op": "traces"}
	if s := r.URL.Query().Get("n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, &Response{Error: "n must be a non-negative integer"})
			return
		}
		req["n"] = n
	}
	g.forward(w, req)
}

func (g *gateway) handleClear(w http.ResponseWriter, r *http.Request) {
	g.forward(w, map[string]any{"op": "clear"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
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

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           (&gateway{conn: conn}).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}

package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	praxis "github.com/rphilander/praxis/core"
)

func testServer(t *testing.T) *httptest.Server {
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

	srv := httptest.NewServer((&gateway{conn: conn}).routes())
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()
	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestHTTPEvalPlain(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/eval", "text/plain", strings.NewReader("(+ 1 (* 7 8))\n"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	r := decode(t, resp)
	v := r.Value.(map[string]any)
	if !r.OK || v["output"] != "57" {
		t.Fatalf("got %+v", r)
	}
}

func TestHTTPEvalJSON(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/eval", "application/json", strings.NewReader(`{"expr": "(/ 10 0)"}`))
	if err != nil {
		t.Fatal(err)
	}
	r := decode(t, resp)
	v := r.Value.(map[string]any)
	if v["output"] != "ERROR: Division by Zero" || v["error"] != true {
		t.Fatalf("got %+v", r)
	}
}

func TestHTTPEvalBadJSON(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/eval", "application/json", strings.NewReader(`{"exp": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestHTTPEvalParseError(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/eval", "text/plain", strings.NewReader("(+ 1"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if r := decode(t, resp); r.OK || !strings.Contains(r.Error, "end of input") {
		t.Fatalf("got %+v", r)
	}
}

func TestHTTPTracesAndClear(t *testing.T) {
	srv := testServer(t)
	for _, expr := range []string{"1", "2", "3"} {
		resp, err := http.Post(srv.URL+"/eval", "text/plain", strings.NewReader(expr))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/traces?n=2")
	if err != nil {
		t.Fatal(err)
	}
	if traces := decode(t, resp).Value.([]any); len(traces) != 2 {
		t.Fatalf("got %d traces", len(traces))
	}

	resp, err = http.Get(srv.URL + "/traces?n=-1")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/clear", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if r := decode(t, resp); r.Value != "cleared" {
		t.Fatalf("got %+v", r)
	}

	resp, err = http.Get(srv.URL + "/traces")
	if err != nil {
		t.Fatal(err)
	}
	if v := decode(t, resp).Value; v != nil {
		if traces, _ := v.([]any); len(traces) != 0 {
			t.Fatalf("traces after clear: %v", v)
		}
	}
}

func TestHTTPManual(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	r := decode(t, resp)
	if m, _ := r.Value.(map[string]any); m["version"] != praxis.Version {
		t.Fatalf("got %+v", r)
	}
}

func TestHTTPTracesHugeLimit(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/traces?n=9223372036854775807")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/eval", "text/plain", strings.NewReader("(+ 1 1)"))
	if err != nil {
		t.Fatal(err)
	}
	if r := decode(t, resp); !r.OK {
		t.Fatalf("core stopped answering: %+v", r)
	}
}

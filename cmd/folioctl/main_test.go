package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const categoriesJSON = `[
	{"id":1,"name":"Tech","slug":"tech"},
	{"id":2,"name":"Web","slug":"web","parent_id":1},
	{"id":3,"name":"Go","slug":"go","parent_id":1},
	{"id":4,"name":"Frontend","slug":"frontend","parent_id":2},
	{"id":5,"name":"Life","slug":"life"}
]`

func newAPI(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/categories" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = cli(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestTree(t *testing.T) {
	api := newAPI(t, http.StatusOK, categoriesJSON)

	code, out, errOut := runCLI("-api", api, "tree")
	if code != 0 {
		t.Fatalf("exit code %d, stderr %s", code, errOut)
	}
	want := strings.Join([]string{
		"├── Tech",
		"│   ├── Web",
		"│   │   └── Frontend",
		"│   └── Go",
		"└── Life",
		"",
	}, "\n")
	if out != want {
		t.Errorf("tree output:\n%s\nwant:\n%s", out, want)
	}
}

func TestList(t *testing.T) {
	api := newAPI(t, http.StatusOK, categoriesJSON)

	code, out, _ := runCLI("-api", api, "list")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %q", out)
	}
	if lines[2] != "   4      Frontend (frontend)" {
		t.Errorf("line 3: got %q", lines[2])
	}
}

func TestPath(t *testing.T) {
	api := newAPI(t, http.StatusOK, categoriesJSON)

	code, out, _ := runCLI("-api", api, "path", "4")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if out != "Tech > Web > Frontend\n" {
		t.Errorf("path: got %q", out)
	}
}

func TestErrors(t *testing.T) {
	good := newAPI(t, http.StatusOK, categoriesJSON)
	cyclic := newAPI(t, http.StatusOK, `[{"id":1,"name":"A","slug":"a","parent_id":2},{"id":2,"name":"B","slug":"b","parent_id":1}]`)
	down := newAPI(t, http.StatusBadGateway, `upstream unavailable`)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no command", []string{"-api", good}, 2, "usage"},
		{"unknown command", []string{"-api", good, "frobnicate"}, 2, "usage"},
		{"path without id", []string{"-api", good, "path"}, 2, "usage"},
		{"path bad id", []string{"-api", good, "path", "x"}, 1, "invalid category id"},
		{"path unknown id", []string{"-api", good, "path", "99"}, 1, "category not found"},
		{"cyclic hierarchy", []string{"-api", cyclic, "tree"}, 1, "CIRCULAR_REFERENCE"},
		{"server failure", []string{"-api", down, "tree"}, 1, "FETCH_CATEGORIES_ERROR"},
		{"bad flag", []string{"-nope"}, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code: got %d, want %d (stderr %s)", code, tt.wantCode, errOut)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr %q does not contain %q", errOut, tt.wantErr)
			}
		})
	}
}

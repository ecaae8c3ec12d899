package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// captureLogs routes the default slog logger into a buffer for the
// duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// lastRecord decodes the last JSON log line in buf.
func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &rec); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return rec
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{"ok", http.StatusOK, `[]`, "INFO"},
		{"implicit 200", 0, `{"id":1}`, "INFO"},
		{"client error", http.StatusUnprocessableEntity, `{}`, "WARN"},
		{"server error", http.StatusBadGateway, `{}`, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			handler := RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte(tt.body))
			})))

			req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			rec := lastRecord(t, buf)
			if rec["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %s", rec["level"], tt.wantLevel)
			}
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if rec["status"] != float64(wantStatus) {
				t.Errorf("status: got %v, want %d", rec["status"], wantStatus)
			}
			if rec["bytes"] != float64(len(tt.body)) {
				t.Errorf("bytes: got %v, want %d", rec["bytes"], len(tt.body))
			}
			if rec["path"] != "/api/categories" {
				t.Errorf("path: got %v", rec["path"])
			}
			if rec["request_id"] != rr.Header().Get(RequestIDHeader) {
				t.Errorf("request_id: got %v, want %q", rec["request_id"], rr.Header().Get(RequestIDHeader))
			}
		})
	}
}

// TestResponseWriter tests the responseWriter wrapper used by the Logger
// middleware.
func TestResponseWriter(t *testing.T) {
	t.Run("WriteHeader only captures first call", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusNotFound)
		rw.WriteHeader(http.StatusInternalServerError) // Should be ignored.

		if rw.statusCode != http.StatusNotFound {
			t.Errorf("statusCode: got %d, want 404 (first call)", rw.statusCode)
		}
	})

	t.Run("Write sets default 200 status and counts bytes", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.Write([]byte("test"))
		rw.Write([]byte("ing"))

		if rw.statusCode != http.StatusOK {
			t.Errorf("statusCode: got %d, want 200", rw.statusCode)
		}
		if rw.bytes != 7 {
			t.Errorf("bytes: got %d, want 7", rw.bytes)
		}
	})

	t.Run("Write does not override explicit WriteHeader", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusCreated)
		rw.Write([]byte("created"))

		if rw.statusCode != http.StatusCreated {
			t.Errorf("statusCode: got %d, want 201", rw.statusCode)
		}
	})
}

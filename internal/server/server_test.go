package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"reelfeed/internal/api"
	"reelfeed/internal/config"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/feed", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("code = %d, want 204", rec.Code)
	}
	if called {
		t.Error("preflight reached the wrapped handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID" {
		t.Errorf("Expose-Headers = %q", got)
	}
}

type logEntry struct {
	Level     string `json:"level"`
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Class     string `json:"class"`
	Bytes     int    `json:"bytes"`
}

func serveLogged(t *testing.T, handler http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, logEntry) {
	t.Helper()
	var buf bytes.Buffer
	rec := httptest.NewRecorder()
	RequestLogger(zerolog.New(&buf))(handler).ServeHTTP(rec, req)

	var entry logEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec, entry
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		status    int
		class     string
		level     string
		bodyBytes int
	}{
		{
			name: "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("hello"))
			},
			status: http.StatusOK, class: "2xx", level: "info", bodyBytes: 5,
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			status: http.StatusNotFound, class: "4xx", level: "info",
		},
		{
			name: "server error logs at warn",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.WriteHeader(http.StatusOK)
			},
			status: http.StatusBadGateway, class: "5xx", level: "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/1/toggle", nil)
			rec, entry := serveLogged(t, tt.handler, req)

			if entry.Status != tt.status || entry.Class != tt.class || entry.Level != tt.level {
				t.Errorf("log entry = %+v", entry)
			}
			if entry.Bytes != tt.bodyBytes {
				t.Errorf("bytes = %d, want %d", entry.Bytes, tt.bodyBytes)
			}
			if entry.Method != http.MethodPost || entry.Path != "/api/v1/likes/1/toggle" {
				t.Errorf("log entry = %+v", entry)
			}
			if entry.RequestID == "" || rec.Header().Get("X-Request-ID") != entry.RequestID {
				t.Errorf("request id header %q, logged %q", rec.Header().Get("X-Request-ID"), entry.RequestID)
			}
		})
	}
}

func TestRequestLoggerKeepsCallerID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	rec, entry := serveLogged(t, func(w http.ResponseWriter, r *http.Request) {}, req)
	if entry.RequestID != "abc-123" || rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("request id = %q / %q, want abc-123", entry.RequestID, rec.Header().Get("X-Request-ID"))
	}
}

func TestServerRoutes(t *testing.T) {
	cfg := config.Default()
	srv := New(cfg, zerolog.Nop(), api.NewHandler(nil, nil, zerolog.Nop()))

	if srv.Addr() != "127.0.0.1:6541" {
		t.Errorf("Addr() = %q", srv.Addr())
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health code = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/library/tree", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route code = %d, want 404", rec.Code)
	}
}

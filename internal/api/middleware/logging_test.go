package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/unknown", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/api/products/unknown"`, `"status":404`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in request log, got %q", want, out)
		}
	}
}

func TestLoggingMiddleware_CarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0xaa},
		SpanID:  trace.SpanID{0xbb},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), sc.TraceID().String()) {
		t.Errorf("expected trace id %s in request log, got %q", sc.TraceID().String(), buf.String())
	}
}

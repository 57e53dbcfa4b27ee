package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

func captureGlobalLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestLoggerFromContext_NoSpan(t *testing.T) {
	buf := captureGlobalLogger(t)

	LoggerFromContext(context.Background()).Info().Msg("plain")

	out := buf.String()
	if !strings.Contains(out, "plain") {
		t.Fatalf("expected log output, got %q", out)
	}
	if strings.Contains(out, "trace_id") {
		t.Errorf("expected no trace_id without an active span, got %q", out)
	}
}

func TestLoggerFromContext_CarriesTraceIDs(t *testing.T) {
	buf := captureGlobalLogger(t)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03, 0x04},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	LoggerFromContext(ctx).Info().Msg("traced")

	out := buf.String()
	if !strings.Contains(out, sc.TraceID().String()) {
		t.Errorf("expected trace id %s in output, got %q", sc.TraceID().String(), out)
	}
	if !strings.Contains(out, sc.SpanID().String()) {
		t.Errorf("expected span id %s in output, got %q", sc.SpanID().String(), out)
	}
}

package logger

import (
	"context"
	"testing"

	"qaboard/pkg/utils/contextkey"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(Config{Level: "loud"}); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(Config{Format: "json"})
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	if l.zap == nil {
		t.Fatal("expected zap logger")
	}
}

func TestContextFieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	ctx := context.WithValue(context.Background(), contextkey.TraceID, "trace-1")
	ctx = context.WithValue(ctx, contextkey.ViewID, "view-9")
	Info(ctx, "vote cast", zap.Int("delta", 1))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "trace-1" || fields["view_id"] != "view-9" {
		t.Fatalf("unexpected context fields: %v", fields)
	}
	if fields["delta"] != int64(1) {
		t.Fatalf("unexpected delta field: %v", fields["delta"])
	}
}

func TestHelpersWithoutLogger(t *testing.T) {
	SetLogger(nil)
	Info(context.Background(), "dropped")
	if err := Sync(); err != nil {
		t.Fatalf("sync without logger failed: %v", err)
	}
}

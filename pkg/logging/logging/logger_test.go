package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild_Level(t *testing.T) {
	logger, err := Build(Options{Env: "production", Level: "warn"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}

func TestBuild_DevEnablesDebug(t *testing.T) {
	logger, err := Build(Options{Env: "dev"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("dev logger should log debug")
	}
}

func TestBuild_BadLevelKeepsDefault(t *testing.T) {
	logger, err := Build(Options{Env: "production", Level: "loud"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("unknown level should fall back to info")
	}
}

func TestContextPropagation(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithLogger(context.Background(), base)
	if L(ctx) != base {
		t.Fatal("L did not return the stored logger")
	}

	ctx = WithFields(ctx, zap.String("product", "Kindle"))
	L(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["product"] != "Kindle" {
		t.Errorf("missing field: %v", entries[0].ContextMap())
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != DefaultLogger() {
		t.Error("empty context should yield the default logger")
	}
}

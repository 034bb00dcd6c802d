package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLoggerKeyValueArgs(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Info("document loaded", "document", "335982.json", "deliveries", 240)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entry count mismatch: got=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["document"] != "335982.json" {
		t.Fatalf("document field mismatch: got=%v", fields["document"])
	}
	if fields["deliveries"] != int64(240) {
		t.Fatalf("deliveries field mismatch: got=%v", fields["deliveries"])
	}
}

func TestLoggerErrorValue(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Error("commit failed", "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entry count mismatch: got=%d want=1", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("error field mismatch: got=%v", got)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, logs := newObservedLogger(LevelWarn)

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	logger.Warn("loud enough")

	if got := logs.Len(); got != 1 {
		t.Fatalf("entry count mismatch: got=%d want=1", got)
	}
}

func TestMirrorFollowsEmission(t *testing.T) {
	logger, _ := newObservedLogger(LevelInfo)

	var mirrored []string
	SetMirror(func(_ context.Context, _ Level, msg string, _ ...any) {
		mirrored = append(mirrored, msg)
	})
	defer SetMirror(nil)

	// below the core's level, so neither sink may see it
	logger.Debug("suppressed")
	logger.InfoContext(context.Background(), "mirrored")

	if len(mirrored) != 1 || mirrored[0] != "mirrored" {
		t.Fatalf("mirror records mismatch: got=%v", mirrored)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger

	// must not panic
	logger.Info("into the void")
	logger.With("k", "v").Warn("still fine")
}

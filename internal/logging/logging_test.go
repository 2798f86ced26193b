package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	_ = logger.Sync()
}

func TestNewRespectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	logger, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}

func TestNewRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "noisy")

	if _, err := New(); err == nil {
		t.Fatalf("expected error for invalid LOG_LEVEL")
	}
}

package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/thereayou/barber-booking/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug", Format: "console", OutputPath: "stdout"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		in      string
		enabled zapcore.Level
		skipped zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.in)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.in, err)
		}
		if !logger.Core().Enabled(tt.enabled) {
			t.Errorf("%q: %s should be enabled", tt.in, tt.enabled)
		}
		if logger.Core().Enabled(tt.skipped) {
			t.Errorf("%q: %s should be disabled", tt.in, tt.skipped)
		}
	}
}

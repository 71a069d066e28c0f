package enginelog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "sushi")

	logger.Info("chunk processed", "track", "main")

	output := buf.String()
	if !strings.Contains(output, "chunk processed") {
		t.Error("missing message")
	}
	if !strings.Contains(output, "track") {
		t.Error("missing structured field key")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "")
	logger.SetLevel(LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("debug message should not be logged at warn level")
	}
	if strings.Contains(output, "info message") {
		t.Error("info message should not be logged at warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should be logged")
	}
	if !strings.Contains(output, "error message") {
		t.Error("error message should be logged")
	}
}

func TestLoggerWithAddsFieldsToEveryCall(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "")
	scoped := logger.With("processor_id", 7)

	scoped.Error("init failed")

	output := buf.String()
	if !strings.Contains(output, "processor_id") {
		t.Error("missing field carried from With")
	}
	if !strings.Contains(output, "init failed") {
		t.Error("missing message")
	}
}

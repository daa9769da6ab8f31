package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/steemit/socialschema/pkg/config"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON %q: %v", buf.String(), err)
	}
	return logObj
}

func TestScalyrEncoder(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "INFO", Format: "json", ScalyrFormat: true}, &buf)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("test message",
		zap.String("key", "value"),
		zap.Int("count", 3),
		zap.Bool("ok", true),
		zap.Duration("took", 1500*time.Millisecond),
		zap.Error(errors.New("boom")),
	)

	logObj := decodeLine(t, &buf)

	if logObj["message"] != "test message" {
		t.Errorf("Expected message 'test message', got: %v", logObj["message"])
	}
	if logObj["key"] != "value" {
		t.Errorf("Expected field 'key'='value', got: %v", logObj["key"])
	}
	if logObj["count"] != float64(3) {
		t.Errorf("Expected field 'count'=3, got: %v", logObj["count"])
	}
	if logObj["ok"] != true {
		t.Errorf("Expected field 'ok'=true, got: %v", logObj["ok"])
	}
	if logObj["took"] != "1.5s" {
		t.Errorf("Expected field 'took'='1.5s', got: %v", logObj["took"])
	}
	if logObj["error"] != "boom" {
		t.Errorf("Expected field 'error'='boom', got: %v", logObj["error"])
	}
	if logObj["level"] != "info" {
		t.Errorf("Expected level 'info', got: %v", logObj["level"])
	}
	if _, ok := logObj["timestamp"]; !ok {
		t.Error("Expected 'timestamp' field in log output")
	}
	if _, ok := logObj["file"]; !ok {
		t.Error("Expected caller 'file' field in log output")
	}
}

func TestScalyrEncoderWithFields(t *testing.T) {
	var buf bytes.Buffer
	encoder := NewScalyrEncoder(zapcore.EncoderConfig{})
	logger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.InfoLevel))

	child := logger.With(zap.String("component", "diagram"))
	child.Info("first")

	logObj := decodeLine(t, &buf)
	if logObj["component"] != "diagram" {
		t.Errorf("Expected context field 'component'='diagram', got: %v", logObj["component"])
	}

	// Context added to the child must not leak into the parent.
	buf.Reset()
	logger.Info("second")
	logObj = decodeLine(t, &buf)
	if _, ok := logObj["component"]; ok {
		t.Error("Parent logger should not carry child context fields")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "WARN", ScalyrFormat: true}, &buf)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at WARN, got: %s", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("Expected warn output, got: %s", buf.String())
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "DEBUG", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Debug("plain output", zap.String("table", "user"))
	out := buf.String()
	if !strings.Contains(out, "plain output") || !strings.Contains(out, "user") {
		t.Errorf("Unexpected text output: %s", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("Text format should not emit JSON: %s", out)
	}
}

func TestGetLoggerFallback(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	Logger = nil
	if GetLogger() == nil {
		t.Fatal("GetLogger should fall back to a default logger")
	}
}

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelValidate(t *testing.T) {
	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if err := level.Validate(); err != nil {
			t.Errorf("level %s should be valid: %v", level, err)
		}
	}

	if err := Level("verbose").Validate(); err == nil {
		t.Error("invalid level should fail validation")
	}
}

func TestFormatValidate(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		if err := format.Validate(); err != nil {
			t.Errorf("format %s should be valid: %v", format, err)
		}
	}

	if err := Format("xml").Validate(); err == nil {
		t.Error("invalid format should fail validation")
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: LevelInfo, Format: FormatJSON}, &buf)

	logger.Info("test message", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("key: got %v", entry["key"])
	}
}

func TestNewWithWriterLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: LevelWarn, Format: FormatText}, &buf)

	logger.Info("suppressed")
	logger.Warn("visible")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "visible") {
		t.Error("warn message should be logged")
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if cfg.Level != LevelInfo {
		t.Errorf("default level: got %s", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("default format: got %s", cfg.Format)
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := &Config{Level: LevelInfo, Format: FormatText}
	cfg.Merge(&Config{Level: LevelDebug})

	if cfg.Level != LevelDebug {
		t.Errorf("merged level: got %s", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("format should be unchanged: got %s", cfg.Format)
	}
}

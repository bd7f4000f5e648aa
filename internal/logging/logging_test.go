package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger

	return buf.String()
}

// captureLogOutputWithInit reinitializes the logger against a buffer so the
// InitLogger ReplaceAttr logic is exercised.
func captureLogOutputWithInit(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	InitLogger(level, format)

	f()

	SetOutput(os.Stderr)
	InitLogger(LevelWarn, FormatText)
	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"Debug level JSON format", LevelDebug, FormatJSON},
		{"Info level JSON format", LevelInfo, FormatJSON},
		{"Warn level Text format", LevelWarn, FormatText},
		{"Error level JSON format", LevelError, FormatJSON},
		{"Default level (invalid value)", Level(999), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutputWithInit(tt.level, tt.format, func() {})
			if out != "" {
				t.Errorf("InitLogger wrote %q before any log call", out)
			}
			if LoggerFromContext(context.Background()) == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
}

func TestInitLoggerLevelFilter(t *testing.T) {
	out := captureLogOutputWithInit(LevelWarn, FormatJSON, func() {
		Debug("hidden debug")
		Info("hidden info")
		Warn("visible warn", "tag", "SEQS")
	})

	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn leaked: %s", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", out, err)
	}
	if entry["msg"] != "visible warn" || entry["tag"] != "SEQS" {
		t.Errorf("entry = %v", entry)
	}
	ts, ok := entry["time"].(string)
	if !ok || !strings.Contains(ts, "T") {
		t.Errorf("time = %v, want RFC3339", entry["time"])
	}
}

func TestInitLoggerTextFormat(t *testing.T) {
	out := captureLogOutputWithInit(LevelInfo, FormatText, func() {
		Info("text message", "count", 3)
	})
	if !strings.Contains(out, "msg=\"text message\"") || !strings.Contains(out, "count=3") {
		t.Errorf("text output = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestGetFile(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"Context with file", WithFile(context.Background(), "units/footman.mdx"), "units/footman.mdx"},
		{"Context without file", context.Background(), ""},
		{"Context with wrong type value", context.WithValue(context.Background(), FileKey, 12345), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFile(tt.ctx); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestContextLogging(t *testing.T) {
	ctx := WithFile(context.Background(), "a.mdx")
	var entry map[string]any

	out := captureLogOutput(func() {
		WarnContext(ctx, "odd chunk")
	})
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if entry["file"] != "a.mdx" || entry["level"] != "WARN" {
		t.Errorf("entry = %v", entry)
	}

	for name, fn := range map[string]func(){
		"debug": func() { DebugContext(ctx, "m") },
		"info":  func() { InfoContext(ctx, "m") },
		"error": func() { ErrorContext(ctx, "m") },
	} {
		if out := captureLogOutput(fn); !strings.Contains(out, `"file":"a.mdx"`) {
			t.Errorf("%s: output %q missing file", name, out)
		}
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name  string
		fn    func()
		level string
	}{
		{"Debug", func() { Debug("debug message", "key", "value") }, "DEBUG"},
		{"Info", func() { Info("info message", "key", "value") }, "INFO"},
		{"Warn", func() { Warn("warn message", "key", "value") }, "WARN"},
		{"Error", func() { Error("error message", "key", "value") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutput(tt.fn)
			if !strings.Contains(out, `"level":"`+tt.level+`"`) || !strings.Contains(out, `"key":"value"`) {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	out := captureLogOutput(func() {
		Chunk("GEOS", 128, 4096, "known", true)
	})
	for _, want := range []string{`"msg":"chunk"`, `"tag":"GEOS"`, `"offset":128`, `"size":4096`, `"known":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := WithFile(context.Background(), "b.mdx")

	ok := captureLogOutput(func() { RoundTrip(ctx, true, 512) })
	if !strings.Contains(ok, `"level":"INFO"`) || !strings.Contains(ok, `"ok":true`) {
		t.Errorf("success output = %q", ok)
	}

	bad := captureLogOutput(func() { RoundTrip(ctx, false, 512, "first_diff", 40) })
	if !strings.Contains(bad, `"level":"WARN"`) || !strings.Contains(bad, `"first_diff":40`) {
		t.Errorf("failure output = %q", bad)
	}
}

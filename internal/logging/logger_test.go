package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger enabled without a level")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	defer SetLogger(nil)
	core := GetLogger().Core()
	if !core.Enabled(zapcore.WarnLevel) || core.Enabled(zapcore.InfoLevel) {
		t.Error("logger level does not match RDMSCOPE_LOG_LEVEL=warn")
	}
}

func TestLogDecode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	LogDecode(zap.New(core), 0x0060, "Get Command Response", 10, "ok")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["pid"] != "0x0060" || ctx["fields"] != int64(10) || ctx["checksum"] != "ok" {
		t.Errorf("context = %v", ctx)
	}
}

func TestDumps(t *testing.T) {
	if got := asciiDump([]byte("ab\x00c")); got != "ab.c" {
		t.Errorf("asciiDump() = %q", got)
	}
	if got := hexDump([]byte{0xCC, 0x01}); got != "cc01" {
		t.Errorf("hexDump() = %q", got)
	}
	if got := hexDump(make([]byte, 300)); len(got) != 512+3 {
		t.Errorf("hexDump() length = %d, want truncation", len(got))
	}
}

func TestConnectionHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := GetLogger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	LogConnection("10.0.0.7:5568", "websocket_upgraded")
	LogHTTPRequest("10.0.0.7:5568", "POST", "/decode", 200, 0)
	LogTLSHandshake("10.0.0.7:5568", 0x0304, 0x1301, "bench")
	LogWebSocketMessage("10.0.0.7:5568", "received", 2, []byte{0x01, 0x18})

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	if got := entries[1].ContextMap()["status"]; got != int64(200) {
		t.Errorf("status = %v, want 200", got)
	}
	if got := entries[2].ContextMap()["tls_version"]; got != "TLS 1.3" {
		t.Errorf("tls_version = %v, want TLS 1.3", got)
	}
	if got := entries[3].ContextMap()["hex_dump"]; got != "0118" {
		t.Errorf("hex_dump = %v, want 0118", got)
	}
}

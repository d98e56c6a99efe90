package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/rdmscope/internal/capture"
	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/rdm"
)

func deviceInfoRequest(t *testing.T) []byte {
	t.Helper()
	b, err := rdm.Build(rdm.Request{
		Destination:  rdm.UID{Manufacturer: 0x6574, Device: 0x12345678},
		Source:       rdm.UID{Manufacturer: 0x7a70, Device: 1},
		Transaction:  3,
		CommandClass: rdm.GetCommand,
		ParameterID:  rdm.PIDDeviceInfo,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return b
}

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_Frames(t *testing.T) {
	msg := deviceInfoRequest(t)

	tests := []struct {
		name   string
		mt     int
		data   []byte
		verify func(t *testing.T, r Reply)
	}{
		{
			name: "binary frame",
			mt:   websocket.BinaryMessage,
			data: msg,
			verify: func(t *testing.T, r Reply) {
				if r.Decode == nil || r.Decode.Parameter != "DEVICE_INFO" {
					t.Fatalf("reply = %+v, want DEVICE_INFO decode", r)
				}
				if r.Decode.Checksum != "ok" {
					t.Errorf("checksum = %q", r.Decode.Checksum)
				}
			},
		},
		{
			name: "hex text frame",
			mt:   websocket.TextMessage,
			data: []byte(hex.EncodeToString(msg)),
			verify: func(t *testing.T, r Reply) {
				if r.Decode == nil || r.Decode.CommandClass != rdm.GetCommand.String() {
					t.Fatalf("reply = %+v, want GET decode", r)
				}
			},
		},
		{
			name: "bad hex",
			mt:   websocket.TextMessage,
			data: []byte("not hex"),
			verify: func(t *testing.T, r Reply) {
				if r.Error == "" || r.Decode != nil {
					t.Errorf("reply = %+v, want error only", r)
				}
			},
		},
		{
			name: "truncated message decodes partially",
			mt:   websocket.BinaryMessage,
			data: msg[:10],
			verify: func(t *testing.T, r Reply) {
				if r.Decode == nil || r.Decode.Error == "" {
					t.Fatalf("reply = %+v, want decode with error", r)
				}
			},
		},
	}

	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(tt.mt, tt.data); err != nil {
				t.Fatalf("WriteMessage() error = %v", err)
			}
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			var r Reply
			if err := conn.ReadJSON(&r); err != nil {
				t.Fatalf("ReadJSON() error = %v", err)
			}
			if r.Seq == 0 {
				t.Error("reply has no sequence number")
			}
			tt.verify(t, r)
		})
	}
}

func TestWebSocket_Capture(t *testing.T) {
	dir := t.TempDir()
	s, ts := newTestServer(t, &Config{CaptureDir: dir})
	conn := dial(t, ts)

	msg := deviceInfoRequest(t)
	for i := 0; i < 2; i++ {
		if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
		var r Reply
		if err := conn.ReadJSON(&r); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
	}
	_ = conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "capture-*.jsonl"))
	if len(files) != 1 {
		t.Fatalf("capture files = %v, want 1", files)
	}
	recs, err := capture.ReadFile(files[0])
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if !bytes.Equal(recs[1].Data, msg) || recs[1].Seq != 2 {
		t.Errorf("record = %+v", recs[1])
	}
}

func TestHandleDecode(t *testing.T) {
	msg := deviceInfoRequest(t)

	tests := []struct {
		name        string
		method      string
		contentType string
		body        []byte
		wantStatus  int
		verify      func(t *testing.T, r Reply)
	}{
		{
			name:       "hex body",
			method:     http.MethodPost,
			body:       []byte(hex.EncodeToString(msg)),
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, r Reply) {
				if r.Decode == nil || r.Decode.PID != rdm.PIDDeviceInfo {
					t.Errorf("reply = %+v", r)
				}
			},
		},
		{
			name:        "raw body",
			method:      http.MethodPost,
			contentType: "application/octet-stream",
			body:        msg,
			wantStatus:  http.StatusOK,
			verify: func(t *testing.T, r Reply) {
				if r.Decode == nil || r.Decode.Transaction != 3 {
					t.Errorf("reply = %+v", r)
				}
			},
		},
		{
			name:       "bad hex",
			method:     http.MethodPost,
			body:       []byte("zz"),
			wantStatus: http.StatusBadRequest,
			verify: func(t *testing.T, r Reply) {
				if r.Error == "" {
					t.Error("missing error")
				}
			},
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "too large",
			method:     http.MethodPost,
			body:       bytes.Repeat([]byte("0"), maxMessageSize+2),
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	s, err := New(&Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h := s.Handler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/decode", bytes.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var r Reply
			if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, r)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	s, ts := newTestServer(t, &Config{})
	dial(t, ts)

	deadline := time.Now().Add(2 * time.Second)
	for s.ActiveConnections() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["connections"] != float64(1) {
		t.Errorf("body = %v", body)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "rdmscope/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestServeAndShutdown(t *testing.T) {
	s, err := New(&Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errChan := make(chan error, 1)
	go func() { errChan <- s.Serve(ln) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Addr() == nil {
		t.Fatal("server did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-errChan; err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}

func TestNew_TLSRequiresBothFiles(t *testing.T) {
	if _, err := New(&Config{CertPath: "cert.pem"}, nil); err == nil {
		t.Error("New() with cert only error = nil")
	}
	if info := TLSInfo(nil); info["enabled"] != false {
		t.Errorf("TLSInfo(nil) = %v", info)
	}
}

func TestConnState_LogsTLSHandshakeOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logging.GetLogger()
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(prev)

	s, err := New(&Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewUnstartedServer(s.Handler())
	ts.Config.ConnState = s.connState
	ts.StartTLS()
	defer ts.Close()

	client := ts.Client()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(ts.URL + "/healthz")
		if err != nil {
			t.Fatalf("GET /healthz error = %v", err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}

	entries := logs.FilterMessage("TLS handshake completed").All()
	if len(entries) != 1 {
		t.Fatalf("handshake entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	addr, _ := ctx["remote_addr"].(string)
	if !strings.HasPrefix(addr, "127.0.0.1:") {
		t.Errorf("remote_addr = %q, want the client address", addr)
	}
	if ctx["tls_version"] == "" {
		t.Error("tls_version missing")
	}
}

package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/rdm"
	"github.com/muurk/rdmscope/internal/version"
)

// Handler returns the HTTP routes:
//
//	GET  /ws       websocket ingest
//	POST /decode   decode one message (raw octet-stream body or hex text)
//	GET  /healthz  status and version
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/decode", s.handleDecode)
	mux.HandleFunc("/healthz", s.handleHealth)
	return logRequests(mux)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, &Reply{Error: "invalid method: " + r.Method + " (expected POST)"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Reply{Error: err.Error()})
		return
	}
	if len(body) > maxMessageSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, &Reply{Error: "message too large"})
		return
	}

	data := body
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/octet-stream") {
		if data, err = rdm.ParseHex(string(body)); err != nil {
			writeJSON(w, http.StatusBadRequest, &Reply{Error: err.Error()})
			return
		}
	}

	// Truncated messages still decode to a partial result, so this is 200
	writeJSON(w, http.StatusOK, s.decode(r.RemoteAddr, data))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     version.Get().Version,
		"connections": s.ActiveConnections(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Server", version.UserAgent())
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack passes the websocket upgrade through to the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/rdmscope/internal/capture"
	"github.com/muurk/rdmscope/internal/discovery"
	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/rdm"
	"github.com/muurk/rdmscope/internal/render"
)

// Config holds the server configuration
type Config struct {
	Addr       string         // Listen address, e.g. ":8080"
	CertPath   string         // TLS certificate; empty serves plain HTTP
	KeyPath    string         // TLS private key
	CaptureDir string         // Directory to write capture files (empty = disabled)
	Advertise  string         // mDNS instance name (empty = not advertised)
	Render     render.Options // Options for decoded replies
}

// Server decodes RDM messages received over websocket and HTTP
type Server struct {
	config      *Config
	decoder     *rdm.Decoder
	capture     *capture.Writer
	tlsConfig   *tls.Config
	upgrader    websocket.Upgrader
	httpServer  *http.Server
	listener    net.Listener
	advert      *discovery.Advertisement
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
	tlsConns    sync.Map // net.Conn whose handshake was logged
	seq         atomic.Int64
}

// New creates a new Server instance. A nil decoder uses the built-in tables.
func New(config *Config, decoder *rdm.Decoder) (*Server, error) {
	if decoder == nil {
		decoder = rdm.NewDecoder()
	}

	s := &Server{
		config:      config,
		decoder:     decoder,
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Bench tools connect from arbitrary origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.tlsConfig = tlsConfig
	}

	if config.CaptureDir != "" {
		w, err := capture.Create(config.CaptureDir)
		if err != nil {
			return nil, err
		}
		s.capture = w
		logging.Info("Capturing messages", zap.String("file", w.Path()))
	}

	return s, nil
}

// Start listens on the configured address and blocks until a shutdown
// signal or a serve error
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(ln)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ConnState:         s.connState,
	}
	srv := s.httpServer
	s.mu.Unlock()

	if s.config.Advertise != "" {
		if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
			advert, err := discovery.Advertise(s.config.Advertise, tcp.Port)
			if err != nil {
				logging.Warn("mDNS advertise failed", zap.Error(err))
			} else {
				s.advert = advert
			}
		}
	}

	logging.Info("Server listening for connections",
		zap.String("addr", ln.Addr().String()),
		zap.Any("tls", TLSInfo(s.tlsConfig)),
	)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Addr returns the listening address, or nil before Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error("Error stopping HTTP server", zap.Error(err))
		}
	}

	// Hijacked websocket connections are not tracked by http.Server
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	var err error
	if s.capture != nil {
		err = s.capture.Close()
	}

	logging.Sync()
	return err
}

// ActiveConnections returns the number of open websocket connections
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

// decode runs one message through the decoder and the capture log
func (s *Server) decode(source string, data []byte) *Reply {
	seq := s.seq.Add(1)
	if s.capture != nil {
		if err := s.capture.Append(capture.NewRecord(source, int(seq), data)); err != nil {
			logging.Error("Failed to write capture record", zap.Error(err))
		}
	}

	res, err := s.decoder.Decode(rdm.NewMessage(data))
	return &Reply{Seq: seq, Decode: render.NewDocument(res, err, s.config.Render)}
}

// Reply is sent for every message received
type Reply struct {
	Seq    int64            `json:"seq"`
	Decode *render.Document `json:"decode,omitempty"`
	Error  string           `json:"error,omitempty"` // Input could not be read as a message
}

package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/rdmscope/internal/logging"
)

// NewTLSConfig loads a certificate pair for serving wss:// and https://
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	if certPath == "" || keyPath == "" {
		return nil, fmt.Errorf("both certificate and key are required for TLS")
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)
	return buildTLSConfig(cert), nil
}

func buildTLSConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
}

// connState logs the handshake of each TLS connection once, on its first
// request. The handshake has completed by the time a connection turns active.
func (s *Server) connState(c net.Conn, state http.ConnState) {
	switch state {
	case http.StateActive:
		tc, ok := c.(*tls.Conn)
		if !ok {
			return
		}
		if _, seen := s.tlsConns.LoadOrStore(c, struct{}{}); seen {
			return
		}
		cs := tc.ConnectionState()
		if !cs.HandshakeComplete {
			return
		}
		logging.LogTLSHandshake(c.RemoteAddr().String(), cs.Version, cs.CipherSuite, cs.ServerName)
	case http.StateClosed, http.StateHijacked:
		s.tlsConns.Delete(c)
	}
}

// TLSInfo returns human-readable TLS configuration information
func TLSInfo(config *tls.Config) map[string]any {
	if config == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":     true,
		"min_version": tls.VersionName(config.MinVersion),
		"num_certs":   len(config.Certificates),
	}
}

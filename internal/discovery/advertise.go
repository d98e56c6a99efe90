package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/version"
)

// Advertisement is a registered mDNS service
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers an ingest server under ServiceIngest
func Advertise(instance string, port int) (*Advertisement, error) {
	txt := []string{
		"txtvers=1",
		"path=" + IngestPath,
		"version=" + version.Get().Version,
	}
	srv, err := zeroconf.Register(instance, ServiceIngest, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Advertising ingest server",
		zap.String("instance", instance),
		zap.String("service", ServiceIngest),
		zap.Int("port", port),
	)
	return &Advertisement{server: srv}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
